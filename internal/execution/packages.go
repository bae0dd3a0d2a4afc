package execution

import (
	"path"
	"sort"

	"testmap/internal/domain"
	"testmap/internal/resolver"
)

// GroupByPackage groups test files by their directory. Output is sorted by
// directory and each package's files are sorted.
func GroupByPackage(files []string) []domain.TestPackage {
	byDir := make(map[string][]string)
	for _, f := range files {
		f = resolver.Normalize(f)
		if f == "" || f == "." {
			continue
		}
		dir := path.Dir(f)
		byDir[dir] = append(byDir[dir], f)
	}

	packages := make([]domain.TestPackage, 0, len(byDir))
	for dir, pkgFiles := range byDir {
		sort.Strings(pkgFiles)
		packages = append(packages, domain.TestPackage{Dir: dir, Files: pkgFiles})
	}
	sort.Slice(packages, func(i, j int) bool { return packages[i].Dir < packages[j].Dir })
	return packages
}

// PackageDirs returns the directories of packages
func PackageDirs(packages []domain.TestPackage) []string {
	dirs := make([]string, len(packages))
	for i, p := range packages {
		dirs[i] = p.Dir
	}
	return dirs
}
