package discovery

import "sort"

// Index is the set of discovered test files, the test functions each one
// declares and, inverted, the files declaring each function name.
type Index struct {
	files     []string
	functions map[string][]string
	declared  map[string][]string
}

func newIndex() *Index {
	return &Index{
		functions: make(map[string][]string),
		declared:  make(map[string][]string),
	}
}

func (i *Index) add(file string, names []string) {
	if _, ok := i.functions[file]; !ok {
		i.files = append(i.files, file)
	}
	i.functions[file] = names
	for _, name := range names {
		i.declared[name] = append(i.declared[name], file)
	}
}

// Files returns the indexed test files, sorted.
func (i *Index) Files() []string {
	files := append([]string(nil), i.files...)
	sort.Strings(files)
	return files
}

// Functions returns the test function names declared in file.
func (i *Index) Functions(file string) []string {
	return i.functions[file]
}

// ByFile returns a copy of the file to function names table.
func (i *Index) ByFile() map[string][]string {
	out := make(map[string][]string, len(i.functions))
	for f, names := range i.functions {
		out[f] = names
	}
	return out
}

// Names returns every distinct test function name, sorted.
func (i *Index) Names() []string {
	names := make([]string, 0, len(i.declared))
	for name := range i.declared {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FilesFor returns the sorted files declaring name.
func (i *Index) FilesFor(name string) []string {
	files := append([]string(nil), i.declared[name]...)
	sort.Strings(files)
	return files
}

// Len returns the number of distinct names.
func (i *Index) Len() int {
	return len(i.declared)
}
