package commands

import (
	"context"
	"errors"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"testmap/internal/config"
	"testmap/internal/discovery"
	"testmap/internal/gitio"
	"testmap/internal/mapping"
	"testmap/internal/resolver"
	"testmap/internal/selection"
	"testmap/internal/storage"
)

// App carries what every command needs. Config and Logger are set by the root
// command once flags are parsed.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Stdout io.Writer
	Stderr io.Writer
}

func (a *App) mapper() *mapping.Mapper {
	return mapping.NewMapper(a.Config.OverrideTable(), a.Config.TestFileSuffix)
}

func (a *App) storage() *storage.JSONStorage {
	return storage.NewJSONStorage(a.Config)
}

// history opens the configured history store, or returns nil when none is set.
func (a *App) history(ctx context.Context) storage.History {
	if a.Config.HistoryDSN == "" {
		return nil
	}
	h, err := storage.OpenMySQLHistory(ctx, a.Config.HistoryDSN)
	if err != nil {
		a.Logger.Warn("History disabled", zap.Error(err))
		return nil
	}
	return h
}

func (a *App) openRepo() (*gitio.Repository, error) {
	repo, err := gitio.Open(a.Config.ProjectPath)
	if err != nil {
		return nil, err
	}
	a.Logger.Debug("Opened repository", zap.String("root", repo.Root()))
	return repo, nil
}

// moduleRoots lists module roots from the repository inventory at the head
// revision plus extra paths, or from the filesystem when repo is nil.
func (a *App) moduleRoots(repo *gitio.Repository, extra []string) ([]string, error) {
	finder := discovery.NewModuleFinder(a.Config.ModuleGlobs)
	if repo == nil {
		return finder.Walk(a.Config.ProjectPath)
	}
	files, err := repo.Universe(a.Config.HeadRef)
	if err != nil && !errors.Is(err, gitio.ErrEmptyTree) {
		return nil, err
	}
	return finder.FromFiles(append(files, extra...)), nil
}

// changedFiles returns explicit paths when given, otherwise the files changed
// on the head revision since it left the source ref.
func (a *App) changedFiles(repo *gitio.Repository, explicit []string) ([]string, error) {
	if len(explicit) > 0 {
		return explicit, nil
	}
	if repo == nil {
		return nil, errors.New("no changed files given and no git repository found")
	}

	cs, err := repo.ChangedFiles(a.Config.SourceRef, a.Config.HeadRef)
	if err != nil {
		return nil, err
	}
	changed := cs.Paths()
	a.Logger.Debug("Changed files",
		zap.String("base", cs.Base), zap.String("head", cs.Head), zap.Int("count", len(changed)))

	if a.Config.Flags.IncludeUncommitted {
		uncommitted, err := repo.UncommittedFiles()
		if err != nil {
			return nil, err
		}
		changed = append(changed, uncommitted...)
	}
	return changed, nil
}

// plan computes the test selection for explicit paths, or for the git change
// set when none are given.
func (a *App) plan(explicit []string) (selection.Plan, error) {
	repo, err := a.openRepo()
	if err != nil {
		if len(explicit) == 0 {
			return selection.Plan{}, err
		}
		a.Logger.Debug("No repository, discovering modules on disk", zap.Error(err))
		repo = nil
	}

	changed, err := a.changedFiles(repo, explicit)
	if err != nil {
		return selection.Plan{}, err
	}
	modules, err := a.moduleRoots(repo, changed)
	if err != nil {
		return selection.Plan{}, err
	}

	res := resolver.New(modules, a.Config.MatchMode)
	planner := selection.NewPlanner(res, a.mapper(), a.Config.TestDir, a.Logger)
	return planner.Plan(changed), nil
}

// testIndex scans the test dir and indexes the test functions of each file,
// keyed by project-relative path.
func (a *App) testIndex() (*discovery.Index, error) {
	scanner := discovery.NewScanner(a.Config.SkipDirs, a.Config.TestFilePattern)
	files, err := scanner.Scan(a.Config.GetTestPath())
	if err != nil {
		return nil, err
	}
	return discovery.NewParser().IndexAs(files, a.relative)
}

// relative returns p relative to the project path, slash separated.
func (a *App) relative(p string) string {
	if r, err := filepath.Rel(a.Config.ProjectPath, p); err == nil {
		p = r
	}
	return resolver.Normalize(p)
}

func closeHistory(h storage.History, logger *zap.Logger) {
	if err := h.Close(); err != nil {
		logger.Debug("Closing history", zap.Error(err))
	}
}
