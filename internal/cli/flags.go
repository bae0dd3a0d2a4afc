package cli

import (
	"time"

	"testmap/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	ConfigFile         string
	ProjectPath        string
	Verbose            bool
	SourceRef          string
	HeadRef            string
	TestDir            string
	MatchMode          string
	Processors         int
	Timeout            time.Duration
	NameFilter         string
	Modules            bool
	TestFunctions      bool
	Explain            bool
	IncludeUncommitted bool
	FailFast           bool
	OnlyFailed         bool
	Interactive        bool
	Audit              bool
	HistoryDSN         string
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ConfigFile:         f.ConfigFile,
		ProjectPath:        f.ProjectPath,
		Verbose:            f.Verbose,
		SourceRef:          f.SourceRef,
		HeadRef:            f.HeadRef,
		TestDir:            f.TestDir,
		MatchMode:          f.MatchMode,
		Processors:         f.Processors,
		Timeout:            f.Timeout,
		NameFilter:         f.NameFilter,
		Modules:            f.Modules,
		TestFunctions:      f.TestFunctions,
		Explain:            f.Explain,
		IncludeUncommitted: f.IncludeUncommitted,
		FailFast:           f.FailFast,
		OnlyFailed:         f.OnlyFailed,
		Interactive:        f.Interactive,
		Audit:              f.Audit,
		HistoryDSN:         f.HistoryDSN,
	}
}
