package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"testmap/internal/mapping"
	"testmap/internal/resolver"
)

// ErrInvalidMatchMode is returned when match_mode is neither prefix nor segment.
var ErrInvalidMatchMode = errors.New("invalid match mode")

// Environment variables read from the process and from the project's .env.
const (
	EnvSourceRef  = "TESTMAP_SOURCE_REF"
	EnvTestDir    = "TESTMAP_TEST_DIR"
	EnvProcessors = "TESTMAP_PROCESSORS"
	EnvHistoryDSN = "TESTMAP_HISTORY_DSN"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	TestDir     string

	// Mapping settings
	TestFileSuffix  string
	TestFilePattern string
	ModuleGlobs     []string
	MatchMode       resolver.MatchMode
	Overrides       map[string][]string

	// Audit settings
	IgnorePrefixes []string
	IgnoreSuffixes []string
	SkipDirs       []string

	// Change detection
	SourceRef string
	HeadRef   string

	// Execution settings
	Processors int
	Timeout    time.Duration
	GoBinary   string

	// Output settings
	OutputDir       string
	RunResultsFile  string
	AuditReportFile string
	HistoryDSN      string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	ConfigFile         string
	ProjectPath        string
	SourceRef          string
	HeadRef            string
	TestDir            string
	MatchMode          string
	Processors         int
	Timeout            time.Duration
	NameFilter         string
	Modules            bool
	TestFunctions      bool
	OnlyFailed         bool
	Audit              bool
	Explain            bool
	IncludeUncommitted bool
	FailFast           bool
	Interactive        bool
	HistoryDSN         string
	Verbose            bool
}

// fileConfig is the shape of .testmap.yaml. Absent keys keep their defaults.
type fileConfig struct {
	TestDir         string              `yaml:"test_dir"`
	TestFileSuffix  string              `yaml:"test_file_suffix"`
	TestFilePattern string              `yaml:"test_file_pattern"`
	SourceRef       string              `yaml:"source_ref"`
	HeadRef         string              `yaml:"head_ref"`
	MatchMode       string              `yaml:"match_mode"`
	ModuleGlobs     []string            `yaml:"module_globs"`
	Overrides       map[string][]string `yaml:"overrides"`
	SkipDirs        []string            `yaml:"skip_dirs"`
	Ignore          struct {
		Prefixes []string `yaml:"prefixes"`
		Suffixes []string `yaml:"suffixes"`
	} `yaml:"ignore"`
	Processors int           `yaml:"processors"`
	Timeout    time.Duration `yaml:"timeout"`
	GoBinary   string        `yaml:"go_binary"`
	OutputDir  string        `yaml:"output_dir"`
	HistoryDSN string        `yaml:"history_dsn"`
}

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		ProjectPath:     DefaultProjectPath,
		TestDir:         DefaultTestDir,
		TestFileSuffix:  DefaultTestFileSuffix,
		TestFilePattern: DefaultTestFilePattern,
		ModuleGlobs:     cloneStrings(DefaultModuleGlobs),
		MatchMode:       resolver.PrefixMatch,
		Overrides:       cloneOverrides(DefaultOverrides),
		IgnorePrefixes:  cloneStrings(DefaultIgnorePrefixes),
		IgnoreSuffixes:  cloneStrings(DefaultIgnoreSuffixes),
		SkipDirs:        cloneStrings(DefaultSkipDirs),
		SourceRef:       DefaultSourceRef,
		HeadRef:         DefaultHeadRef,
		Processors:      DefaultProcessors,
		Timeout:         DefaultTimeout,
		GoBinary:        DefaultGoBinary,
		OutputDir:       DefaultOutputDir,
		RunResultsFile:  DefaultRunResultsFile,
		AuditReportFile: DefaultAuditReportFile,
	}
}

// Load builds the configuration in increasing order of precedence: defaults,
// the YAML config file, the .env file, the process environment, then flags.
func Load(flags Flags) (*Config, error) {
	cfg := New()
	cfg.Flags = flags
	if flags.ProjectPath != "" {
		cfg.ProjectPath = flags.ProjectPath
	}

	if err := cfg.applyFile(flags.ConfigFile); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.applyFlags(flags); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(explicit string) error {
	path := explicit
	if path == "" {
		path = filepath.Join(c.ProjectPath, DefaultConfigFile)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	setString(&c.TestDir, fc.TestDir)
	setString(&c.TestFileSuffix, fc.TestFileSuffix)
	setString(&c.TestFilePattern, fc.TestFilePattern)
	setString(&c.SourceRef, fc.SourceRef)
	setString(&c.HeadRef, fc.HeadRef)
	setString(&c.GoBinary, fc.GoBinary)
	setString(&c.OutputDir, fc.OutputDir)
	setString(&c.HistoryDSN, fc.HistoryDSN)
	if fc.MatchMode != "" {
		if err := c.setMatchMode(fc.MatchMode); err != nil {
			return err
		}
	}
	if fc.ModuleGlobs != nil {
		c.ModuleGlobs = cloneStrings(fc.ModuleGlobs)
	}
	if fc.SkipDirs != nil {
		c.SkipDirs = cloneStrings(fc.SkipDirs)
	}
	if fc.Ignore.Prefixes != nil {
		c.IgnorePrefixes = cloneStrings(fc.Ignore.Prefixes)
	}
	if fc.Ignore.Suffixes != nil {
		c.IgnoreSuffixes = cloneStrings(fc.Ignore.Suffixes)
	}
	for key, prefixes := range fc.Overrides {
		c.Overrides[key] = cloneStrings(prefixes)
	}
	if fc.Processors > 0 {
		c.Processors = fc.Processors
	}
	if fc.Timeout > 0 {
		c.Timeout = fc.Timeout
	}
	return nil
}

// applyEnv reads the project's .env without touching the process environment.
// Variables already set in the process win over the file.
func (c *Config) applyEnv() error {
	env := map[string]string{}
	envPath := filepath.Join(c.ProjectPath, ".env")
	if values, err := godotenv.Read(envPath); err == nil {
		env = values
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", envPath, err)
	}
	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return env[key]
	}

	setString(&c.SourceRef, lookup(EnvSourceRef))
	setString(&c.TestDir, lookup(EnvTestDir))
	setString(&c.HistoryDSN, lookup(EnvHistoryDSN))
	if v := lookup(EnvProcessors); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer, got %q", EnvProcessors, v)
		}
		c.Processors = n
	}
	return nil
}

func (c *Config) applyFlags(flags Flags) error {
	setString(&c.SourceRef, flags.SourceRef)
	setString(&c.HeadRef, flags.HeadRef)
	setString(&c.TestDir, flags.TestDir)
	setString(&c.HistoryDSN, flags.HistoryDSN)
	if flags.MatchMode != "" {
		if err := c.setMatchMode(flags.MatchMode); err != nil {
			return err
		}
	}
	if flags.Processors > 0 {
		c.Processors = flags.Processors
	}
	if flags.Timeout > 0 {
		c.Timeout = flags.Timeout
	}
	return nil
}

func (c *Config) setMatchMode(s string) error {
	mode, err := resolver.ParseMatchMode(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMatchMode, err)
	}
	c.MatchMode = mode
	return nil
}

// GetTestPath returns the absolute-or-project-relative test directory
func (c *Config) GetTestPath() string {
	if filepath.IsAbs(c.TestDir) {
		return c.TestDir
	}
	return filepath.Join(c.ProjectPath, c.TestDir)
}

// GetOutputPath returns the full path to an output file under the output dir.
// Resolves to an absolute path so every command reads and writes the same file
// regardless of cwd.
func (c *Config) GetOutputPath(name string) string {
	p := filepath.Join(c.ProjectPath, c.OutputDir, name)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// OverrideTable returns the configured overrides as an immutable table.
func (c *Config) OverrideTable() mapping.OverrideTable {
	return mapping.NewOverrideTable(c.Overrides)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneOverrides(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = cloneStrings(v)
	}
	return out
}
