package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testmap/internal/mapping"
	"testmap/internal/resolver"
)

// clearEnv blanks every TESTMAP_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvSourceRef, EnvTestDir, EnvProcessors, EnvHistoryDSN} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNew_Defaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, DefaultTestDir, cfg.TestDir)
	assert.Equal(t, resolver.PrefixMatch, cfg.MatchMode)
	assert.Equal(t, DefaultProcessors, cfg.Processors)
	assert.Equal(t, []string{mapping.Wildcard}, cfg.Overrides["test_helpers.go"])

	// Mutating a config must not leak into the package defaults.
	cfg.Overrides["alb"] = append(cfg.Overrides["alb"], "TestExtra")
	cfg.IgnorePrefixes[0] = "changed"
	assert.NotContains(t, DefaultOverrides["alb"], "TestExtra")
	assert.NotEqual(t, "changed", DefaultIgnorePrefixes[0])
}

func TestLoad_NoFiles(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(Flags{ProjectPath: dir})
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.ProjectPath)
	assert.Equal(t, DefaultSourceRef, cfg.SourceRef)
	assert.Equal(t, DefaultModuleGlobs, cfg.ModuleGlobs)
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DefaultConfigFile), `
test_dir: tests
match_mode: segment
processors: 8
timeout: 15m
overrides:
  alb:
    - TestALBOnly
  new-module:
    - TestNew
ignore:
  prefixes:
    - docs/
`)

	cfg, err := Load(Flags{ProjectPath: dir})
	require.NoError(t, err)

	assert.Equal(t, "tests", cfg.TestDir)
	assert.Equal(t, resolver.SegmentMatch, cfg.MatchMode)
	assert.Equal(t, 8, cfg.Processors)
	assert.Equal(t, 15*time.Minute, cfg.Timeout)
	assert.Equal(t, []string{"TestALBOnly"}, cfg.Overrides["alb"])
	assert.Equal(t, []string{"TestNew"}, cfg.Overrides["new-module"])
	// Untouched keys keep their defaults.
	assert.Equal(t, DefaultOverrides["lambda"], cfg.Overrides["lambda"])
	assert.Equal(t, []string{"docs/"}, cfg.IgnorePrefixes)
	assert.Equal(t, DefaultIgnoreSuffixes, cfg.IgnoreSuffixes)
}

func TestLoad_InvalidMatchMode(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, err := Load(Flags{ProjectPath: dir, MatchMode: "fuzzy"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMatchMode)
}

func TestLoad_MalformedYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DefaultConfigFile), "overrides: [unclosed")

	_, err := Load(Flags{ProjectPath: dir})
	assert.Error(t, err)
}

func TestLoad_ExplicitConfigMissing(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	_, err := Load(Flags{ProjectPath: dir, ConfigFile: filepath.Join(dir, "nope.yaml")})
	assert.Error(t, err)
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, DefaultConfigFile), "source_ref: from-yaml\nprocessors: 2\n")
	writeFile(t, filepath.Join(dir, ".env"), "TESTMAP_SOURCE_REF=from-dotenv\nTESTMAP_PROCESSORS=3\nTESTMAP_TEST_DIR=dotenv-tests\n")
	t.Setenv(EnvTestDir, "env-tests")

	cfg, err := Load(Flags{ProjectPath: dir})
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.SourceRef)
	assert.Equal(t, 3, cfg.Processors)
	assert.Equal(t, "env-tests", cfg.TestDir)

	cfg, err = Load(Flags{ProjectPath: dir, SourceRef: "from-flag", Processors: 6})
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.SourceRef)
	assert.Equal(t, 6, cfg.Processors)
}

func TestLoad_InvalidProcessorsEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvProcessors, "many")

	_, err := Load(Flags{ProjectPath: t.TempDir()})
	assert.Error(t, err)
}

func TestConfig_GetTestPath(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{
			name:     "relative test dir",
			config:   &Config{ProjectPath: "/project", TestDir: "test"},
			expected: "/project/test",
		},
		{
			name:     "absolute test dir",
			config:   &Config{ProjectPath: "/project", TestDir: "/absolute/path"},
			expected: "/absolute/path",
		},
		{
			name:     "current directory",
			config:   &Config{ProjectPath: ".", TestDir: "test"},
			expected: "test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.GetTestPath())
		})
	}
}

func TestConfig_GetOutputPath(t *testing.T) {
	cfg := New()
	cfg.ProjectPath = "/project"

	assert.Equal(t, "/project/.testmap/run-results.json", cfg.GetOutputPath(cfg.RunResultsFile))
}

func TestConfig_OverrideTable(t *testing.T) {
	cfg := New()
	table := cfg.OverrideTable()

	prefixes, ok := table.Lookup("alb")
	require.True(t, ok)
	assert.Equal(t, DefaultOverrides["alb"], prefixes)
	assert.Equal(t, len(cfg.Overrides), table.Len())

	// Plain conversion leaves the letter after a digit alone; the default
	// overrides supply the names the k8s tests declare.
	mapper := mapping.NewMapper(table, cfg.TestFileSuffix)
	assert.Equal(t, []string{"TestK8SService"}, mapper.PrefixesForModule("k8s-service").Sorted())
	assert.Equal(t, []string{"TestK8SNamespace"}, mapper.PrefixesForTestFile("k8s_namespace_test.go").Sorted())
	bare := mapping.NewMapper(mapping.NewOverrideTable(nil), cfg.TestFileSuffix)
	assert.Equal(t, []string{"TestK8sService"}, bare.PrefixesForModule("k8s-service").Sorted())
}
