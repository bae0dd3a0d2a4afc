package config

import (
	"time"

	"testmap/internal/mapping"
)

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultTestDir is the directory holding the Go test package(s)
	DefaultTestDir = "test"
	// DefaultTestFileSuffix is stripped from test file names before conversion
	DefaultTestFileSuffix = "_test.go"
	// DefaultTestFilePattern selects the files scanned for test functions
	DefaultTestFilePattern = "**/*_test.go"
	// DefaultSourceRef is the revision changes are computed against
	DefaultSourceRef = "origin/master"
	// DefaultHeadRef is the revision under test
	DefaultHeadRef = "HEAD"
	// DefaultMatchMode is the module resolution mode
	DefaultMatchMode = "prefix"
	// DefaultConfigFile is looked up in the project root
	DefaultConfigFile = ".testmap.yaml"
	// DefaultOutputDir is the default output directory
	DefaultOutputDir = ".testmap"
	// DefaultRunResultsFile is the file the last test run is stored in
	DefaultRunResultsFile = "run-results.json"
	// DefaultAuditReportFile is the file the last audit is stored in
	DefaultAuditReportFile = "audit-report.json"
	// DefaultProcessors is the default number of test packages run at once
	DefaultProcessors = 4
	// DefaultTimeout bounds a single `go test` invocation
	DefaultTimeout = time.Hour
	// DefaultGoBinary is the go tool used to run tests
	DefaultGoBinary = "go"
)

// DefaultModuleGlobs locate module roots: every directory holding Terraform
// sources under modules/ or examples/.
var DefaultModuleGlobs = []string{
	"modules/**/*.tf",
	"examples/**/*.tf",
}

// DefaultSkipDirs are directory names pruned when scanning for test files
var DefaultSkipDirs = []string{
	"fixtures",
	"vendor",
	"testdata",
}

// DefaultOverrides lists modules and test files whose tests do not follow the
// naming convention.
var DefaultOverrides = map[string][]string{
	// Landing zone baselines share one test.
	"account-baseline-app":      {"TestAccountBaseline"},
	"account-baseline-root":     {"TestAccountBaseline"},
	"account-baseline-security": {"TestAccountBaseline"},

	// Acronyms spelled in upper case in the test names.
	"alb":                   {"TestAlb", "TestALB"},
	"rds":                   {"TestRds", "TestRDS"},
	"ecr-repos":             {"TestEcrRepos", "TestECRRepositor"},
	"ecr_repos_test.go":     {"TestEcrRepos", "TestECRRepositor"},
	"k8s-service":           {"TestK8SService"},
	"k8s-namespace":         {"TestK8SNamespace"},
	"k8s_service_test.go":   {"TestK8SService"},
	"k8s_namespace_test.go": {"TestK8SNamespace"},
	"lambda":                {"TestLambdaService"},
	"lambda_test.go":        {"TestLambdaService"},

	// Test files named differently from the module they cover.
	"module_vpc_app_test.go":       {"TestVpcApp"},
	"route53-private_test.go":      {"TestRoute53Private"},
	"for_production_smoke_test.go": {"TestSmokeForProductionExamples"},

	// Shared helpers affect every test.
	"test_helpers.go": {mapping.Wildcard},
}

// DefaultIgnorePrefixes are repository paths the audit never inspects.
var DefaultIgnorePrefixes = []string{
	// Repo meta files
	"CODEOWNERS",
	"LICENSE.txt",
	".gitignore",
	".pre-commit-config.yaml",
	".circleci",
	".github",

	// Documentation assets
	"_docs",

	// Pre-commit hooks
	"hooks",

	// Production examples are validated by the smoke test only
	"examples/for-production",

	// Test fixtures
	"test/fixtures",

	// Legacy packer file
	"modules/services/ecs-cluster/packer/ecs-node.json",

	// Tool output
	DefaultOutputDir,
}

// DefaultIgnoreSuffixes are file endings the audit never inspects.
var DefaultIgnoreSuffixes = []string{
	// Go meta files
	"go.mod",
	"go.sum",

	// Docs
	"README.md",
	"README.adoc",
	"core-concepts.md",

	// The deploy runner image is exercised by the EcsDeployRunner test
	"Dockerfile",
	"known_hosts",

	// Helper changes select every test, so they are not mapped here
	"test_helpers.go",

	// HTML files
	".html",
}
