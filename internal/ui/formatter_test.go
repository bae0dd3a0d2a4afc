package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"testmap/internal/audit"
	"testmap/internal/discovery"
	"testmap/internal/domain"
	"testmap/internal/selection"
)

func plainFormatter(t *testing.T) (*Formatter, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	return NewFormatter(&buf), &buf
}

func TestBuildTree_PrintTree(t *testing.T) {
	_, buf := plainFormatter(t)

	root := BuildTree([]string{
		"modules/networking/alb/main.tf",
		"modules/networking/alb/outputs.tf",
		"Makefile",
	}, map[string][]string{"Makefile": {"no module"}})
	PrintTree(buf, root, yellow, red)

	expected := strings.Join([]string{
		"├── Makefile",
		"│   └── no module",
		"└── modules/",
		"    └── networking/",
		"        └── alb/",
		"            ├── main.tf",
		"            └── outputs.tf",
		"",
	}, "\n")
	assert.Equal(t, expected, buf.String())
}

func TestFormatter_PrintPlan(t *testing.T) {
	f, buf := plainFormatter(t)

	f.PrintPlan(selection.Plan{
		ChangedFiles:   []string{"modules/networking/alb/main.tf"},
		UpdatedModules: []string{"modules/networking/alb"},
		Prefixes:       []string{"TestAlb"},
		Regex:          "^(TestAlb)",
	})

	out := buf.String()
	assert.Contains(t, out, "Changed files (1):\n  modules/networking/alb/main.tf\n")
	assert.Contains(t, out, "Changed test files (0):\n  (none)\n")
	assert.Contains(t, out, "Regex: ^(TestAlb)\n")
	assert.NotContains(t, out, "wildcard")
}

func TestFormatter_PrintPlan_Nothing(t *testing.T) {
	f, buf := plainFormatter(t)

	f.PrintPlan(selection.Plan{Regex: selection.MatchNothing})
	assert.Contains(t, buf.String(), "No tests selected")
}

func TestFormatter_PrintAuditReport(t *testing.T) {
	f, buf := plainFormatter(t)

	f.PrintAuditReport(audit.Report{
		FilesWithoutTests:         []string{"modules/data-stores/rds/main.tf"},
		TestFunctionsWithoutFiles: []string{"TestOrphan"},
		ModuleFiles:               10,
	})

	out := buf.String()
	assert.Contains(t, out, "Test Mapping Audit")
	assert.Contains(t, out, "✗ 1 file(s) without tests:")
	assert.Contains(t, out, "└── main.tf")
	assert.Contains(t, out, "└── TestOrphan")
}

func TestFormatter_PrintAuditReport_Passed(t *testing.T) {
	f, buf := plainFormatter(t)

	f.PrintAuditReport(audit.Report{ModuleFiles: 3})
	assert.Contains(t, buf.String(), "✓ Every file maps to a test")
}

func TestFormatter_PrintRunStats(t *testing.T) {
	f, buf := plainFormatter(t)

	f.PrintRunStats(&domain.RunOutput{
		Meta: domain.RunMeta{Regex: "^(TestAlb)", TotalPackages: 2, FailedPackages: 1, FailedTestCases: 1},
		Details: []domain.TestFailure{
			{TestName: "TestAlb", Package: "test", File: "alb_test.go", Line: 12},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Test Execution Statistics")
	assert.Contains(t, out, "✗ 1 package(s) failed with 1 test case failure(s)")
	assert.Contains(t, out, "└── alb_test.go\n")
	assert.Contains(t, out, "    └── TestAlb\n")
}

func TestFormatter_PrintSkipEnvReport(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		f, buf := plainFormatter(t)
		f.PrintSkipEnvReport(3, nil)
		assert.Equal(t, "✓ No skip variables set in 3 file(s)\n", buf.String())
	})

	t.Run("findings", func(t *testing.T) {
		f, buf := plainFormatter(t)
		f.PrintSkipEnvReport(3, []discovery.SkipEnvCall{
			{File: "test/alb_test.go", Line: 9, Name: "SKIP_setup"},
			{File: "test/alb_test.go", Line: 15, Name: "SKIP_deploy"},
			{File: "test/vpc_test.go", Line: 4, Name: "SKIP_teardown"},
		})

		out := buf.String()
		assert.Contains(t, out, "✗ 2 file(s) set skip variables with os.Setenv:\n")
		assert.Contains(t, out, "alb_test.go\n")
		assert.Contains(t, out, "├── line 9: SKIP_setup\n")
		assert.Contains(t, out, "└── line 15: SKIP_deploy\n")
		assert.Contains(t, out, "└── line 4: SKIP_teardown\n")
	})
}

func TestFormatter_PrintTestList(t *testing.T) {
	f, buf := plainFormatter(t)

	f.PrintTestList(
		[]string{"test/alb_test.go", "test/vpc_test.go"},
		map[string][]string{"test/alb_test.go": {"TestAlb", "TestAlbNames"}},
		true,
		map[string]bool{"TestAlbNames": true},
	)

	out := buf.String()
	assert.Contains(t, out, "├── test/alb_test.go [F]\n")
	assert.Contains(t, out, "│   └── TestAlbNames [F]\n")
	assert.Contains(t, out, "    └── (no test functions found)\n")
}

func TestFormatter_PrintModuleList(t *testing.T) {
	f, buf := plainFormatter(t)

	f.PrintModuleList([]ModuleEntry{{Path: "modules/networking/alb", Prefixes: []string{"TestAlb"}}})
	assert.Contains(t, buf.String(), "└── modules/networking/alb → TestAlb\n")
}
