package selection

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"testmap/internal/mapping"
	"testmap/internal/resolver"
)

// Plan is the outcome of selective-run mode for one change set.
type Plan struct {
	ChangedFiles     []string `json:"changed_files"`
	UpdatedModules   []string `json:"updated_modules"`
	ChangedTestFiles []string `json:"changed_test_files"`
	Prefixes         []string `json:"prefixes"`
	Regex            string   `json:"regex"`
}

// RunsEverything reports whether the plan selects the whole suite.
func (p Plan) RunsEverything() bool {
	for _, prefix := range p.Prefixes {
		if prefix == mapping.Wildcard {
			return true
		}
	}
	return false
}

// RunsNothing reports whether the plan selects no tests at all.
func (p Plan) RunsNothing() bool {
	return p.Regex == MatchNothing
}

// Planner computes a Plan from changed paths.
type Planner struct {
	resolver *resolver.Resolver
	mapper   *mapping.Mapper
	testDir  string
	logger   *zap.Logger
}

// NewPlanner creates a Planner. Changed Go files under testDir are mapped as
// test files; every other path is resolved to its module.
func NewPlanner(res *resolver.Resolver, mapper *mapping.Mapper, testDir string, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{
		resolver: res,
		mapper:   mapper,
		testDir:  testDir,
		logger:   logger,
	}
}

// Plan builds the selection for changed. Paths outside every module and
// outside the test dir select nothing.
func (p *Planner) Plan(changed []string) Plan {
	changedFiles := dedupe(changed)

	var testFiles, moduleCandidates []string
	for _, f := range changedFiles {
		if resolver.Within(f, p.testDir) {
			if strings.HasSuffix(f, ".go") {
				testFiles = append(testFiles, f)
			}
			continue
		}
		moduleCandidates = append(moduleCandidates, f)
	}

	modules := p.resolver.ResolveAll(moduleCandidates)
	p.logger.Debug("Resolved updated modules",
		zap.Int("changed", len(changedFiles)),
		zap.Strings("modules", modules),
		zap.Strings("test_files", testFiles))

	prefixes := p.mapper.ForModules(modules).Union(p.mapper.ForTestFiles(testFiles))
	plan := Plan{
		ChangedFiles:     changedFiles,
		UpdatedModules:   modules,
		ChangedTestFiles: testFiles,
		Prefixes:         prefixes.Sorted(),
		Regex:            BuildRegex(prefixes),
	}
	p.logger.Debug("Computed test selection", zap.Strings("prefixes", plan.Prefixes), zap.String("regex", plan.Regex))
	return plan
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, raw := range paths {
		p := resolver.Normalize(strings.TrimSpace(raw))
		if p == "" || p == "." || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
