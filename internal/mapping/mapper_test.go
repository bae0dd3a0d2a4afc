package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testOverrides() OverrideTable {
	return NewOverrideTable(map[string][]string{
		"account-baseline-app":    {"TestAccountBaseline"},
		"account-baseline-root":   {"TestAccountBaseline"},
		"rds":                     {"TestRds", "TestRDS"},
		"module_vpc_app_test.go":  {"TestVpcApp"},
		"route53-private_test.go": {"TestRoute53Private"},
		"test_helpers.go":         {Wildcard},
	})
}

func TestMapper_PrefixesForModule(t *testing.T) {
	m := NewMapper(testOverrides(), "_test.go")

	tests := []struct {
		module string
		want   []string
	}{
		{"alb", []string{"TestAlb"}},
		{"vpc-app", []string{"TestVpcApp"}},
		{"account-baseline-app", []string{"TestAccountBaseline"}},
		{"rds", []string{"TestRDS", "TestRds"}},
		{"ecs-deploy-runner", []string{"TestEcsDeployRunner"}},
	}

	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			assert.Equal(t, tt.want, m.PrefixesForModule(tt.module).Sorted())
		})
	}
}

func TestMapper_PrefixesForTestFile(t *testing.T) {
	m := NewMapper(testOverrides(), "_test.go")

	tests := []struct {
		file string
		want []string
	}{
		{"vpc_app_test.go", []string{"TestVpcApp"}},
		{"alb_test.go", []string{"TestAlb"}},
		{"module_vpc_app_test.go", []string{"TestVpcApp"}},
		{"route53-private_test.go", []string{"TestRoute53Private"}},
		{"test_helpers.go", []string{Wildcard}},
		{"mock_helpers.go", []string{"TestMockHelpers"}},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			assert.Equal(t, tt.want, m.PrefixesForTestFile(tt.file).Sorted())
		})
	}
}

func TestMapper_OverrideKeysWinOverConvention(t *testing.T) {
	overrides := testOverrides()
	m := NewMapper(overrides, "_test.go")

	for _, key := range overrides.Keys() {
		want, _ := overrides.Lookup(key)
		assert.ElementsMatch(t, NewPrefixSet(want...).Sorted(), m.PrefixesForModule(key).Sorted(), key)
		assert.ElementsMatch(t, NewPrefixSet(want...).Sorted(), m.PrefixesForTestFile(key).Sorted(), key)
	}
}

func TestMapper_ForModules(t *testing.T) {
	m := NewMapper(testOverrides(), "_test.go")

	tests := []struct {
		name    string
		modules []string
		want    []string
	}{
		{
			name:    "module and example share a name",
			modules: []string{"modules/networking/alb", "examples/for-learning-and-testing/networking/alb"},
			want:    []string{"TestAlb"},
		},
		{
			name: "overrides collapse",
			modules: []string{
				"modules/landingzone/account-baseline-app",
				"modules/landingzone/account-baseline-root",
			},
			want: []string{"TestAccountBaseline"},
		},
		{
			name:    "multiple modules",
			modules: []string{"modules/data-stores/aurora", "examples/for-learning-and-testing/data-stores/ecr-repos"},
			want:    []string{"TestAurora", "TestEcrRepos"},
		},
		{
			name:    "none",
			modules: nil,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.ForModules(tt.modules).Sorted())
		})
	}
}

func TestMapper_ForTestFiles(t *testing.T) {
	m := NewMapper(testOverrides(), "_test.go")

	got := m.ForTestFiles([]string{"test/vpc_app_test.go", "test/networking/alb_test.go", "test/module_vpc_app_test.go"})
	assert.Equal(t, []string{"TestAlb", "TestVpcApp"}, got.Sorted())

	got = m.ForTestFiles([]string{"test/test_helpers.go"})
	assert.True(t, got.HasWildcard())
}

func TestOverrideTable_IsACopy(t *testing.T) {
	src := map[string][]string{"a": {"TestA"}}
	table := NewOverrideTable(src)
	src["a"][0] = "TestMutated"
	src["b"] = []string{"TestB"}

	got, ok := table.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, []string{"TestA"}, got)
	assert.Equal(t, 1, table.Len())

	got[0] = "TestMutatedAgain"
	again, _ := table.Lookup("a")
	assert.Equal(t, []string{"TestA"}, again)
}
