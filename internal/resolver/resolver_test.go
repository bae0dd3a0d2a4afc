package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var moduleRoots = []string{
	"modules/networking/alb",
	"modules/networking/vpc",
	"modules/networking/vpc-mgmt",
	"examples/for-learning-and-testing/networking/alb",
	"modules/services/ecs-cluster",
}

func TestResolver_Resolve(t *testing.T) {
	r := New(moduleRoots, PrefixMatch)

	tests := []struct {
		name      string
		candidate string
		want      string
		found     bool
	}{
		{"file in module", "modules/networking/alb/main.tf", "modules/networking/alb", true},
		{"module dir itself", "modules/networking/alb", "modules/networking/alb", true},
		{"nested file", "modules/services/ecs-cluster/packer/ecs-node.json", "modules/services/ecs-cluster", true},
		{"example module", "examples/for-learning-and-testing/networking/alb/variables.tf", "examples/for-learning-and-testing/networking/alb", true},
		{"leading dot slash", "./modules/networking/alb/outputs.tf", "modules/networking/alb", true},
		{"longest root wins", "modules/networking/vpc-mgmt/main.tf", "modules/networking/vpc-mgmt", true},
		{"no module", "README.md", "", false},
		{"sibling dir", "modules/data-stores/rds/main.tf", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Resolve(tt.candidate)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_PrefixModeClaimsSimilarNames(t *testing.T) {
	r := New([]string{"foo"}, PrefixMatch)

	got, ok := r.Resolve("foobar/baz")
	require.True(t, ok)
	assert.Equal(t, "foo", got)
}

func TestResolver_SegmentMode(t *testing.T) {
	r := New([]string{"foo", "modules/networking/vpc"}, SegmentMatch)

	_, ok := r.Resolve("foobar/baz")
	assert.False(t, ok)

	got, ok := r.Resolve("foo/baz")
	require.True(t, ok)
	assert.Equal(t, "foo", got)

	got, ok = r.Resolve("modules/networking/vpc")
	require.True(t, ok)
	assert.Equal(t, "modules/networking/vpc", got)

	_, ok = r.Resolve("modules/networking/vpc-mgmt/main.tf")
	assert.False(t, ok)
}

func TestResolver_OrderIndependent(t *testing.T) {
	forward := New([]string{"modules/a", "modules/a/b"}, PrefixMatch)
	reverse := New([]string{"modules/a/b", "modules/a"}, PrefixMatch)

	for _, r := range []*Resolver{forward, reverse} {
		got, ok := r.Resolve("modules/a/b/main.tf")
		require.True(t, ok)
		assert.Equal(t, "modules/a/b", got)
	}
	assert.Equal(t, forward.Roots(), reverse.Roots())
}

func TestResolver_ResolveAll(t *testing.T) {
	r := New(moduleRoots, PrefixMatch)

	got := r.ResolveAll([]string{
		"modules/networking/alb/main.tf",
		"modules/networking/alb/outputs.tf",
		"examples/for-learning-and-testing/networking/alb/main.tf",
		"CODEOWNERS",
	})

	assert.Equal(t, []string{
		"examples/for-learning-and-testing/networking/alb",
		"modules/networking/alb",
	}, got)
}

func TestNew_DropsEmptyAndDuplicateRoots(t *testing.T) {
	r := New([]string{"", ".", "modules/alb/", "./modules/alb"}, PrefixMatch)
	assert.Equal(t, []string{"modules/alb"}, r.Roots())
}

func TestParseMatchMode(t *testing.T) {
	tests := []struct {
		in      string
		want    MatchMode
		wantErr bool
	}{
		{"", PrefixMatch, false},
		{"prefix", PrefixMatch, false},
		{"Segment", SegmentMatch, false},
		{"fuzzy", PrefixMatch, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMatchMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) MatchMode {
	t.Helper()
	m, err := ParseMatchMode(s)
	require.NoError(t, err)
	return m
}

func TestWithin(t *testing.T) {
	tests := []struct {
		p, dir string
		want   bool
	}{
		{"test/vpc_test.go", "test", true},
		{"test/networking/alb_test.go", "test", true},
		{"test", "test", true},
		{"./test/alb_test.go", "test/", true},
		{"terraform/main.tf", "test", false},
		{"tests/alb_test.go", "test", false},
		{"anything", ".", true},
	}

	for _, tt := range tests {
		t.Run(tt.p, func(t *testing.T) {
			assert.Equal(t, tt.want, Within(tt.p, tt.dir))
		})
	}
}
