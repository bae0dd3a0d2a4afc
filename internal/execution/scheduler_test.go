package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundRobinScheduler_Schedule(t *testing.T) {
	s := NewRoundRobinScheduler()

	tests := []struct {
		name     string
		packages []string
		workers  int
		expected [][]string
	}{
		{
			name:     "even split",
			packages: []string{"a", "b", "c", "d"},
			workers:  2,
			expected: [][]string{{"a", "c"}, {"b", "d"}},
		},
		{
			name:     "more workers than packages",
			packages: []string{"a"},
			workers:  3,
			expected: [][]string{{"a"}, nil, nil},
		},
		{
			name:     "non-positive worker count",
			packages: []string{"a", "b"},
			workers:  0,
			expected: [][]string{{"a", "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.Schedule(tt.packages, tt.workers))
		})
	}
}

func TestGroupByPackage(t *testing.T) {
	packages := GroupByPackage([]string{
		"test/vpc/vpc_test.go",
		"./test/alb_test.go",
		"test/acm_test.go",
		"test/vpc/peering_test.go",
	})

	if assert.Len(t, packages, 2) {
		assert.Equal(t, "test", packages[0].Dir)
		assert.Equal(t, []string{"test/acm_test.go", "test/alb_test.go"}, packages[0].Files)
		assert.Equal(t, "test/vpc", packages[1].Dir)
	}
	assert.Equal(t, []string{"test", "test/vpc"}, PackageDirs(packages))
}
