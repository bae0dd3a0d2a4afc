package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_FilterByName(t *testing.T) {
	filter := NewFilter()
	funcs := []string{"TestVpc", "TestVpcPeering", "TestVpcApp", "TestAlb", "TestAccountBaseline"}

	tests := []struct {
		name     string
		items    []string
		pattern  string
		expected []string
	}{
		{
			name:     "empty pattern returns all",
			items:    funcs,
			pattern:  "",
			expected: funcs,
		},
		{
			name:     "wildcard prefix",
			items:    funcs,
			pattern:  "TestVpc*",
			expected: []string{"TestVpc", "TestVpcPeering", "TestVpcApp"},
		},
		{
			name:     "wildcard substring",
			items:    funcs,
			pattern:  "*Baseline*",
			expected: []string{"TestAccountBaseline"},
		},
		{
			name:     "simple contains match",
			items:    funcs,
			pattern:  "Peer",
			expected: []string{"TestVpcPeering"},
		},
		{
			name:     "ordered parts",
			items:    funcs,
			pattern:  "*Vpc*App",
			expected: []string{"TestVpcApp"},
		},
		{
			name:     "module paths match on base name",
			items:    []string{"modules/networking/alb", "modules/networking/vpc-app"},
			pattern:  "vpc*",
			expected: []string{"modules/networking/vpc-app"},
		},
		{
			name:     "no matches",
			items:    funcs,
			pattern:  "*NonExistent*",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, filter.FilterByName(tt.items, tt.pattern))
		})
	}
}

func TestFilter_FilterByName_EdgeCases(t *testing.T) {
	filter := NewFilter()

	t.Run("empty list", func(t *testing.T) {
		assert.Empty(t, filter.FilterByName([]string{}, "Test*"))
	})

	t.Run("only wildcards", func(t *testing.T) {
		assert.Len(t, filter.FilterByName([]string{"TestA", "TestB"}, "*"), 2)
	})
}
