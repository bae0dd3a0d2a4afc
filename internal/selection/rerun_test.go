package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"testmap/internal/domain"
)

func TestFailedPrefixes(t *testing.T) {
	set := FailedPrefixes([]domain.TestFailure{
		{TestName: "TestAlb"},
		{TestName: "TestVpc/peering"},
		{TestName: "TestVpc"},
		{TestName: "TestRds", Resolved: true},
		{TestName: "(package)"},
	})

	assert.Equal(t, []string{"TestAlb", "TestVpc"}, set.Sorted())
	assert.Equal(t, "^(TestAlb|TestVpc)", BuildRegex(set))
}

func TestFailedPrefixes_None(t *testing.T) {
	assert.Equal(t, MatchNothing, BuildRegex(FailedPrefixes(nil)))
}
