package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testmap/internal/audit"
	"testmap/internal/domain"
)

func TestFailureItems(t *testing.T) {
	items := FailureItems([]domain.TestFailure{
		{TestName: "TestAlb", Package: "test", File: "alb_test.go", Line: 3, Message: "boom [1]", Resolved: true},
		{},
	})

	require.Len(t, items, 2)
	assert.Equal(t, "TestAlb", items[0].Title)
	assert.True(t, items[0].Resolved)
	assert.Contains(t, items[0].Details, "Location: alb_test.go:3")
	// Brackets in output must not be read as color tags.
	assert.Contains(t, items[0].Details, "boom [1[]")
	assert.Equal(t, "Test 2", items[1].Title)
	assert.Contains(t, items[1].Stats, "Unknown package")
}

func TestAuditViewer_Items(t *testing.T) {
	v := NewAuditViewer(audit.Report{
		FilesWithoutTests:         []string{"Makefile"},
		TestFunctionsWithoutFiles: []string{"TestOrphan"},
	}, func(kind, name string) string {
		return kind + ":" + name
	})

	items := v.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Makefile", items[0].Title)
	assert.Contains(t, items[0].Details, "file:Makefile")
	assert.Equal(t, "TestOrphan", items[1].Title)
	assert.Contains(t, items[1].Details, "No file selects this test function")
}
