package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vpcTestSource = `package test

import "testing"

func TestVpc(t *testing.T) {
	t.Parallel()
}

func TestVpcPeering(t *testing.T) {
	t.Run("sub", func(t *testing.T) {})
}

func TestVpc(t *testing.T) {}

func testLowercaseHelper(t *testing.T) {}

func Test(t *testing.T) {}

func helper() {}

func  TestSpacing (t *testing.T) {}
`

func TestParser_ExtractTestFunctions(t *testing.T) {
	parser := NewParser()

	got := parser.ExtractTestFunctions(vpcTestSource)
	assert.Equal(t, []string{"TestSpacing", "TestVpc", "TestVpcPeering"}, got)
	assert.Empty(t, parser.ExtractTestFunctions("package test\n"))
}

func TestParser_FindTestFunctions(t *testing.T) {
	parser := NewParser()
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "vpc_test.go")
	require.NoError(t, os.WriteFile(file, []byte(vpcTestSource), 0o644))

	t.Run("finds test functions", func(t *testing.T) {
		got, err := parser.FindTestFunctions(file)
		require.NoError(t, err)
		assert.Contains(t, got, "TestVpcPeering")
		assert.NotContains(t, got, "testLowercaseHelper")
	})

	t.Run("returns error for non-existent file", func(t *testing.T) {
		_, err := parser.FindTestFunctions(filepath.Join(tmpDir, "missing_test.go"))
		require.Error(t, err)
	})
}

func TestParser_Index(t *testing.T) {
	parser := NewParser()
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"vpc_test.go":            vpcTestSource,
		"networking/vpc_test.go": "package networking\n\nfunc TestVpc(t *testing.T) {}\n",
		"alb_test.go":            "package test\n\nfunc TestAlb(t *testing.T) {}\n",
	})

	idx, err := parser.Index([]string{
		filepath.Join(tmpDir, "vpc_test.go"),
		filepath.Join(tmpDir, "networking", "vpc_test.go"),
		filepath.Join(tmpDir, "alb_test.go"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"TestAlb", "TestSpacing", "TestVpc", "TestVpcPeering"}, idx.Names())
	assert.Equal(t, 4, idx.Len())
	assert.Equal(t, []string{
		filepath.Join(tmpDir, "networking", "vpc_test.go"),
		filepath.Join(tmpDir, "vpc_test.go"),
	}, idx.FilesFor("TestVpc"))

	_, err = parser.Index([]string{filepath.Join(tmpDir, "gone_test.go")})
	require.Error(t, err)
}

func TestParser_IndexAs(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"test/alb_test.go":    "package test\n\nfunc TestAlb(t *testing.T) {}\nfunc TestAlbNameLengthValidation(t *testing.T) {}\n",
		"test/orphan_test.go": "package test\n\nfunc TestOrphanThing(t *testing.T) {}\n",
		"test/empty_test.go":  "package test\n",
	})
	files := []string{
		filepath.Join(tmpDir, "test", "orphan_test.go"),
		filepath.Join(tmpDir, "test", "empty_test.go"),
		filepath.Join(tmpDir, "test", "alb_test.go"),
	}

	idx, err := NewParser().IndexAs(files, func(p string) string {
		rel, err := filepath.Rel(tmpDir, p)
		require.NoError(t, err)
		return filepath.ToSlash(rel)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"test/alb_test.go", "test/empty_test.go", "test/orphan_test.go"}, idx.Files())
	assert.Equal(t, []string{"TestAlb", "TestAlbNameLengthValidation", "TestOrphanThing"}, idx.Names())
	assert.Equal(t, []string{"TestOrphanThing"}, idx.Functions("test/orphan_test.go"))
	assert.Empty(t, idx.Functions("test/empty_test.go"))
	assert.Equal(t, []string{"test/orphan_test.go"}, idx.FilesFor("TestOrphanThing"))
	assert.Empty(t, idx.FilesFor("TestMissing"))

	byFile := idx.ByFile()
	assert.Len(t, byFile, 3)
	assert.Equal(t, []string{"TestAlb", "TestAlbNameLengthValidation"}, byFile["test/alb_test.go"])
}
