package domain

// TestPackage is a Go package directory holding one or more selected test files
type TestPackage struct {
	Dir   string   // Project-relative package directory, slash separated
	Files []string // Test files in the package that triggered the selection
}

// TestFunction is a top-level Go test function found by the lexical scan
type TestFunction struct {
	Name     string // e.g. TestAlbCreatesListener
	FilePath string // Test file that declares it
}
