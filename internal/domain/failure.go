package domain

// TestFailure represents a failed test function
type TestFailure struct {
	TestName string   `json:"test_name"`
	Package  string   `json:"package"`
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Message  string   `json:"message"`
	Output   []string `json:"output"`
	Resolved bool     `json:"resolved,omitempty"` // Marked as resolved in the viewer
}
