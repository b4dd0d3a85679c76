package bytecode

import "fmt"

// SourceLocation records where an instruction came from. Filename is stored
// once on the Program.
type SourceLocation struct {
	Line   int    // 1-based line number
	Source string // The line of source code
}

// String returns a formatted string representation of the source location.
func (s SourceLocation) String() string {
	return fmt.Sprintf("line %d", s.Line)
}

// IsZero returns true if the location has not been set.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0
}
