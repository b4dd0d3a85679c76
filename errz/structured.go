// Package errz defines the structured errors reported while loading and
// running SBM programs.
package errz

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrorKind represents the category of an error. ErrorKind implements error
// so that a kind can be used as the target of errors.Is:
//
//	if errors.Is(err, errz.ErrStackUnderflow) { ... }
type ErrorKind int

const (
	// ErrSyntax indicates a malformed instruction found while loading.
	ErrSyntax ErrorKind = iota + 1
	// ErrStackUnderflow indicates an instruction needed more stack values
	// than were present.
	ErrStackUnderflow
	// ErrLabelNotFound indicates a jump to a label that is not declared.
	ErrLabelNotFound
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrSyntax:
		return "syntax error"
	case ErrStackUnderflow:
		return "stack underflow"
	case ErrLabelNotFound:
		return "label not found"
	default:
		return "error"
	}
}

func (k ErrorKind) Error() string {
	return k.String()
}

// SourceLocation represents a line of program source.
type SourceLocation struct {
	Filename string
	Line     int    // 1-based line number
	Source   string // The line of source code
}

// String returns a formatted string representation of the source location.
func (s SourceLocation) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d", s.Filename, s.Line)
	}
	return fmt.Sprintf("line %d", s.Line)
}

// IsZero returns true if the location has not been set.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0
}

// StructuredError is the error type returned by the parser and the virtual
// machine. Every StructuredError is fatal: it ends the load or run that
// produced it.
type StructuredError struct {
	Message  string
	Kind     ErrorKind
	Location SourceLocation
	// PC is the program counter of the failing instruction (runtime errors).
	PC int
	// Label is the missing label name (ErrLabelNotFound).
	Label string
	// Hint suggests a fix, e.g. a similarly named instruction.
	Hint  string
	Cause error
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Location.IsZero() {
		return fmt.Sprintf("%s: %s", e.Kind.String(), e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Kind.String(), e.Message, e.Location.String())
}

// Unwrap returns the underlying cause of the error.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is this error's kind.
func (e *StructuredError) Is(target error) bool {
	if kind, ok := target.(ErrorKind); ok {
		return e.Kind == kind
	}
	return false
}

// IsFatal returns whether the error is considered fatal (unrecoverable).
func (e *StructuredError) IsFatal() bool {
	return true
}

// FriendlyErrorMessage returns a human-friendly error message including the
// offending source line when it is known.
func (e *StructuredError) FriendlyErrorMessage() string {
	var msg bytes.Buffer
	msg.WriteString(e.Error())
	msg.WriteString("\n")
	if e.Location.Source != "" {
		msg.WriteString(fmt.Sprintf(" %4d | %s\n", e.Location.Line, e.Location.Source))
	}
	if e.PC > 0 {
		msg.WriteString(fmt.Sprintf(" at pc %d\n", e.PC))
	}
	if e.Hint != "" {
		msg.WriteString(fmt.Sprintf(" hint: %s\n", e.Hint))
	}
	return msg.String()
}

// WithCause wraps the error with a cause.
func (e *StructuredError) WithCause(cause error) *StructuredError {
	e.Cause = cause
	return e
}

// WithHint attaches a suggested fix. An empty hint is ignored.
func (e *StructuredError) WithHint(hint string) *StructuredError {
	if hint != "" {
		e.Hint = hint
	}
	return e
}

// SyntaxErrorf creates a syntax error for the given source line.
func SyntaxErrorf(loc SourceLocation, format string, args ...any) *StructuredError {
	return &StructuredError{
		Message:  fmt.Sprintf(format, args...),
		Kind:     ErrSyntax,
		Location: loc,
	}
}

// StackUnderflow creates an error for an instruction that needed `need`
// stack values when only `have` were present.
func StackUnderflow(pc int, loc SourceLocation, mnemonic string, need, have int) *StructuredError {
	return &StructuredError{
		Message:  fmt.Sprintf("%s needs %d stack value(s), found %d", mnemonic, need, have),
		Kind:     ErrStackUnderflow,
		Location: loc,
		PC:       pc,
	}
}

// LabelNotFound creates an error for a jump to an undeclared label.
func LabelNotFound(pc int, loc SourceLocation, label string) *StructuredError {
	return &StructuredError{
		Message:  fmt.Sprintf("label %q is not declared", label),
		Kind:     ErrLabelNotFound,
		Location: loc,
		PC:       pc,
		Label:    label,
	}
}

// KindOf returns the kind of the first StructuredError in err's chain, or
// zero if there is none.
func KindOf(err error) ErrorKind {
	var structured *StructuredError
	if errors.As(err, &structured) {
		return structured.Kind
	}
	return 0
}
