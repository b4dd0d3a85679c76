// Package syntax performs static checks on loaded programs. Validators never
// run code; they report problems that would only surface at run time, or
// not at all.
package syntax

import (
	"fmt"
	"sort"
	"strings"

	"github.com/deepnoodle-ai/sbm/bytecode"
)

// Severity ranks a validation finding.
type Severity int

const (
	// SeverityError marks a program that will fail if the code is reached.
	SeverityError Severity = iota
	// SeverityWarning marks suspicious but valid code.
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// ValidationError represents a problem found in a program.
type ValidationError struct {
	Message  string
	Severity Severity
	PC       int // 1-based instruction position, 0 for whole-program findings
	Line     int // source line, 0 when unknown
	Filename string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch {
	case e.Line == 0:
		return fmt.Sprintf("%s: %s", e.Severity, e.Message)
	case e.Filename != "":
		return fmt.Sprintf("%s: %s at %s:%d", e.Severity, e.Message, e.Filename, e.Line)
	default:
		return fmt.Sprintf("%s: %s at line %d", e.Severity, e.Message, e.Line)
	}
}

// ValidationErrors wraps multiple validation errors.
type ValidationErrors struct {
	Errors []ValidationError
}

// NewValidationErrors creates a ValidationErrors from a slice of errors.
func NewValidationErrors(errs []ValidationError) *ValidationErrors {
	return &ValidationErrors{Errors: errs}
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no validation errors"
	case 1:
		return e.Errors[0].Error()
	default:
		var b strings.Builder
		fmt.Fprintf(&b, "%d validation errors:\n", len(e.Errors))
		for _, err := range e.Errors {
			fmt.Fprintf(&b, "  - %s\n", err.Error())
		}
		return b.String()
	}
}

// Unwrap returns the first error for errors.Is/As compatibility.
func (e *ValidationErrors) Unwrap() error {
	if len(e.Errors) > 0 {
		return &e.Errors[0]
	}
	return nil
}

// Validator inspects a program and returns validation errors.
type Validator interface {
	Validate(program *bytecode.Program) []ValidationError
}

// ValidatorFunc is an adapter to use a function as a Validator.
type ValidatorFunc func(*bytecode.Program) []ValidationError

// Validate implements the Validator interface.
func (f ValidatorFunc) Validate(p *bytecode.Program) []ValidationError {
	return f(p)
}

// DefaultValidators are used by Validate when no validators are given.
var DefaultValidators = []Validator{
	ValidatorFunc(UndefinedLabels),
	ValidatorFunc(DuplicateLabels),
	ValidatorFunc(UnusedLabels),
	ValidatorFunc(MissingExit),
}

// Validate runs the given validators, or DefaultValidators, and returns
// their findings ordered by position.
func Validate(program *bytecode.Program, validators ...Validator) []ValidationError {
	if len(validators) == 0 {
		validators = DefaultValidators
	}
	var errs []ValidationError
	for _, v := range validators {
		errs = append(errs, v.Validate(program)...)
	}
	sort.SliceStable(errs, func(i, j int) bool {
		return errs[i].PC < errs[j].PC
	})
	return errs
}

// HasErrors reports whether any finding has SeverityError.
func HasErrors(errs []ValidationError) bool {
	for _, err := range errs {
		if err.Severity == SeverityError {
			return true
		}
	}
	return false
}

func finding(program *bytecode.Program, pc int, severity Severity, format string, args ...any) ValidationError {
	return ValidationError{
		Message:  fmt.Sprintf(format, args...),
		Severity: severity,
		PC:       pc,
		Line:     program.LineAt(pc),
		Filename: program.Filename(),
	}
}
