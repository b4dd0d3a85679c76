package syntax

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/sbm/bytecode"
	"github.com/deepnoodle-ai/sbm/parser"
)

func mustParse(t *testing.T, source string) *bytecode.Program {
	t.Helper()
	program, err := parser.Parse(context.Background(), source, parser.WithFilename("test.pgm"))
	require.NoError(t, err)
	return program
}

func TestValidateCleanProgram(t *testing.T) {
	program := mustParse(t, "push 5.0\npop m0\npush m0\npush m0\nlabel l2\ndec\njmpz done\npop m0\npush m0\nmul\npush m0\njmp l2\nlabel done\npop m0\nexit")
	assert.Empty(t, Validate(program))
}

func TestUndefinedLabels(t *testing.T) {
	program := mustParse(t, "push 0\n\njmpz missing\njmp gone\nexit")
	errs := UndefinedLabels(program)
	require.Len(t, errs, 2)
	assert.Equal(t, SeverityError, errs[0].Severity)
	assert.Equal(t, 2, errs[0].PC)
	assert.Equal(t, 3, errs[0].Line)
	assert.Equal(t, `error: jump to undefined label "missing" at test.pgm:3`, errs[0].Error())
	assert.Equal(t, 4, errs[1].Line)
}

func TestDuplicateLabels(t *testing.T) {
	program := mustParse(t, "label a\njmp a\nlabel a\nlabel a\nexit")
	errs := DuplicateLabels(program)
	require.Len(t, errs, 2)
	assert.Equal(t, SeverityWarning, errs[0].Severity)
	assert.Equal(t, 3, errs[0].PC)
	assert.Contains(t, errs[0].Message, "already declared at line 1")
}

func TestUnusedLabels(t *testing.T) {
	program := mustParse(t, "label used\nlabel unused\nlabel unused\njmp used")
	errs := UnusedLabels(program)
	require.Len(t, errs, 1)
	assert.Equal(t, `label "unused" is never used`, errs[0].Message)
	assert.Equal(t, 2, errs[0].Line)
}

func TestMissingExit(t *testing.T) {
	errs := MissingExit(mustParse(t, "push 1"))
	require.Len(t, errs, 1)
	assert.Equal(t, "warning: program has no exit instruction", errs[0].Error())

	assert.Empty(t, MissingExit(mustParse(t, "push 1\nexit")))
	assert.Empty(t, MissingExit(mustParse(t, "")))
}

func TestValidateOrdersByPosition(t *testing.T) {
	program := mustParse(t, "jmp nowhere\nlabel x\nlabel x\npush 1")
	errs := Validate(program)
	require.Len(t, errs, 4)
	assert.Equal(t, 0, errs[0].PC) // missing exit
	assert.Equal(t, 1, errs[1].PC)
	assert.True(t, HasErrors(errs))
}

func TestValidateCustomValidator(t *testing.T) {
	noDiv := ValidatorFunc(func(p *bytecode.Program) []ValidationError {
		var errs []ValidationError
		for pc := 1; pc <= p.Len(); pc++ {
			if _, ok := p.At(pc).(bytecode.Div); ok {
				errs = append(errs, finding(p, pc, SeverityError, "division is not allowed"))
			}
		}
		return errs
	})
	errs := Validate(mustParse(t, "push 1\npush 2\ndiv"), noDiv)
	require.Len(t, errs, 1)
	assert.Equal(t, 3, errs[0].Line)
}

func TestHasErrors(t *testing.T) {
	assert.False(t, HasErrors(nil))
	assert.False(t, HasErrors([]ValidationError{{Severity: SeverityWarning}}))
	assert.True(t, HasErrors([]ValidationError{{Severity: SeverityWarning}, {Severity: SeverityError}}))
}

func TestValidationErrors(t *testing.T) {
	assert.Equal(t, "no validation errors", NewValidationErrors(nil).Error())

	single := NewValidationErrors([]ValidationError{{Message: "a", Severity: SeverityError}})
	assert.Equal(t, "error: a", single.Error())

	multi := NewValidationErrors([]ValidationError{
		{Message: "a", Severity: SeverityError, Line: 1},
		{Message: "b", Severity: SeverityWarning},
	})
	assert.Equal(t, "2 validation errors:\n  - error: a at line 1\n  - warning: b\n", multi.Error())

	var target *ValidationError
	require.True(t, errors.As(multi, &target))
	assert.Equal(t, "a", target.Message)
}
