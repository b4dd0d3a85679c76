package dis

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/sbm/op"
	"github.com/deepnoodle-ai/sbm/parser"
)

func TestDisassemble(t *testing.T) {
	program, err := parser.Parse(context.Background(), `push 5.0
pop m0

label top
push m0
jmpz done
jmp top
jmp nowhere
label done
exit`)
	require.NoError(t, err)

	instructions := Disassemble(program)
	require.Len(t, instructions, 9)

	assert.Equal(t, Instruction{PC: 1, Line: 1, Name: "push", Opcode: op.PushLiteral, Operand: "5.0"}, instructions[0])
	assert.Equal(t, "m0", instructions[1].Operand)
	assert.Equal(t, "memory write", instructions[1].Annotation)

	label := instructions[2]
	assert.Equal(t, 3, label.PC)
	assert.Equal(t, 4, label.Line)
	assert.Equal(t, "top", label.Operand)

	assert.Equal(t, "memory read", instructions[3].Annotation)

	jmpz := instructions[4]
	assert.Equal(t, "done", jmpz.Operand)
	assert.Equal(t, 9, jmpz.Target)
	assert.Equal(t, "-> 9", jmpz.Annotation)

	jmp := instructions[5]
	assert.Equal(t, 4, jmp.Target)

	missing := instructions[6]
	assert.Equal(t, 0, missing.Target)
	assert.Equal(t, "label not found", missing.Annotation)
}

func TestPrint(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	program, err := parser.Parse(context.Background(), "push 1\nlabel a\njmp a\nexit")
	require.NoError(t, err)

	var buf bytes.Buffer
	Print(Disassemble(program), &buf)

	expected := `
+----+------+--------+---------+------+
| PC | LINE | OPCODE | OPERAND | INFO |
+----+------+--------+---------+------+
|  1 |    1 | push   |     1.0 |      |
|  2 |    2 | label  |       a |      |
|  3 |    3 | jmp    |       a | -> 3 |
|  4 |    4 | exit   |         |      |
+----+------+--------+---------+------+
`
	assert.Equal(t, strings.TrimLeft(expected, "\n"), buf.String())
}
