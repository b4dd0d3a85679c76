package bytecode

import (
	"testing"

	"github.com/deepnoodle-ai/sbm/op"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countdownProgram() *Program {
	return NewProgram(ProgramParams{
		Instructions: []Instruction{
			PushLiteral{Value: 3},
			Label{Name: "top"},
			Dec{},
			Jmpz{Target: "done"},
			Jmp{Target: "top"},
			Label{Name: "done"},
			Label{Name: "top"},
			Exit{},
		},
		Locations: []SourceLocation{
			{Line: 1, Source: "push 3"},
			{Line: 2, Source: "label top"},
			{Line: 4, Source: "dec"},
			{Line: 5, Source: "jmpz done"},
			{Line: 6, Source: "jmp top"},
			{Line: 7, Source: "label done"},
			{Line: 8, Source: "label top"},
			{Line: 9, Source: "exit"},
		},
		Filename: "countdown.pgm",
	})
}

func TestProgramAccessors(t *testing.T) {
	p := countdownProgram()
	require.Equal(t, 8, p.Len())
	assert.Equal(t, PushLiteral{Value: 3}, p.At(1))
	assert.Equal(t, Exit{}, p.At(8))
	assert.Equal(t, 4, p.LineAt(3))
	assert.Equal(t, "jmpz done", p.LocationAt(4).Source)
	assert.Equal(t, SourceLocation{}, p.LocationAt(0))
	assert.Equal(t, SourceLocation{}, p.LocationAt(9))
	assert.Equal(t, "countdown.pgm", p.Filename())
}

func TestProgramIsImmutable(t *testing.T) {
	instrs := []Instruction{PushLiteral{Value: 1}, Exit{}}
	p := NewProgram(ProgramParams{Instructions: instrs})
	instrs[0] = Add{}
	assert.Equal(t, PushLiteral{Value: 1}, p.At(1))

	copied := p.Instructions()
	copied[1] = Dec{}
	assert.Equal(t, Exit{}, p.At(2))
}

func TestFindLabelFirstMatchWins(t *testing.T) {
	p := countdownProgram()
	pc, ok := p.FindLabel("top")
	require.True(t, ok)
	assert.Equal(t, 2, pc)

	pc, ok = p.FindLabel("done")
	require.True(t, ok)
	assert.Equal(t, 6, pc)

	_, ok = p.FindLabel("missing")
	assert.False(t, ok)
}

func TestProgramString(t *testing.T) {
	p := NewProgram(ProgramParams{Instructions: []Instruction{
		PushLiteral{Value: 5},
		PushLiteral{Value: 3.4567},
		Add{},
		Pop{Address: 0},
		PushLocation{Address: 9},
		Jmpz{Target: "done"},
		Exit{},
	}})
	assert.Equal(t, "[push 5.0, push 3.4567, add, pop m0, push m9, jmpz done, exit]", p.String())
	assert.Equal(t, "[]", NewProgram(ProgramParams{}).String())
}

func TestInstructionOpcodes(t *testing.T) {
	tests := []struct {
		instr Instruction
		code  op.Code
		text  string
	}{
		{Exit{}, op.Exit, "exit"},
		{PushLiteral{Value: -2.5}, op.PushLiteral, "push -2.5"},
		{PushLocation{Address: 4}, op.PushLocation, "push m4"},
		{Pop{Address: 7}, op.Pop, "pop m7"},
		{Add{}, op.Add, "add"},
		{Sub{}, op.Sub, "sub"},
		{Mul{}, op.Mul, "mul"},
		{Div{}, op.Div, "div"},
		{Dec{}, op.Dec, "dec"},
		{Label{Name: "l2"}, op.Label, "label l2"},
		{Jmpz{Target: "l2"}, op.Jmpz, "jmpz l2"},
		{Jmp{Target: "l2"}, op.Jmp, "jmp l2"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.instr.Opcode())
			assert.Equal(t, tt.text, tt.instr.String())
			assert.Equal(t, op.GetInfo(tt.code).Name, op.GetInfo(tt.instr.Opcode()).Name)
		})
	}
}

func TestJumpTarget(t *testing.T) {
	target, ok := JumpTarget(Jmp{Target: "a"})
	assert.True(t, ok)
	assert.Equal(t, "a", target)
	target, ok = JumpTarget(Jmpz{Target: "b"})
	assert.True(t, ok)
	assert.Equal(t, "b", target)
	_, ok = JumpTarget(Label{Name: "a"})
	assert.False(t, ok)
}

func TestValidAddress(t *testing.T) {
	assert.True(t, ValidAddress(0))
	assert.True(t, ValidAddress(9))
	assert.False(t, ValidAddress(-1))
	assert.False(t, ValidAddress(10))
}

func TestStats(t *testing.T) {
	p := NewProgram(ProgramParams{Instructions: []Instruction{
		PushLiteral{Value: 5},
		Pop{Address: 0},
		PushLocation{Address: 0},
		Label{Name: "l"},
		Dec{},
		Jmpz{Target: "l"},
		Jmp{Target: "l"},
		Exit{},
	}})
	stats := p.Stats()
	assert.Equal(t, Stats{
		InstructionCount: 8,
		LabelCount:       1,
		JumpCount:        2,
		MemoryReads:      1,
		MemoryWrites:     1,
		HasExit:          true,
	}, stats)
	assert.False(t, NewProgram(ProgramParams{}).Stats().HasExit)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, []string{"top", "done"}, countdownProgram().Labels())
	assert.Empty(t, NewProgram(ProgramParams{}).Labels())
}
