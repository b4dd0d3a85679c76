package bytecode

import (
	"fmt"

	"github.com/deepnoodle-ai/sbm/op"
)

// MemorySize is the number of slots in the memory bank.
const MemorySize = 10

// ValidAddress reports whether a is a memory bank address.
func ValidAddress(a int) bool {
	return a >= 0 && a < MemorySize
}

// Instruction is a single parsed SBM instruction. The set of implementations
// is closed: only the types in this package satisfy the interface.
type Instruction interface {
	// Opcode returns the operation this instruction performs.
	Opcode() op.Code

	// String returns the instruction in source form, e.g. "push m3".
	String() string

	instruction()
}

// Exit stops the machine.
type Exit struct{}

// PushLiteral pushes a constant value.
type PushLiteral struct {
	Value float64
}

// PushLocation pushes the value held at a memory address.
type PushLocation struct {
	Address int
}

// Pop moves the top of the stack into a memory address.
type Pop struct {
	Address int
}

type (
	// Add pops A then B and pushes A + B.
	Add struct{}
	// Sub pops A then B and pushes A - B.
	Sub struct{}
	// Mul pops A then B and pushes A * B.
	Mul struct{}
	// Div pops A then B and pushes A / B.
	Div struct{}
	// Dec replaces the top of the stack with its value minus one.
	Dec struct{}
)

// Label marks a jump target. It has no runtime effect.
type Label struct {
	Name string
}

// Jmpz jumps to Target when the top of the stack is zero.
type Jmpz struct {
	Target string
}

// Jmp jumps to Target unconditionally.
type Jmp struct {
	Target string
}

func (Exit) Opcode() op.Code         { return op.Exit }
func (PushLiteral) Opcode() op.Code  { return op.PushLiteral }
func (PushLocation) Opcode() op.Code { return op.PushLocation }
func (Pop) Opcode() op.Code          { return op.Pop }
func (Add) Opcode() op.Code          { return op.Add }
func (Sub) Opcode() op.Code          { return op.Sub }
func (Mul) Opcode() op.Code          { return op.Mul }
func (Div) Opcode() op.Code          { return op.Div }
func (Dec) Opcode() op.Code          { return op.Dec }
func (Label) Opcode() op.Code        { return op.Label }
func (Jmpz) Opcode() op.Code         { return op.Jmpz }
func (Jmp) Opcode() op.Code          { return op.Jmp }

func (Exit) String() string { return "exit" }
func (Add) String() string  { return "add" }
func (Sub) String() string  { return "sub" }
func (Mul) String() string  { return "mul" }
func (Div) String() string  { return "div" }
func (Dec) String() string  { return "dec" }

func (i PushLiteral) String() string  { return "push " + FormatValue(i.Value) }
func (i PushLocation) String() string { return fmt.Sprintf("push m%d", i.Address) }
func (i Pop) String() string          { return fmt.Sprintf("pop m%d", i.Address) }
func (i Label) String() string        { return "label " + i.Name }
func (i Jmpz) String() string         { return "jmpz " + i.Target }
func (i Jmp) String() string          { return "jmp " + i.Target }

func (Exit) instruction()         {}
func (PushLiteral) instruction()  {}
func (PushLocation) instruction() {}
func (Pop) instruction()          {}
func (Add) instruction()          {}
func (Sub) instruction()          {}
func (Mul) instruction()          {}
func (Div) instruction()          {}
func (Dec) instruction()          {}
func (Label) instruction()        {}
func (Jmpz) instruction()         {}
func (Jmp) instruction()          {}

// JumpTarget returns the label an instruction jumps to, if it is a jump.
func JumpTarget(instr Instruction) (string, bool) {
	switch instr := instr.(type) {
	case Jmp:
		return instr.Target, true
	case Jmpz:
		return instr.Target, true
	}
	return "", false
}
