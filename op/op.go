// Package op defines the opcodes understood by the SBM parser and virtual
// machine.
package op

import "sort"

// Code is an integer opcode that indicates an operation to execute.
type Code uint8

const (
	Invalid Code = 0

	// Execution
	Exit Code = 1

	// Push
	PushLiteral  Code = 10
	PushLocation Code = 11

	// Store
	Pop Code = 20

	// Arithmetic
	Add Code = 30
	Sub Code = 31
	Mul Code = 32
	Div Code = 33
	Dec Code = 34

	// Control flow
	Label Code = 40
	Jmpz  Code = 41
	Jmp   Code = 42
)

// Info contains information about an opcode.
type Info struct {
	Code         Code
	Name         string // source mnemonic
	OperandCount int
}

var (
	infos     = make([]Info, 256)
	mnemonics = map[string]Info{}
)

func init() {
	type opInfo struct {
		op    Code
		name  string
		count int
	}
	ops := []opInfo{
		{Add, "add", 0},
		{Dec, "dec", 0},
		{Div, "div", 0},
		{Exit, "exit", 0},
		{Jmp, "jmp", 1},
		{Jmpz, "jmpz", 1},
		{Label, "label", 1},
		{Mul, "mul", 0},
		{Pop, "pop", 1},
		{PushLiteral, "push", 1},
		{PushLocation, "push", 1},
		{Sub, "sub", 0},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Name:         o.name,
			Code:         o.op,
			OperandCount: o.count,
		}
		if _, exists := mnemonics[o.name]; !exists {
			mnemonics[o.name] = infos[o.op]
		}
	}
}

// GetInfo returns information about the given opcode.
func GetInfo(op Code) Info {
	return infos[op]
}

// Lookup returns the opcode information for a source mnemonic. Mnemonics are
// case-sensitive. Both push variants share the "push" mnemonic; Lookup
// reports PushLiteral for it and the parser refines the choice from the
// operand.
func Lookup(mnemonic string) (Info, bool) {
	info, ok := mnemonics[mnemonic]
	return info, ok
}

// Mnemonics returns every source mnemonic in sorted order.
func Mnemonics() []string {
	names := make([]string, 0, len(mnemonics))
	for name := range mnemonics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String returns the mnemonic of the opcode.
func (c Code) String() string {
	if name := infos[c].Name; name != "" {
		return name
	}
	return "invalid"
}

// IsJump reports whether the opcode may change the program counter.
func (c Code) IsJump() bool {
	return c == Jmp || c == Jmpz
}
