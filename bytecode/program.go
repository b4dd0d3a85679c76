package bytecode

import "strings"

// Program is an immutable, ordered sequence of instructions. Positions are
// 1-based, matching the machine's program counter.
type Program struct {
	instructions []Instruction
	locations    []SourceLocation
	filename     string
}

// ProgramParams contains parameters for creating a new Program.
type ProgramParams struct {
	Instructions []Instruction
	// Locations holds one entry per instruction. It may be nil.
	Locations []SourceLocation
	Filename  string
}

// NewProgram creates a new immutable Program from the given parameters.
// Input slices are copied.
func NewProgram(params ProgramParams) *Program {
	return &Program{
		instructions: copyInstructions(params.Instructions),
		locations:    copyLocations(params.Locations),
		filename:     params.Filename,
	}
}

// Len returns the number of instructions in the program.
func (p *Program) Len() int {
	return len(p.instructions)
}

// At returns the instruction at the given 1-based position.
func (p *Program) At(pc int) Instruction {
	return p.instructions[pc-1]
}

// Instructions returns a copy of the program's instructions.
func (p *Program) Instructions() []Instruction {
	return copyInstructions(p.instructions)
}

// LocationAt returns the source location of the instruction at the given
// 1-based position. The zero location is returned when it is unknown.
func (p *Program) LocationAt(pc int) SourceLocation {
	if pc < 1 || pc > len(p.locations) {
		return SourceLocation{}
	}
	return p.locations[pc-1]
}

// LineAt returns the source line number of the instruction at pc, or 0.
func (p *Program) LineAt(pc int) int {
	return p.LocationAt(pc).Line
}

// Filename returns the name of the file the program was loaded from.
func (p *Program) Filename() string {
	return p.filename
}

// FindLabel scans the program for the first label declaration with the given
// name and returns its 1-based position.
func (p *Program) FindLabel(name string) (int, bool) {
	for i, instr := range p.instructions {
		if label, ok := instr.(Label); ok && label.Name == name {
			return i + 1, true
		}
	}
	return 0, false
}

// Labels returns the distinct label names declared in the program, in
// declaration order.
func (p *Program) Labels() []string {
	var names []string
	seen := map[string]bool{}
	for _, instr := range p.instructions {
		if label, ok := instr.(Label); ok && !seen[label.Name] {
			seen[label.Name] = true
			names = append(names, label.Name)
		}
	}
	return names
}

// String returns the program as a bracketed list of instructions, e.g.
// "[push 5.0, pop m0, exit]".
func (p *Program) String() string {
	var b strings.Builder
	b.WriteString("[")
	for i, instr := range p.instructions {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(instr.String())
	}
	b.WriteString("]")
	return b.String()
}
