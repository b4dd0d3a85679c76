package bytecode

import "github.com/deepnoodle-ai/sbm/op"

// Stats contains statistics about a loaded program.
// This is useful for auditing programs before execution.
type Stats struct {
	// InstructionCount is the total number of instructions.
	InstructionCount int

	// LabelCount is the number of label declarations, duplicates included.
	LabelCount int

	// JumpCount is the number of jmp and jmpz instructions.
	JumpCount int

	// MemoryReads and MemoryWrites count push mN and pop mN instructions.
	MemoryReads  int
	MemoryWrites int

	// HasExit is true if the program contains at least one exit.
	HasExit bool
}

// Stats returns statistics about the program.
func (p *Program) Stats() Stats {
	stats := Stats{InstructionCount: len(p.instructions)}
	for _, instr := range p.instructions {
		switch code := instr.Opcode(); {
		case code == op.Label:
			stats.LabelCount++
		case code.IsJump():
			stats.JumpCount++
		case code == op.PushLocation:
			stats.MemoryReads++
		case code == op.Pop:
			stats.MemoryWrites++
		case code == op.Exit:
			stats.HasExit = true
		}
	}
	return stats
}
