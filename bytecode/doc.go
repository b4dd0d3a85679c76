// Package bytecode provides immutable representations of loaded SBM programs.
//
// # Key Types
//
//   - [Instruction]: a closed set of instruction variants, one per opcode
//   - [Program]: an immutable, 1-indexed sequence of instructions
//   - [SourceLocation]: maps an instruction back to its source line
//
// # Immutability Guarantees
//
// A Program has no mutation methods. Its constructor copies the input slices
// and accessors return values or copies, so a Program may be shared by any
// number of virtual machines.
//
// Instructions are addressed the way the machine counts them, starting at 1:
//
//	program.At(1)        // first instruction
//	program.LineAt(1)    // its source line
//	program.FindLabel(n) // 1-based index of the first "label n"
package bytecode
