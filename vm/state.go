package vm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"

	"github.com/deepnoodle-ai/sbm/bytecode"
)

// Separator ends every state dump.
const Separator = "------------------------------------------------"

// State is a snapshot of a machine: its program, program counter, stack
// (bottom first) and memory bank.
type State struct {
	Program *bytecode.Program
	PC      int
	Stack   []float64
	Memory  [bytecode.MemorySize]float64
	// RunID identifies the run that produced the state. It is the zero
	// UUID before the first run.
	RunID uuid.UUID
}

// String renders the state as a dump:
//
//	Pgm   : [push 5.0, pop m0, exit]
//	Pc    : 4
//	Stack : []
//	Memory: [5.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0]
//	------------------------------------------------
func (s State) String() string {
	var b strings.Builder
	b.WriteString("Pgm   : ")
	if s.Program == nil {
		b.WriteString("null")
	} else {
		b.WriteString(s.Program.String())
	}
	fmt.Fprintf(&b, "\nPc    : %d", s.PC)
	b.WriteString("\nStack : ")
	b.WriteString(bytecode.FormatValues(s.Stack))
	b.WriteString("\nMemory: ")
	b.WriteString(bytecode.FormatValues(s.Memory[:]))
	b.WriteString("\n")
	b.WriteString(Separator)
	b.WriteString("\n")
	return b.String()
}

type stateJSON struct {
	Program []string                     `json:"program"`
	PC      int                          `json:"pc"`
	Stack   []float64                    `json:"stack"`
	Memory  [bytecode.MemorySize]float64 `json:"memory"`
	RunID   uuid.UUID                    `json:"run_id"`
}

// MarshalJSON encodes the state with the program as a list of source
// instructions. Non-finite stack or memory values cannot be encoded.
func (s State) MarshalJSON() ([]byte, error) {
	out := stateJSON{
		Program: []string{},
		PC:      s.PC,
		Stack:   s.Stack,
		Memory:  s.Memory,
		RunID:   s.RunID,
	}
	if out.Stack == nil {
		out.Stack = []float64{}
	}
	if s.Program != nil {
		for _, instr := range s.Program.Instructions() {
			out.Program = append(out.Program, instr.String())
		}
	}
	return json.Marshal(out)
}
