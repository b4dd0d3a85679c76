// Package dis supports analysis of loaded SBM programs by listing them one
// instruction per row with resolved jump targets.
package dis

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/deepnoodle-ai/sbm/bytecode"
	"github.com/deepnoodle-ai/sbm/internal/table"
	"github.com/deepnoodle-ai/sbm/op"
)

// Instruction represents a single program instruction and its operand.
type Instruction struct {
	PC         int     `json:"pc"`
	Line       int     `json:"line,omitempty"`
	Name       string  `json:"name"`
	Opcode     op.Code `json:"opcode"`
	Operand    string  `json:"operand,omitempty"`
	Annotation string  `json:"annotation,omitempty"`
	// Target is the pc execution continues at after a taken jump, or 0.
	Target int `json:"target,omitempty"`
}

// Disassemble returns a listing of the given program.
func Disassemble(program *bytecode.Program) []Instruction {
	instructions := make([]Instruction, 0, program.Len())
	for pc := 1; pc <= program.Len(); pc++ {
		instr := program.At(pc)
		row := Instruction{
			PC:     pc,
			Line:   program.LineAt(pc),
			Name:   op.GetInfo(instr.Opcode()).Name,
			Opcode: instr.Opcode(),
		}
		switch instr := instr.(type) {
		case bytecode.PushLiteral:
			row.Operand = bytecode.FormatValue(instr.Value)
		case bytecode.PushLocation:
			row.Operand = fmt.Sprintf("m%d", instr.Address)
			row.Annotation = "memory read"
		case bytecode.Pop:
			row.Operand = fmt.Sprintf("m%d", instr.Address)
			row.Annotation = "memory write"
		case bytecode.Label:
			row.Operand = instr.Name
		case bytecode.Jmp, bytecode.Jmpz:
			target, _ := bytecode.JumpTarget(instr)
			row.Operand = target
			if labelPC, ok := program.FindLabel(target); ok {
				row.Target = labelPC + 1
				row.Annotation = fmt.Sprintf("-> %d", row.Target)
			} else {
				row.Annotation = "label not found"
			}
		}
		instructions = append(instructions, row)
	}
	return instructions
}

// Print a table of the given instructions to the given writer. Colors follow
// the fatih/color global setting.
func Print(instructions []Instruction, writer io.Writer) {
	bold := color.New(color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgHiCyan).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	var lines [][]string
	for _, instr := range instructions {
		line := ""
		if instr.Line > 0 {
			line = fmt.Sprintf("%d", instr.Line)
		}
		operand := instr.Operand
		if instr.Opcode == op.PushLiteral {
			operand = yellow(operand)
		}
		annotation := instr.Annotation
		switch {
		case instr.Opcode.IsJump() && instr.Target == 0:
			annotation = red(annotation)
		case annotation != "":
			annotation = cyan(annotation)
		}
		lines = append(lines, []string{
			fmt.Sprintf("%d", instr.PC),
			line,
			bold(instr.Name),
			operand,
			annotation,
		})
	}

	table.NewTable(writer).
		WithHeader([]string{"PC", "LINE", "OPCODE", "OPERAND", "INFO"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignRight,
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(lines).
		Render()
}
