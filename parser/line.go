package parser

import (
	"errors"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/sbm/bytecode"
	"github.com/deepnoodle-ai/sbm/errz"
	"github.com/deepnoodle-ai/sbm/op"
)

// ParseLine parses a single line of source. It returns a nil instruction and
// a nil error for a blank line. Any failure is an *errz.StructuredError of
// kind errz.ErrSyntax carrying lineNo.
func ParseLine(line string, lineNo int) (bytecode.Instruction, error) {
	return parseLine(errz.SourceLocation{Line: lineNo, Source: line})
}

// ExtraOperands returns the number of trailing tokens on a line that the
// parser ignores. Lines with unknown mnemonics report zero.
func ExtraOperands(line string) int {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0
	}
	info, ok := op.Lookup(fields[0])
	if !ok {
		return 0
	}
	return max(0, len(fields)-1-info.OperandCount)
}

func parseLine(loc errz.SourceLocation) (bytecode.Instruction, error) {
	fields := strings.Fields(loc.Source)
	if len(fields) == 0 {
		return nil, nil
	}
	mnemonic, operands := fields[0], fields[1:]
	info, ok := op.Lookup(mnemonic)
	if !ok {
		hint := errz.FormatSuggestions(errz.SuggestSimilar(mnemonic, op.Mnemonics()))
		return nil, errz.SyntaxErrorf(loc, "unknown instruction %q", mnemonic).WithHint(hint)
	}
	if len(operands) < info.OperandCount {
		return nil, errz.SyntaxErrorf(loc, "%s requires an operand", mnemonic)
	}
	switch info.Code {
	case op.Exit:
		return bytecode.Exit{}, nil
	case op.Add:
		return bytecode.Add{}, nil
	case op.Sub:
		return bytecode.Sub{}, nil
	case op.Mul:
		return bytecode.Mul{}, nil
	case op.Div:
		return bytecode.Div{}, nil
	case op.Dec:
		return bytecode.Dec{}, nil
	case op.PushLiteral:
		return parsePush(operands[0], loc)
	case op.Pop:
		addr, err := parseAddress(operands[0], loc)
		if err != nil {
			return nil, err
		}
		return bytecode.Pop{Address: addr}, nil
	case op.Label:
		return bytecode.Label{Name: operands[0]}, nil
	case op.Jmpz:
		return bytecode.Jmpz{Target: operands[0]}, nil
	case op.Jmp:
		return bytecode.Jmp{Target: operands[0]}, nil
	}
	return nil, errz.SyntaxErrorf(loc, "unknown instruction %q", mnemonic)
}

func parsePush(operand string, loc errz.SourceLocation) (bytecode.Instruction, error) {
	if strings.HasPrefix(operand, "m") {
		addr, err := parseAddress(operand, loc)
		if err != nil {
			return nil, err
		}
		return bytecode.PushLocation{Address: addr}, nil
	}
	// Literals outside the float64 range round to ±Inf or zero.
	value, err := strconv.ParseFloat(operand, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, errz.SyntaxErrorf(loc, "invalid number %q", operand).WithCause(err)
	}
	return bytecode.PushLiteral{Value: value}, nil
}

func parseAddress(operand string, loc errz.SourceLocation) (int, error) {
	digits, ok := strings.CutPrefix(operand, "m")
	if !ok {
		return 0, errz.SyntaxErrorf(loc, "memory address %q must start with 'm'", operand)
	}
	addr, err := strconv.Atoi(digits)
	if err != nil {
		return 0, errz.SyntaxErrorf(loc, "invalid memory address %q", operand).WithCause(err)
	}
	if !bytecode.ValidAddress(addr) {
		return 0, errz.SyntaxErrorf(loc, "memory address %q out of range m0-m%d",
			operand, bytecode.MemorySize-1)
	}
	return addr, nil
}
