// Package sbm loads and runs programs for the SBM stack machine.
//
// A program is plain text with one instruction per line:
//
//	push 5.0
//	push 3.4567
//	add
//	pop m0
//	exit
//
// The machine has a stack of float64 values and a memory bank of ten slots,
// m0 through m9. Eval loads and runs source in one call:
//
//	state, err := sbm.Eval(ctx, source)
//	fmt.Print(state)
package sbm

import (
	"context"

	"github.com/deepnoodle-ai/sbm/bytecode"
	"github.com/deepnoodle-ai/sbm/parser"
	"github.com/deepnoodle-ai/sbm/vm"
)

// Load parses source into a program. The first syntax error aborts the load.
func Load(ctx context.Context, source string, opts ...Option) (*bytecode.Program, error) {
	return parser.Parse(ctx, source, collectOptions(opts...).parserOpts()...)
}

// LoadFile parses the program stored at path.
func LoadFile(ctx context.Context, path string, opts ...Option) (*bytecode.Program, error) {
	return parser.ParseFile(ctx, path, collectOptions(opts...).parserOpts()...)
}

// Run executes a loaded program on a new machine and returns its final
// state, which is meaningful even when an error is returned.
func Run(ctx context.Context, program *bytecode.Program, opts ...Option) (vm.State, error) {
	return vm.Run(ctx, program, collectOptions(opts...).vmOpts()...)
}

// Eval loads and runs source. A load failure returns the zero State.
func Eval(ctx context.Context, source string, opts ...Option) (vm.State, error) {
	program, err := Load(ctx, source, opts...)
	if err != nil {
		return vm.State{}, err
	}
	return Run(ctx, program, opts...)
}
