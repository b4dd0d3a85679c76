package vm

import (
	"context"

	"github.com/deepnoodle-ai/sbm/bytecode"
)

// Run the given program in a new Virtual Machine and return its final state.
// The state is returned even when the run fails, so callers can inspect the
// machine at the point of failure.
func Run(ctx context.Context, program *bytecode.Program, options ...Option) (State, error) {
	machine := New(program, options...)
	err := machine.Run(ctx)
	return machine.State(), err
}
