// Package vm provides a VirtualMachine that executes loaded SBM programs.
package vm

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/sbm/bytecode"
	"github.com/deepnoodle-ai/sbm/errz"
)

const (
	// DefaultContextCheckInterval is the number of instructions between
	// checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000
)

var (
	// ErrHalted is returned by Run when an observer stops execution.
	ErrHalted = errors.New("execution halted by observer")

	// ErrNoProgram is returned by Run when no program has been loaded.
	ErrNoProgram = errors.New("no program loaded")
)

// VirtualMachine executes a program against a value stack and a memory bank.
// The stack, memory and program counter belong to the machine; a machine
// must not be run from more than one goroutine at a time.
type VirtualMachine struct {
	pc      int // 1-based program counter
	stack   []float64
	memory  [bytecode.MemorySize]float64
	program *bytecode.Program
	runID   uuid.UUID
	logger  zerolog.Logger

	contextCheckInterval int
	observer             Observer
	observerConfig       ObserverConfig
}

// New creates a new Virtual Machine for the given program.
func New(program *bytecode.Program, options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		program:              program,
		logger:               zerolog.Nop(),
		contextCheckInterval: DefaultContextCheckInterval,
	}
	for _, opt := range options {
		opt(vm)
	}
	vm.reset()
	return vm
}

// reset puts the machine in its initial state: an empty stack, ten zeroed
// memory slots and the program counter on the first instruction.
func (vm *VirtualMachine) reset() {
	vm.stack = vm.stack[:0]
	vm.memory = [bytecode.MemorySize]float64{}
	vm.pc = 1
}

// Run executes the program from the beginning until an exit instruction runs,
// the program counter moves past the last instruction, or an error occurs.
// The machine is reset first, so Run may be called repeatedly. Whatever the
// outcome, the final state remains available through State.
//
// Runtime failures are *errz.StructuredError values of kind
// errz.ErrStackUnderflow or errz.ErrLabelNotFound.
func (vm *VirtualMachine) Run(ctx context.Context) (err error) {
	if vm.program == nil {
		return ErrNoProgram
	}
	vm.reset()
	vm.runID = uuid.Must(uuid.NewV4())
	if vm.observer != nil {
		vm.observerConfig = NormalizeConfig(vm.observer.Config())
	}
	logger := vm.logger.With().Str("run_id", vm.runID.String()).Logger()
	logger.Debug().
		Str("filename", vm.program.Filename()).
		Int("instructions", vm.program.Len()).
		Msg("run started")

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			logger.Debug().Err(err).Int("pc", vm.pc).Msg("run failed")
			return
		}
		logger.Debug().
			Int("pc", vm.pc).
			Int("stack_depth", len(vm.stack)).
			Msg("run finished")
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return vm.eval(ctx)
}

// Evaluate the program starting at vm.pc.
func (vm *VirtualMachine) eval(ctx context.Context) error {
	var instructionCount, step int
	checkInterval := vm.contextCheckInterval
	doneChan := ctx.Done()

	for vm.pc <= vm.program.Len() {
		step++

		if checkInterval > 0 && doneChan != nil {
			instructionCount++
			if instructionCount >= checkInterval {
				instructionCount = 0
				select {
				case <-doneChan:
					return ctx.Err()
				default:
				}
			}
		}

		instr := vm.program.At(vm.pc)

		if vm.observer != nil && vm.shouldObserve(step) {
			event := StepEvent{
				PC:          vm.pc,
				Step:        step,
				Instruction: instr,
				Opcode:      instr.Opcode(),
				Location:    vm.program.LocationAt(vm.pc),
				StackDepth:  len(vm.stack),
			}
			if !vm.observer.OnStep(event) {
				return ErrHalted
			}
		}

		exit, err := vm.exec(instr)
		if err != nil {
			return err
		}
		if exit {
			return nil
		}
	}
	return nil
}

func (vm *VirtualMachine) shouldObserve(step int) bool {
	switch vm.observerConfig.StepMode {
	case StepAll:
		return true
	case StepSampled:
		return step%vm.observerConfig.SampleInterval == 0
	default:
		return false
	}
}

// exec applies one instruction and advances the program counter. Jumps set
// the counter to the label's own position, so after the increment execution
// continues with the instruction that follows the label. It reports true
// when the program should stop.
func (vm *VirtualMachine) exec(instr bytecode.Instruction) (bool, error) {
	switch instr := instr.(type) {
	case bytecode.Exit:
		vm.pc++
		return true, nil
	case bytecode.PushLiteral:
		vm.push(instr.Value)
	case bytecode.PushLocation:
		vm.push(vm.memory[instr.Address])
	case bytecode.Pop:
		if err := vm.require(instr, 1); err != nil {
			return false, err
		}
		vm.memory[instr.Address] = vm.pop()
	case bytecode.Add:
		if err := vm.binaryOp(instr, func(a, b float64) float64 { return a + b }); err != nil {
			return false, err
		}
	case bytecode.Sub:
		if err := vm.binaryOp(instr, func(a, b float64) float64 { return a - b }); err != nil {
			return false, err
		}
	case bytecode.Mul:
		if err := vm.binaryOp(instr, func(a, b float64) float64 { return a * b }); err != nil {
			return false, err
		}
	case bytecode.Div:
		if err := vm.binaryOp(instr, func(a, b float64) float64 { return a / b }); err != nil {
			return false, err
		}
	case bytecode.Dec:
		if err := vm.require(instr, 1); err != nil {
			return false, err
		}
		vm.push(vm.pop() - 1)
	case bytecode.Label:
	case bytecode.Jmpz:
		if err := vm.require(instr, 1); err != nil {
			return false, err
		}
		if vm.stack[len(vm.stack)-1] == 0 {
			if err := vm.jump(instr.Target); err != nil {
				return false, err
			}
		}
	case bytecode.Jmp:
		if err := vm.jump(instr.Target); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("unknown instruction %T at pc %d", instr, vm.pc)
	}
	vm.pc++
	return false, nil
}

// binaryOp pops A (the top) then B and pushes fn(A, B). A is consumed even
// when B is missing, so an underflow with one value leaves the stack empty.
func (vm *VirtualMachine) binaryOp(instr bytecode.Instruction, fn func(a, b float64) float64) error {
	depth := len(vm.stack)
	if depth == 0 {
		return vm.underflow(instr, 2, depth)
	}
	a := vm.pop()
	if depth == 1 {
		return vm.underflow(instr, 2, depth)
	}
	b := vm.pop()
	vm.push(fn(a, b))
	return nil
}

func (vm *VirtualMachine) jump(label string) error {
	target, ok := vm.program.FindLabel(label)
	if !ok {
		hint := errz.FormatSuggestions(errz.SuggestSimilar(label, vm.program.Labels()))
		return errz.LabelNotFound(vm.pc, vm.location(), label).WithHint(hint)
	}
	vm.pc = target
	return nil
}

// require checks the stack holds at least n values before an instruction
// touches it.
func (vm *VirtualMachine) require(instr bytecode.Instruction, n int) error {
	if len(vm.stack) < n {
		return vm.underflow(instr, n, len(vm.stack))
	}
	return nil
}

// underflow reports an instruction that needed n stack values and found
// depth.
func (vm *VirtualMachine) underflow(instr bytecode.Instruction, n, depth int) error {
	return errz.StackUnderflow(vm.pc, vm.location(), instr.Opcode().String(), n, depth)
}

func (vm *VirtualMachine) location() errz.SourceLocation {
	loc := vm.program.LocationAt(vm.pc)
	return errz.SourceLocation{
		Filename: vm.program.Filename(),
		Line:     loc.Line,
		Source:   loc.Source,
	}
}

func (vm *VirtualMachine) push(v float64) {
	vm.stack = append(vm.stack, v)
}

func (vm *VirtualMachine) pop() float64 {
	v := vm.stack[len(vm.stack)-1]
	vm.stack = vm.stack[:len(vm.stack)-1]
	return v
}

// TOS returns the top of the stack and true, or false if the stack is empty.
func (vm *VirtualMachine) TOS() (float64, bool) {
	if len(vm.stack) == 0 {
		return 0, false
	}
	return vm.stack[len(vm.stack)-1], true
}

// PC returns the program counter.
func (vm *VirtualMachine) PC() int {
	return vm.pc
}

// Stack returns a copy of the stack, bottom first.
func (vm *VirtualMachine) Stack() []float64 {
	stack := make([]float64, len(vm.stack))
	copy(stack, vm.stack)
	return stack
}

// Memory returns a copy of the memory bank.
func (vm *VirtualMachine) Memory() [bytecode.MemorySize]float64 {
	return vm.memory
}

// Program returns the program the machine executes.
func (vm *VirtualMachine) Program() *bytecode.Program {
	return vm.program
}

// State returns a snapshot of the machine.
func (vm *VirtualMachine) State() State {
	return State{
		Program: vm.program,
		PC:      vm.pc,
		Stack:   vm.Stack(),
		Memory:  vm.memory,
		RunID:   vm.runID,
	}
}

// String returns the machine's state dump.
func (vm *VirtualMachine) String() string {
	return vm.State().String()
}
