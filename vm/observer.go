package vm

import (
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/sbm/bytecode"
	"github.com/deepnoodle-ai/sbm/op"
)

// StepMode controls when OnStep callbacks are triggered.
type StepMode uint8

const (
	// StepAll calls OnStep for every instruction.
	// Use for: detailed tracing, instruction-level debugging.
	StepAll StepMode = iota

	// StepNone never calls OnStep.
	StepNone

	// StepSampled calls OnStep every N instructions.
	// Use for: statistical profiling of long-running programs.
	StepSampled
)

// ObserverConfig specifies what events an observer wants to receive.
type ObserverConfig struct {
	// StepMode controls OnStep callback frequency.
	StepMode StepMode

	// SampleInterval is the number of instructions between OnStep calls
	// when StepMode is StepSampled. Values <= 0 are treated as 1.
	SampleInterval int
}

// NormalizeConfig validates and clamps config values.
func NormalizeConfig(cfg ObserverConfig) ObserverConfig {
	if cfg.StepMode == StepSampled && cfg.SampleInterval <= 0 {
		cfg.SampleInterval = 1
	}
	return cfg
}

// Observer is an interface for observing VM execution. Implementations can be
// used for tracing, step limits or instruction profiling.
//
// Observer methods are called synchronously during execution, so
// implementations should be fast.
type Observer interface {
	// Config returns the observer's configuration.
	// Called once at the start of each run.
	Config() ObserverConfig

	// OnStep is called before an instruction executes, based on the
	// StepMode in the observer's config. Returning false halts the run
	// with ErrHalted.
	OnStep(event StepEvent) bool
}

// StepEvent contains information about a single instruction step.
type StepEvent struct {
	// PC is the 1-based program counter of the instruction.
	PC int

	// Step is the number of instructions started so far in this run,
	// including this one.
	Step int

	// Instruction is the instruction about to execute.
	Instruction bytecode.Instruction

	// Opcode is the operation being executed.
	Opcode op.Code

	// Location is the source location of the instruction.
	Location bytecode.SourceLocation

	// StackDepth is the depth of the value stack before the instruction.
	StackDepth int
}

// NoOpObserver is an Observer implementation that does nothing.
// Embed this in your observer to provide default implementations.
type NoOpObserver struct{}

func (NoOpObserver) Config() ObserverConfig {
	return ObserverConfig{StepMode: StepAll}
}

func (NoOpObserver) OnStep(StepEvent) bool { return true }

// Ensure NoOpObserver implements Observer.
var _ Observer = NoOpObserver{}

// LogObserver writes every step to a zerolog logger at trace level.
type LogObserver struct {
	NoOpObserver
	logger zerolog.Logger
}

// NewLogObserver returns an observer that traces each step to logger.
func NewLogObserver(logger zerolog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnStep(event StepEvent) bool {
	o.logger.Trace().
		Int("pc", event.PC).
		Int("step", event.Step).
		Int("line", event.Location.Line).
		Stringer("instruction", event.Instruction).
		Int("stack_depth", event.StackDepth).
		Msg("step")
	return true
}

// StepLimiter halts a run after a fixed number of instructions. It is the
// only way to stop a program that loops forever under a context that is
// never cancelled.
type StepLimiter struct {
	NoOpObserver
	Max int
}

func (l *StepLimiter) OnStep(event StepEvent) bool {
	return l.Max <= 0 || event.Step <= l.Max
}

// Observers combines several observers into one. Each step is delivered to
// every observer in order; the first one that returns false halts the run.
// All combined observers receive every step regardless of their own config.
type Observers []Observer

func (o Observers) Config() ObserverConfig {
	return ObserverConfig{StepMode: StepAll}
}

func (o Observers) OnStep(event StepEvent) bool {
	for _, observer := range o {
		if !observer.OnStep(event) {
			return false
		}
	}
	return true
}
