package vm

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/sbm/op"
)

// TestObserver is a test observer that records events.
type TestObserver struct {
	NoOpObserver
	Steps []StepEvent
}

func (o *TestObserver) OnStep(event StepEvent) bool {
	o.Steps = append(o.Steps, event)
	return true
}

type funcObserver struct {
	NoOpObserver
	fn func(StepEvent) bool
}

func (o *funcObserver) OnStep(event StepEvent) bool {
	return o.fn(event)
}

type sampledObserver struct {
	TestObserver
	interval int
}

func (o *sampledObserver) Config() ObserverConfig {
	return ObserverConfig{StepMode: StepSampled, SampleInterval: o.interval}
}

func TestObserverOnStep(t *testing.T) {
	observer := &TestObserver{}
	vm := newVM(t, "push 5.0\n\npush 3.4567\nadd\npop m0\nexit", WithObserver(observer))
	require.NoError(t, vm.Run(context.Background()))

	require.Len(t, observer.Steps, 5)
	first := observer.Steps[0]
	assert.Equal(t, 1, first.PC)
	assert.Equal(t, 1, first.Step)
	assert.Equal(t, op.PushLiteral, first.Opcode)
	assert.Equal(t, 0, first.StackDepth)

	add := observer.Steps[2]
	assert.Equal(t, op.Add, add.Opcode)
	assert.Equal(t, "add", add.Instruction.String())
	assert.Equal(t, 4, add.Location.Line)
	assert.Equal(t, 2, add.StackDepth)

	assert.Equal(t, op.Exit, observer.Steps[4].Opcode)
}

func TestObserverSeesJumps(t *testing.T) {
	observer := &TestObserver{}
	vm := newVM(t, factorialSource, WithObserver(observer))
	require.NoError(t, vm.Run(context.Background()))

	var pcs []int
	for _, step := range observer.Steps[:9] {
		pcs = append(pcs, step.PC)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, pcs)
	for i, step := range observer.Steps {
		if step.Opcode == op.Jmp {
			// The instruction after the label runs next.
			assert.Equal(t, 6, observer.Steps[i+1].PC)
		}
	}
}

func TestObserverHalts(t *testing.T) {
	observer := &funcObserver{fn: func(event StepEvent) bool {
		return event.Opcode != op.Add
	}}
	vm := newVM(t, "push 1\npush 2\nadd\nexit", WithObserver(observer))
	err := vm.Run(context.Background())
	assert.ErrorIs(t, err, ErrHalted)
	assert.Equal(t, 3, vm.PC())
	assert.Equal(t, []float64{1, 2}, vm.Stack())
}

func TestObserverSampled(t *testing.T) {
	observer := &sampledObserver{interval: 2}
	vm := newVM(t, "push 1\npush 2\npush 3\npush 4\npush 5", WithObserver(observer))
	require.NoError(t, vm.Run(context.Background()))
	require.Len(t, observer.Steps, 2)
	assert.Equal(t, 2, observer.Steps[0].Step)
	assert.Equal(t, 4, observer.Steps[1].Step)
}

func TestNormalizeConfig(t *testing.T) {
	cfg := NormalizeConfig(ObserverConfig{StepMode: StepSampled})
	assert.Equal(t, 1, cfg.SampleInterval)
	cfg = NormalizeConfig(ObserverConfig{StepMode: StepAll})
	assert.Equal(t, 0, cfg.SampleInterval)
}

func TestStepLimiterStopsInfiniteLoop(t *testing.T) {
	limiter := &StepLimiter{Max: 100}
	vm := newVM(t, "push 1\nlabel top\ndec\njmp top", WithObserver(limiter))
	err := vm.Run(context.Background())
	assert.ErrorIs(t, err, ErrHalted)
	tos, ok := vm.TOS()
	require.True(t, ok)
	assert.Less(t, tos, -30.0)
}

func TestStepLimiterDisabled(t *testing.T) {
	limiter := &StepLimiter{}
	vm := newVM(t, factorialSource, WithObserver(limiter))
	assert.NoError(t, vm.Run(context.Background()))
}

func TestObservers(t *testing.T) {
	recorder := &TestObserver{}
	combined := Observers{recorder, &StepLimiter{Max: 2}}
	vm := newVM(t, "push 1\npush 2\npush 3", WithObserver(combined))
	err := vm.Run(context.Background())
	assert.ErrorIs(t, err, ErrHalted)
	assert.Len(t, recorder.Steps, 3)
	assert.Equal(t, []float64{1, 2}, vm.Stack())
}

func TestLogObserver(t *testing.T) {
	previous := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(previous) })

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.TraceLevel)
	vm := newVM(t, "push 2\ndec\nexit", WithObserver(NewLogObserver(logger)))
	require.NoError(t, vm.Run(context.Background()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"instruction":"push 2.0"`)
	assert.Contains(t, lines[1], `"instruction":"dec"`)
	assert.Contains(t, lines[1], `"stack_depth":1`)
	assert.Contains(t, lines[2], `"pc":3`)
}
