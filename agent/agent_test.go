package agent

import (
	"context"
	"errors"
	"testing"

	"ffnet/m"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAgent(t *testing.T, seed int64) (*Agent, *m.Network, *Dataset) {
	t.Helper()
	opts := DefaultOptions()
	opts.Seed = seed
	net, err := m.NewNetwork(opts)
	require.NoError(t, err)
	data := &Dataset{}
	a, err := New(net, data, 600)
	require.NoError(t, err)
	return a, net, data
}

func TestStateVector(t *testing.T) {
	s := &State{ObstacleX: 300, ObstacleWidth: 30, Speed: 6}
	assert.Equal(t, []float64{0.5, 0.05, 0.06}, s.Vector(600))

	var missing *State
	assert.Equal(t, []float64{0, 0, 0}, missing.Vector(600))
}

func TestNewRejectsWrongTopology(t *testing.T) {
	net, err := m.NewNetwork(m.Options{InputCount: 2, HiddenCount: 4, OutputCount: 2, LearningRate: 0.5, Epochs: 1})
	require.NoError(t, err)

	_, err = New(net, &Dataset{}, 600)
	assert.True(t, errors.Is(err, m.ErrShapeMismatch))

	good, err := m.NewNetwork(DefaultOptions())
	require.NoError(t, err)
	_, err = New(good, nil, 600)
	assert.Error(t, err)
}

func TestDecideFollowsLargerOutput(t *testing.T) {
	a, net, _ := newTestAgent(t, 3)
	state := &State{ObstacleX: 120, ObstacleWidth: 25, Speed: 8}

	out, err := net.Predict(state.Vector(600))
	require.NoError(t, err)
	want := Run
	if out[1] > out[0] {
		want = Jump
	}

	got, err := a.Decide(state, false)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	if want == Jump {
		assert.Same(t, state, a.lastJumping)
	} else {
		assert.Same(t, state, a.lastRunning)
	}
}

func TestDecideWhileJumping(t *testing.T) {
	a, _, _ := newTestAgent(t, 3)
	before := a.Snapshot()

	got, err := a.Decide(&State{ObstacleX: 10}, true)
	require.NoError(t, err)
	assert.Equal(t, Run, got)
	assert.Nil(t, a.lastJumping)
	assert.Nil(t, a.lastRunning)
	// no forward pass ran
	assert.Equal(t, before, a.Snapshot())
}

func TestRecordCrash(t *testing.T) {
	a, _, data := newTestAgent(t, 5)
	a.lastJumping = &State{ObstacleX: 60, ObstacleWidth: 30, Speed: 10}
	a.lastRunning = &State{ObstacleX: 30, ObstacleWidth: 12, Speed: 7}

	a.RecordCrash(true)
	a.RecordCrash(false)

	require.Equal(t, 2, data.Len())
	assert.Equal(t, []float64{0.1, 0.05, 0.1}, data.Inputs[0])
	assert.Equal(t, []float64{1, 0}, data.Targets[0])
	assert.Equal(t, []float64{0.05, 0.02, 0.07}, data.Inputs[1])
	assert.Equal(t, []float64{0, 1}, data.Targets[1])

	// targets are fresh slices
	data.Targets[0][0] = 9
	assert.Equal(t, []float64{1, 0}, targetRun)
}

func TestRecordCrashBeforeAnyDecision(t *testing.T) {
	a, _, data := newTestAgent(t, 5)
	a.RecordCrash(false)
	require.Equal(t, 1, data.Len())
	assert.Equal(t, []float64{0, 0, 0}, data.Inputs[0])
	assert.Equal(t, []float64{0, 1}, data.Targets[0])
}

func TestLearnLearnsToJumpOverCloseObstacles(t *testing.T) {
	a, net, data := newTestAgent(t, 8)
	near := &State{ObstacleX: 40, ObstacleWidth: 20, Speed: 6}
	far := &State{ObstacleX: 540, ObstacleWidth: 20, Speed: 6}

	for i := 0; i < 10; i++ {
		a.lastRunning = near
		a.RecordCrash(false)
		a.lastJumping = far
		a.RecordCrash(true)
	}

	calls := 0
	err := a.Learn(context.Background(), m.FitOptions{
		OnExample: func([]float64) error { calls++; return nil },
	})
	require.NoError(t, err)
	assert.Equal(t, net.Options().Epochs*data.Len(), calls)

	got, err := a.Decide(near, false)
	require.NoError(t, err)
	assert.Equal(t, Jump, got)

	got, err = a.Decide(far, false)
	require.NoError(t, err)
	assert.Equal(t, Run, got)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "run", Run.String())
	assert.Equal(t, "jump", Jump.String())
	assert.Equal(t, "Action(7)", Action(7).String())
}
