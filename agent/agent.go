// Package agent drives a jump/no-jump game player with an online network. It turns
// game observations into input vectors, turns crashes into labelled examples and
// hands the accumulated examples to the network to learn from.
package agent

import (
	"context"
	"fmt"

	"ffnet/m"

	"gonum.org/v1/gonum/floats"
)

// Action is the decision taken on a tick.
type Action int

const (
	Run Action = iota
	Jump
)

func (a Action) String() string {
	switch a {
	case Run:
		return "run"
	case Jump:
		return "jump"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Targets for a crash: after jumping the agent should have kept running, and
// after running it should have jumped.
var (
	targetRun  = []float64{1, 0}
	targetJump = []float64{0, 1}
)

// DefaultCanvasWidth is the width of the game area observations are scaled by.
const DefaultCanvasWidth = 600

// speedScale brings the game speed to roughly [0,1].
const speedScale = 100

// State is a raw observation of the nearest obstacle.
type State struct {
	ObstacleX     float64
	ObstacleWidth float64
	Speed         float64
}

// Vector scales s to the three network inputs. A nil state, seen before the
// first obstacle appears, maps to zeros.
func (s *State) Vector(canvasWidth float64) []float64 {
	if s == nil {
		return []float64{0, 0, 0}
	}
	return []float64{
		s.ObstacleX / canvasWidth,
		s.ObstacleWidth / canvasWidth,
		s.Speed / speedScale,
	}
}

// Dataset is the caller-owned pair of parallel example sequences.
type Dataset struct {
	Inputs  [][]float64
	Targets [][]float64
}

func (d *Dataset) Add(input, target []float64) {
	d.Inputs = append(d.Inputs, input)
	d.Targets = append(d.Targets, target)
}

func (d *Dataset) Len() int {
	return len(d.Inputs)
}

// DefaultOptions is the 3-4-2 network the agent plays with.
func DefaultOptions() m.Options {
	return m.Options{
		InputCount:   3,
		HiddenCount:  4,
		OutputCount:  2,
		LearningRate: 0.5,
		Epochs:       20,
	}
}

// Agent decides on every tick and remembers the state behind its last jump and
// its last run so a crash can be blamed on the right decision.
type Agent struct {
	net         *m.Network
	canvasWidth float64
	data        *Dataset
	lastJumping *State
	lastRunning *State
}

// New wraps net, which must take 3 inputs and produce 2 outputs. Examples are
// appended to data, which stays owned by the caller.
func New(net *m.Network, data *Dataset, canvasWidth float64) (*Agent, error) {
	opts := net.Options()
	if opts.InputCount != 3 || opts.OutputCount != 2 {
		return nil, fmt.Errorf("%w: agent needs a 3-input, 2-output network, got %d-%d-%d",
			m.ErrShapeMismatch, opts.InputCount, opts.HiddenCount, opts.OutputCount)
	}
	if data == nil {
		return nil, fmt.Errorf("agent: dataset is nil")
	}
	if canvasWidth <= 0 {
		canvasWidth = DefaultCanvasWidth
	}
	return &Agent{net: net, canvasWidth: canvasWidth, data: data}, nil
}

// Decide picks the action for state. While jumping the agent cannot act, so it
// returns Run without consulting the network.
func (a *Agent) Decide(state *State, jumping bool) (Action, error) {
	if jumping {
		return Run, nil
	}
	out, err := a.net.Predict(state.Vector(a.canvasWidth))
	if err != nil {
		return Run, err
	}
	action := Run
	// MaxIdx returns the first index on ties, so equal outputs keep running.
	if floats.MaxIdx(out) == int(Jump) {
		action = Jump
	}
	a.Observe(state, action)
	return action, nil
}

// Observe remembers that action was taken in state. Decide calls it; replays of
// games played by someone else call it directly.
func (a *Agent) Observe(state *State, action Action) {
	if action == Jump {
		a.lastJumping = state
		return
	}
	a.lastRunning = state
}

// RecordCrash turns a collision into an example: a crash mid-jump means the
// last jump was wrong, a crash while running means the agent should have jumped.
func (a *Agent) RecordCrash(jumping bool) {
	if jumping {
		a.data.Add(a.lastJumping.Vector(a.canvasWidth), append([]float64(nil), targetRun...))
		return
	}
	a.data.Add(a.lastRunning.Vector(a.canvasWidth), append([]float64(nil), targetJump...))
}

// Learn fits the network on everything recorded so far.
func (a *Agent) Learn(ctx context.Context, opts m.FitOptions) error {
	return a.net.Fit(ctx, a.data.Inputs, a.data.Targets, opts)
}

// Snapshot is the network view for viewers.
func (a *Agent) Snapshot() m.Snapshot {
	return a.net.Snapshot()
}
