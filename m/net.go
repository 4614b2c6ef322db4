package m

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Options fixes the topology and training schedule of a Network.
type Options struct {
	InputCount   int
	HiddenCount  int
	OutputCount  int
	LearningRate float64
	Epochs       int
	// Seed drives weight initialisation. Zero seeds from the clock.
	Seed int64
}

func (o Options) validate() error {
	switch {
	case o.InputCount <= 0:
		return fmt.Errorf("%w: input count must be positive (got %d)", ErrInvalidConfig, o.InputCount)
	case o.HiddenCount <= 0:
		return fmt.Errorf("%w: hidden neuron count must be positive (got %d)", ErrInvalidConfig, o.HiddenCount)
	case o.OutputCount <= 0:
		return fmt.Errorf("%w: output count must be positive (got %d)", ErrInvalidConfig, o.OutputCount)
	case !(o.LearningRate > 0) || math.IsInf(o.LearningRate, 1):
		return fmt.Errorf("%w: learning rate must be a positive real (got %v)", ErrInvalidConfig, o.LearningRate)
	case o.Epochs < 1:
		return fmt.Errorf("%w: epochs must be >= 1 (got %d)", ErrInvalidConfig, o.Epochs)
	}
	return nil
}

// layer holds one row of weights per neuron. output and delta are the
// transient values of the last forward and backward pass.
type layer struct {
	weights *mat.Dense
	bias    *mat.VecDense
	output  *mat.VecDense
	delta   *mat.VecDense
}

func newLayer(neurons, inputs int, src rand.Source) *layer {
	weights := make([]float64, 0, neurons*inputs)
	bias := make([]float64, neurons)
	for i := 0; i < neurons; i++ {
		weights = append(weights, randomArray(inputs, src)...)
		bias[i] = randomArray(1, src)[0]
	}
	return &layer{
		weights: mat.NewDense(neurons, inputs, weights),
		bias:    mat.NewVecDense(neurons, bias),
		output:  mat.NewVecDense(neurons, nil),
		delta:   mat.NewVecDense(neurons, nil),
	}
}

// Network is a fully connected sigmoid network with one hidden layer, trained
// online: weights change after every example.
//
// A Network is not safe for concurrent use. Readers that need its state should
// take a Snapshot between calls to Predict, TrainOne and Fit.
type Network struct {
	opts      Options
	layers    []*layer
	activator Sigmoid
}

// NewNetwork builds the hidden and output layers and draws every weight and bias
// from Uniform[0,1).
func NewNetwork(opts Options) (*Network, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	src := newSource(opts.Seed)
	net := &Network{
		opts: opts,
		layers: []*layer{
			newLayer(opts.HiddenCount, opts.InputCount, src),
			newLayer(opts.OutputCount, opts.HiddenCount, src),
		},
	}
	return net, nil
}

// Options returns the options the network was built with.
func (net *Network) Options() Options {
	return net.opts
}

func (net *Network) lastIndex() int {
	return len(net.layers) - 1
}

// Predict runs a forward pass and returns the output activations, each in (0,1).
// It overwrites the per-neuron outputs seen by Snapshot.
func (net *Network) Predict(input []float64) ([]float64, error) {
	if err := net.checkInput(input); err != nil {
		return nil, err
	}
	return vecData(net.feedForward(input)), nil
}

// TrainOne runs forward, backward and weight update for a single example and
// returns its squared error, measured before the update.
func (net *Network) TrainOne(input, target []float64) (float64, error) {
	if err := net.checkInput(input); err != nil {
		return 0, err
	}
	if err := net.checkTarget(target); err != nil {
		return 0, err
	}
	return net.trainOneSGD(input, target), nil
}

// FitOptions carries the optional hooks of Fit.
type FitOptions struct {
	// OnExample runs after every weight update, with the example's input. The next
	// example does not start until it returns. A non-nil error stops training.
	OnExample func(input []float64) error
	// OnEpoch reports the summed squared error of the epoch that just finished.
	OnEpoch func(epoch int, sumSquaredError float64)
}

// Fit runs Options.Epochs epochs over the examples, in order. All shapes are
// checked before the first update, so a mismatch leaves the network untouched.
// ctx is checked before each example.
func (net *Network) Fit(ctx context.Context, inputs, targets [][]float64, opts FitOptions) error {
	if err := net.checkExamples(inputs, targets); err != nil {
		return err
	}

	for epoch := 1; epoch <= net.opts.Epochs; epoch++ {
		sumError := 0.0
		for k := range inputs {
			if err := ctx.Err(); err != nil {
				return err
			}
			sumError += net.trainOneSGD(inputs[k], targets[k])
			if opts.OnExample != nil {
				if err := opts.OnExample(inputs[k]); err != nil {
					return fmt.Errorf("epoch %d, example %d: %w", epoch, k, err)
				}
			}
		}
		if opts.OnEpoch != nil {
			opts.OnEpoch(epoch, sumError)
		}
	}
	return nil
}

func (net *Network) trainOneSGD(input, target []float64) float64 {
	outputs := net.feedForward(input)
	errs := subtract(mat.NewVecDense(len(target), target), outputs)
	sumError := mat.Dot(errs, errs)
	net.backpropagate(errs)
	net.updateWeights(input)
	return sumError
}

func (net *Network) feedForward(input []float64) *mat.VecDense {
	var current mat.Vector = mat.NewVecDense(len(input), input)
	for _, l := range net.layers {
		sum := mat.NewVecDense(l.bias.Len(), nil)
		sum.MulVec(l.weights, current)
		sum.AddVec(sum, l.bias)
		l.output = apply(net.activator.Activate, sum)
		current = l.output
	}
	return net.layers[net.lastIndex()].output
}

// backpropagate fills every delta, last layer first. A layer's errors need all
// deltas of the layer after it, so no weight moves until this returns.
func (net *Network) backpropagate(outputErrors *mat.VecDense) {
	for i := net.lastIndex(); i >= 0; i-- {
		l := net.layers[i]
		errs := outputErrors
		if i != net.lastIndex() {
			next := net.layers[i+1]
			errs = mat.NewVecDense(l.bias.Len(), nil)
			errs.MulVec(next.weights.T(), next.delta)
		}
		l.delta = multiply(errs, net.activator.Deactivate(l.output))
	}
}

func (net *Network) updateWeights(input []float64) {
	lr := net.opts.LearningRate
	var layerInput mat.Vector = mat.NewVecDense(len(input), input)
	for i, l := range net.layers {
		if i > 0 {
			layerInput = net.layers[i-1].output
		}
		l.weights.RankOne(l.weights, lr, l.delta, layerInput)
		l.bias.AddScaledVec(l.bias, lr, l.delta)
	}
}

func (net *Network) checkInput(input []float64) error {
	if len(input) != net.opts.InputCount {
		return fmt.Errorf("%w: input has %d values, want %d", ErrShapeMismatch, len(input), net.opts.InputCount)
	}
	return nil
}

func (net *Network) checkTarget(target []float64) error {
	if len(target) != net.opts.OutputCount {
		return fmt.Errorf("%w: target has %d values, want %d", ErrShapeMismatch, len(target), net.opts.OutputCount)
	}
	return nil
}

func (net *Network) checkExamples(inputs, targets [][]float64) error {
	if len(inputs) != len(targets) {
		return fmt.Errorf("%w: %d inputs but %d targets", ErrShapeMismatch, len(inputs), len(targets))
	}
	for k := range inputs {
		if err := net.checkInput(inputs[k]); err != nil {
			return fmt.Errorf("example %d: %w", k, err)
		}
		if err := net.checkTarget(targets[k]); err != nil {
			return fmt.Errorf("example %d: %w", k, err)
		}
	}
	return nil
}
