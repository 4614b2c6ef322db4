package m

// NeuronState is a copy of one neuron's parameters and the transient values of
// the last forward (Output) and backward (Delta) pass. Output and Delta are zero
// until the network has run the corresponding pass.
type NeuronState struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
	Output  float64   `json:"output"`
	Delta   float64   `json:"delta"`
}

// LayerState is one layer of a Snapshot, neurons in order.
type LayerState struct {
	Neurons []NeuronState `json:"neurons"`
}

// Snapshot is a detached, read-only view of a Network. Nothing in it aliases the
// live network, so it stays valid across later Predict and Fit calls.
type Snapshot struct {
	Inputs int          `json:"inputs"`
	Layers []LayerState `json:"layers"`
}

// Topology returns the neuron count of every layer, hidden first.
func (s Snapshot) Topology() []int {
	widths := make([]int, len(s.Layers))
	for i, l := range s.Layers {
		widths[i] = len(l.Neurons)
	}
	return widths
}

// Topology returns the neuron count of every layer, hidden first.
func (net *Network) Topology() []int {
	widths := make([]int, len(net.layers))
	for i, l := range net.layers {
		widths[i] = l.bias.Len()
	}
	return widths
}

// Snapshot copies the current state of every neuron.
func (net *Network) Snapshot() Snapshot {
	snap := Snapshot{
		Inputs: net.opts.InputCount,
		Layers: make([]LayerState, len(net.layers)),
	}
	for i, l := range net.layers {
		neurons := make([]NeuronState, l.bias.Len())
		for j := range neurons {
			neurons[j] = NeuronState{
				Weights: rowOf(l.weights, j),
				Bias:    l.bias.AtVec(j),
				Output:  l.output.AtVec(j),
				Delta:   l.delta.AtVec(j),
			}
		}
		snap.Layers[i] = LayerState{Neurons: neurons}
	}
	return snap
}
