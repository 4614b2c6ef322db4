package m

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotIsDetached(t *testing.T) {
	net := newTestNetwork(t, Options{InputCount: 2, HiddenCount: 3, OutputCount: 2, LearningRate: 0.5, Epochs: 1, Seed: 4})

	_, err := net.Predict([]float64{0.1, 0.9})
	require.NoError(t, err)
	snap := net.Snapshot()
	kept := net.Snapshot()

	// scribbling on a snapshot does not reach the network
	snap.Layers[0].Neurons[0].Weights[0] = 42
	assert.Equal(t, kept, net.Snapshot())

	// training does not reach an older snapshot
	_, err = net.TrainOne([]float64{0.1, 0.9}, []float64{1, 0})
	require.NoError(t, err)
	assert.NotEqual(t, kept, net.Snapshot())
	assert.NotEqual(t, 42.0, kept.Layers[0].Neurons[0].Weights[0])
}

func TestSnapshotTopology(t *testing.T) {
	net := newTestNetwork(t, Options{InputCount: 3, HiddenCount: 5, OutputCount: 2, LearningRate: 0.5, Epochs: 1})
	assert.Equal(t, []int{5, 2}, net.Snapshot().Topology())
	assert.Equal(t, net.Topology(), net.Snapshot().Topology())
}

func TestSnapshotTransientValues(t *testing.T) {
	net := newTestNetwork(t, Options{InputCount: 1, HiddenCount: 2, OutputCount: 1, LearningRate: 0.5, Epochs: 1})

	for _, l := range net.Snapshot().Layers {
		for _, n := range l.Neurons {
			assert.Zero(t, n.Output)
			assert.Zero(t, n.Delta)
		}
	}

	_, err := net.TrainOne([]float64{1}, []float64{0})
	require.NoError(t, err)
	for _, l := range net.Snapshot().Layers {
		for _, n := range l.Neurons {
			assert.Greater(t, n.Output, 0.0)
			assert.Less(t, n.Delta, 0.0)
		}
	}
}
