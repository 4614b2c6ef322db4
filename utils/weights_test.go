package utils

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"ffnet/m"
)

func testSnapshot() m.Snapshot {
	return m.Snapshot{
		Inputs: 2,
		Layers: []m.LayerState{
			{Neurons: []m.NeuronState{
				{Weights: []float64{0.1, 0.2}, Bias: 0.3, Output: 0.6, Delta: -0.01},
				{Weights: []float64{0.4, 0.5}, Bias: 0.6, Output: 0.7, Delta: 0.02},
			}},
			{Neurons: []m.NeuronState{
				{Weights: []float64{0.7, 0.8}, Bias: 0.9, Output: 0.8, Delta: 0.03},
			}},
		},
	}
}

func TestWriteSnapshot(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, testSnapshot()); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	var doc SnapshotData
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if doc.Version != SnapshotVersion {
		t.Errorf("Version = %q, want %q", doc.Version, SnapshotVersion)
	}
	if len(doc.Topology) != 2 || doc.Topology[0] != 2 || doc.Topology[1] != 1 {
		t.Errorf("Topology = %v, want [2 1]", doc.Topology)
	}
	got := doc.Network.Layers[0].Neurons[1]
	if got.Bias != 0.6 || got.Delta != 0.02 || got.Weights[1] != 0.5 {
		t.Errorf("neuron mismatch: %+v", got)
	}
}

func TestSaveSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.json")
	if err := SaveSnapshot(path, testSnapshot()); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Contains(data, []byte(`"neurons"`)) {
		t.Errorf("unexpected file contents:\n%s", data)
	}

	if err := SaveSnapshot(filepath.Join(t.TempDir(), "missing", "net.json"), testSnapshot()); err == nil {
		t.Error("expected error for missing directory")
	}
}
