package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"ffnet/m"
)

// SnapshotVersion tags the JSON layout written by WriteSnapshot.
const SnapshotVersion = "1"

// SnapshotData is the document handed to external network viewers.
type SnapshotData struct {
	Version  string     `json:"version"`
	Topology []int      `json:"topology"`
	Network  m.Snapshot `json:"network"`
}

// WriteSnapshot encodes snap as indented JSON. It is a one-way export for
// viewers; nothing reads it back into a Network.
func WriteSnapshot(w io.Writer, snap m.Snapshot) error {
	data, err := json.MarshalIndent(SnapshotData{
		Version:  SnapshotVersion,
		Topology: snap.Topology(),
		Network:  snap,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// SaveSnapshot writes snap to a file, see WriteSnapshot.
func SaveSnapshot(path string, snap m.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	if err := WriteSnapshot(f, snap); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
