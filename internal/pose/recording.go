package pose

import (
	"encoding/json"
	"fmt"
	"os"
)

// Recording is the on-disk pose-log format the command-line tools exchange:
// one runner profile plus the full frame sequence of a capture.
type Recording struct {
	Profile RunnerProfile `json:"profile"`
	Frames  []FramePose   `json:"frames"`
}

// LoadRecording reads and validates a pose-log JSON file.
func LoadRecording(path string) (*Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pose log: %w", err)
	}
	var rec Recording
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse pose log %s: %w", path, err)
	}
	if err := rec.Profile.Validate(); err != nil {
		return nil, fmt.Errorf("pose log %s: %w", path, err)
	}
	if len(rec.Frames) == 0 {
		return nil, fmt.Errorf("pose log %s: no frames", path)
	}
	for i, f := range rec.Frames {
		if len(f.Landmarks) != LandmarkCount {
			return nil, fmt.Errorf("pose log %s: frame %d has %d landmarks, want %d",
				path, i, len(f.Landmarks), LandmarkCount)
		}
	}
	return &rec, nil
}

// Save writes the recording as indented JSON.
func (r *Recording) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal pose log: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write pose log: %w", err)
	}
	return nil
}
