package pose

import (
	"encoding/json"
	"fmt"
)

// Frame is one observation from the pose collaborator.
// T is seconds since the stream started; Keypoints is nil when no person was detected.
type Frame struct {
	T         float64     `json:"t"`
	Keypoints KeypointSet `json:"keypoints"`
	Angles    AngleBundle `json:"angles"`
}

// Detected reports whether the frame carries a usable keypoint set.
func (f Frame) Detected() bool {
	return f.Keypoints.Valid()
}

// UnmarshalJSON accepts keypoints either as objects or as [x, y, confidence] triples,
// which is how most pose estimators dump them.
func (ks *KeypointSet) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*ks = nil
		return nil
	}

	var triples [][]float64
	if err := json.Unmarshal(data, &triples); err == nil {
		out := make(KeypointSet, 0, len(triples))
		for i, t := range triples {
			if len(t) != 3 {
				return fmt.Errorf("keypoint %d: expected [x, y, confidence], got %d values", i, len(t))
			}
			out = append(out, Keypoint{X: t[0], Y: t[1], Confidence: t[2]})
		}
		*ks = out
		return nil
	}

	var points []Keypoint
	if err := json.Unmarshal(data, &points); err != nil {
		return fmt.Errorf("unmarshal keypoints: %w", err)
	}
	*ks = points
	return nil
}
