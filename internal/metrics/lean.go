package metrics

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/gaitworks/stride.report/internal/pose"
)

// LeanCalculator averages the trunk's angle from vertical across the
// session. The trunk vector runs from the hip center to the shoulder
// center; frames where either center cannot be formed are skipped.
type LeanCalculator struct {
	Params Params
}

func (c *LeanCalculator) Name() string { return "forward_lean" }

func (c *LeanCalculator) Compute(seq []pose.FramePose, _ Calibration) (Partial, error) {
	if len(seq) < c.Params.MinFrames {
		return Partial{ForwardLean: ptr(0.0)}, nil
	}

	var angles []float64
	for _, frame := range seq {
		shoulders, ok1 := landmarkPair(frame, pose.LeftShoulder, pose.RightShoulder)
		hips, ok2 := landmarkPair(frame, pose.LeftHip, pose.RightHip)
		if !ok1 || !ok2 {
			continue
		}
		trunk := shoulders.Sub(hips)
		if angle, ok := angleToVertical(trunk); ok {
			angles = append(angles, angle)
		}
	}

	if len(angles) == 0 {
		return Partial{ForwardLean: ptr(0.0)}, nil
	}
	return Partial{ForwardLean: ptr(stat.Mean(angles, nil))}, nil
}

// landmarkPair returns the midpoint of two landmarks in one frame, with
// ok=false when either index is missing.
func landmarkPair(frame pose.FramePose, a, b pose.Landmark) (r3.Vector, bool) {
	if int(a) >= len(frame.Landmarks) || int(b) >= len(frame.Landmarks) {
		return r3.Vector{}, false
	}
	la, lb := frame.Landmarks[a], frame.Landmarks[b]
	return r3.Vector{
		X: (la.X + lb.X) / 2,
		Y: (la.Y + lb.Y) / 2,
		Z: (la.Z + lb.Z) / 2,
	}, true
}
