package metrics

import (
	"github.com/golang/geo/r3"

	"github.com/gaitworks/stride.report/internal/pose"
)

// cogLandmarks are the six key points averaged into the per-frame center
// of gravity proxy.
var cogLandmarks = []pose.Landmark{
	pose.LeftHip, pose.RightHip,
	pose.LeftShoulder, pose.RightShoulder,
	pose.LeftKnee, pose.RightKnee,
}

// GravityCalculator averages the key-landmark centroid of every frame into
// the session-level center of gravity, in normalized coordinates.
type GravityCalculator struct{}

func (c *GravityCalculator) Name() string { return "center_of_gravity" }

func (c *GravityCalculator) Compute(seq []pose.FramePose, _ Calibration) (Partial, error) {
	if len(seq) == 0 {
		return Partial{CenterOfGravity: &pose.Point3{}}, nil
	}

	var sum r3.Vector
	var frames int
	for _, frame := range seq {
		var centroid r3.Vector
		var n int
		for _, idx := range cogLandmarks {
			if int(idx) < len(frame.Landmarks) {
				lm := frame.Landmarks[idx]
				centroid = centroid.Add(r3.Vector{X: lm.X, Y: lm.Y, Z: lm.Z})
				n++
			}
		}
		if n > 0 {
			sum = sum.Add(centroid.Mul(1 / float64(n)))
			frames++
		}
	}

	if frames == 0 {
		return Partial{CenterOfGravity: &pose.Point3{}}, nil
	}
	mean := sum.Mul(1 / float64(frames))
	return Partial{CenterOfGravity: &pose.Point3{X: mean.X, Y: mean.Y, Z: mean.Z}}, nil
}
