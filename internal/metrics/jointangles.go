package metrics

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/gaitworks/stride.report/internal/pose"
)

// jointDef names a joint by the three landmarks forming it; the angle is
// measured at the middle vertex.
type jointDef struct {
	name    string
	a, v, b pose.Landmark
}

var trackedJoints = []jointDef{
	{"left_knee", pose.LeftHip, pose.LeftKnee, pose.LeftAnkle},
	{"right_knee", pose.RightHip, pose.RightKnee, pose.RightAnkle},
	{"left_elbow", pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist},
	{"right_elbow", pose.RightShoulder, pose.RightElbow, pose.RightWrist},
}

// JointAngleCalculator averages each tracked joint's angle over the
// session. A frame missing any of a joint's three landmarks is skipped for
// that joint only.
type JointAngleCalculator struct{}

func (c *JointAngleCalculator) Name() string { return "joint_angles" }

func (c *JointAngleCalculator) Compute(seq []pose.FramePose, _ Calibration) (Partial, error) {
	if len(seq) == 0 {
		return Partial{JointAngles: map[string]float64{}}, nil
	}

	series := make(map[string][]float64, len(trackedJoints))
	for _, frame := range seq {
		for _, joint := range trackedJoints {
			if int(joint.a) >= len(frame.Landmarks) ||
				int(joint.v) >= len(frame.Landmarks) ||
				int(joint.b) >= len(frame.Landmarks) {
				continue
			}
			angle := angleAtVertex(
				vec(frame.Landmarks[joint.a]),
				vec(frame.Landmarks[joint.v]),
				vec(frame.Landmarks[joint.b]),
			)
			series[joint.name] = append(series[joint.name], angle)
		}
	}

	angles := make(map[string]float64, len(trackedJoints))
	for _, joint := range trackedJoints {
		if s := series[joint.name]; len(s) > 0 {
			angles[joint.name] = stat.Mean(s, nil)
		} else {
			angles[joint.name] = 0
		}
	}
	return Partial{JointAngles: angles}, nil
}

func vec(lm pose.PoseLandmark) r3.Vector {
	return r3.Vector{X: lm.X, Y: lm.Y, Z: lm.Z}
}
