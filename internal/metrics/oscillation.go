package metrics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/gaitworks/stride.report/internal/pose"
)

// HipVertical returns the smoothed vertical trace of the hip midpoint, in
// normalised scene units. Report rendering plots it alongside the ankle
// trajectories.
func HipVertical(seq []pose.FramePose, p Params) []float64 {
	hips := midTrack(
		landmarkTrack(seq, pose.LeftHip),
		landmarkTrack(seq, pose.RightHip),
	)
	return smoothSeries(component(hips, 1), p.SmoothingWindow)
}

// OscillationCalculator reports vertical oscillation as the standard
// deviation of the smoothed hip-center height, converted to meters.
type OscillationCalculator struct {
	Params Params
}

func (c *OscillationCalculator) Name() string { return "vertical_oscillation" }

func (c *OscillationCalculator) Compute(seq []pose.FramePose, calib Calibration) (Partial, error) {
	if len(seq) < c.Params.MinFrames || !calib.Hip.Valid {
		return Partial{VerticalOscillation: ptr(0.0)}, nil
	}

	ys := HipVertical(seq, c.Params)
	osc := calib.Hip.Apply(stat.PopStdDev(ys, nil))
	return Partial{VerticalOscillation: ptr(osc)}, nil
}
