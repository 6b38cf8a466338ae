package metrics

import "github.com/gaitworks/stride.report/internal/pose"

// SpeedCalculator measures forward speed from the hip-center trajectory:
// frame-to-frame displacements are summed and converted to meters with the
// hip-referenced calibration scale.
type SpeedCalculator struct {
	Params Params
}

func (c *SpeedCalculator) Name() string { return "speed" }

func (c *SpeedCalculator) Compute(seq []pose.FramePose, calib Calibration) (Partial, error) {
	zero := Partial{Speed: ptr(0.0), Distance: ptr(0.0)}
	if len(seq) < c.Params.MinFrames {
		return zero, nil
	}
	totalTime := elapsed(seq)
	if totalTime <= 0 || !calib.Hip.Valid {
		return zero, nil
	}

	hips := midTrack(
		landmarkTrack(seq, pose.LeftHip),
		landmarkTrack(seq, pose.RightHip),
	)
	smooth := smoothTrack(hips, c.Params.SmoothingWindow)

	var units float64
	for i := 1; i < len(smooth); i++ {
		units += dist(smooth[i-1], smooth[i])
	}
	distance := calib.Hip.Apply(units)

	return Partial{
		Speed:    ptr(distance / totalTime),
		Distance: ptr(distance),
	}, nil
}
