package metrics

import "github.com/gaitworks/stride.report/internal/pose"

// CadenceCalculator derives steps per minute from per-foot ground-contact
// events.
type CadenceCalculator struct {
	Params Params
}

func (c *CadenceCalculator) Name() string { return "cadence" }

func (c *CadenceCalculator) Compute(seq []pose.FramePose, _ Calibration) (Partial, error) {
	zero := Partial{Cadence: ptr(0.0), StepCount: ptr(0)}
	if len(seq) < c.Params.MinFrames {
		return zero, nil
	}
	totalTime := elapsed(seq)
	if totalTime <= 0 {
		return zero, nil
	}

	left := detectFootContacts(seq, pose.LeftAnkle, FootLeft, c.Params)
	right := detectFootContacts(seq, pose.RightAnkle, FootRight, c.Params)

	steps := len(left.Events) + len(right.Events)
	return Partial{
		Cadence:    ptr(float64(steps) / totalTime * 60),
		StepCount:  ptr(steps),
		LeftSteps:  ptr(len(left.Events)),
		RightSteps: ptr(len(right.Events)),
	}, nil
}
