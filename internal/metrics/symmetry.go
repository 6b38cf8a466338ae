package metrics

import (
	"math"

	"github.com/gaitworks/stride.report/internal/pose"
)

// SymmetryCalculator scores left/right balance from the per-foot
// ground-contact counts: 1.0 means both feet struck equally often, 0 means
// entirely one-sided (or no events at all).
type SymmetryCalculator struct {
	Params Params
}

func (c *SymmetryCalculator) Name() string { return "symmetry" }

func (c *SymmetryCalculator) Compute(seq []pose.FramePose, _ Calibration) (Partial, error) {
	if len(seq) < c.Params.MinFramesTiming {
		return Partial{LeftRightSymmetry: ptr(0.0)}, nil
	}

	left := detectFootContacts(seq, pose.LeftAnkle, FootLeft, c.Params)
	right := detectFootContacts(seq, pose.RightAnkle, FootRight, c.Params)

	nl, nr := len(left.Events), len(right.Events)
	total := nl + nr
	if total == 0 {
		return Partial{LeftRightSymmetry: ptr(0.0)}, nil
	}

	score := 1.0 - math.Abs(float64(nl-nr))/float64(total)
	score = math.Max(0, score)
	return Partial{
		LeftRightSymmetry: ptr(score),
		LeftSteps:         ptr(nl),
		RightSteps:        ptr(nr),
	}, nil
}
