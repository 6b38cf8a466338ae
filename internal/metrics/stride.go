package metrics

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/gaitworks/stride.report/internal/pose"
)

// StrideCalculator measures stride length (consecutive contacts of the same
// foot) and step length (chronologically adjacent contacts of alternating
// feet). When either foot yields fewer than two contacts the lengths fall
// back to anatomical estimates derived from the runner's height, reported
// via the measurement-method tag.
type StrideCalculator struct {
	Profile pose.RunnerProfile
	Params  Params
}

func (c *StrideCalculator) Name() string { return "stride" }

func (c *StrideCalculator) Compute(seq []pose.FramePose, calib Calibration) (Partial, error) {
	if len(seq) < c.Params.MinFramesTiming {
		return Partial{StrideLength: ptr(0.0), StepLength: ptr(0.0)}, nil
	}

	left := detectFootContacts(seq, pose.LeftAnkle, FootLeft, c.Params)
	right := detectFootContacts(seq, pose.RightAnkle, FootRight, c.Params)

	if len(left.Events) < 2 || len(right.Events) < 2 || !calib.Ankle.Valid {
		heightM := c.Profile.HeightM()
		return Partial{
			StrideLength:      ptr(heightM * c.Params.StrideHeightRatio),
			StepLength:        ptr(heightM * c.Params.StepHeightRatio),
			MeasurementMethod: ptr(pose.MethodAnatomicalEstimate),
		}, nil
	}

	strides := append(contactSpans(left), contactSpans(right)...)

	// Steps pair up alternating-foot neighbors on the combined timeline.
	events := mergeContacts(left, right)
	var steps []float64
	for i := 1; i < len(events); i++ {
		prev, cur := events[i-1], events[i]
		if prev.Foot == cur.Foot {
			continue
		}
		steps = append(steps, dist(contactPos(left, right, prev), contactPos(left, right, cur)))
	}

	var strideLen, stepLen float64
	if len(strides) > 0 {
		strideLen = calib.Ankle.Apply(stat.Mean(strides, nil))
	}
	if len(steps) > 0 {
		stepLen = calib.Ankle.Apply(stat.Mean(steps, nil))
	}

	return Partial{
		StrideLength:      ptr(strideLen),
		StepLength:        ptr(stepLen),
		MeasurementMethod: ptr(pose.MethodPoseAnalysis),
	}, nil
}

// contactSpans returns the distances between consecutive contacts of one
// foot, in normalized units.
func contactSpans(fc footContacts) []float64 {
	spans := make([]float64, 0, len(fc.Events))
	for i := 1; i < len(fc.Events); i++ {
		spans = append(spans, dist(fc.Track[fc.Events[i-1]], fc.Track[fc.Events[i]]))
	}
	return spans
}

func contactPos(left, right footContacts, ev gaitEvent) r3.Vector {
	if ev.Foot == FootLeft {
		return left.Track[ev.Frame]
	}
	return right.Track[ev.Frame]
}
