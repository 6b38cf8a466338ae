package metrics

import "github.com/gaitworks/stride.report/internal/pose"

// Partial is one calculator's contribution to the session metrics. Every
// field is optional: nil (or a nil map) means the calculator does not
// produce that field. The pipeline merges partials field-wise and backfills
// anything still unset with the documented defaults, so the final
// RunningMetrics always carries every field.
type Partial struct {
	Cadence    *float64
	StepCount  *int
	LeftSteps  *int
	RightSteps *int

	Speed    *float64
	Distance *float64

	StrideLength      *float64
	StepLength        *float64
	MeasurementMethod *pose.MeasurementMethod

	GroundContactTime  *float64
	FlightTime         *float64
	ContactFlightRatio *float64

	VerticalOscillation *float64
	ForwardLean         *float64
	LeftRightSymmetry   *float64

	CenterOfGravity *pose.Point3
	JointAngles     map[string]float64
}

func ptr[T any](v T) *T { return &v }

// mergeInto copies every set field of p onto the metrics record.
func (p Partial) mergeInto(m *pose.RunningMetrics) {
	if p.Cadence != nil {
		m.Cadence = *p.Cadence
	}
	if p.Speed != nil {
		m.Speed = *p.Speed
	}
	if p.StrideLength != nil {
		m.StrideLength = *p.StrideLength
	}
	if p.StepLength != nil {
		m.StepLength = *p.StepLength
	}
	if p.MeasurementMethod != nil {
		m.MeasurementMethod = *p.MeasurementMethod
	}
	if p.GroundContactTime != nil {
		m.GroundContactTime = *p.GroundContactTime
	}
	if p.FlightTime != nil {
		m.FlightTime = *p.FlightTime
	}
	if p.VerticalOscillation != nil {
		m.VerticalOscillation = *p.VerticalOscillation
	}
	if p.ForwardLean != nil {
		m.ForwardLean = *p.ForwardLean
	}
	if p.LeftRightSymmetry != nil {
		m.LeftRightSymmetry = *p.LeftRightSymmetry
	}
	if p.CenterOfGravity != nil {
		m.CenterOfGravity = *p.CenterOfGravity
	}
	if p.JointAngles != nil {
		m.JointAngles = p.JointAngles
	}
}
