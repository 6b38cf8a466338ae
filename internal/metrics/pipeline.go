package metrics

import (
	"fmt"

	"github.com/gaitworks/stride.report/internal/monitoring"
	"github.com/gaitworks/stride.report/internal/pose"
)

// Calculator is one metric computation over a complete session. Compute
// must treat insufficient or degenerate input as a soft condition and
// return its documented defaults; it returns an error (or panics, which
// the pipeline converts to an error) only for genuinely unexpected
// failures. Calculators are pure functions of their inputs and may be
// invoked concurrently.
type Calculator interface {
	Name() string
	Compute(seq []pose.FramePose, calib Calibration) (Partial, error)
}

// Failure records why one calculator's contribution is missing from a run.
type Failure struct {
	Calculator string `json:"calculator"`
	Err        error  `json:"-"`
}

func (f Failure) Error() string {
	return fmt.Sprintf("calculator %s: %v", f.Calculator, f.Err)
}

// Pipeline runs a fixed, ordered list of calculators over one session and
// merges their partial results into a single immutable RunningMetrics.
type Pipeline struct {
	profile     pose.RunnerProfile
	params      Params
	calculators []Calculator
}

// NewPipeline builds the standard nine-calculator pipeline for a session.
func NewPipeline(profile pose.RunnerProfile, params Params) *Pipeline {
	return &Pipeline{
		profile: profile,
		params:  params,
		calculators: []Calculator{
			&CadenceCalculator{Params: params},
			&SpeedCalculator{Params: params},
			&StrideCalculator{Profile: profile, Params: params},
			&TimingCalculator{Params: params},
			&OscillationCalculator{Params: params},
			&LeanCalculator{Params: params},
			&SymmetryCalculator{Params: params},
			&GravityCalculator{},
			&JointAngleCalculator{},
		},
	}
}

// Calculators exposes the registered calculators, primarily for reporting.
func (p *Pipeline) Calculators() []Calculator { return p.calculators }

// Run executes every calculator over the sequence. A failing calculator is
// isolated: its error is recorded in the returned failures and its fields
// are backfilled with defaults, so one bad calculator never suppresses the
// other eight. The returned metrics always contain every field.
func (p *Pipeline) Run(seq []pose.FramePose) (pose.RunningMetrics, []Failure) {
	calib := NewCalibration(seq, p.profile)

	metrics := pose.RunningMetrics{JointAngles: map[string]float64{}}
	var failures []Failure
	for _, calc := range p.calculators {
		partial, err := compute(calc, seq, calib)
		if err != nil {
			failures = append(failures, Failure{Calculator: calc.Name(), Err: err})
			monitoring.Logf("metrics: calculator %s failed: %v", calc.Name(), err)
			continue
		}
		partial.mergeInto(&metrics)
	}
	return metrics, failures
}

// compute invokes one calculator, converting a panic into an error so a
// single miscomputing calculator cannot abort the run.
func compute(calc Calculator, seq []pose.FramePose, calib Calibration) (partial Partial, err error) {
	defer func() {
		if r := recover(); r != nil {
			partial = Partial{}
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return calc.Compute(seq, calib)
}
