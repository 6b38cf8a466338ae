package metrics

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/gaitworks/stride.report/internal/pose"
)

// Scale converts normalized scene units into meters. A Scale derived from a
// degenerate sequence (zero vertical range, or an invalid height) is marked
// invalid and must not be used; callers fall back to their documented
// defaults instead.
type Scale struct {
	MetersPerUnit float64
	Valid         bool
}

// Apply converts a normalized-unit measurement to meters, returning zero
// for an invalid scale.
func (s Scale) Apply(units float64) float64 {
	if !s.Valid {
		return 0
	}
	return units * s.MetersPerUnit
}

// Calibration holds the session's normalized-units-to-meters conversion,
// computed once per session and shared by every calculator that reports
// physical units. Hip-referenced and ankle-referenced scales are kept
// separately because the torso and the feet sweep different vertical
// extents over a gait cycle.
type Calibration struct {
	Hip   Scale
	Ankle Scale
}

// NewCalibration derives both scales from the runner's known height and the
// observed vertical range of the reference landmarks across the sequence.
func NewCalibration(seq []pose.FramePose, profile pose.RunnerProfile) Calibration {
	heightM := profile.HeightM()
	return Calibration{
		Hip:   referenceScale(seq, heightM, pose.LeftHip, pose.RightHip),
		Ankle: referenceScale(seq, heightM, pose.LeftAnkle, pose.RightAnkle),
	}
}

// referenceScale computes heightM divided by the mean vertical range of the
// left/right reference landmark tracks.
func referenceScale(seq []pose.FramePose, heightM float64, left, right pose.Landmark) Scale {
	if heightM <= 0 || len(seq) == 0 {
		return Scale{}
	}
	meanRange := (verticalRange(landmarkTrack(seq, left)) + verticalRange(landmarkTrack(seq, right))) / 2
	if meanRange <= 0 {
		return Scale{}
	}
	ratio := heightM / meanRange
	if math.IsInf(ratio, 0) || math.IsNaN(ratio) {
		return Scale{}
	}
	return Scale{MetersPerUnit: ratio, Valid: true}
}

func verticalRange(track []r3.Vector) float64 {
	if len(track) == 0 {
		return 0
	}
	minY := track[0].Y
	maxY := track[0].Y
	for _, v := range track[1:] {
		minY = math.Min(minY, v.Y)
		maxY = math.Max(maxY, v.Y)
	}
	return math.Abs(maxY - minY)
}
