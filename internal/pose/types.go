// Package pose defines the domain types shared between the ingest API, the
// metrics pipeline, and persistence: per-frame landmark detections, the
// runner profile, and the computed session metrics.
package pose

import (
	"errors"
	"fmt"
	"strings"
)

// PoseLandmark is one detected anatomical point in normalized scene
// coordinates. Y grows downward (image convention). Visibility is the
// detector's confidence for this point, in [0,1].
type PoseLandmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// FramePose is one video frame's full detection result. Instances are
// created by the upstream detector and are read-only to the pipeline. A
// session's frames must be ordered by non-decreasing Timestamp; the
// pipeline assumes, but does not enforce, that contract.
type FramePose struct {
	FrameNumber int            `json:"frame_number"`
	Timestamp   float64        `json:"timestamp"` // seconds from session start
	Landmarks   []PoseLandmark `json:"landmarks"`
	Confidence  float64        `json:"confidence"`
}

// Gender of the runner, as supplied by the profile.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// RunnerProfile carries the per-session anthropometric data. It is used
// only for calibration and anatomical-estimate fallbacks.
type RunnerProfile struct {
	Gender   Gender `json:"gender"`
	HeightCm int    `json:"height_cm"`
	Age      int    `json:"age"`
	Email    string `json:"email,omitempty"`
}

// HeightM returns the runner's height in meters.
func (p RunnerProfile) HeightM() float64 { return float64(p.HeightCm) / 100.0 }

// Validate checks the profile against the same bounds the ingest API
// enforced in the original system.
func (p RunnerProfile) Validate() error {
	switch p.Gender {
	case GenderMale, GenderFemale, GenderOther:
	default:
		return fmt.Errorf("invalid gender %q", p.Gender)
	}
	if p.HeightCm < 50 || p.HeightCm > 230 {
		return fmt.Errorf("height_cm %d out of range [50,230]", p.HeightCm)
	}
	if p.Age < 10 || p.Age > 125 {
		return fmt.Errorf("age %d out of range [10,125]", p.Age)
	}
	if p.Email != "" && !strings.Contains(p.Email, "@") {
		return errors.New("invalid email address")
	}
	return nil
}

// Point3 is a 3-D point in the same normalized coordinates as the
// landmarks themselves.
type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// MeasurementMethod records how stride and step length were obtained.
type MeasurementMethod string

const (
	// MethodPoseAnalysis means lengths were measured from detected gait events.
	MethodPoseAnalysis MeasurementMethod = "pose_analysis"
	// MethodAnatomicalEstimate means too few gait events were detected and
	// lengths fell back to height-derived estimates.
	MethodAnatomicalEstimate MeasurementMethod = "anatomical_estimate"
)

// RunningMetrics is the pipeline's single output per session. A record is
// created exactly once per session and is immutable once persisted; a new
// computation produces a new record.
type RunningMetrics struct {
	Cadence             float64            `json:"cadence"`              // steps/min
	Speed               float64            `json:"speed"`                // m/s
	StepLength          float64            `json:"step_length"`          // m
	StrideLength        float64            `json:"stride_length"`        // m
	GroundContactTime   float64            `json:"ground_contact_time"`  // s
	FlightTime          float64            `json:"flight_time"`          // s
	VerticalOscillation float64            `json:"vertical_oscillation"` // m
	ForwardLean         float64            `json:"forward_lean"`         // degrees
	LeftRightSymmetry   float64            `json:"left_right_symmetry"`  // 0..1
	CenterOfGravity     Point3             `json:"center_of_gravity"`
	JointAngles         map[string]float64 `json:"joint_angles"`
	MeasurementMethod   MeasurementMethod  `json:"measurement_method,omitempty"`
}

// SessionStatus tracks a session through the processing lifecycle.
type SessionStatus string

const (
	StatusPending    SessionStatus = "pending"
	StatusProcessing SessionStatus = "processing"
	StatusCompleted  SessionStatus = "completed"
	StatusFailed     SessionStatus = "failed"
)
