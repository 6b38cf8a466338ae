// Package testutil provides shared test fixtures: synthetic pose sequences
// with known gait characteristics, and a canonical runner profile.
//
// The synthetic sequences drive both unit tests and the CLI demos, so their
// shape (antiphase sinusoidal ankle motion, steady forward hip drift) is
// deliberately simple enough to predict the resulting metrics.
package testutil

import (
	"math"

	"github.com/gaitworks/stride.report/internal/pose"
)

// Profile returns a canonical runner profile for tests.
func Profile() pose.RunnerProfile {
	return pose.RunnerProfile{
		Gender:   pose.GenderFemale,
		HeightCm: 170,
		Age:      32,
		Email:    "runner@example.com",
	}
}

// GaitOptions shapes a synthetic running sequence.
type GaitOptions struct {
	SampleRate   float64 // frames per second
	Duration     float64 // seconds
	StepHz       float64 // per-foot step frequency
	Amplitude    float64 // vertical ankle swing, normalized units
	ForwardSpeed float64 // hip drift per second along X, normalized units
	Visibility   float64 // landmark visibility for every point
}

// DefaultGaitOptions is a 10-second, 30 fps run with each foot striking
// twice per second.
func DefaultGaitOptions() GaitOptions {
	return GaitOptions{
		SampleRate:   30,
		Duration:     10,
		StepHz:       2,
		Amplitude:    0.05,
		ForwardSpeed: 0.08,
		Visibility:   0.95,
	}
}

// SyntheticRun builds a full-body pose sequence for a runner moving left to
// right: ankles oscillate vertically in antiphase at StepHz, hips bob at
// twice the step frequency, and the whole body drifts forward along X.
func SyntheticRun(opts GaitOptions) []pose.FramePose {
	frameCount := int(opts.SampleRate * opts.Duration)
	frames := make([]pose.FramePose, 0, frameCount)

	for i := 0; i < frameCount; i++ {
		ts := float64(i) / opts.SampleRate
		phase := 2 * math.Pi * opts.StepHz * ts
		x := 0.2 + opts.ForwardSpeed*ts

		landmarks := make([]pose.PoseLandmark, pose.LandmarkCount)
		for j := range landmarks {
			landmarks[j] = pose.PoseLandmark{X: x, Y: 0.5, Z: 0, Visibility: opts.Visibility}
		}

		set := func(l pose.Landmark, y, dx float64) {
			landmarks[l] = pose.PoseLandmark{X: x + dx, Y: y, Z: 0, Visibility: opts.Visibility}
		}

		// Torso bobs vertically twice per step cycle (once per footfall).
		torsoY := 0.012 * math.Sin(2*phase)
		set(pose.LeftShoulder, 0.30+torsoY, -0.02)
		set(pose.RightShoulder, 0.30+torsoY, 0.02)
		set(pose.LeftHip, 0.50+torsoY, -0.02)
		set(pose.RightHip, 0.50+torsoY, 0.02)

		set(pose.LeftKnee, 0.70, -0.02)
		set(pose.RightKnee, 0.70, 0.02)
		set(pose.LeftElbow, 0.40, -0.04)
		set(pose.RightElbow, 0.40, 0.04)
		set(pose.LeftWrist, 0.50, -0.05)
		set(pose.RightWrist, 0.50, 0.05)

		// Ankles swing in antiphase; the low point of each swing is the
		// ground contact.
		set(pose.LeftAnkle, 0.90+opts.Amplitude/2*math.Sin(phase), -0.02)
		set(pose.RightAnkle, 0.90+opts.Amplitude/2*math.Sin(phase+math.Pi), 0.02)

		frames = append(frames, pose.FramePose{
			FrameNumber: i,
			Timestamp:   ts,
			Landmarks:   landmarks,
			Confidence:  opts.Visibility,
		})
	}
	return frames
}

// StaticFrames builds n frames with every landmark pinned to the same
// position: zero vertical range, no gait events, degenerate calibration.
func StaticFrames(n int) []pose.FramePose {
	frames := make([]pose.FramePose, n)
	for i := range frames {
		landmarks := make([]pose.PoseLandmark, pose.LandmarkCount)
		for j := range landmarks {
			landmarks[j] = pose.PoseLandmark{X: 0.5, Y: 0.5, Z: 0, Visibility: 0.9}
		}
		frames[i] = pose.FramePose{
			FrameNumber: i,
			Timestamp:   float64(i) / 30,
			Landmarks:   landmarks,
			Confidence:  0.9,
		}
	}
	return frames
}

// TruncatedFrames builds n frames whose landmark slices stop short of the
// hip and ankle indices, exercising the missing-landmark paths.
func TruncatedFrames(n int) []pose.FramePose {
	frames := make([]pose.FramePose, n)
	for i := range frames {
		landmarks := make([]pose.PoseLandmark, 5)
		for j := range landmarks {
			landmarks[j] = pose.PoseLandmark{X: 0.5, Y: 0.5, Visibility: 0.9}
		}
		frames[i] = pose.FramePose{
			FrameNumber: i,
			Timestamp:   float64(i) / 30,
			Landmarks:   landmarks,
			Confidence:  0.9,
		}
	}
	return frames
}
