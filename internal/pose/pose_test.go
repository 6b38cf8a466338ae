package pose

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() RunnerProfile {
	return RunnerProfile{Gender: GenderFemale, HeightCm: 170, Age: 32, Email: "runner@example.com"}
}

func TestRunnerProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RunnerProfile)
		wantErr string
	}{
		{"valid", func(p *RunnerProfile) {}, ""},
		{"valid without email", func(p *RunnerProfile) { p.Email = "" }, ""},
		{"unknown gender", func(p *RunnerProfile) { p.Gender = "robot" }, "invalid gender"},
		{"empty gender", func(p *RunnerProfile) { p.Gender = "" }, "invalid gender"},
		{"height too low", func(p *RunnerProfile) { p.HeightCm = 49 }, "height_cm"},
		{"height too high", func(p *RunnerProfile) { p.HeightCm = 231 }, "height_cm"},
		{"height lower bound", func(p *RunnerProfile) { p.HeightCm = 50 }, ""},
		{"height upper bound", func(p *RunnerProfile) { p.HeightCm = 230 }, ""},
		{"age too low", func(p *RunnerProfile) { p.Age = 9 }, "age"},
		{"age too high", func(p *RunnerProfile) { p.Age = 126 }, "age"},
		{"bad email", func(p *RunnerProfile) { p.Email = "not-an-address" }, "email"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := validProfile()
			tc.mutate(&p)
			err := p.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestHeightM(t *testing.T) {
	p := RunnerProfile{HeightCm: 183}
	assert.InDelta(t, 1.83, p.HeightM(), 1e-12)
}

func TestLandmarkNames(t *testing.T) {
	assert.Equal(t, "nose", Nose.String())
	assert.Equal(t, "left_ankle", LeftAnkle.String())
	assert.Equal(t, "right_foot_index", RightFootIndex.String())
	assert.Equal(t, 33, LandmarkCount)
	// Out-of-range values must not panic.
	assert.NotEmpty(t, Landmark(99).String())
}

func TestFrameConfidence(t *testing.T) {
	t.Run("empty landmarks", func(t *testing.T) {
		assert.Zero(t, FrameConfidence(nil))
	})

	t.Run("uniform visibility", func(t *testing.T) {
		landmarks := make([]PoseLandmark, LandmarkCount)
		for i := range landmarks {
			landmarks[i].Visibility = 0.8
		}
		assert.InDelta(t, 0.8, FrameConfidence(landmarks), 1e-12)
	})

	t.Run("only key landmarks count", func(t *testing.T) {
		landmarks := make([]PoseLandmark, LandmarkCount)
		// Perfect face visibility must not rescue a frame with
		// invisible hips and ankles.
		for i := Nose; i <= RightEar; i++ {
			landmarks[i].Visibility = 1.0
		}
		assert.Zero(t, FrameConfidence(landmarks))
	})

	t.Run("truncated landmark slice", func(t *testing.T) {
		landmarks := make([]PoseLandmark, 5)
		for i := range landmarks {
			landmarks[i].Visibility = 1.0
		}
		// Key landmarks all sit above index 5, so they score zero.
		assert.Zero(t, FrameConfidence(landmarks))
	})
}

func TestFilterUsable(t *testing.T) {
	mk := func(vis float64) FramePose {
		landmarks := make([]PoseLandmark, LandmarkCount)
		for i := range landmarks {
			landmarks[i].Visibility = vis
		}
		return FramePose{Landmarks: landmarks}
	}

	frames := []FramePose{mk(0.9), mk(0.2), mk(0.5), mk(0.49)}
	usable := FilterUsable(frames)
	require.Len(t, usable, 2)
	assert.InDelta(t, 0.9, usable[0].Landmarks[0].Visibility, 1e-12)
	assert.InDelta(t, 0.5, usable[1].Landmarks[0].Visibility, 1e-12)
}

func TestRunningMetricsJSON(t *testing.T) {
	m := RunningMetrics{
		Cadence:             178.2,
		Speed:               3.4,
		StepLength:          1.1,
		StrideLength:        2.2,
		GroundContactTime:   0.24,
		FlightTime:          0.09,
		VerticalOscillation: 0.075,
		ForwardLean:         6.1,
		LeftRightSymmetry:   0.97,
		CenterOfGravity:     Point3{X: 0.5, Y: 0.45, Z: 0.01},
		JointAngles:         map[string]float64{"left_knee": 158.2},
		MeasurementMethod:   MethodPoseAnalysis,
	}

	data, err := json.Marshal(m)
	require.NoError(t, err)
	// The wire names are the contract with stored records and clients.
	assert.Contains(t, string(data), `"ground_contact_time"`)
	assert.Contains(t, string(data), `"left_right_symmetry"`)
	assert.Contains(t, string(data), `"measurement_method":"pose_analysis"`)

	var back RunningMetrics
	require.NoError(t, json.Unmarshal(data, &back))
	if diff := cmp.Diff(m, back); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordingValidation(t *testing.T) {
	dir := t.TempDir()

	t.Run("round trip", func(t *testing.T) {
		landmarks := make([]PoseLandmark, LandmarkCount)
		rec := &Recording{
			Profile: validProfile(),
			Frames:  []FramePose{{FrameNumber: 0, Timestamp: 0, Landmarks: landmarks}},
		}
		path := dir + "/ok.json"
		require.NoError(t, rec.Save(path))
		back, err := LoadRecording(path)
		require.NoError(t, err)
		assert.Len(t, back.Frames, 1)
	})

	t.Run("rejects wrong landmark count", func(t *testing.T) {
		rec := &Recording{
			Profile: validProfile(),
			Frames:  []FramePose{{Landmarks: make([]PoseLandmark, 5)}},
		}
		path := dir + "/short.json"
		require.NoError(t, rec.Save(path))
		_, err := LoadRecording(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "landmarks")
	})

	t.Run("rejects empty frames", func(t *testing.T) {
		rec := &Recording{Profile: validProfile()}
		path := dir + "/empty.json"
		require.NoError(t, rec.Save(path))
		_, err := LoadRecording(path)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRecording(dir + "/nope.json")
		require.Error(t, err)
	})
}
