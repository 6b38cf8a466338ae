package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaitworks/stride.report/internal/pose"
	"github.com/gaitworks/stride.report/internal/testutil"
)

func TestNewCalibration(t *testing.T) {
	t.Run("moving sequence yields positive scales", func(t *testing.T) {
		seq := testutil.SyntheticRun(testutil.DefaultGaitOptions())
		calib := NewCalibration(seq, testutil.Profile())

		require.True(t, calib.Hip.Valid)
		require.True(t, calib.Ankle.Valid)
		assert.Greater(t, calib.Hip.MetersPerUnit, 0.0)
		assert.Greater(t, calib.Ankle.MetersPerUnit, 0.0)

		// The ankles sweep a wider vertical band than the hips, so the
		// hip-referenced scale must be the larger of the two.
		assert.Greater(t, calib.Hip.MetersPerUnit, calib.Ankle.MetersPerUnit)
	})

	t.Run("ankle scale matches the known swing", func(t *testing.T) {
		opts := testutil.DefaultGaitOptions()
		seq := testutil.SyntheticRun(opts)
		calib := NewCalibration(seq, testutil.Profile())

		// Each ankle sweeps close to the full swing amplitude; smoothing
		// is not applied to calibration, so the range is the raw sine
		// extent.
		want := testutil.Profile().HeightM() / opts.Amplitude
		assert.InDelta(t, want, calib.Ankle.MetersPerUnit, want*0.02)
	})

	t.Run("static sequence is invalid", func(t *testing.T) {
		calib := NewCalibration(testutil.StaticFrames(30), testutil.Profile())
		assert.False(t, calib.Hip.Valid)
		assert.False(t, calib.Ankle.Valid)
	})

	t.Run("missing landmarks are invalid", func(t *testing.T) {
		calib := NewCalibration(testutil.TruncatedFrames(30), testutil.Profile())
		assert.False(t, calib.Hip.Valid)
		assert.False(t, calib.Ankle.Valid)
	})

	t.Run("zero height is invalid", func(t *testing.T) {
		seq := testutil.SyntheticRun(testutil.DefaultGaitOptions())
		calib := NewCalibration(seq, pose.RunnerProfile{HeightCm: 0})
		assert.False(t, calib.Hip.Valid)
		assert.False(t, calib.Ankle.Valid)
	})

	t.Run("empty sequence is invalid", func(t *testing.T) {
		calib := NewCalibration(nil, testutil.Profile())
		assert.False(t, calib.Hip.Valid)
	})
}

func TestScaleApply(t *testing.T) {
	valid := Scale{MetersPerUnit: 2.5, Valid: true}
	assert.InDelta(t, 5.0, valid.Apply(2), 1e-12)

	invalid := Scale{MetersPerUnit: 2.5}
	assert.Zero(t, invalid.Apply(2))
}
