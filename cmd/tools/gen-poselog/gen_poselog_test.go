package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaitworks/stride.report/internal/testutil"
)

func TestBuildRecording(t *testing.T) {
	t.Run("height flag flows into the profile", func(t *testing.T) {
		opts := testutil.DefaultGaitOptions()
		rec, err := buildRecording(opts, 185)
		require.NoError(t, err)
		assert.Equal(t, 185, rec.Profile.HeightCm)
		assert.InDelta(t, 1.85, rec.Profile.HeightM(), 1e-9)
		assert.Len(t, rec.Frames, int(opts.Duration*opts.SampleRate))
	})

	t.Run("out-of-range height is rejected", func(t *testing.T) {
		_, err := buildRecording(testutil.DefaultGaitOptions(), 300)
		require.Error(t, err)
	})
}
