package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaitworks/stride.report/internal/metrics"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuning.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadTuningConfig(t *testing.T) {
	t.Parallel()

	t.Run("partial config overrides only named fields", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, `{"smoothing_window": 9, "peak_min_distance": 3}`)

		cfg, err := LoadTuningConfig(path)
		require.NoError(t, err)

		p := cfg.Params()
		assert.Equal(t, 9, p.SmoothingWindow)
		assert.Equal(t, 3, p.PeakMinDistance)
		// Untouched fields keep the analysis defaults.
		defaults := metrics.DefaultParams()
		assert.Equal(t, defaults.PeakMinProminence, p.PeakMinProminence)
		assert.Equal(t, defaults.StrideHeightRatio, p.StrideHeightRatio)
	})

	t.Run("rejects non-json extension", func(t *testing.T) {
		t.Parallel()
		_, err := LoadTuningConfig("tuning.yaml")
		assert.Error(t, err)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, `{"smoothing_window": `)
		_, err := LoadTuningConfig(path)
		assert.Error(t, err)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		t.Parallel()
		_, err := LoadTuningConfig(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})
}

func TestTuningConfigValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		json    string
		wantErr bool
	}{
		{"defaults file shape", `{"smoothing_window":5,"contact_band_fraction":0.15}`, false},
		{"window too small", `{"smoothing_window":1}`, true},
		{"negative prominence", `{"peak_min_prominence":-0.5}`, true},
		{"zero peak distance", `{"peak_min_distance":0}`, true},
		{"band fraction out of range", `{"contact_band_fraction":1.5}`, true},
		{"confidence out of range", `{"min_frame_confidence":2}`, true},
		{"zero stride ratio", `{"stride_height_ratio":0}`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := writeConfig(t, tc.json)
			_, err := LoadTuningConfig(path)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEmptyTuningConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := EmptyTuningConfig()
	assert.Equal(t, metrics.DefaultParams(), cfg.Params())
	assert.Equal(t, 0.5, cfg.GetMinFrameConfidence())
}

func TestDefaultsFileMatchesAnalysisDefaults(t *testing.T) {
	t.Parallel()

	// The canonical defaults file must spell out exactly the baked-in
	// values, so editing it without touching the code (or vice versa)
	// fails here.
	cfg := MustLoadDefaultConfig()
	assert.Equal(t, metrics.DefaultParams(), cfg.Params())
	assert.Equal(t, 0.5, cfg.GetMinFrameConfidence())
}
