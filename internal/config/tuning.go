package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gaitworks/stride.report/internal/metrics"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the analysis tuning parameters. All fields are
// optional pointers so a partial JSON file overrides only what it names;
// the Get* accessors supply the baked-in defaults for everything else.
type TuningConfig struct {
	// Signal preprocessing
	SmoothingWindow *int `json:"smoothing_window,omitempty"`

	// Gait event detection
	PeakMinProminence *float64 `json:"peak_min_prominence,omitempty"`
	PeakMinDistance   *int     `json:"peak_min_distance,omitempty"`

	// Contact/flight partitioning
	ContactBandFraction *float64 `json:"contact_band_fraction,omitempty"`

	// Minimum usable frame counts
	MinFrames       *int `json:"min_frames,omitempty"`
	MinFramesTiming *int `json:"min_frames_timing,omitempty"`

	// Anatomical-estimate fallbacks
	StrideHeightRatio *float64 `json:"stride_height_ratio,omitempty"`
	StepHeightRatio   *float64 `json:"step_height_ratio,omitempty"`

	// Frame validity
	MinFrameConfidence *float64 `json:"min_frame_confidence,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from a file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file must
// have a .json extension and stay under the max file size. Fields omitted
// from the JSON retain their defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from
// DefaultConfigPath. It searches for the file in the current directory and
// common parent directories. Panics if the file cannot be loaded, intended
// for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from cmd/tools/ packages
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that any set values are in range.
func (c *TuningConfig) Validate() error {
	if c.SmoothingWindow != nil && *c.SmoothingWindow < 3 {
		return fmt.Errorf("smoothing_window must be at least 3, got %d", *c.SmoothingWindow)
	}
	if c.PeakMinProminence != nil && *c.PeakMinProminence < 0 {
		return fmt.Errorf("peak_min_prominence must be non-negative, got %f", *c.PeakMinProminence)
	}
	if c.PeakMinDistance != nil && *c.PeakMinDistance < 1 {
		return fmt.Errorf("peak_min_distance must be at least 1, got %d", *c.PeakMinDistance)
	}
	if c.ContactBandFraction != nil {
		if *c.ContactBandFraction <= 0 || *c.ContactBandFraction >= 1 {
			return fmt.Errorf("contact_band_fraction must be in (0,1), got %f", *c.ContactBandFraction)
		}
	}
	if c.MinFrames != nil && *c.MinFrames < 0 {
		return fmt.Errorf("min_frames must be non-negative, got %d", *c.MinFrames)
	}
	if c.MinFramesTiming != nil && *c.MinFramesTiming < 0 {
		return fmt.Errorf("min_frames_timing must be non-negative, got %d", *c.MinFramesTiming)
	}
	if c.StrideHeightRatio != nil && *c.StrideHeightRatio <= 0 {
		return fmt.Errorf("stride_height_ratio must be positive, got %f", *c.StrideHeightRatio)
	}
	if c.StepHeightRatio != nil && *c.StepHeightRatio <= 0 {
		return fmt.Errorf("step_height_ratio must be positive, got %f", *c.StepHeightRatio)
	}
	if c.MinFrameConfidence != nil {
		if *c.MinFrameConfidence < 0 || *c.MinFrameConfidence > 1 {
			return fmt.Errorf("min_frame_confidence must be between 0 and 1, got %f", *c.MinFrameConfidence)
		}
	}
	return nil
}

// Params maps the tuning config onto the pipeline's parameter struct,
// starting from the analysis defaults.
func (c *TuningConfig) Params() metrics.Params {
	p := metrics.DefaultParams()
	if c.SmoothingWindow != nil {
		p.SmoothingWindow = *c.SmoothingWindow
	}
	if c.PeakMinProminence != nil {
		p.PeakMinProminence = *c.PeakMinProminence
	}
	if c.PeakMinDistance != nil {
		p.PeakMinDistance = *c.PeakMinDistance
	}
	if c.ContactBandFraction != nil {
		p.ContactBandFraction = *c.ContactBandFraction
	}
	if c.MinFrames != nil {
		p.MinFrames = *c.MinFrames
	}
	if c.MinFramesTiming != nil {
		p.MinFramesTiming = *c.MinFramesTiming
	}
	if c.StrideHeightRatio != nil {
		p.StrideHeightRatio = *c.StrideHeightRatio
	}
	if c.StepHeightRatio != nil {
		p.StepHeightRatio = *c.StepHeightRatio
	}
	return p
}

// GetMinFrameConfidence returns the min_frame_confidence value or the default.
func (c *TuningConfig) GetMinFrameConfidence() float64 {
	if c.MinFrameConfidence == nil {
		return 0.5
	}
	return *c.MinFrameConfidence
}
