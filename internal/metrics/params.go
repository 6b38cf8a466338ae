package metrics

// Params are the tunables of the analysis. Zero values are not meaningful;
// obtain a baseline from DefaultParams and override selectively (the
// config package maps its tuning file onto this struct).
type Params struct {
	// SmoothingWindow is the Savitzky-Golay window length in frames.
	SmoothingWindow int

	// PeakMinProminence is how far a ground-contact extremum must stand out
	// from its surroundings, in normalized units.
	PeakMinProminence float64

	// PeakMinDistance is the minimum spacing between gait events, in frames.
	PeakMinDistance int

	// ContactBandFraction is the fraction of a foot's vertical range above
	// its lowest point treated as ground contact when partitioning time
	// into contact and flight intervals.
	ContactBandFraction float64

	// MinFrames and MinFramesTiming are the minimum usable frame counts
	// below which calculators return their documented defaults.
	MinFrames       int
	MinFramesTiming int

	// StrideHeightRatio and StepHeightRatio are the anatomical-estimate
	// fallbacks applied when too few gait events were detected.
	StrideHeightRatio float64
	StepHeightRatio   float64
}

// DefaultParams returns the empirically chosen baseline.
func DefaultParams() Params {
	return Params{
		SmoothingWindow:     5,
		PeakMinProminence:   0.01,
		PeakMinDistance:     5,
		ContactBandFraction: 0.15,
		MinFrames:           10,
		MinFramesTiming:     20,
		StrideHeightRatio:   0.45,
		StepHeightRatio:     0.225,
	}
}
