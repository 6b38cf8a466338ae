// Command gen-poselog generates a synthetic pose-log recording for testing
// the analysis pipeline and server without camera footage.
package main

import (
	"flag"
	"log"

	"github.com/gaitworks/stride.report/internal/pose"
	"github.com/gaitworks/stride.report/internal/testutil"
)

func main() {
	output := flag.String("o", "sample_poselog.json", "output path")
	duration := flag.Float64("duration", 10, "run duration in seconds")
	sampleRate := flag.Float64("fps", 30, "frames per second")
	stepHz := flag.Float64("step-hz", 2.0, "steps per second per foot")
	heightCm := flag.Int("height", 170, "runner height in cm")
	flag.Parse()

	opts := testutil.DefaultGaitOptions()
	opts.Duration = *duration
	opts.SampleRate = *sampleRate
	opts.StepHz = *stepHz

	rec, err := buildRecording(opts, *heightCm)
	if err != nil {
		log.Fatalf("invalid profile: %v", err)
	}
	if err := rec.Save(*output); err != nil {
		log.Fatalf("failed to write pose log: %v", err)
	}
	log.Printf("✓ Created: %s (%d frames, %.0f fps, %.1f steps/s)",
		*output, len(rec.Frames), opts.SampleRate, opts.StepHz)
}

// buildRecording assembles a synthetic recording for a runner of the given
// height in whole centimetres.
func buildRecording(opts testutil.GaitOptions, heightCm int) (*pose.Recording, error) {
	profile := testutil.Profile()
	profile.HeightCm = heightCm
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &pose.Recording{
		Profile: profile,
		Frames:  testutil.SyntheticRun(opts),
	}, nil
}
