// Command analyze runs the gait metrics pipeline over a pose-log JSON file
// without a server, printing the computed metrics to stdout. With -server
// it instead uploads the recording to a running stride-report instance and
// triggers analysis there.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/gaitworks/stride.report/internal/config"
	"github.com/gaitworks/stride.report/internal/httputil"
	"github.com/gaitworks/stride.report/internal/metrics"
	"github.com/gaitworks/stride.report/internal/pose"
)

var (
	input      = flag.String("i", "", "input pose-log JSON file (required)")
	tuningFile = flag.String("tuning", "", "tuning config JSON (empty for defaults)")
	serverURL  = flag.String("server", "", "base URL of a stride-report server; uploads instead of running locally")
)

func main() {
	flag.Parse()
	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	rec, err := pose.LoadRecording(*input)
	if err != nil {
		log.Fatalf("failed to load pose log: %v", err)
	}

	tuning := config.EmptyTuningConfig()
	if *tuningFile != "" {
		tuning, err = config.LoadTuningConfig(*tuningFile)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
	}

	if *serverURL != "" {
		client := httputil.NewStandardClient(nil)
		result, err := upload(client, *serverURL, rec)
		if err != nil {
			log.Fatalf("upload failed: %v", err)
		}
		printJSON(result)
		return
	}

	usable := filterFrames(rec.Frames, tuning.GetMinFrameConfidence())
	log.Printf("%d/%d frames usable", len(usable), len(rec.Frames))

	pipeline := metrics.NewPipeline(rec.Profile, tuning.Params())
	result, failures := pipeline.Run(usable)
	for _, f := range failures {
		log.Printf("warning: %v", f)
	}
	printJSON(result)
}

func filterFrames(frames []pose.FramePose, threshold float64) []pose.FramePose {
	usable := make([]pose.FramePose, 0, len(frames))
	for _, f := range frames {
		if pose.FrameConfidence(f.Landmarks) >= threshold {
			usable = append(usable, f)
		}
	}
	return usable
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("failed to encode output: %v", err)
	}
}
