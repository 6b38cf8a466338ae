// Command gait-plot renders a pose-log recording as PNG charts: each
// ankle's vertical trajectory with detected ground contacts, and the hip
// midpoint trace. Useful for eyeballing event detection against footage.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/gaitworks/stride.report/internal/config"
	"github.com/gaitworks/stride.report/internal/metrics"
	"github.com/gaitworks/stride.report/internal/pose"
)

var (
	input      = flag.String("i", "", "input pose-log JSON file (required)")
	outputDir  = flag.String("o", ".", "output directory for PNG files")
	tuningFile = flag.String("tuning", "", "tuning config JSON (empty for defaults)")
)

var footColors = map[metrics.Foot]color.RGBA{
	metrics.FootLeft:  {R: 31, G: 119, B: 180, A: 255},
	metrics.FootRight: {R: 214, G: 39, B: 40, A: 255},
}

func main() {
	flag.Parse()
	if *input == "" {
		flag.Usage()
		log.Fatal("input pose log is required")
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
	params := tuning.Params()

	if err := plotFeet(rec.Frames, params, filepath.Join(*outputDir, "feet.png")); err != nil {
		log.Fatalf("failed to plot feet: %v", err)
	}
	if err := plotHip(rec.Frames, params, filepath.Join(*outputDir, "hip.png")); err != nil {
		log.Fatalf("failed to plot hip: %v", err)
	}
	log.Printf("✓ Plots written to %s", *outputDir)
}

// plotFeet draws both ankle trajectories with contact markers. The vertical
// axis is flipped by negating y so "up" in the plot is up in the scene.
func plotFeet(frames []pose.FramePose, params metrics.Params, path string) error {
	p := plot.New()
	p.Title.Text = "Ankle Vertical Trajectories"
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Height (normalised)"

	for _, tr := range metrics.FootTrajectories(frames, params) {
		pts := make(plotter.XYs, len(tr.Vertical))
		for i, y := range tr.Vertical {
			pts[i] = plotter.XY{X: float64(i), Y: -y}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = footColors[tr.Foot]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("%s ankle", tr.Foot), line)

		contacts := make(plotter.XYs, len(tr.Contacts))
		for i, f := range tr.Contacts {
			contacts[i] = plotter.XY{X: float64(f), Y: -tr.Vertical[f]}
		}
		scatter, err := plotter.NewScatter(contacts)
		if err != nil {
			return err
		}
		scatter.GlyphStyle.Color = footColors[tr.Foot]
		scatter.GlyphStyle.Radius = vg.Points(3)
		p.Add(scatter)
		p.Legend.Add(fmt.Sprintf("%s contacts", tr.Foot), scatter)
	}

	p.Legend.Top = true
	return p.Save(10*vg.Inch, 4*vg.Inch, path)
}

// plotHip draws the smoothed hip-midpoint height that vertical oscillation
// is computed from.
func plotHip(frames []pose.FramePose, params metrics.Params, path string) error {
	p := plot.New()
	p.Title.Text = "Hip Midpoint Height"
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Height (normalised)"

	ys := metrics.HipVertical(frames, params)
	pts := make(plotter.XYs, len(ys))
	for i, y := range ys {
		pts[i] = plotter.XY{X: float64(i), Y: -y}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	line.Width = vg.Points(1)
	p.Add(line)

	return p.Save(10*vg.Inch, 3*vg.Inch, path)
}
