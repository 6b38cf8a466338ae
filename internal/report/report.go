// Package report renders a per-session gait summary as a self-contained
// HTML page: foot trajectories with detected ground contacts, the hip
// oscillation trace, and the computed metrics table.
package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/gaitworks/stride.report/internal/metrics"
	"github.com/gaitworks/stride.report/internal/pose"
)

// RenderSession writes the gait report for one session. The metrics
// argument may be nil when analysis has not run yet; the trajectory charts
// still render from raw pose data.
func RenderSession(w io.Writer, sessionID string, frames []pose.FramePose, m *pose.RunningMetrics) error {
	if len(frames) == 0 {
		return fmt.Errorf("session %s: no frames to render", sessionID)
	}

	page := components.NewPage()

	params := metrics.DefaultParams()
	page.AddCharts(
		footChart(sessionID, frames, params),
		oscillationChart(frames, params),
	)
	if m != nil {
		page.AddCharts(summaryChart(m))
	}

	return page.Render(w)
}

// footChart plots each ankle's smoothed vertical position per frame with
// markers at the detected ground contacts. The scene's y grows downward,
// so values are negated to put "up" at the top of the chart.
func footChart(sessionID string, frames []pose.FramePose, params metrics.Params) components.Charter {
	trajectories := metrics.FootTrajectories(frames, params)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1100px", Height: "450px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Foot Trajectories",
			Subtitle: fmt.Sprintf("session=%s frames=%d", sessionID, len(frames)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "frame"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "height (normalised)", Scale: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	line.SetXAxis(frameAxis(len(frames)))
	for _, tr := range trajectories {
		data := make([]opts.LineData, len(tr.Vertical))
		for i, y := range tr.Vertical {
			data[i] = opts.LineData{Value: -y}
		}
		markers := make([]opts.ScatterData, len(tr.Contacts))
		for i, f := range tr.Contacts {
			markers[i] = opts.ScatterData{Value: []interface{}{f, -tr.Vertical[f]}}
		}

		line.AddSeries(fmt.Sprintf("%s ankle", tr.Foot), data,
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

		scatter := charts.NewScatter()
		scatter.AddSeries(fmt.Sprintf("%s contacts", tr.Foot), markers,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}))
		line.Overlap(scatter)
	}
	return line
}

// oscillationChart plots the hip-midpoint vertical trace that vertical
// oscillation is derived from.
func oscillationChart(frames []pose.FramePose, params metrics.Params) components.Charter {
	ys := metrics.HipVertical(frames, params)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1100px", Height: "300px"}),
		charts.WithTitleOpts(opts.Title{Title: "Hip Vertical Oscillation"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "frame"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "height (normalised)", Scale: opts.Bool(true)}),
	)
	line.SetXAxis(frameAxis(len(frames)))

	data := make([]opts.LineData, len(ys))
	for i, y := range ys {
		data[i] = opts.LineData{Value: -y}
	}
	line.AddSeries("hip midpoint", data,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return line
}

// summaryChart shows the headline metrics as a bar chart so the report is
// readable without the JSON API.
func summaryChart(m *pose.RunningMetrics) components.Charter {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1100px", Height: "350px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Computed Metrics",
			Subtitle: fmt.Sprintf("method=%s", m.MeasurementMethod),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	labels := []string{
		"cadence (spm)", "speed (m/s)", "stride (m)", "step (m)",
		"contact (s)", "flight (s)", "osc (m)", "lean (deg)", "symmetry",
	}
	values := []float64{
		m.Cadence, m.Speed, m.StrideLength, m.StepLength,
		m.GroundContactTime, m.FlightTime, m.VerticalOscillation,
		m.ForwardLean, m.LeftRightSymmetry,
	}
	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Value: v}
	}

	bar.SetXAxis(labels)
	bar.AddSeries("metrics", data)
	return bar
}

func frameAxis(n int) []int {
	axis := make([]int, n)
	for i := range axis {
		axis[i] = i
	}
	return axis
}
