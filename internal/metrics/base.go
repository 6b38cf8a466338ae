// Package metrics implements the gait-metrics extraction pipeline: nine
// independent calculators over a session's time-ordered landmark sequence,
// composed so that a failure in one never aborts the others.
package metrics

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pconstantinou/savitzkygolay"

	"github.com/gaitworks/stride.report/internal/pose"
)

// smoothSeries applies Savitzky-Golay smoothing (cubic fit) to a coordinate
// time series. Series shorter than the window are returned unchanged, as is
// the input when the filter cannot be constructed.
func smoothSeries(series []float64, window int) []float64 {
	if len(series) < window {
		return series
	}
	if window%2 == 0 {
		window++
	}
	if len(series) < window {
		return series
	}
	filter, err := savitzkygolay.NewFilter(window, 0, 3)
	if err != nil {
		return series
	}
	xs := make([]float64, len(series))
	for i := range xs {
		xs[i] = float64(i)
	}
	out, err := filter.Process(series, xs)
	if err != nil {
		return series
	}
	return out
}

// landmarkTrack projects a frame sequence into one landmark's position
// across all frames. Frames missing the index contribute a zero vector, so
// the result always has one entry per frame.
func landmarkTrack(seq []pose.FramePose, idx pose.Landmark) []r3.Vector {
	track := make([]r3.Vector, len(seq))
	for i, frame := range seq {
		if int(idx) < len(frame.Landmarks) {
			lm := frame.Landmarks[idx]
			track[i] = r3.Vector{X: lm.X, Y: lm.Y, Z: lm.Z}
		}
	}
	return track
}

// midTrack averages two tracks element-wise, e.g. to form the hip-center or
// shoulder-center trajectory. Both tracks must have equal length.
func midTrack(a, b []r3.Vector) []r3.Vector {
	mid := make([]r3.Vector, len(a))
	for i := range a {
		mid[i] = a[i].Add(b[i]).Mul(0.5)
	}
	return mid
}

// component extracts one axis of a track. Axis 0 is X, 1 is Y, 2 is Z.
func component(track []r3.Vector, axis int) []float64 {
	out := make([]float64, len(track))
	for i, v := range track {
		switch axis {
		case 0:
			out[i] = v.X
		case 1:
			out[i] = v.Y
		default:
			out[i] = v.Z
		}
	}
	return out
}

// smoothTrack smooths each axis of a track independently.
func smoothTrack(track []r3.Vector, window int) []r3.Vector {
	xs := smoothSeries(component(track, 0), window)
	ys := smoothSeries(component(track, 1), window)
	zs := smoothSeries(component(track, 2), window)
	out := make([]r3.Vector, len(track))
	for i := range out {
		out[i] = r3.Vector{X: xs[i], Y: ys[i], Z: zs[i]}
	}
	return out
}

// dist is the Euclidean distance between two points.
func dist(a, b r3.Vector) float64 {
	return a.Sub(b).Norm()
}

// angleAtVertex returns the angle in degrees at vertex between the rays
// vertex->a and vertex->b. The cosine is clamped to [-1,1] so that nearly
// collinear points cannot push it out of Acos's domain through floating
// point drift. Degenerate (zero-length) rays yield 0.
func angleAtVertex(a, vertex, b r3.Vector) float64 {
	v1 := a.Sub(vertex)
	v2 := b.Sub(vertex)
	n1 := v1.Norm()
	n2 := v2.Norm()
	if n1 == 0 || n2 == 0 {
		return 0
	}
	cos := v1.Dot(v2) / (n1 * n2)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// angleToVertical returns the angle in degrees between v and the upward
// vertical axis. Y grows downward in scene coordinates, so "up" is -Y.
func angleToVertical(v r3.Vector) (float64, bool) {
	n := v.Norm()
	if n == 0 {
		return 0, false
	}
	up := r3.Vector{X: 0, Y: -1, Z: 0}
	cos := v.Dot(up) / n
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi, true
}

// timestamps extracts the per-frame timestamps of a sequence.
func timestamps(seq []pose.FramePose) []float64 {
	ts := make([]float64, len(seq))
	for i, f := range seq {
		ts[i] = f.Timestamp
	}
	return ts
}

// elapsed returns the total duration covered by a sequence, zero for
// sequences of fewer than two frames.
func elapsed(seq []pose.FramePose) float64 {
	if len(seq) < 2 {
		return 0
	}
	return seq[len(seq)-1].Timestamp - seq[0].Timestamp
}
