package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/gaitworks/stride.report/internal/pose"
)

// TimingCalculator partitions the session timeline into ground-contact and
// flight intervals. A frame counts as contact when the foot's smoothed
// vertical coordinate sits within a configurable band above its lowest
// observed point; contact intervals are the maximal runs of such frames
// that contain a detected gait event, and flight intervals are the gaps
// between consecutive contact intervals on the combined two-foot timeline.
type TimingCalculator struct {
	Params Params
}

func (c *TimingCalculator) Name() string { return "timing" }

func (c *TimingCalculator) Compute(seq []pose.FramePose, _ Calibration) (Partial, error) {
	zero := Partial{
		GroundContactTime:  ptr(0.0),
		FlightTime:         ptr(0.0),
		ContactFlightRatio: ptr(0.0),
	}
	if len(seq) < c.Params.MinFramesTiming {
		return zero, nil
	}

	ts := timestamps(seq)
	left := detectFootContacts(seq, pose.LeftAnkle, FootLeft, c.Params)
	right := detectFootContacts(seq, pose.RightAnkle, FootRight, c.Params)

	intervals := append(
		contactIntervals(left, ts, c.Params.ContactBandFraction),
		contactIntervals(right, ts, c.Params.ContactBandFraction)...,
	)
	if len(intervals) == 0 {
		return zero, nil
	}
	sortIntervals(intervals)

	contacts := make([]float64, 0, len(intervals))
	for _, iv := range intervals {
		contacts = append(contacts, ts[iv.end]-ts[iv.start])
	}

	// Flight is the airborne gap between one contact ending and the next
	// (either foot) beginning.
	var flights []float64
	for i := 1; i < len(intervals); i++ {
		if gap := ts[intervals[i].start] - ts[intervals[i-1].end]; gap > 0 {
			flights = append(flights, gap)
		}
	}

	meanContact := stat.Mean(contacts, nil)
	var meanFlight float64
	if len(flights) > 0 {
		meanFlight = stat.Mean(flights, nil)
	}
	var ratio float64
	if meanFlight > 0 {
		ratio = meanContact / meanFlight
	}
	return Partial{
		GroundContactTime:  ptr(meanContact),
		FlightTime:         ptr(meanFlight),
		ContactFlightRatio: ptr(ratio),
	}, nil
}

type interval struct {
	start, end int // frame indices, inclusive
}

// contactIntervals finds, for one foot, the maximal frame runs whose
// vertical coordinate lies within band*(range) of the foot's lowest point
// and which contain at least one detected contact event. Runs without an
// event are detection jitter and are dropped.
func contactIntervals(fc footContacts, ts []float64, band float64) []interval {
	if len(fc.Events) == 0 {
		return nil
	}
	ys := component(fc.Track, 1)
	minY, maxY := ys[0], ys[0]
	for _, y := range ys[1:] {
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}
	if maxY <= minY {
		return nil
	}
	threshold := minY + band*(maxY-minY)

	// Lower y is closer to the ground in this coordinate convention.
	grounded := func(i int) bool { return ys[i] <= threshold }

	var out []interval
	i := 0
	for i < len(ys) {
		if !grounded(i) {
			i++
			continue
		}
		j := i
		for j+1 < len(ys) && grounded(j+1) {
			j++
		}
		run := interval{start: i, end: j}
		for _, ev := range fc.Events {
			if ev >= run.start && ev <= run.end {
				out = append(out, run)
				break
			}
		}
		i = j + 1
	}
	return out
}

func sortIntervals(ivs []interval) {
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].start < ivs[j].start })
}
