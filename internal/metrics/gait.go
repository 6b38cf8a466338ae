package metrics

import (
	"sort"

	"github.com/golang/geo/r3"

	"github.com/gaitworks/stride.report/internal/pose"
)

// Foot labels the side a gait event belongs to.
type Foot string

const (
	FootLeft  Foot = "left"
	FootRight Foot = "right"
)

// footContacts holds one foot's smoothed trajectory and the frame indices
// at which the foot was judged to touch the ground.
type footContacts struct {
	Foot   Foot
	Track  []r3.Vector // smoothed positions, one per frame
	Events []int       // frame indices of ground contacts, ascending
}

// detectFootContacts smooths a foot's trajectory and finds ground-contact
// events as local minima of the vertical coordinate: in scene coordinates y
// grows downward, so the contact extremum is where the negated signal
// peaks. Events closer together than p.PeakMinDistance frames collapse to
// the more prominent one.
func detectFootContacts(seq []pose.FramePose, foot pose.Landmark, side Foot, p Params) footContacts {
	track := smoothTrack(landmarkTrack(seq, foot), p.SmoothingWindow)
	neg := make([]float64, len(track))
	for i, v := range track {
		neg[i] = -v.Y
	}
	return footContacts{
		Foot:   side,
		Track:  track,
		Events: findPeaks(neg, p.PeakMinProminence, p.PeakMinDistance),
	}
}

// FootTrajectory is the externally visible view of one foot's smoothed
// vertical movement and detected ground contacts, used by report rendering.
type FootTrajectory struct {
	Foot     Foot
	Vertical []float64 // smoothed vertical coordinate, one per frame
	Contacts []int     // frame indices of ground contacts, ascending
}

// FootTrajectories runs contact detection on both ankles and returns the
// left and right trajectories in that order.
func FootTrajectories(seq []pose.FramePose, p Params) [2]FootTrajectory {
	var out [2]FootTrajectory
	for i, side := range []struct {
		landmark pose.Landmark
		foot     Foot
	}{
		{pose.LeftAnkle, FootLeft},
		{pose.RightAnkle, FootRight},
	} {
		fc := detectFootContacts(seq, side.landmark, side.foot, p)
		out[i] = FootTrajectory{
			Foot:     fc.Foot,
			Vertical: component(fc.Track, 1),
			Contacts: fc.Events,
		}
	}
	return out
}

// gaitEvent is one ground contact on the combined two-foot timeline.
type gaitEvent struct {
	Frame int
	Foot  Foot
}

// mergeContacts interleaves left and right contacts into one time-sorted
// event list.
func mergeContacts(left, right footContacts) []gaitEvent {
	events := make([]gaitEvent, 0, len(left.Events)+len(right.Events))
	for _, f := range left.Events {
		events = append(events, gaitEvent{Frame: f, Foot: FootLeft})
	}
	for _, f := range right.Events {
		events = append(events, gaitEvent{Frame: f, Foot: FootRight})
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Frame < events[j].Frame })
	return events
}

// findPeaks locates local maxima of xs with prominence of at least minProm,
// enforcing a minimum spacing of minDist samples. When two candidates fall
// within minDist of each other the more prominent one wins. Plateaus count
// as a single peak at their midpoint. The returned indices are ascending.
func findPeaks(xs []float64, minProm float64, minDist int) []int {
	type candidate struct {
		idx  int
		prom float64
	}
	var cands []candidate

	i := 1
	for i < len(xs)-1 {
		if xs[i] <= xs[i-1] {
			i++
			continue
		}
		// Walk any plateau to find where the signal turns.
		j := i
		for j < len(xs)-1 && xs[j+1] == xs[i] {
			j++
		}
		if j < len(xs)-1 && xs[j+1] < xs[i] {
			mid := (i + j) / 2
			if prom := prominence(xs, mid); prom >= minProm {
				cands = append(cands, candidate{idx: mid, prom: prom})
			}
		}
		i = j + 1
	}

	if minDist < 1 {
		minDist = 1
	}
	// Higher-prominence peaks claim their neighborhood first.
	sort.Slice(cands, func(a, b int) bool { return cands[a].prom > cands[b].prom })
	kept := make([]int, 0, len(cands))
	for _, c := range cands {
		ok := true
		for _, k := range kept {
			if abs(c.idx-k) < minDist {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, c.idx)
		}
	}
	sort.Ints(kept)
	return kept
}

// prominence measures how far the peak at idx rises above the higher of the
// lowest points separating it from taller terrain on each side.
func prominence(xs []float64, idx int) float64 {
	peak := xs[idx]

	leftMin := peak
	for i := idx - 1; i >= 0; i-- {
		if xs[i] > peak {
			break
		}
		if xs[i] < leftMin {
			leftMin = xs[i]
		}
	}

	rightMin := peak
	for i := idx + 1; i < len(xs); i++ {
		if xs[i] > peak {
			break
		}
		if xs[i] < rightMin {
			rightMin = xs[i]
		}
	}

	base := leftMin
	if rightMin > base {
		base = rightMin
	}
	return peak - base
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
