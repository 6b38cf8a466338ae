package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaitworks/stride.report/internal/pose"
	"github.com/gaitworks/stride.report/internal/testutil"
)

func TestFindPeaks(t *testing.T) {
	t.Run("empty and tiny inputs", func(t *testing.T) {
		assert.Empty(t, findPeaks(nil, 0.01, 1))
		assert.Empty(t, findPeaks([]float64{1}, 0.01, 1))
		assert.Empty(t, findPeaks([]float64{1, 2}, 0.01, 1))
	})

	t.Run("monotone signal has no peaks", func(t *testing.T) {
		assert.Empty(t, findPeaks([]float64{1, 2, 3, 4, 5}, 0.01, 1))
	})

	t.Run("single peak", func(t *testing.T) {
		peaks := findPeaks([]float64{0, 1, 3, 1, 0}, 0.01, 1)
		assert.Equal(t, []int{2}, peaks)
	})

	t.Run("plateau collapses to its midpoint", func(t *testing.T) {
		peaks := findPeaks([]float64{0, 2, 2, 2, 0}, 0.01, 1)
		assert.Equal(t, []int{2}, peaks)
	})

	t.Run("prominence filters ripples", func(t *testing.T) {
		// A tall peak with a tiny shoulder bump beside it.
		xs := []float64{0, 5, 0.10, 0.11, 0.10, 0}
		peaks := findPeaks(xs, 0.5, 1)
		assert.Equal(t, []int{1}, peaks)
	})

	t.Run("min distance keeps the more prominent peak", func(t *testing.T) {
		xs := []float64{0, 3, 0.5, 5, 0}
		peaks := findPeaks(xs, 0.1, 5)
		assert.Equal(t, []int{3}, peaks)
	})

	t.Run("well separated peaks all survive", func(t *testing.T) {
		xs := make([]float64, 100)
		for i := range xs {
			xs[i] = math.Sin(2 * math.Pi * float64(i) / 20)
		}
		peaks := findPeaks(xs, 0.5, 5)
		require.Len(t, peaks, 5)
		for i := 1; i < len(peaks); i++ {
			assert.GreaterOrEqual(t, peaks[i]-peaks[i-1], 5)
		}
	})

	t.Run("result is ascending", func(t *testing.T) {
		xs := []float64{0, 1, 0, 4, 0, 2, 0, 3, 0}
		peaks := findPeaks(xs, 0.5, 1)
		assert.Equal(t, []int{1, 3, 5, 7}, peaks)
	})
}

func TestDetectFootContacts(t *testing.T) {
	opts := testutil.DefaultGaitOptions()
	seq := testutil.SyntheticRun(opts)
	p := DefaultParams()

	left := detectFootContacts(seq, pose.LeftAnkle, FootLeft, p)
	right := detectFootContacts(seq, pose.RightAnkle, FootRight, p)

	// Each foot strikes StepHz times per second for Duration seconds.
	wantPerFoot := int(opts.StepHz * opts.Duration)
	assert.InDelta(t, wantPerFoot, len(left.Events), 1)
	assert.InDelta(t, wantPerFoot, len(right.Events), 1)

	require.Len(t, left.Track, len(seq))

	// Antiphase feet must never strike on the same frame.
	rightSet := map[int]bool{}
	for _, f := range right.Events {
		rightSet[f] = true
	}
	for _, f := range left.Events {
		assert.Falsef(t, rightSet[f], "both feet grounded at frame %d", f)
	}
}

func TestDetectFootContactsStatic(t *testing.T) {
	fc := detectFootContacts(testutil.StaticFrames(60), pose.LeftAnkle, FootLeft, DefaultParams())
	assert.Empty(t, fc.Events)
}

func TestMergeContacts(t *testing.T) {
	left := footContacts{Foot: FootLeft, Events: []int{10, 40}}
	right := footContacts{Foot: FootRight, Events: []int{25, 55}}
	events := mergeContacts(left, right)
	require.Len(t, events, 4)
	assert.Equal(t, []gaitEvent{
		{Frame: 10, Foot: FootLeft},
		{Frame: 25, Foot: FootRight},
		{Frame: 40, Foot: FootLeft},
		{Frame: 55, Foot: FootRight},
	}, events)
}

func TestFootTrajectories(t *testing.T) {
	seq := testutil.SyntheticRun(testutil.DefaultGaitOptions())
	trs := FootTrajectories(seq, DefaultParams())

	assert.Equal(t, FootLeft, trs[0].Foot)
	assert.Equal(t, FootRight, trs[1].Foot)
	for _, tr := range trs {
		assert.Len(t, tr.Vertical, len(seq))
		assert.NotEmpty(t, tr.Contacts)
		for _, f := range tr.Contacts {
			assert.GreaterOrEqual(t, f, 0)
			assert.Less(t, f, len(seq))
		}
	}
}
