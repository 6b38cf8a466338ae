package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaitworks/stride.report/internal/db"
	"github.com/gaitworks/stride.report/internal/events"
	"github.com/gaitworks/stride.report/internal/pose"
	"github.com/gaitworks/stride.report/internal/testutil"
)

func newTestService(t *testing.T) *MetricsService {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "gait.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, database.MigrateUp())
	return New(database)
}

// capturePublisher records every published event.
type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *capturePublisher) byType(typ events.Type) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, ev := range p.events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func insertRun(t *testing.T, svc *MetricsService, frames []pose.FramePose) string {
	t.Helper()
	sess := &db.Session{Profile: testutil.Profile()}
	require.NoError(t, svc.DB.Sessions.Insert(sess))
	if len(frames) > 0 {
		require.NoError(t, svc.DB.Poses.InsertFrames(sess.SessionID, frames))
	}
	return sess.SessionID
}

func TestComputeMetrics(t *testing.T) {
	t.Run("full run produces and stores metrics", func(t *testing.T) {
		svc := newTestService(t)
		pub := &capturePublisher{}
		svc.Publisher = pub
		id := insertRun(t, svc, testutil.SyntheticRun(testutil.DefaultGaitOptions()))

		rec, err := svc.ComputeMetrics(context.Background(), id)
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.NotEmpty(t, rec.MetricsID)
		assert.Greater(t, rec.Metrics.Cadence, 0.0)
		assert.Equal(t, pose.MethodPoseAnalysis, rec.Metrics.MeasurementMethod)

		sess, err := svc.DB.Sessions.Get(id)
		require.NoError(t, err)
		assert.Equal(t, pose.StatusCompleted, sess.Status)
		assert.Empty(t, sess.ErrorMessage)

		stored, err := svc.DB.Metrics.BySession(id)
		require.NoError(t, err)
		assert.Equal(t, rec.MetricsID, stored.MetricsID)

		done := pub.byType(events.MetricsCalculated)
		require.Len(t, done, 1)
		assert.Equal(t, id, done[0].SessionID)
		assert.Equal(t, rec.MetricsID, done[0].Data["metrics_id"])
	})

	t.Run("unknown session is a hard error", func(t *testing.T) {
		svc := newTestService(t)
		_, err := svc.ComputeMetrics(context.Background(), "no-such-session")
		require.Error(t, err)
		assert.ErrorIs(t, err, db.ErrNotFound)
	})

	t.Run("session without pose data fails and is marked failed", func(t *testing.T) {
		svc := newTestService(t)
		pub := &capturePublisher{}
		svc.Publisher = pub
		id := insertRun(t, svc, nil)

		_, err := svc.ComputeMetrics(context.Background(), id)
		require.Error(t, err)

		sess, err := svc.DB.Sessions.Get(id)
		require.NoError(t, err)
		assert.Equal(t, pose.StatusFailed, sess.Status)
		assert.NotEmpty(t, sess.ErrorMessage)
		require.Len(t, pub.byType(events.ProcessingFailed), 1)
	})

	t.Run("metrics are write-once", func(t *testing.T) {
		svc := newTestService(t)
		id := insertRun(t, svc, testutil.SyntheticRun(testutil.DefaultGaitOptions()))

		_, err := svc.ComputeMetrics(context.Background(), id)
		require.NoError(t, err)

		// Re-running must refuse to overwrite the stored record.
		svc2 := &MetricsService{DB: svc.DB, Publisher: events.LogPublisher{}, Params: svc.Params}
		_, err = svc2.ComputeMetrics(context.Background(), id)
		require.Error(t, err)
		assert.ErrorIs(t, err, db.ErrMetricsExist)
	})

	t.Run("publisher errors do not fail a completed run", func(t *testing.T) {
		svc := newTestService(t)
		svc.Publisher = &capturePublisher{err: errors.New("broker down")}
		id := insertRun(t, svc, testutil.SyntheticRun(testutil.DefaultGaitOptions()))

		_, err := svc.ComputeMetrics(context.Background(), id)
		require.NoError(t, err)

		sess, err := svc.DB.Sessions.Get(id)
		require.NoError(t, err)
		assert.Equal(t, pose.StatusCompleted, sess.Status)
	})

	t.Run("degraded input still completes with defaults", func(t *testing.T) {
		svc := newTestService(t)
		id := insertRun(t, svc, testutil.StaticFrames(30))

		rec, err := svc.ComputeMetrics(context.Background(), id)
		require.NoError(t, err)
		assert.Zero(t, rec.Metrics.Cadence)
		assert.NotNil(t, rec.Metrics.JointAngles)
	})
}
