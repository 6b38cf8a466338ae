// Package service coordinates a session's metrics computation: fetch the
// stored pose sequence and runner profile, run the calculator pipeline,
// persist the result, and signal completion. Failures in fetch, persist,
// or status updates are hard errors; failures inside the pipeline are soft
// and surface only as defaulted metric fields.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gaitworks/stride.report/internal/db"
	"github.com/gaitworks/stride.report/internal/events"
	"github.com/gaitworks/stride.report/internal/metrics"
	"github.com/gaitworks/stride.report/internal/monitoring"
	"github.com/gaitworks/stride.report/internal/pose"
)

var (
	pipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gait",
		Name:      "pipeline_runs_total",
		Help:      "Metrics pipeline executions by outcome.",
	}, []string{"outcome"})

	calculatorFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gait",
		Name:      "calculator_failures_total",
		Help:      "Individual calculator failures by calculator name.",
	}, []string{"calculator"})

	pipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gait",
		Name:      "pipeline_duration_seconds",
		Help:      "Wall-clock duration of one pipeline run.",
		Buckets:   prometheus.DefBuckets,
	})
)

// MetricsService runs the pipeline for stored sessions.
type MetricsService struct {
	DB        *db.DB
	Publisher events.Publisher
	Params    metrics.Params
	// MinFrameConfidence overrides the frame validity threshold; zero
	// means the package default.
	MinFrameConfidence float64
}

// New builds a service over the given database with default tuning and a
// log-only publisher.
func New(database *db.DB) *MetricsService {
	return &MetricsService{
		DB:        database,
		Publisher: events.LogPublisher{},
		Params:    metrics.DefaultParams(),
	}
}

// ComputeMetrics fetches a session's pose data, runs the pipeline, persists
// the resulting metrics, marks the session completed, and publishes a
// completion event. Metrics are write-once: recomputing a session that
// already has a record fails with db.ErrMetricsExist.
func (s *MetricsService) ComputeMetrics(ctx context.Context, sessionID string) (*db.MetricsRecord, error) {
	sess, err := s.DB.Sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("fetch session %s: %w", sessionID, err)
	}

	if _, err := s.DB.Metrics.BySession(sessionID); err == nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, db.ErrMetricsExist)
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("check existing metrics: %w", err)
	}

	frames, err := s.DB.Poses.FramesBySession(sessionID)
	if err != nil {
		return nil, s.fail(ctx, sessionID, fmt.Errorf("fetch pose frames: %w", err))
	}
	if len(frames) == 0 {
		return nil, s.fail(ctx, sessionID, errors.New("session has no pose data"))
	}

	usable := s.filterFrames(frames)
	monitoring.Logf("service: session %s: %d/%d frames usable", sessionID, len(usable), len(frames))

	if err := s.DB.Sessions.SetStatus(sessionID, pose.StatusProcessing, ""); err != nil {
		return nil, fmt.Errorf("mark session processing: %w", err)
	}

	start := time.Now()
	pipeline := metrics.NewPipeline(sess.Profile, s.Params)
	result, failures := pipeline.Run(usable)
	pipelineDuration.Observe(time.Since(start).Seconds())

	if len(failures) == 0 {
		pipelineRuns.WithLabelValues("clean").Inc()
	} else {
		pipelineRuns.WithLabelValues("degraded").Inc()
		for _, f := range failures {
			calculatorFailures.WithLabelValues(f.Calculator).Inc()
		}
	}

	rec := &db.MetricsRecord{SessionID: sessionID, Metrics: result}
	if err := s.DB.Metrics.Insert(rec); err != nil {
		// A write-once refusal means the session already has good
		// metrics; do not flip its status to failed over a re-run.
		if errors.Is(err, db.ErrMetricsExist) {
			return nil, err
		}
		return nil, s.fail(ctx, sessionID, fmt.Errorf("persist metrics: %w", err))
	}

	if err := s.DB.Sessions.SetStatus(sessionID, pose.StatusCompleted, ""); err != nil {
		return nil, fmt.Errorf("mark session completed: %w", err)
	}

	s.publish(ctx, events.New(events.MetricsCalculated, sessionID, map[string]interface{}{
		"metrics_id":     rec.MetricsID,
		"usable_frames":  len(usable),
		"total_frames":   len(frames),
		"failed_metrics": failureNames(failures),
	}))

	monitoring.Logf("service: metrics calculated and stored for session %s", sessionID)
	return rec, nil
}

// filterFrames applies the landmark validity filter with the configured
// threshold.
func (s *MetricsService) filterFrames(frames []pose.FramePose) []pose.FramePose {
	threshold := s.MinFrameConfidence
	if threshold <= 0 {
		threshold = pose.MinFrameConfidence
	}
	usable := make([]pose.FramePose, 0, len(frames))
	for _, f := range frames {
		if pose.FrameConfidence(f.Landmarks) >= threshold {
			usable = append(usable, f)
		}
	}
	return usable
}

// fail marks the session failed and publishes a failure event before
// returning the original error.
func (s *MetricsService) fail(ctx context.Context, sessionID string, cause error) error {
	if err := s.DB.Sessions.SetStatus(sessionID, pose.StatusFailed, cause.Error()); err != nil {
		monitoring.Logf("service: could not mark session %s failed: %v", sessionID, err)
	}
	s.publish(ctx, events.New(events.ProcessingFailed, sessionID, map[string]interface{}{
		"error": cause.Error(),
	}))
	return cause
}

// publish sends an event, logging instead of failing when the publisher
// rejects it: notification problems must not undo a completed computation.
func (s *MetricsService) publish(ctx context.Context, ev events.Event) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.Publish(ctx, ev); err != nil {
		monitoring.Logf("service: failed to publish %s for session %s: %v", ev.Type, ev.SessionID, err)
	}
}

func failureNames(failures []metrics.Failure) []string {
	names := make([]string, 0, len(failures))
	for _, f := range failures {
		names = append(names, f.Calculator)
	}
	return names
}
