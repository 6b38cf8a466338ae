package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gaitworks/stride.report/internal/pose"
)

// ErrMetricsExist is returned when inserting metrics for a session that
// already has a record: metrics are write-once per session.
var ErrMetricsExist = errors.New("metrics already recorded for session")

// MetricsRecord is a persisted RunningMetrics with its identity columns.
type MetricsRecord struct {
	MetricsID string              `json:"metrics_id"`
	SessionID string              `json:"session_id"`
	Metrics   pose.RunningMetrics `json:"metrics"`
	CreatedAt int64               `json:"created_at"`
}

// MetricsStore provides persistence for computed running metrics.
type MetricsStore struct {
	db *sql.DB
}

// NewMetricsStore creates a MetricsStore backed by the given database.
func NewMetricsStore(db *sql.DB) *MetricsStore {
	return &MetricsStore{db: db}
}

// Insert persists a session's metrics. If MetricsID is empty, a UUID is
// generated. Returns ErrMetricsExist if the session already has a record.
func (s *MetricsStore) Insert(rec *MetricsRecord) error {
	if rec.MetricsID == "" {
		rec.MetricsID = uuid.New().String()
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().UnixNano()
	}

	angles, err := json.Marshal(rec.Metrics.JointAngles)
	if err != nil {
		return fmt.Errorf("marshal joint angles: %w", err)
	}

	err = retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO running_metrics (
				metrics_id, session_id, cadence, speed, step_length, stride_length,
				ground_contact_time, flight_time, vertical_oscillation, forward_lean,
				left_right_symmetry, cog_x, cog_y, cog_z, joint_angles_json,
				measurement_method, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.MetricsID, rec.SessionID,
			rec.Metrics.Cadence, rec.Metrics.Speed,
			rec.Metrics.StepLength, rec.Metrics.StrideLength,
			rec.Metrics.GroundContactTime, rec.Metrics.FlightTime,
			rec.Metrics.VerticalOscillation, rec.Metrics.ForwardLean,
			rec.Metrics.LeftRightSymmetry,
			rec.Metrics.CenterOfGravity.X, rec.Metrics.CenterOfGravity.Y, rec.Metrics.CenterOfGravity.Z,
			string(angles), nullStr(string(rec.Metrics.MeasurementMethod)), rec.CreatedAt,
		)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("session %s: %w", rec.SessionID, ErrMetricsExist)
		}
		return fmt.Errorf("inserting metrics for session %s: %w", rec.SessionID, err)
	}
	return nil
}

// BySession returns the metrics record for one session, or ErrNotFound.
func (s *MetricsStore) BySession(sessionID string) (*MetricsRecord, error) {
	row := s.db.QueryRow(`
		SELECT metrics_id, session_id, cadence, speed, step_length, stride_length,
		       ground_contact_time, flight_time, vertical_oscillation, forward_lean,
		       left_right_symmetry, cog_x, cog_y, cog_z, joint_angles_json,
		       measurement_method, created_at
		FROM running_metrics WHERE session_id = ?`, sessionID)

	var rec MetricsRecord
	var angles string
	var method sql.NullString
	err := row.Scan(&rec.MetricsID, &rec.SessionID,
		&rec.Metrics.Cadence, &rec.Metrics.Speed,
		&rec.Metrics.StepLength, &rec.Metrics.StrideLength,
		&rec.Metrics.GroundContactTime, &rec.Metrics.FlightTime,
		&rec.Metrics.VerticalOscillation, &rec.Metrics.ForwardLean,
		&rec.Metrics.LeftRightSymmetry,
		&rec.Metrics.CenterOfGravity.X, &rec.Metrics.CenterOfGravity.Y, &rec.Metrics.CenterOfGravity.Z,
		&angles, &method, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan metrics: %w", err)
	}
	if err := json.Unmarshal([]byte(angles), &rec.Metrics.JointAngles); err != nil {
		return nil, fmt.Errorf("unmarshal joint angles: %w", err)
	}
	rec.Metrics.MeasurementMethod = pose.MeasurementMethod(method.String)
	return &rec, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
