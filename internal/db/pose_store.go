package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/gaitworks/stride.report/internal/pose"
)

// PoseStore provides persistence for per-frame landmark detections.
// Landmarks are stored as a JSON array per frame: the pipeline always reads
// a session's frames as a whole, so there is nothing to gain from exploding
// 33 points per frame into relational rows.
type PoseStore struct {
	db *sql.DB
}

// NewPoseStore creates a PoseStore backed by the given database.
func NewPoseStore(db *sql.DB) *PoseStore {
	return &PoseStore{db: db}
}

// InsertFrames bulk-inserts a batch of frames for a session inside one
// transaction. Re-inserting an existing frame number is an error.
func (s *PoseStore) InsertFrames(sessionID string, frames []pose.FramePose) error {
	if len(frames) == 0 {
		return nil
	}
	err := retryOnBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		stmt, err := tx.Prepare(`
			INSERT INTO pose_frames (session_id, frame_number, timestamp, confidence, landmarks_json)
			VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, frame := range frames {
			landmarks, err := json.Marshal(frame.Landmarks)
			if err != nil {
				return fmt.Errorf("marshal landmarks for frame %d: %w", frame.FrameNumber, err)
			}
			if _, err := stmt.Exec(sessionID, frame.FrameNumber, frame.Timestamp,
				frame.Confidence, string(landmarks)); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return fmt.Errorf("inserting %d frames for session %s: %w", len(frames), sessionID, err)
	}
	return nil
}

// FramesBySession returns a session's frames ordered by timestamp, then
// frame number. An unknown session yields an empty slice, not an error.
func (s *PoseStore) FramesBySession(sessionID string) ([]pose.FramePose, error) {
	rows, err := s.db.Query(`
		SELECT frame_number, timestamp, confidence, landmarks_json
		FROM pose_frames WHERE session_id = ?
		ORDER BY timestamp, frame_number`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query pose frames: %w", err)
	}
	defer rows.Close()

	var frames []pose.FramePose
	for rows.Next() {
		var frame pose.FramePose
		var landmarks string
		if err := rows.Scan(&frame.FrameNumber, &frame.Timestamp,
			&frame.Confidence, &landmarks); err != nil {
			return nil, fmt.Errorf("scan pose frame: %w", err)
		}
		if err := json.Unmarshal([]byte(landmarks), &frame.Landmarks); err != nil {
			return nil, fmt.Errorf("unmarshal landmarks for frame %d: %w", frame.FrameNumber, err)
		}
		frames = append(frames, frame)
	}
	return frames, rows.Err()
}

// CountFrames returns how many frames a session has.
func (s *PoseStore) CountFrames(sessionID string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM pose_frames WHERE session_id = ?`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pose frames: %w", err)
	}
	return n, nil
}
