package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gaitworks/stride.report/internal/pose"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Session is one analysis session: a runner profile plus the processing
// lifecycle state of its pose data.
type Session struct {
	SessionID    string             `json:"session_id"`
	Profile      pose.RunnerProfile `json:"profile"`
	Status       pose.SessionStatus `json:"status"`
	ErrorMessage string             `json:"error_message,omitempty"`
	CreatedAt    int64              `json:"created_at"`
	UpdatedAt    int64              `json:"updated_at"`
}

// SessionStore provides persistence for analysis sessions.
type SessionStore struct {
	db *sql.DB
}

// NewSessionStore creates a SessionStore backed by the given database.
func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Insert persists a new session. If SessionID is empty, a UUID is generated.
func (s *SessionStore) Insert(sess *Session) error {
	if sess.SessionID == "" {
		sess.SessionID = uuid.New().String()
	}
	now := time.Now().UnixNano()
	if sess.CreatedAt == 0 {
		sess.CreatedAt = now
	}
	sess.UpdatedAt = now
	if sess.Status == "" {
		sess.Status = pose.StatusPending
	}

	err := retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO sessions (
				session_id, runner_gender, runner_height_cm, runner_age,
				runner_email, status, error_message, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sess.SessionID, string(sess.Profile.Gender), sess.Profile.HeightCm,
			sess.Profile.Age, nullStr(sess.Profile.Email), string(sess.Status),
			nullStr(sess.ErrorMessage), sess.CreatedAt, sess.UpdatedAt,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("inserting session %s: %w", sess.SessionID, err)
	}
	return nil
}

// Get returns one session by ID, or ErrNotFound.
func (s *SessionStore) Get(sessionID string) (*Session, error) {
	row := s.db.QueryRow(`
		SELECT session_id, runner_gender, runner_height_cm, runner_age,
		       runner_email, status, error_message, created_at, updated_at
		FROM sessions WHERE session_id = ?`, sessionID)
	return scanSession(row)
}

// List returns all sessions ordered by creation time descending.
func (s *SessionStore) List() ([]*Session, error) {
	rows, err := s.db.Query(`
		SELECT session_id, runner_gender, runner_height_cm, runner_age,
		       runner_email, status, error_message, created_at, updated_at
		FROM sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// SetStatus updates a session's lifecycle state. The error message is
// cleared unless the new status is failed.
func (s *SessionStore) SetStatus(sessionID string, status pose.SessionStatus, errMsg string) error {
	if status != pose.StatusFailed {
		errMsg = ""
	}
	err := retryOnBusy(func() error {
		res, err := s.db.Exec(`
			UPDATE sessions SET status = ?, error_message = ?, updated_at = ?
			WHERE session_id = ?`,
			string(status), nullStr(errMsg), time.Now().UnixNano(), sessionID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("updating session %s status: %w", sessionID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*Session, error) {
	var sess Session
	var gender, status string
	var email, errMsg sql.NullString
	err := row.Scan(&sess.SessionID, &gender, &sess.Profile.HeightCm,
		&sess.Profile.Age, &email, &status, &errMsg,
		&sess.CreatedAt, &sess.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	sess.Profile.Gender = pose.Gender(gender)
	sess.Profile.Email = email.String
	sess.Status = pose.SessionStatus(status)
	sess.ErrorMessage = errMsg.String
	return &sess, nil
}

func nullStr(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
