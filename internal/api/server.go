// Package api exposes the HTTP surface for gait analysis sessions: profile
// registration, pose-frame ingest, triggering the metrics pipeline, and
// reading back results.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gaitworks/stride.report/internal/db"
	"github.com/gaitworks/stride.report/internal/events"
	"github.com/gaitworks/stride.report/internal/httputil"
	"github.com/gaitworks/stride.report/internal/pose"
	"github.com/gaitworks/stride.report/internal/report"
	"github.com/gaitworks/stride.report/internal/service"
	"github.com/gaitworks/stride.report/internal/units"
	"github.com/gaitworks/stride.report/internal/version"
)

// ANSI escape codes for request logging
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// maxIngestBytes caps a single pose-frame upload. A ten-minute clip at
// 30 fps with 33 landmarks serialises well under this.
const maxIngestBytes = 64 << 20

type Server struct {
	db        *db.DB
	svc       *service.MetricsService
	publisher events.Publisher
}

func NewServer(database *db.DB, svc *service.MetricsService, publisher events.Publisher) *Server {
	if publisher == nil {
		publisher = events.LogPublisher{}
	}
	return &Server{db: database, svc: svc, publisher: publisher}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.healthz)
	mux.HandleFunc("/api/sessions", s.sessionsCollection)
	mux.HandleFunc("/api/sessions/", s.sessionSubtree)
	return mux
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, map[string]string{
		"status":  "ok",
		"version": version.Version,
		"git_sha": version.GitSHA,
	})
}

func (s *Server) sessionsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createSession(w, r)
	case http.MethodGet:
		s.listSessions(w, r)
	default:
		httputil.MethodNotAllowed(w)
	}
}

// sessionSubtree dispatches /api/sessions/{id}[/poses|/analyze|/metrics|/report].
func (s *Server) sessionSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	parts := strings.SplitN(rest, "/", 2)
	id := parts[0]
	if id == "" {
		httputil.NotFound(w, "missing session id")
		return
	}

	action := ""
	if len(parts) == 2 {
		action = strings.TrimSuffix(parts[1], "/")
	}

	switch action {
	case "":
		s.getSession(w, r, id)
	case "poses":
		s.ingestPoses(w, r, id)
	case "analyze":
		s.analyzeSession(w, r, id)
	case "metrics":
		s.getMetrics(w, r, id)
	case "report":
		s.renderReport(w, r, id)
	default:
		httputil.NotFound(w, fmt.Sprintf("unknown resource %q", action))
	}
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var profile pose.RunnerProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("invalid profile body: %v", err))
		return
	}
	if err := profile.Validate(); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	sess := &db.Session{Profile: profile}
	if err := s.db.Sessions.Insert(sess); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to create session: %v", err))
		return
	}

	s.publish(r.Context(), events.New(events.SessionCreated, sess.SessionID, nil))
	httputil.WriteJSON(w, http.StatusCreated, sess)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.db.Sessions.List()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to list sessions: %v", err))
		return
	}
	if sessions == nil {
		sessions = []*db.Session{}
	}
	httputil.WriteJSONOK(w, sessions)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	sess, err := s.db.Sessions.Get(id)
	if errors.Is(err, db.ErrNotFound) {
		httputil.NotFound(w, fmt.Sprintf("session %s not found", id))
		return
	}
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to fetch session: %v", err))
		return
	}
	httputil.WriteJSONOK(w, sess)
}

type ingestResponse struct {
	SessionID   string `json:"session_id"`
	FramesAdded int    `json:"frames_added"`
	TotalFrames int    `json:"total_frames"`
}

func (s *Server) ingestPoses(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	if _, err := s.db.Sessions.Get(id); errors.Is(err, db.ErrNotFound) {
		httputil.NotFound(w, fmt.Sprintf("session %s not found", id))
		return
	} else if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to fetch session: %v", err))
		return
	}

	var frames []pose.FramePose
	body := http.MaxBytesReader(w, r.Body, maxIngestBytes)
	if err := json.NewDecoder(body).Decode(&frames); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("invalid pose payload: %v", err))
		return
	}
	if len(frames) == 0 {
		httputil.BadRequest(w, "no frames in payload")
		return
	}
	for i, f := range frames {
		if len(f.Landmarks) != pose.LandmarkCount {
			httputil.BadRequest(w, fmt.Sprintf(
				"frame %d: expected %d landmarks, got %d", i, pose.LandmarkCount, len(f.Landmarks)))
			return
		}
	}

	if err := s.db.Poses.InsertFrames(id, frames); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to store frames: %v", err))
		return
	}

	total, err := s.db.Poses.CountFrames(id)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to count frames: %v", err))
		return
	}

	s.publish(r.Context(), events.New(events.PoseDataIngested, id, map[string]interface{}{
		"frames_added": len(frames),
		"total_frames": total,
	}))
	httputil.WriteJSONOK(w, ingestResponse{SessionID: id, FramesAdded: len(frames), TotalFrames: total})
}

func (s *Server) analyzeSession(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	rec, err := s.svc.ComputeMetrics(r.Context(), id)
	switch {
	case errors.Is(err, db.ErrNotFound):
		httputil.NotFound(w, fmt.Sprintf("session %s not found", id))
	case errors.Is(err, db.ErrMetricsExist):
		httputil.Conflict(w, fmt.Sprintf("metrics already computed for session %s", id))
	case err != nil:
		httputil.InternalServerError(w, fmt.Sprintf("analysis failed: %v", err))
	default:
		httputil.WriteJSONOK(w, rec)
	}
}

// metricsResponse wraps a stored record with the display units applied to
// its speed value. The database always holds m/s.
type metricsResponse struct {
	*db.MetricsRecord
	SpeedUnits   string `json:"speed_units"`
	SpeedDisplay string `json:"speed_display,omitempty"`
}

func (s *Server) getMetrics(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	unit := r.URL.Query().Get("units")
	if unit == "" {
		unit = units.MPS
	}
	if !units.IsValid(unit) {
		httputil.BadRequest(w, fmt.Sprintf("invalid units %q (want one of %s)", unit, units.GetValidUnitsString()))
		return
	}

	rec, err := s.db.Metrics.BySession(id)
	if errors.Is(err, db.ErrNotFound) {
		httputil.NotFound(w, fmt.Sprintf("no metrics for session %s", id))
		return
	}
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to fetch metrics: %v", err))
		return
	}

	resp := metricsResponse{MetricsRecord: rec, SpeedUnits: unit}
	resp.Metrics.Speed = units.ConvertSpeed(rec.Metrics.Speed, unit)
	if unit == units.MinPerKm || unit == units.MinPerMi {
		resp.SpeedDisplay = units.FormatPace(resp.Metrics.Speed)
	}
	httputil.WriteJSONOK(w, resp)
}

func (s *Server) renderReport(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	frames, err := s.db.Poses.FramesBySession(id)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to fetch frames: %v", err))
		return
	}
	if len(frames) == 0 {
		httputil.NotFound(w, fmt.Sprintf("no pose data for session %s", id))
		return
	}

	var metrics *pose.RunningMetrics
	if rec, err := s.db.Metrics.BySession(id); err == nil {
		metrics = &rec.Metrics
	} else if !errors.Is(err, db.ErrNotFound) {
		httputil.InternalServerError(w, fmt.Sprintf("failed to fetch metrics: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.RenderSession(w, id, frames, metrics); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render report: %v", err))
		return
	}
}

func (s *Server) publish(ctx context.Context, ev events.Event) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		log.Printf("api: failed to publish %s event: %v", ev.Type, err)
	}
}
