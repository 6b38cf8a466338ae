package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gaitworks/stride.report/internal/httputil"
	"github.com/gaitworks/stride.report/internal/pose"
)

// uploadResult summarises a server-side analysis run.
type uploadResult struct {
	SessionID string              `json:"session_id"`
	Frames    int                 `json:"frames"`
	Metrics   pose.RunningMetrics `json:"metrics"`
}

// upload pushes a recording to a stride-report server: create the session,
// send the frames, trigger analysis, and return the computed metrics.
func upload(client httputil.HTTPClient, baseURL string, rec *pose.Recording) (*uploadResult, error) {
	base := strings.TrimSuffix(baseURL, "/")

	var sess struct {
		SessionID string `json:"session_id"`
	}
	if err := postJSON(client, base+"/api/sessions", rec.Profile, http.StatusCreated, &sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	var ingest struct {
		TotalFrames int `json:"total_frames"`
	}
	posesURL := fmt.Sprintf("%s/api/sessions/%s/poses", base, sess.SessionID)
	if err := postJSON(client, posesURL, rec.Frames, http.StatusOK, &ingest); err != nil {
		return nil, fmt.Errorf("ingest frames: %w", err)
	}

	var record struct {
		Metrics pose.RunningMetrics `json:"metrics"`
	}
	analyzeURL := fmt.Sprintf("%s/api/sessions/%s/analyze", base, sess.SessionID)
	if err := postJSON(client, analyzeURL, nil, http.StatusOK, &record); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	return &uploadResult{
		SessionID: sess.SessionID,
		Frames:    ingest.TotalFrames,
		Metrics:   record.Metrics,
	}, nil
}

func postJSON(client httputil.HTTPClient, url string, payload interface{}, wantStatus int, out interface{}) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	resp, err := client.Post(url, "application/json", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != wantStatus {
		return fmt.Errorf("%s: status %d: %s", url, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("parse response from %s: %w", url, err)
		}
	}
	return nil
}
