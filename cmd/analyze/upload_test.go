package main

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaitworks/stride.report/internal/httputil"
	"github.com/gaitworks/stride.report/internal/pose"
	"github.com/gaitworks/stride.report/internal/testutil"
)

func testRecording() *pose.Recording {
	return &pose.Recording{
		Profile: testutil.Profile(),
		Frames:  testutil.SyntheticRun(testutil.DefaultGaitOptions()),
	}
}

func TestUpload(t *testing.T) {
	t.Run("happy path issues three requests", func(t *testing.T) {
		client := httputil.NewMockHTTPClient()
		client.AddResponse(201, `{"session_id":"abc-123"}`)
		client.AddResponse(200, `{"session_id":"abc-123","frames_added":300,"total_frames":300}`)
		client.AddResponse(200, `{"metrics_id":"m-1","session_id":"abc-123","metrics":{"cadence":178.5}}`)

		result, err := upload(client, "http://localhost:8080/", testRecording())
		require.NoError(t, err)
		assert.Equal(t, "abc-123", result.SessionID)
		assert.Equal(t, 300, result.Frames)
		assert.InDelta(t, 178.5, result.Metrics.Cadence, 1e-9)

		require.Equal(t, 3, client.RequestCount())
		assert.Equal(t, "http://localhost:8080/api/sessions", client.Requests[0].URL.String())
		assert.Equal(t, "http://localhost:8080/api/sessions/abc-123/poses", client.Requests[1].URL.String())
		assert.Equal(t, "http://localhost:8080/api/sessions/abc-123/analyze", client.Requests[2].URL.String())

		// The first request carries the profile.
		var sent pose.RunnerProfile
		require.NoError(t, json.Unmarshal([]byte(client.RequestBody(0)), &sent))
		assert.Equal(t, testutil.Profile().HeightCm, sent.HeightCm)
	})

	t.Run("server rejection surfaces the error body", func(t *testing.T) {
		client := httputil.NewMockHTTPClient()
		client.AddResponse(400, `{"error":"height_cm out of range"}`)

		_, err := upload(client, "http://localhost:8080", testRecording())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "height_cm out of range")
		assert.Equal(t, 1, client.RequestCount())
	})

	t.Run("transport error stops the sequence", func(t *testing.T) {
		client := httputil.NewMockHTTPClient()
		client.AddResponse(201, `{"session_id":"abc-123"}`)
		client.AddErrorResponse(errors.New("connection refused"))

		_, err := upload(client, "http://localhost:8080", testRecording())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
		assert.Equal(t, 2, client.RequestCount())
	})
}
