package triage

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRenderer struct{}

func (stubRenderer) Render(_ *Session) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := NewService(NewMemoryRepository(), newStubProvider(), testKnowledgeBase(), nil,
		zap.NewNop(), WithRandSource(rand.NewSource(1)))
	h := NewHandler(svc, stubRenderer{})

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		RegisterRoutes(r, h)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func postChat(t *testing.T, srv *httptest.Server, body string) (*http.Response, map[string]string) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/chat", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp, payload
}

func TestChatEndpoint_RoundTrip(t *testing.T) {
	srv := newTestServer(t)

	resp, payload := postChat(t, srv, `{"message": "my stomach hurts"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, payload["session_id"])
	assert.NotEmpty(t, payload["response"])

	// Reusing the returned id continues the same conversation.
	resp2, payload2 := postChat(t, srv,
		`{"session_id": "`+payload["session_id"]+`", "message": "tell me more"}`)
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
	assert.Equal(t, payload["session_id"], payload2["session_id"])
	assert.NotEqual(t, refusalReply, payload2["response"])
}

func TestChatEndpoint_EmptyMessage(t *testing.T) {
	srv := newTestServer(t)

	resp, payload := postChat(t, srv, `{"message": ""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Message is required", payload["error"])

	resp, payload = postChat(t, srv, `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Message is required", payload["error"])
}

func TestChatEndpoint_MalformedBody(t *testing.T) {
	srv := newTestServer(t)
	resp, payload := postChat(t, srv, `{"message": 5`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid request", payload["error"])
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "healthy", payload["status"])
}

func TestSessionAndReportEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/session", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created["session_id"])

	rep, err := http.Get(srv.URL + "/api/session/" + created["session_id"] + "/report")
	require.NoError(t, err)
	defer rep.Body.Close()
	assert.Equal(t, http.StatusOK, rep.StatusCode)
	assert.Equal(t, "application/pdf", rep.Header.Get("Content-Type"))
}

func TestReportEndpoint_UnknownSession(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/session/00000000-0000-0000-0000-000000000001/report")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
