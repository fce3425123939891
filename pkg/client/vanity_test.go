package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vanity/pkg/model"
)

func newTestServer(t *testing.T, mux *http.ServeMux) *VanityClient {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewVanityClient(srv.URL)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestVanityClient_Generate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/vanity-numbers", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req model.GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "8005683000", req.PhoneNumber)

		writeJSON(w, http.StatusOK, map[string]any{"data": model.VanityResult{
			VanityRecord: model.VanityRecord{Phone: "+18005683000", Selected: []string{"800-LOVE-000"}},
			Candidates:   []string{"800-LOVE-000"},
			Persisted:    true,
		}})
	})

	result, err := newTestServer(t, mux).Generate(context.Background(), "8005683000")
	require.NoError(t, err)
	assert.Equal(t, "+18005683000", result.Phone)
	assert.Equal(t, []string{"800-LOVE-000"}, result.Selected)
	assert.True(t, result.Persisted)
}

func TestVanityClient_APIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/vanity-numbers/{phone}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "+18005683000", r.PathValue("phone"))
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "vanity number not found", "code": "NOT_FOUND"})
	})

	_, err := newTestServer(t, mux).GetByPhone(context.Background(), "+18005683000")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "vanity number not found", apiErr.Message)
}

func TestVanityClient_ListRecent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/vanity-numbers", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, map[string]any{
			"data":  []model.VanityRecord{{Phone: "+18005683000"}, {Phone: "+12125550100"}},
			"count": 2,
			"limit": 2,
		})
	})

	records, err := newTestServer(t, mux).ListRecent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "+12125550100", records[1].Phone)
}

func TestVanityClient_ContactFlow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/contact-flow", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sha256=abc123", r.Header.Get(signatureHeader))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"Name":"ContactFlowEvent"}`, string(body))
		writeJSON(w, http.StatusOK, ContactFlowResponse{VanityNumberSuccess: true, VanityNumbers: "800-LOVE-000"})
	})

	resp, err := newTestServer(t, mux).ContactFlow(context.Background(), []byte(`{"Name":"ContactFlowEvent"}`), "abc123")
	require.NoError(t, err)
	assert.True(t, resp.VanityNumberSuccess)
	assert.Equal(t, "800-LOVE-000", resp.VanityNumbers)
}

func TestWaitForHealthy(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	require.NoError(t, newTestServer(t, mux).WaitForHealthy(context.Background(), time.Second))

	unhealthy := http.NewServeMux()
	unhealthy.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	assert.Error(t, newTestServer(t, unhealthy).WaitForHealthy(context.Background(), 100*time.Millisecond))
}
