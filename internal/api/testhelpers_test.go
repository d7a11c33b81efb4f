// Robolog - Robot Telemetry Ingestion and Submission Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/robolog

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/robolog/internal/models"
)

// fakeIngestor records admitted events and returns canned answers.
type fakeIngestor struct {
	mu       sync.Mutex
	accept   bool
	ready    bool
	retried  int
	retryErr error
	stats    models.PipelineStats
	events   []models.LogEvent
}

func (f *fakeIngestor) Enqueue(ctx context.Context, event *models.LogEvent) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.accept {
		return false
	}
	f.events = append(f.events, *event)
	return true
}

func (f *fakeIngestor) ReplayAll(ctx context.Context) (int, error) {
	return f.retried, f.retryErr
}

func (f *fakeIngestor) Ready() bool { return f.ready }

func (f *fakeIngestor) Stats() models.PipelineStats { return f.stats }

func (f *fakeIngestor) admitted() []models.LogEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.LogEvent(nil), f.events...)
}

type connState bool

func (c connState) IsConnected() bool { return bool(c) }

// newTestServer builds the full chi stack with rate limiting disabled.
func newTestServer(t *testing.T, ing Ingestor, opts ...HandlerOption) http.Handler {
	t.Helper()
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	return NewRouter(NewHandler(ing, opts...), NewChiMiddleware(cfg)).SetupChi()
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// envelope mirrors models.APIResponse with a raw data field.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not a JSON envelope: %v\nbody: %s", err, rec.Body.String())
	}
	return env
}
