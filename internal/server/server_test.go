package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/stowage/pkg/cache"
	"github.com/matzehuels/stowage/pkg/layout"
	"github.com/matzehuels/stowage/pkg/observability"
	"github.com/matzehuels/stowage/pkg/pipeline"
	"github.com/matzehuels/stowage/pkg/place"
)

const shelfBody = `{
  "container": {"length": 2, "width": 1, "height": 1},
  "items": [{"name": "crate", "dimensions": [0.5, 0.5, 0.5], "quantity": 2}]
}`

const overlapBody = `{
  "container": [4, 2, 2],
  "items": [
    {"name": "a", "dimensions": [1, 1, 1], "position": [0, 0, 0]},
    {"name": "b", "dimensions": [1, 1, 1], "position": [0.5, 0, 0]}
  ]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return New(pipeline.NewRunner(fc, nil, logger), logger, pipeline.Options{})
}

func do(t *testing.T, s *Server, method, target, contentType string, body io.Reader, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, contentTypeJSON, rec.Header().Get("Content-Type"))
	resp := decodeJSON[healthResponse](t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Build.Version)
}

func TestLayout(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/v1/layout", contentTypeJSON, strings.NewReader(shelfBody))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(headerRequestID))

	first := decodeJSON[layoutResponse](t, rec)
	assert.False(t, first.CacheHit)
	assert.Equal(t, place.StrategyShelf, first.Layout.Strategy)
	assert.Len(t, first.Layout.Boxes, 2)
	assert.Empty(t, first.Coerced)
	assert.NotEmpty(t, first.Layout.ID)

	rec = do(t, s, http.MethodPost, "/v1/layout", "", strings.NewReader(shelfBody))
	second := decodeJSON[layoutResponse](t, rec)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.RequestHash, second.RequestHash)
	assert.NotEqual(t, first.Layout.ID, second.Layout.ID)
}

func TestLayoutYAML(t *testing.T) {
	s := newTestServer(t)
	body := "container: [2, 1, 1]\nitems:\n  - name: crate\n    dimensions: [0.5, 0.5, 0.5]\n"

	rec := do(t, s, http.MethodPost, "/v1/layout", "application/yaml", strings.NewReader(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decodeJSON[layoutResponse](t, rec).Layout.Boxes, 1)
}

func TestLayoutMsgpack(t *testing.T) {
	s := newTestServer(t)
	body, err := msgpack.Marshal(layout.Request{
		Container: []any{2, 1, 1},
		Items:     []layout.RequestItem{{Name: "crate", Dimensions: []any{0.5, 0.5, 0.5}}},
	})
	require.NoError(t, err)

	rec := do(t, s, http.MethodPost, "/v1/layout", contentTypeMsgpack, bytes.NewReader(body), "Accept", contentTypeMsgpack)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, contentTypeMsgpack, rec.Header().Get("Content-Type"))

	var resp layoutResponse
	require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Layout.Boxes, 1)
	assert.Equal(t, "crate", resp.Layout.Boxes[0].Name)
}

func TestLayoutReportsCoercion(t *testing.T) {
	s := newTestServer(t)
	body := `{"container": "huge", "items": [{"name": "x", "dimensions": [1, -1, 1]}]}`

	rec := do(t, s, http.MethodPost, "/v1/layout", contentTypeJSON, strings.NewReader(body))
	require.Equal(t, http.StatusOK, rec.Code, "coercion never fails a request")
	assert.NotEmpty(t, decodeJSON[layoutResponse](t, rec).Coerced)
}

func TestLayoutOptions(t *testing.T) {
	s := newTestServer(t)
	body := `{"container": [2, 1, 1], "items": [{"name": "half", "dimensions": [1, 0.5, 0.5], "quantity": 2}]}`

	rec := do(t, s, http.MethodPost, "/v1/layout?gap=0&unit=ft", contentTypeJSON, strings.NewReader(body))
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[layoutResponse](t, rec)
	assert.Len(t, resp.Layout.Boxes, 2)
	assert.Equal(t, "2.00 ft", resp.Layout.Annotations[0].Text)
}

func TestMaxInstancesLimit(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(pipeline.NewRunner(fc, nil, logger), logger, pipeline.Options{MaxInstances: 500}, WithMaxInstances(50))

	assert.Equal(t, 50, s.defaults.MaxInstances, "defaults are lowered to the limit")

	body := `{"container": [2, 1.5, 1], "items": [{"name": "pellet", "dimensions": [0.001, 0.001, 0.001], "quantity": 1000000}]}`
	rec := do(t, s, http.MethodPost, "/v1/layout?gap=0&max_instances=51", contentTypeJSON, strings.NewReader(body))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeJSON[apiError](t, rec)
	assert.Contains(t, resp.Message, "server limit of 50")

	rec = do(t, s, http.MethodPost, "/v1/layout?gap=0", contentTypeJSON, strings.NewReader(body))
	require.Equal(t, http.StatusOK, rec.Code)
	lr := decodeJSON[layoutResponse](t, rec)
	assert.Len(t, lr.Layout.Boxes, 50)
	assert.Equal(t, 1000000-50, lr.Layout.Stats.Dropped)
}

func TestErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name        string
		method      string
		target      string
		contentType string
		body        string
		status      int
		code        string
	}{
		{"malformed json", http.MethodPost, "/v1/layout", contentTypeJSON, "{nope", http.StatusBadRequest, "INVALID_REQUEST"},
		{"max_instances zero", http.MethodPost, "/v1/layout?max_instances=0", contentTypeJSON, shelfBody, http.StatusBadRequest, "INVALID_REQUEST"},
		{"max_instances over limit", http.MethodPost, "/v1/layout?gap=0&max_instances=10001", contentTypeJSON, shelfBody, http.StatusBadRequest, "INVALID_REQUEST"},
		{"negative gap", http.MethodPost, "/v1/layout?gap=-1", contentTypeJSON, shelfBody, http.StatusBadRequest, "INVALID_REQUEST"},
		{"bad bool", http.MethodPost, "/v1/layout?refresh=maybe", contentTypeJSON, shelfBody, http.StatusBadRequest, "INVALID_REQUEST"},
		{"content type", http.MethodPost, "/v1/layout", "text/csv", shelfBody, http.StatusUnsupportedMediaType, "UNSUPPORTED"},
		{"preview format", http.MethodPost, "/v1/preview?format=gif", contentTypeJSON, shelfBody, http.StatusBadRequest, "INVALID_REQUEST"},
		{"preview width", http.MethodPost, "/v1/preview?width=0", contentTypeJSON, shelfBody, http.StatusBadRequest, "INVALID_REQUEST"},
		{"unknown route", http.MethodGet, "/v2/nothing", "", "", http.StatusNotFound, "NOT_FOUND"},
		{"wrong method", http.MethodGet, "/v1/layout", "", "", http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.target, tt.contentType, strings.NewReader(tt.body))
			assert.Equal(t, tt.status, rec.Code)
			resp := decodeJSON[apiError](t, rec)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestRequestIDReused(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", "", nil, headerRequestID, "abc-123")
	assert.Equal(t, "abc-123", rec.Header().Get(headerRequestID))
}

func TestScale(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/v1/scale", contentTypeJSON, strings.NewReader(`{"container": {"length": 2, "width": 1, "height": 1}}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeJSON[scaleResponse](t, rec)
	assert.Equal(t, 4.0, resp.Scale.SceneScale)
	assert.Len(t, resp.Annotations, 3)
	assert.Empty(t, resp.Coerced)

	rec = do(t, s, http.MethodPost, "/v1/scale", contentTypeJSON, strings.NewReader(`{"container": null}`))
	resp = decodeJSON[scaleResponse](t, rec)
	assert.Equal(t, 2.0, resp.Container.Length, "missing container uses defaults")
	assert.NotEmpty(t, resp.Coerced)
}

func TestOverlaps(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/v1/overlaps?skip_overlaps=true", contentTypeJSON, strings.NewReader(overlapBody))
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[overlapsResponse](t, rec)
	assert.Equal(t, place.StrategyPrecomputed, resp.Strategy)
	require.Len(t, resp.Overlaps, 1, "the overlaps route always diagnoses")
	assert.Equal(t, "a", resp.Overlaps[0].NameA)
	assert.Equal(t, 1, resp.Stats.Overlaps)

	rec = do(t, s, http.MethodPost, "/v1/overlaps", contentTypeJSON, strings.NewReader(shelfBody))
	assert.Equal(t, "[]", string(decodeJSON[map[string]json.RawMessage](t, rec)["overlaps"]))
}

func TestPreview(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/v1/preview?format=svg&labels=true", contentTypeJSON, strings.NewReader(shelfBody))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "crate")

	rec = do(t, s, http.MethodPost, "/v1/preview?width=200&height=100", contentTypeJSON, strings.NewReader(shelfBody))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

type recordingServerHooks struct {
	observability.NoopServerHooks
	routes   []string
	statuses []int
}

func (h *recordingServerHooks) OnResponse(_ context.Context, _, route string, status int, _ time.Duration) {
	h.routes = append(h.routes, route)
	h.statuses = append(h.statuses, status)
}

func TestServerHooks(t *testing.T) {
	hooks := &recordingServerHooks{}
	observability.SetServerHooks(hooks)
	defer observability.Reset()

	s := newTestServer(t)
	do(t, s, http.MethodPost, "/v1/layout", contentTypeJSON, strings.NewReader(shelfBody))
	do(t, s, http.MethodGet, "/healthz", "", nil)

	assert.Equal(t, []string{"/v1/layout", "/healthz"}, hooks.routes)
	assert.Equal(t, []int{http.StatusOK, http.StatusOK}, hooks.statuses)
}

func TestListenAndServeStops(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe did not return after cancel")
	}
}
