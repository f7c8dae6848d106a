package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/devhelpr/ocif-generator/pkg/ocif"
	"github.com/devhelpr/ocif-generator/pkg/pipeline"
	"github.com/devhelpr/ocif-generator/pkg/store"
)

func newTestServer(t *testing.T, st store.Store) http.Handler {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	return New(runner, st, logger).Router()
}

func decodeError(t *testing.T, body *bytes.Buffer) (code, message string) {
	t.Helper()
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&env); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return env.Error.Code, env.Error.Message
}

const layoutBody = `{
  "options": {"width": 800, "height": 600, "seed": 7},
  "document": {
    "ocif": "https://canvasprotocol.org/ocif/0.3",
    "nodes": [{"id": "a"}, {"id": "b"}],
    "relations": [{"id": "r1", "source": "a", "target": "b"}]
  }
}`

func TestHealthz(t *testing.T) {
	h := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("X-Request-ID"); got == "" {
		t.Error("X-Request-ID header not set")
	}
}

func TestLayoutEndpoint(t *testing.T) {
	h := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/layout", strings.NewReader(layoutBody)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp struct {
		ID       string         `json:"id"`
		Cached   bool           `json:"cached"`
		Document *ocif.Document `json:"document"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != "" {
		t.Errorf("id = %q, want empty without persist", resp.ID)
	}
	if resp.Document == nil || len(resp.Document.Nodes) != 2 {
		t.Fatalf("document = %+v", resp.Document)
	}
	for _, n := range resp.Document.Nodes {
		if len(n.Position) < 2 {
			t.Errorf("node %q: no position", n.ID)
		}
		x, y := n.Position[0], n.Position[1]
		if x < 40 || x > 760 || y < 40 || y > 560 {
			t.Errorf("node %q: position %v outside padded 800x600 canvas", n.ID, n.Position)
		}
	}
}

func TestLayoutEndpointErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "MalformedJSON",
			body:       `{not json`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "NoDocument",
			body:       `{"options": {}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_DOCUMENT",
		},
		{
			name:       "BadOptions",
			body:       `{"options": {"width": -5}, "document": {"nodes": []}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_OPTIONS",
		},
	}

	h := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/layout", strings.NewReader(tt.body)))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			code, _ := decodeError(t, rec.Body)
			if code != tt.wantCode {
				t.Errorf("code = %q, want %q", code, tt.wantCode)
			}
		})
	}
}

func TestPersistAndFetch(t *testing.T) {
	h := newTestServer(t, store.NewMemoryStore())

	body := strings.Replace(layoutBody, `"document"`, `"persist": true, "document"`, 1)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/layout", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("layout status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID == "" {
		t.Fatal("persist did not return an id")
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/documents/"+resp.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, body = %s", rec.Code, rec.Body)
	}

	var doc ocif.Document
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}
	if len(doc.Nodes) != 2 {
		t.Errorf("nodes = %d, want 2", len(doc.Nodes))
	}
}

func TestGetDocumentNotFound(t *testing.T) {
	h := newTestServer(t, store.NewMemoryStore())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/documents/ghost", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	code, _ := decodeError(t, rec.Body)
	if code != "DOCUMENT_NOT_FOUND" {
		t.Errorf("code = %q", code)
	}
}

func TestNoStoreEndpointsUnsupported(t *testing.T) {
	h := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/documents/abc", nil))
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("get status = %d, want 501", rec.Code)
	}

	body := strings.Replace(layoutBody, `"document"`, `"persist": true, "document"`, 1)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/layout", strings.NewReader(body)))
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("persist status = %d, want 501", rec.Code)
	}
	code, _ := decodeError(t, rec.Body)
	if code != "UNSUPPORTED" {
		t.Errorf("code = %q", code)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	h := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "given-id")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "given-id" {
		t.Errorf("X-Request-ID = %q, want given-id", got)
	}
}
