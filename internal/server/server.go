// Package server implements the HTTP layout API.
//
// The API exposes the same pipeline the CLI uses:
//
//	POST /v1/layout          lay out a posted OCIF document
//	GET  /v1/documents/{id}  fetch a previously persisted result
//	GET  /healthz            liveness probe
//
// Every request gets a uuid request id (echoed in X-Request-ID) and a
// structured access log line.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/devhelpr/ocif-generator/pkg/errors"
	"github.com/devhelpr/ocif-generator/pkg/ocif"
	"github.com/devhelpr/ocif-generator/pkg/pipeline"
	"github.com/devhelpr/ocif-generator/pkg/store"
)

// maxBodyBytes caps request bodies; canvases are small-to-medium graphs.
const maxBodyBytes = 8 << 20

// Server wires the layout pipeline and optional persistence behind HTTP.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// New creates a server. The store may be nil, in which case persistence
// endpoints respond with UNSUPPORTED.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: st, logger: logger}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/layout", s.handleLayout)
	r.Get("/v1/documents/{id}", s.handleGetDocument)

	return r
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// layoutRequest is the POST /v1/layout envelope.
type layoutRequest struct {
	Options  pipeline.Options `json:"options"`
	Document *ocif.Document   `json:"document"`
	Persist  bool             `json:"persist,omitempty"`
}

// layoutResponse is the POST /v1/layout reply.
type layoutResponse struct {
	ID       string         `json:"id,omitempty"`
	Cached   bool           `json:"cached"`
	Document *ocif.Document `json:"document"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest,
			errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if req.Document == nil {
		writeError(w, http.StatusBadRequest,
			errors.New(errors.ErrCodeInvalidDocument, "request has no document"))
		return
	}

	req.Options.Logger = s.logger
	doc, cached, err := s.runner.LayoutDocument(r.Context(), req.Document, req.Options)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, errors.ErrCodeInvalidOptions) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	resp := layoutResponse{Cached: cached, Document: doc}
	if req.Persist {
		if s.store == nil {
			writeError(w, http.StatusNotImplemented,
				errors.New(errors.ErrCodeUnsupported, "no document store configured"))
			return
		}
		id, err := s.store.Save(r.Context(), doc)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		resp.ID = id
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotImplemented,
			errors.New(errors.ErrCodeUnsupported, "no document store configured"))
		return
	}
	id := chi.URLParam(r, "id")
	doc, err := s.store.Get(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, errors.ErrCodeDocumentNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// =============================================================================
// Responses
// =============================================================================

// errorBody is the JSON error envelope.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	var body errorBody
	body.Error.Code = string(errors.GetCode(err))
	if body.Error.Code == "" {
		body.Error.Code = string(errors.ErrCodeInternal)
	}
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, status, body)
}

// =============================================================================
// Middleware
// =============================================================================

// ctxKey is the type for context keys used in this package.
type ctxKey int

const requestIDKey ctxKey = 0

// requestID assigns a uuid to each request and echoes it in the
// X-Request-ID response header.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the request id assigned by the middleware,
// or an empty string.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// accessLog emits one structured log line per request.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond),
			"request_id", RequestIDFromContext(r.Context()))
	})
}
