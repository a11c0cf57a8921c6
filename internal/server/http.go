// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AccelByte/extend-struggle-engine/pkg/common"
	"github.com/AccelByte/extend-struggle-engine/pkg/engine"
	"github.com/AccelByte/extend-struggle-engine/pkg/environment"
	"github.com/AccelByte/extend-struggle-engine/pkg/report"
	"github.com/AccelByte/extend-struggle-engine/pkg/session"
	"github.com/AccelByte/extend-struggle-engine/pkg/signal"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const maxBatchBytes = 1 << 20

// Sessions is the session host behind the ingest API.
type Sessions interface {
	Ingest(ctx context.Context, sessionID string, batch session.Batch) (*session.Result, error)
	Report(ctx context.Context, sessionID, tenantID string) (*session.Result, error)
	Get(ctx context.Context, sessionID, tenantID string) (*session.Result, error)
	Close(ctx context.Context, sessionID, tenantID string) error
}

type ingestRequest struct {
	TenantID string                `json:"tenantId"`
	Page     *environment.Snapshot `json:"page"`
	Events   []signal.RawSignal    `json:"events"`
}

type errorResponse struct {
	Error  string          `json:"error"`
	Result *session.Result `json:"result,omitempty"`
}

// HTTPServer serves the session ingest API.
type HTTPServer struct {
	server        *http.Server
	port          int
	sessions      Sessions
	schema        *jsonschema.Schema
	defaultTenant string
}

// NewHTTPServer creates the ingest API server. defaultTenant is used for
// batches that carry no tenant.
func NewHTTPServer(port int, sessions Sessions, defaultTenant string) (*HTTPServer, error) {
	schema, err := compileIngestSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to load ingest schema: %w", err)
	}

	s := &HTTPServer{
		port:          port,
		sessions:      sessions,
		schema:        schema,
		defaultTenant: defaultTenant,
	}
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the instrumented API routes.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/sessions", s.handleCreate)
	mux.HandleFunc("POST /v1/sessions/{sessionID}/events", s.handleEvents)
	mux.HandleFunc("POST /v1/sessions/{sessionID}/report", s.handleReport)
	mux.HandleFunc("GET /v1/sessions/{sessionID}", s.handleGet)
	mux.HandleFunc("DELETE /v1/sessions/{sessionID}", s.handleDelete)

	return otelhttp.NewHandler(mux, "struggle-ingest")
}

// Serve listens on the configured port until Shutdown is called.
func (s *HTTPServer) Serve() error {
	logrus.Infof("ingest API listening on port %d", s.port)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("ingest API failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the ingest API.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down ingest API...")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("ingest API stopped")
	return nil
}

func (s *HTTPServer) handleCreate(w http.ResponseWriter, r *http.Request) {
	scope := common.GetScopeFromContext(r.Context(), "sessions.create")
	defer scope.Finish()

	id := session.NewID()
	scope.SetAttributes(common.SessionIDAttribute.String(id))
	writeJSON(w, http.StatusCreated, map[string]string{"sessionId": id})
}

func (s *HTTPServer) handleEvents(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBatchBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error()})
		return
	}
	if err := validateBatch(s.schema, body); err != nil {
		logrus.Debugf("rejected batch for session %s: %v", sessionID, err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var req ingestRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if req.TenantID == "" {
		req.TenantID = s.defaultTenant
	}

	scope := common.SessionScope(r.Context(), "sessions.events", sessionID, req.TenantID)
	defer scope.Finish()
	scope.SetAttributes(attribute.Int("batch.size", len(req.Events)))

	result, err := s.sessions.Ingest(scope.Ctx, sessionID, session.Batch{
		TenantID: req.TenantID,
		Page:     req.Page,
		Events:   req.Events,
	})
	if err != nil {
		scope.TraceError(err)
		scope.Log.Warnf("ingest failed: %v", err)
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) handleReport(w http.ResponseWriter, r *http.Request) {
	scope := s.sessionScope(r, "sessions.report")
	defer scope.Finish()

	result, err := s.sessions.Report(scope.Ctx, scope.SessionID, scope.TenantID)
	if err != nil {
		scope.TraceError(err)
		scope.Log.Warnf("report failed: %v", err)
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error(), Result: result})
		return
	}

	scope.TraceEvent("report delivered")
	writeJSON(w, http.StatusAccepted, result)
}

func (s *HTTPServer) handleGet(w http.ResponseWriter, r *http.Request) {
	scope := s.sessionScope(r, "sessions.get")
	defer scope.Finish()

	result, err := s.sessions.Get(scope.Ctx, scope.SessionID, scope.TenantID)
	if err != nil {
		scope.TraceError(err)
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	scope := s.sessionScope(r, "sessions.delete")
	defer scope.Finish()

	if err := s.sessions.Close(scope.Ctx, scope.SessionID, scope.TenantID); err != nil {
		scope.TraceError(err)
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// sessionScope opens the scope of a request addressed to the session in the
// path. The tenant comes from the tenantId query parameter.
func (s *HTTPServer) sessionScope(r *http.Request, name string) *common.Scope {
	tenantID := r.URL.Query().Get("tenantId")
	if tenantID == "" {
		tenantID = s.defaultTenant
	}
	return common.SessionScope(r.Context(), name, r.PathValue("sessionID"), tenantID)
}

func statusFor(err error) int {
	var transportErr *report.TransportError

	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrTenantMismatch):
		return http.StatusForbidden
	case errors.Is(err, session.ErrInvalidSessionID):
		return http.StatusBadRequest
	case errors.Is(err, report.ErrSendInProgress):
		return http.StatusConflict
	case errors.Is(err, report.ErrNoTransport), errors.Is(err, engine.ErrLoopNotRunning):
		return http.StatusServiceUnavailable
	case errors.As(err, &transportErr):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("failed to write response: %v", err)
	}
}
