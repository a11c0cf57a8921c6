// Copyright (c) 2023 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package common

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	traceIDLogField   = "traceID"
	sessionIDLogField = "sessionID"
	tenantIDLogField  = "tenantID"
	tracerName        = "struggle-engine"

	SessionIDAttribute = attribute.Key("session.id")
	TenantIDAttribute  = attribute.Key("tenant.id")
)

// Scope carries the span and the log entry of one API request.
type Scope struct {
	Ctx       context.Context
	TraceID   string
	SessionID string
	TenantID  string
	Log       *log.Entry

	span oteltrace.Span
}

// GetScopeFromContext starts a Scope for a request handled under ctx
func GetScopeFromContext(ctx context.Context, name string) *Scope {
	tracerCtx, span := otel.Tracer(tracerName).Start(ctx, name)
	traceID := span.SpanContext().TraceID().String()

	return &Scope{
		Ctx:     tracerCtx,
		TraceID: traceID,
		span:    span,
		Log:     log.WithField(traceIDLogField, traceID),
	}
}

// SessionScope starts a Scope for a request addressed to one session of a
// tenant. Both IDs are set on the span and on every log line of the scope.
func SessionScope(ctx context.Context, name, sessionID, tenantID string) *Scope {
	s := GetScopeFromContext(ctx, name)
	s.SessionID = sessionID
	s.TenantID = tenantID

	s.span.SetAttributes(
		SessionIDAttribute.String(sessionID),
		TenantIDAttribute.String(tenantID),
	)
	s.Log = s.Log.WithFields(log.Fields{
		sessionIDLogField: sessionID,
		tenantIDLogField:  tenantID,
	})
	return s
}

// Finish ends the scope's span.
func (s *Scope) Finish() {
	s.span.End()
}

// TraceEvent records that something happened during the request.
func (s *Scope) TraceEvent(eventMessage string) {
	s.span.AddEvent(eventMessage)
}

// TraceError records err on the span and marks the span failed.
func (s *Scope) TraceError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttributes adds attributes to the span.
func (s *Scope) SetAttributes(kv ...attribute.KeyValue) {
	s.span.SetAttributes(kv...)
}
