// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Transport delivers reports to the collector.
type Transport interface {
	Send(ctx context.Context, r *Report) error
}

const (
	DefaultMaxRetries      = 3
	DefaultInitialInterval = 500 * time.Millisecond
	DefaultRequestTimeout  = 10 * time.Second
)

// HTTPTransportConfig configures the HTTP collector transport.
type HTTPTransportConfig struct {
	// Endpoint is the collector base URL; reports go to {Endpoint}/feedback.
	Endpoint string

	// MaxRetries is the number of resends after the first attempt.
	// Negative disables retrying.
	MaxRetries int

	InitialInterval time.Duration
	RequestTimeout  time.Duration

	Client *http.Client
}

// HTTPTransport posts reports as JSON to the collector.
type HTTPTransport struct {
	url    string
	client *http.Client
	config HTTPTransportConfig
}

// NewHTTPTransport creates a transport for the collector endpoint.
func NewHTTPTransport(config HTTPTransportConfig) *HTTPTransport {
	if config.MaxRetries == 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.InitialInterval == 0 {
		config.InitialInterval = DefaultInitialInterval
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = DefaultRequestTimeout
	}

	client := config.Client
	if client == nil {
		client = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}

	return &HTTPTransport{
		url:    FeedbackURL(config.Endpoint),
		client: client,
		config: config,
	}
}

// FeedbackURL returns the collector URL for an endpoint with any trailing
// slash removed.
func FeedbackURL(endpoint string) string {
	return strings.TrimSuffix(endpoint, "/") + "/feedback"
}

// Send posts the report, resending it with the same idempotency key on
// network errors, 5xx and 429 responses.
func (t *HTTPTransport) Send(ctx context.Context, r *Report) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	var b backoff.BackOff = &backoff.StopBackOff{}
	if t.config.MaxRetries > 0 {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = t.config.InitialInterval
		b = backoff.WithMaxRetries(exp, uint64(t.config.MaxRetries))
	}

	attempt := 0
	err = backoff.Retry(func() error {
		attempt++
		sendErr := t.post(ctx, r.ID, body)
		if sendErr == nil {
			return nil
		}

		var te *TransportError
		if errors.As(sendErr, &te) && !te.Retryable() {
			return backoff.Permanent(sendErr)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(sendErr)
		}

		logrus.Warnf("report %s attempt %d failed: %v", r.ID, attempt, sendErr)
		return sendErr
	}, backoff.WithContext(b, ctx))

	if err != nil {
		return err
	}

	logrus.Infof("report %s sent to %s after %d attempt(s)", r.ID, t.url, attempt)
	return nil
}

func (t *HTTPTransport) post(ctx context.Context, id string, body []byte) error {
	reqCtx, cancel := context.WithTimeout(ctx, t.config.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", id)

	resp, err := t.client.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{StatusCode: resp.StatusCode}
	}
	return nil
}
