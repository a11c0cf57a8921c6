// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package report

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTransport indicates that no collector endpoint is configured.
	ErrNoTransport = errors.New("no report transport configured")

	// ErrSendInProgress indicates that a report is already being sent.
	ErrSendInProgress = errors.New("report send already in progress")
)

// TransportError is returned when the collector did not accept a report.
// StatusCode is zero when the request never got a response.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("report transport failed: %v", e.Err)
	}
	return fmt.Sprintf("report rejected by collector: status %d", e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Retryable reports whether resending the same report may succeed.
func (e *TransportError) Retryable() bool {
	return e.StatusCode == 0 || e.StatusCode >= 500 || e.StatusCode == 429
}
