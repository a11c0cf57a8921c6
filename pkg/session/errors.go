// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package session

import "errors"

var (
	// ErrSessionNotFound is returned for operations on a session with no running engine.
	ErrSessionNotFound = errors.New("session not found")
	// ErrTenantMismatch is returned when a session is addressed with another tenant.
	ErrTenantMismatch = errors.New("session belongs to another tenant")
	// ErrInvalidSessionID is returned for empty session IDs.
	ErrInvalidSessionID = errors.New("invalid session ID")
)
