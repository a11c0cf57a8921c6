// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package engine

import "errors"

var (
	// ErrLoopNotRunning is returned by Loop calls made before Start or after Stop.
	ErrLoopNotRunning = errors.New("engine loop is not running")
)
