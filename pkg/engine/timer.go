// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package engine

import (
	"time"

	"github.com/AccelByte/extend-struggle-engine/pkg/clock"
)

// scheduler arms timers whose expirations run on the engine goroutine.
type scheduler struct {
	clock clock.Clock
	post  func(func())
}

// timerSlot holds at most one pending expiry. Re-arming cancels the
// previous timer and bumps the generation, so an expiry that was already
// queued when it got cancelled is ignored.
type timerSlot struct {
	sched *scheduler
	timer clock.Timer
	gen   uint64
}

func (t *timerSlot) arm(d time.Duration, fire func()) {
	t.cancel()

	gen := t.gen
	t.timer = t.sched.clock.AfterFunc(d, func() {
		t.sched.post(func() {
			if gen != t.gen {
				return
			}
			t.timer = nil
			t.gen++
			fire()
		})
	})
}

func (t *timerSlot) cancel() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
}
