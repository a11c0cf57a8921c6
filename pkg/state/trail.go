// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package state

// MinTrailCapacity is the smallest trail that still serves reports and U-turn matching.
const MinTrailCapacity = 5

// FocusTrail keeps the last N focus entries in arrival order.
type FocusTrail struct {
	entries  []FocusEntry
	capacity int
}

// NewFocusTrail creates a trail holding at most capacity entries.
func NewFocusTrail(capacity int) *FocusTrail {
	if capacity < MinTrailCapacity {
		capacity = MinTrailCapacity
	}
	return &FocusTrail{
		entries:  make([]FocusEntry, 0, capacity),
		capacity: capacity,
	}
}

// Push appends an entry, evicting the oldest when full.
func (t *FocusTrail) Push(entry FocusEntry) {
	if len(t.entries) == t.capacity {
		copy(t.entries, t.entries[1:])
		t.entries = t.entries[:len(t.entries)-1]
	}
	t.entries = append(t.entries, entry)
}

// Last returns a copy of the newest n entries, oldest first.
func (t *FocusTrail) Last(n int) []FocusEntry {
	if n > len(t.entries) {
		n = len(t.entries)
	}
	out := make([]FocusEntry, n)
	copy(out, t.entries[len(t.entries)-n:])
	return out
}

// All returns a copy of every entry.
func (t *FocusTrail) All() []FocusEntry {
	return t.Last(len(t.entries))
}

// Len returns the number of entries held.
func (t *FocusTrail) Len() int {
	return len(t.entries)
}

// Restore replaces the content, keeping only the newest entries that fit.
func (t *FocusTrail) Restore(entries []FocusEntry) {
	t.entries = t.entries[:0]
	for _, e := range entries {
		t.Push(e)
	}
}

// Path is a bounded ordered list of visited target identities.
type Path struct {
	steps    []string
	capacity int
}

// NewPath creates a path holding at most capacity steps.
func NewPath(capacity int) *Path {
	if capacity < 1 {
		capacity = 1
	}
	return &Path{capacity: capacity}
}

// Visit appends a step, evicting the oldest when full.
func (p *Path) Visit(step string) {
	if len(p.steps) == p.capacity {
		p.steps = p.steps[1:]
	}
	p.steps = append(p.steps, step)
}

// Steps returns a copy of the path.
func (p *Path) Steps() []string {
	out := make([]string, len(p.steps))
	copy(out, p.steps)
	return out
}

// Restore replaces the content.
func (p *Path) Restore(steps []string) {
	p.steps = nil
	for _, s := range steps {
		p.Visit(s)
	}
}
