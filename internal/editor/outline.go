// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"log/slog"
	"sync"
	"time"

	"github.com/StorkenPb/CategoryPlanner/internal/category"
	"github.com/StorkenPb/CategoryPlanner/internal/outline"
)

// DefaultDebounce is how long typing must pause before an outline edit is
// applied.
const DefaultDebounce = 500 * time.Millisecond

// OutlineEditor is the text view of a session. Typing is debounced;
// structural key commands and blur apply at once. While an edit is pending
// the text is not refreshed from the collection.
type OutlineEditor struct {
	s     *Session
	delay time.Duration

	mu      sync.Mutex
	text    string
	key     string
	pending bool
	gen     uint64
	timer   *time.Timer
	closed  bool
}

// NewOutlineEditor binds an outline editor to s. A non-positive delay uses
// DefaultDebounce.
func NewOutlineEditor(s *Session, delay time.Duration) *OutlineEditor {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	e := &OutlineEditor{s: s, delay: delay}
	e.refreshLocked()
	return e
}

// refreshLocked re-encodes the text when the collection or display language
// changed since the last encode.
func (e *OutlineEditor) refreshLocked() {
	snap := e.s.Snapshot()
	key := snap.Language + ":" + category.StructuralHash(snap.Categories)
	if key == e.key {
		return
	}
	e.key = key
	e.text = outline.Encode(snap.Categories, snap.Language)
}

// Text returns the outline. Without a pending edit it reflects the current
// collection.
func (e *OutlineEditor) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.pending {
		e.refreshLocked()
	}
	return e.text
}

// Pending reports whether an edit is waiting for the debounce.
func (e *OutlineEditor) Pending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending
}

// Focus clears the canvas selection, as when the text view gains focus.
func (e *OutlineEditor) Focus() {
	e.s.ClearSelection()
}

// Edit records new text and schedules it to be applied once typing pauses.
func (e *OutlineEditor) Edit(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.text = text
	e.pending = true
	e.gen++
	gen := e.gen
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.delay, func() { e.fire(gen) })
}

func (e *OutlineEditor) fire(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen || !e.pending {
		return
	}
	e.applyLocked()
}

// Flush applies a pending edit immediately, as on blur.
func (e *OutlineEditor) Flush() Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.pending {
		return Outcome{}
	}
	return e.applyLocked()
}

// Indent moves line one level deeper and applies the result.
func (e *OutlineEditor) Indent(line int) (string, Outcome) {
	return e.command(func(text string) string { return outline.IndentLine(text, line) })
}

// Outdent moves line one level up and applies the result.
func (e *OutlineEditor) Outdent(line int) (string, Outcome) {
	return e.command(func(text string) string { return outline.OutdentLine(text, line) })
}

// NewLine inserts an empty bullet after line at the same depth and applies
// the result.
func (e *OutlineEditor) NewLine(line int) (string, Outcome) {
	return e.command(func(text string) string { return outline.InsertAfter(text, line) })
}

func (e *OutlineEditor) command(edit func(string) string) (string, Outcome) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.pending {
		e.refreshLocked()
	}
	e.text = edit(e.text)
	out := e.applyLocked()
	return e.text, out
}

// applyLocked pushes the current text into the session. The text itself is
// kept as typed; only the key is advanced so the next Text call does not
// overwrite it.
func (e *OutlineEditor) applyLocked() Outcome {
	e.pending = false
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	out, err := e.s.ApplyOutline(e.text)
	if err != nil {
		slog.Error("failed to apply outline", "error", err)
		return out
	}
	snap := e.s.Snapshot()
	e.key = snap.Language + ":" + category.StructuralHash(snap.Categories)
	return out
}

// Close stops any pending timer without applying the edit.
func (e *OutlineEditor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.pending = false
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}
