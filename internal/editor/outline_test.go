package editor

import (
	"strings"
	"testing"
	"time"

	"github.com/StorkenPb/CategoryPlanner/internal/category"
)

const sampleOutline = "• Electronics\n  • Phones\n    • Smartphones\n• Clothing"

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestOutlineEditorText(t *testing.T) {
	s := newTestSession(sampleCategories())
	e := NewOutlineEditor(s, time.Hour)
	defer e.Close()

	if got := e.Text(); got != sampleOutline {
		t.Errorf("Text() =\n%s\nwant\n%s", got, sampleOutline)
	}
	_ = s.Relabel("cl", "", "Apparel")
	if got := e.Text(); !strings.HasSuffix(got, "• Apparel") {
		t.Errorf("Text() after relabel =\n%s", got)
	}
}

func TestOutlineEditorDebouncesTyping(t *testing.T) {
	s := newTestSession(sampleCategories())
	e := NewOutlineEditor(s, 20*time.Millisecond)
	defer e.Close()

	e.Edit("• Electronics\n  • Phones\n    • Smartphones\n• Cloth")
	e.Edit("• Electronics\n  • Phones\n    • Smartphones\n• Clothes")
	if c, _ := category.Find(s.Categories(), "cl"); c.DisplayLabel("en") != "Clothing" {
		t.Error("edit applied before the quiet period")
	}

	waitFor(t, func() bool { return !e.Pending() })
	c, _ := category.Find(s.Categories(), "cl")
	if got := c.DisplayLabel("en"); got != "Clothes" {
		t.Errorf("label after debounce = %q, want Clothes", got)
	}
}

func TestOutlineEditorKeepsTextWhilePending(t *testing.T) {
	s := newTestSession(sampleCategories())
	e := NewOutlineEditor(s, time.Hour)
	defer e.Close()

	typed := sampleOutline + "\n• To"
	e.Edit(typed)
	_ = s.Relabel("el", "", "Gadgets")
	if got := e.Text(); got != typed {
		t.Errorf("Text() while pending = %q, want typed text", got)
	}
}

func TestOutlineEditorFlush(t *testing.T) {
	s := newTestSession(sampleCategories())
	e := NewOutlineEditor(s, time.Hour)
	defer e.Close()

	if out := e.Flush(); out.Changed {
		t.Error("Flush without pending edit changed the collection")
	}
	e.Edit(sampleOutline + "\n• Toys")
	out := e.Flush()
	if !out.Rebuilt || len(s.Categories()) != 5 {
		t.Errorf("Flush() = %+v with %d categories, want rebuilt 5", out, len(s.Categories()))
	}
	if e.Pending() {
		t.Error("edit still pending after Flush")
	}
}

func TestOutlineEditorCommandsApplyImmediately(t *testing.T) {
	s := newTestSession(sampleCategories())
	e := NewOutlineEditor(s, time.Hour)
	defer e.Close()

	text, out := e.Indent(3)
	if !out.Rebuilt || !strings.HasSuffix(text, "\n  • Clothing") {
		t.Fatalf("Indent(3) = %q, %+v", text, out)
	}
	roots := 0
	for _, c := range s.Categories() {
		if c.IsRoot() {
			roots++
		}
	}
	if roots != 1 {
		t.Errorf("roots after indent = %d, want 1", roots)
	}

	text, _ = e.Outdent(3)
	if !strings.HasSuffix(text, "\n• Clothing") {
		t.Errorf("Outdent(3) = %q", text)
	}

	text, _ = e.NewLine(0)
	if lines := strings.Split(text, "\n"); len(lines) != 5 || lines[1] != "• " {
		t.Errorf("NewLine(0) = %q", text)
	}
}

func TestOutlineEditorFocusClearsSelection(t *testing.T) {
	s := newTestSession(sampleCategories())
	_ = s.Select("ph")
	e := NewOutlineEditor(s, time.Hour)
	defer e.Close()

	e.Focus()
	if s.Selected() != "" {
		t.Errorf("Selected() = %q after focus", s.Selected())
	}
}

func TestOutlineEditorCloseDropsPendingEdit(t *testing.T) {
	s := newTestSession(sampleCategories())
	e := NewOutlineEditor(s, 10*time.Millisecond)
	e.Edit("• Only")
	e.Close()
	time.Sleep(30 * time.Millisecond)
	if got := len(s.Categories()); got != 4 {
		t.Errorf("categories = %d after Close, want 4", got)
	}
}
