package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/StorkenPb/CategoryPlanner/internal/category"
	"github.com/StorkenPb/CategoryPlanner/internal/editor"
	"github.com/StorkenPb/CategoryPlanner/internal/models"
)

// dragResponse lists the render positions of the dragged subtree.
type dragResponse struct {
	Code      string                     `json:"code"`
	Positions map[string]models.Position `json:"positions"`
	Selected  string                     `json:"selected,omitempty"`
}

// Drag handles the start, move and stop phases of a node drag. The phase
// comes from the {phase} URL parameter; the body is the pointer position.
func (a *API) Drag(w http.ResponseWriter, r *http.Request) {
	code, phase := chi.URLParam(r, "code"), chi.URLParam(r, "phase")
	var pos models.Position
	if !decodeJSON(w, r, &pos) {
		return
	}

	switch phase {
	case "start":
		if err := a.session.DragStart(code, pos); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case "move":
		moved, err := a.session.Drag(code, pos)
		if err != nil {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, dragResponse{Code: code, Positions: moved})

	case "stop":
		moved, err := a.session.DragStop(code, pos)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, dragResponse{Code: code, Positions: moved, Selected: a.session.Selected()})

	default:
		writeError(w, http.StatusNotFound, "unknown drag phase "+phase)
	}
}

// Key applies one keystroke to the selected node.
func (a *API) Key(w http.ResponseWriter, r *http.Request) {
	var ev editor.KeyEvent
	if !decodeJSON(w, r, &ev) {
		return
	}
	res, err := a.session.HandleKey(ev)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// outlineResponse is the text view plus the result of the last apply.
type outlineResponse struct {
	Text    string          `json:"text"`
	Pending bool            `json:"pending"`
	Outcome *editor.Outcome `json:"outcome,omitempty"`
}

// Outline returns the outline text of the collection.
func (a *API) Outline(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, outlineResponse{Text: a.outline.Text(), Pending: a.outline.Pending()})
}

// EditOutline records typed outline text. The edit is applied after the
// debounce delay, or at once when immediate is set (blur).
func (a *API) EditOutline(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text      string `json:"text"`
		Immediate bool   `json:"immediate"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	a.outline.Edit(req.Text)
	if !req.Immediate {
		writeJSON(w, http.StatusAccepted, outlineResponse{Text: req.Text, Pending: true})
		return
	}
	out := a.outline.Flush()
	writeJSON(w, http.StatusOK, outlineResponse{Text: a.outline.Text(), Outcome: &out})
}

// OutlineCommand applies a structural key command (indent, outdent,
// newline) to one line of the outline.
func (a *API) OutlineCommand(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Line int `json:"line"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Line < 0 {
		writeError(w, http.StatusBadRequest, "line must not be negative, got "+strconv.Itoa(req.Line))
		return
	}

	var (
		text string
		out  editor.Outcome
	)
	switch chi.URLParam(r, "command") {
	case "indent":
		text, out = a.outline.Indent(req.Line)
	case "outdent":
		text, out = a.outline.Outdent(req.Line)
	case "newline":
		text, out = a.outline.NewLine(req.Line)
	default:
		writeError(w, http.StatusNotFound, "unknown outline command")
		return
	}
	writeJSON(w, http.StatusOK, outlineResponse{Text: text, Outcome: &out})
}

// FocusOutline clears the canvas selection when the outline takes focus.
func (a *API) FocusOutline(w http.ResponseWriter, r *http.Request) {
	a.outline.Focus()
	w.WriteHeader(http.StatusNoContent)
}

// Stats summarizes the collection shape.
func (a *API) Stats(w http.ResponseWriter, r *http.Request) {
	cats := a.session.Categories()
	idx := category.ChildIndex(cats)
	levels := 0
	for level := idx[""]; len(level) > 0; levels++ {
		var next []string
		for _, code := range level {
			next = append(next, idx[code]...)
		}
		level = next
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"categories": len(cats),
		"roots":      len(idx[""]),
		"levels":     levels,
	})
}
