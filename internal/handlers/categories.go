// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/StorkenPb/CategoryPlanner/internal/category"
	"github.com/StorkenPb/CategoryPlanner/internal/models"
)

// createdResponse reports a newly added category.
type createdResponse struct {
	Created  string `json:"created"`
	Selected string `json:"selected"`
}

// Categories returns the session state: collection, selection, pending
// removal and display language.
func (a *API) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.session.Snapshot())
}

// ReplaceCategories swaps in a whole collection after validating it.
func (a *API) ReplaceCategories(w http.ResponseWriter, r *http.Request) {
	var cats []models.Category
	if !decodeJSON(w, r, &cats) {
		return
	}
	if err := category.Validate(cats); err != nil {
		writeDomainError(w, err)
		return
	}
	a.session.Replace(cats)
	a.dropGraphs(r.Context())
	writeJSON(w, http.StatusOK, a.session.Snapshot())
}

// AddRoot adds a new top-level category and selects it.
func (a *API) AddRoot(w http.ResponseWriter, r *http.Request) {
	code := a.session.AddRoot()
	writeJSON(w, http.StatusCreated, createdResponse{Created: code, Selected: a.session.Selected()})
}

// Graph returns the render graph. The optional lang query parameter picks
// the label language for this response only.
func (a *API) Graph(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")
	if lang != "" && !a.session.Languages().Supports(lang) {
		writeError(w, http.StatusBadRequest, "unsupported language "+lang)
		return
	}
	var (
		g   models.Graph
		err error
	)
	if lang == "" || lang == a.session.Language() {
		g, err = a.graph(r.Context())
	} else {
		g, err = a.graphIn(r.Context(), lang)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// languageRequest is the body of SetLanguage.
type languageRequest struct {
	Language string `json:"language"`
}

// SetLanguage switches the display language of the session.
func (a *API) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var req languageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !a.session.SetLanguage(req.Language) {
		writeError(w, http.StatusBadRequest, "unsupported language "+req.Language)
		return
	}
	writeJSON(w, http.StatusOK, a.session.Snapshot())
}

// GraphProgress reports how far the latest graph build got.
func (a *API) GraphProgress(w http.ResponseWriter, r *http.Request) {
	p := a.session.Progress()
	writeJSON(w, http.StatusOK, map[string]any{
		"processed": p.Processed,
		"total":     p.Total,
		"fraction":  p.Fraction(),
	})
}

// Descendants lists every transitive child of a category, plus its parent
// chain nearest first.
func (a *API) Descendants(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	cats := a.session.Categories()
	if !category.Exists(cats, code) {
		writeError(w, http.StatusNotFound, "category not found: "+code)
		return
	}
	desc := category.Descendants(cats, code)
	if desc == nil {
		desc = []string{}
	}
	anc := category.Ancestors(cats, code)
	if anc == nil {
		anc = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"code": code, "descendants": desc, "ancestors": anc})
}

// AddSibling adds a category next to {code}.
func (a *API) AddSibling(w http.ResponseWriter, r *http.Request) {
	created, err := a.session.AddSibling(chi.URLParam(r, "code"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{Created: created, Selected: a.session.Selected()})
}

// AddChild adds a category under {code}.
func (a *API) AddChild(w http.ResponseWriter, r *http.Request) {
	created, err := a.session.AddChild(chi.URLParam(r, "code"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{Created: created, Selected: a.session.Selected()})
}

// textRequest carries label text.
type textRequest struct {
	Text string `json:"text"`
}

// Relabel sets the label of {code} in {lang}.
func (a *API) Relabel(w http.ResponseWriter, r *http.Request) {
	code, lang := chi.URLParam(r, "code"), chi.URLParam(r, "lang")
	if !a.session.Languages().Supports(lang) {
		writeError(w, http.StatusBadRequest, "unsupported language "+lang)
		return
	}
	var req textRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "label text is required")
		return
	}
	if err := a.session.Relabel(code, lang, text); err != nil {
		writeDomainError(w, err)
		return
	}
	c, _ := category.Find(a.session.Categories(), code)
	writeJSON(w, http.StatusOK, c)
}

// CommitEdit finishes an inline edit of {code} in the display language.
// Blank text leaves the label unchanged.
func (a *API) CommitEdit(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	var req textRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := a.session.CommitEdit(code, req.Text); err != nil {
		writeDomainError(w, err)
		return
	}
	c, ok := category.Find(a.session.Categories(), code)
	if !ok {
		writeError(w, http.StatusNotFound, "category not found: "+code)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Reparent moves {code} under another parent. An empty parent makes it a
// root.
func (a *API) Reparent(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	var req struct {
		Parent string `json:"parent"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := a.session.Reparent(code, req.Parent); err != nil {
		writeDomainError(w, err)
		return
	}
	c, _ := category.Find(a.session.Categories(), code)
	writeJSON(w, http.StatusOK, c)
}

// removalPrompt is returned while a removal awaits confirmation.
type removalPrompt struct {
	Code        string `json:"code"`
	Label       string `json:"label"`
	Descendants int    `json:"descendants"`
	Message     string `json:"message"`
}

// Remove deletes {code} and its subtree. Without ?confirm=true it only
// records the request and answers 409 with the confirmation prompt.
func (a *API) Remove(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if r.URL.Query().Get("confirm") != "true" {
		p, err := a.session.RequestRemoval(code)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusConflict, removalPrompt{
			Code:        p.Code,
			Label:       p.Label,
			Descendants: p.Descendants,
			Message:     p.Message(),
		})
		return
	}
	removed, err := a.session.ConfirmRemoval(code)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"removed": removed})
}

// CancelRemoval drops a pending removal request.
func (a *API) CancelRemoval(w http.ResponseWriter, r *http.Request) {
	a.session.CancelRemoval()
	w.WriteHeader(http.StatusNoContent)
}

// Select marks a category as selected, as on a node click.
func (a *API) Select(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := a.session.Select(req.Code); err != nil {
		if errors.Is(err, category.ErrNotFound) {
			writeError(w, http.StatusNotFound, "category not found: "+req.Code)
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"selected": req.Code})
}

// ClearSelection deselects, as on a pane click.
func (a *API) ClearSelection(w http.ResponseWriter, r *http.Request) {
	a.session.ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}
