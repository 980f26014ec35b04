// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers of the category planner API.
// Handlers are grouped by concern (categories, interaction, transfer) and
// receive their dependencies through the API struct.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/StorkenPb/CategoryPlanner/internal/cache"
	"github.com/StorkenPb/CategoryPlanner/internal/category"
	"github.com/StorkenPb/CategoryPlanner/internal/csvio"
	"github.com/StorkenPb/CategoryPlanner/internal/editor"
	"github.com/StorkenPb/CategoryPlanner/internal/models"
	"github.com/StorkenPb/CategoryPlanner/internal/storage"
	"github.com/StorkenPb/CategoryPlanner/internal/store"
)

const (
	// maxBodySize limits JSON request bodies.
	maxBodySize = 1 << 20

	// maxImportSize limits CSV uploads.
	maxImportSize = 10 << 20

	// saveTimeout bounds one repository write.
	saveTimeout = 10 * time.Second
)

// Repository persists the category collection. It is replaced wholesale on
// every save.
type Repository interface {
	Load(ctx context.Context) ([]models.Category, error)
	Save(ctx context.Context, cats []models.Category) error
}

// Archive bundles the optional export archive dependencies.
type Archive struct {
	Client *storage.Client
	Log    *store.ArchiveStore
	// LinkTTL is how long presigned download links stay valid.
	LinkTTL time.Duration
}

// API groups the JSON API handlers and their dependencies.
type API struct {
	session  *editor.Session
	outline  *editor.OutlineEditor
	repo     Repository
	graphs   *cache.GraphCache
	archive  *Archive
	importer csvio.ImportOptions

	// saveMu serializes repository writes so the latest state always wins.
	saveMu sync.Mutex
}

// NewAPI creates the API over a session. graphs and archive may be nil when
// Valkey or object storage are not configured. Every change to the session
// collection is written through repo.
func NewAPI(session *editor.Session, outline *editor.OutlineEditor, repo Repository, graphs *cache.GraphCache, archive *Archive, importer csvio.ImportOptions) *API {
	if importer.Languages == nil {
		importer.Languages = session.Languages()
	}
	if archive != nil && archive.Client == nil {
		archive = nil
	}
	if archive != nil && archive.LinkTTL == 0 {
		archive.LinkTTL = 15 * time.Minute
	}
	a := &API{
		session:  session,
		outline:  outline,
		repo:     repo,
		graphs:   graphs,
		archive:  archive,
		importer: importer,
	}
	session.Subscribe(a.persist)
	return a
}

// persist writes the current collection. It reads the session again rather
// than the snapshot so a slow save never overwrites a newer one.
func (a *API) persist(editor.Snapshot) {
	if a.repo == nil {
		return
	}
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	cats := a.session.Categories()
	if err := a.repo.Save(ctx, cats); err != nil {
		slog.Error("failed to persist categories", "error", err, "categories", len(cats))
	}
}

// graph returns the render graph of the session, through the Valkey cache
// when one is configured.
func (a *API) graph(ctx context.Context) (models.Graph, error) {
	if a.graphs == nil {
		return a.session.Graph(ctx)
	}
	lang, hash := a.session.GraphKey()
	g, err := a.graphs.GetOrBuild(ctx, lang, hash, func(ctx context.Context) (models.Graph, error) {
		return a.session.GraphAt(ctx, lang, hash)
	})
	if errors.Is(err, editor.ErrStaleGraph) {
		return a.session.Graph(ctx)
	}
	return g, err
}

// graphIn returns the render graph labelled in lang without switching the
// display language.
func (a *API) graphIn(ctx context.Context, lang string) (models.Graph, error) {
	cats := a.session.Categories()
	build := func(ctx context.Context) (models.Graph, error) {
		return a.session.GraphIn(ctx, cats, lang)
	}
	if a.graphs == nil {
		return build(ctx)
	}
	return a.graphs.GetOrBuild(ctx, lang, category.ContentHash(cats), build)
}

// dropGraphs clears the graph cache after a wholesale replace.
func (a *API) dropGraphs(ctx context.Context) {
	if a.graphs != nil {
		a.graphs.InvalidateAll(ctx)
	}
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Code  string `json:"code,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError sends a JSON error with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeDomainError maps editor and model errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var integrity *category.IntegrityError
	switch {
	case errors.Is(err, category.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &integrity):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Kind: integrity.Kind, Code: integrity.Code})
	case csvio.IsImportError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
