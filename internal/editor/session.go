// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package editor owns the live editing state: the category collection, the
// selection, the cached render graph and any drag in progress. A Session is
// the single writer; every change goes through Dispatch and the pure
// Reduce function, so concurrent callers always see whole states.
package editor

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/StorkenPb/CategoryPlanner/internal/category"
	"github.com/StorkenPb/CategoryPlanner/internal/models"
	"github.com/StorkenPb/CategoryPlanner/internal/movement"
	"github.com/StorkenPb/CategoryPlanner/internal/tree"
)

// ErrStaleGraph is returned by GraphAt when the collection or language
// moved on before the graph was built.
var ErrStaleGraph = errors.New("graph no longer matches the session")

// DefaultChunkThreshold is the collection size above which the render graph
// is rebuilt in time-sliced chunks.
const DefaultChunkThreshold = 500

// Config configures a Session.
type Config struct {
	Languages models.LanguageSet
	// Language is the initial display language.
	Language string
	Options  category.Options
	// ChunkThreshold switches graph rebuilds to the chunked builder.
	ChunkThreshold int
	// Slice is the time budget of one chunk.
	Slice time.Duration
}

func (c Config) normalize() Config {
	if len(c.Languages) == 0 {
		c.Languages = models.DefaultLanguages
	}
	if c.Language == "" {
		c.Language = c.Languages.Default().Code
	}
	if len(c.Options.Languages) == 0 {
		c.Options.Languages = c.Languages.Codes()
	}
	if c.Options.Placeholder == "" {
		c.Options.Placeholder = category.DefaultPlaceholder
	}
	c.Options.Spacing = c.Options.Spacing.Normalize()
	if c.ChunkThreshold <= 0 {
		c.ChunkThreshold = DefaultChunkThreshold
	}
	if c.Slice <= 0 {
		c.Slice = tree.DefaultSlice
	}
	return c
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	Categories     []models.Category `json:"categories"`
	Selected       string            `json:"selected,omitempty"`
	PendingRemoval string            `json:"pending_removal,omitempty"`
	Language       string            `json:"language"`
}

// Session is one editing session.
type Session struct {
	mu    sync.Mutex
	cfg   Config
	state State
	lang  string

	graph    models.Graph
	graphKey string
	progress tree.Progress
	moves    *movement.Coordinator

	// subscribers are called after every committed change, outside the lock.
	subscribers []func(Snapshot)
}

// NewSession starts a session over cats.
func NewSession(cats []models.Category, cfg Config) *Session {
	cfg = cfg.normalize()
	return &Session{
		cfg:   cfg,
		state: State{Categories: cats},
		lang:  cfg.Language,
		moves: movement.NewCoordinator(),
	}
}

// Subscribe registers fn to be called with the new state after each
// change to the category collection.
func (s *Session) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// Languages returns the configured language set.
func (s *Session) Languages() models.LanguageSet {
	return s.cfg.Languages
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Categories:     slices.Clone(s.state.Categories),
		Selected:       s.state.Selected,
		PendingRemoval: s.state.PendingRemoval,
		Language:       s.lang,
	}
}

// Categories returns the current collection.
func (s *Session) Categories() []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.Categories)
}

// Selected returns the selected code, or "".
func (s *Session) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Selected
}

// Language returns the display language.
func (s *Session) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

// SetLanguage switches the display language. Unknown languages are
// rejected with false.
func (s *Session) SetLanguage(lang string) bool {
	if !s.cfg.Languages.Supports(lang) {
		return false
	}
	s.mu.Lock()
	s.lang = lang
	s.mu.Unlock()
	return true
}

// Dispatch applies one action and notifies subscribers when the collection
// changed.
func (s *Session) Dispatch(a Action) (Outcome, error) {
	s.mu.Lock()
	next, out, err := Reduce(s.state, a, s.cfg.Options, s.lang)
	if err != nil {
		s.mu.Unlock()
		return out, err
	}
	s.state = next
	var (
		snap Snapshot
		subs []func(Snapshot)
	)
	if out.Changed {
		snap = s.snapshotLocked()
		subs = slices.Clone(s.subscribers)
	}
	s.mu.Unlock()

	if out.Changed {
		slog.Debug("editor state changed", "action", a.Kind, "categories", len(snap.Categories))
		for _, fn := range subs {
			fn(snap)
		}
	}
	return out, nil
}

// Replace swaps in a whole new collection, as after an import.
func (s *Session) Replace(cats []models.Category) {
	_, _ = s.Dispatch(Action{Kind: ActReplace, Categories: cats})
}

// AddSibling adds a category next to code and selects it.
func (s *Session) AddSibling(code string) (string, error) {
	out, err := s.Dispatch(Action{Kind: ActAddSibling, Code: code})
	return out.Created, err
}

// AddChild adds a category under code and selects it.
func (s *Session) AddChild(code string) (string, error) {
	out, err := s.Dispatch(Action{Kind: ActAddChild, Code: code})
	return out.Created, err
}

// AddRoot adds a root category and selects it.
func (s *Session) AddRoot() string {
	out, _ := s.Dispatch(Action{Kind: ActAddRoot})
	return out.Created
}

// Relabel sets the label of code in lang, or in the display language when
// lang is empty.
func (s *Session) Relabel(code, lang, text string) error {
	_, err := s.Dispatch(Action{Kind: ActRelabel, Code: code, Language: lang, Text: text})
	return err
}

// Reparent moves code under parent.
func (s *Session) Reparent(code, parent string) error {
	_, err := s.Dispatch(Action{Kind: ActReparent, Code: code, Parent: parent})
	return err
}

// RequestRemoval returns the confirmation prompt for deleting code.
func (s *Session) RequestRemoval(code string) (RemovalPrompt, error) {
	out, err := s.Dispatch(Action{Kind: ActRequestRemoval, Code: code})
	if err != nil {
		return RemovalPrompt{}, err
	}
	return *out.Prompt, nil
}

// ConfirmRemoval deletes code and its descendants. An empty code confirms
// the pending request.
func (s *Session) ConfirmRemoval(code string) (string, error) {
	out, err := s.Dispatch(Action{Kind: ActConfirmRemoval, Code: code})
	return out.Removed, err
}

// CancelRemoval drops a pending removal request.
func (s *Session) CancelRemoval() {
	_, _ = s.Dispatch(Action{Kind: ActCancelRemoval})
}

// Select marks code as selected, as on a node click.
func (s *Session) Select(code string) error {
	_, err := s.Dispatch(Action{Kind: ActSelect, Code: code})
	return err
}

// ClearSelection deselects, as on a pane click.
func (s *Session) ClearSelection() {
	_, _ = s.Dispatch(Action{Kind: ActClearSelection})
}

// ApplyOutline merges an edited outline into the collection.
func (s *Session) ApplyOutline(text string) (Outcome, error) {
	return s.Dispatch(Action{Kind: ActApplyOutline, Text: text})
}

// Graph returns the render graph for the display language, rebuilding it
// when the collection changed. Large collections are rebuilt in chunks
// outside the lock; if the collection changes meanwhile the stale result
// is discarded and the newest graph is built instead.
func (s *Session) Graph(ctx context.Context) (models.Graph, error) {
	g, _, err := s.keyedGraph(ctx)
	return g, err
}

// GraphKey returns the display language and content hash the next graph
// will be built for.
func (s *Session) GraphKey() (lang, hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang, category.ContentHash(s.state.Categories)
}

// GraphAt returns the render graph if it is still the one for lang and
// hash, or ErrStaleGraph.
func (s *Session) GraphAt(ctx context.Context, lang, hash string) (models.Graph, error) {
	g, key, err := s.keyedGraph(ctx)
	if err != nil {
		return models.Graph{}, err
	}
	if key != lang+":"+hash {
		return models.Graph{}, ErrStaleGraph
	}
	return g, nil
}

// maxStaleBuilds bounds how often a chunked build is redone because the
// collection changed while it ran.
const maxStaleBuilds = 3

func (s *Session) keyedGraph(ctx context.Context) (models.Graph, string, error) {
	for attempt := 1; ; attempt++ {
		s.mu.Lock()
		key := s.graphKeyLocked()
		if key == s.graphKey {
			g := s.graph.Clone()
			s.mu.Unlock()
			return g, key, nil
		}
		cats := s.state.Categories
		lang := s.lang
		if len(cats) <= s.cfg.ChunkThreshold {
			s.setGraphLocked(tree.Build(cats, s.treeOptions(lang)), key)
			s.progress = tree.Progress{Processed: len(s.graph.Nodes), Total: len(s.graph.Nodes)}
			g := s.graph.Clone()
			s.mu.Unlock()
			return g, key, nil
		}
		s.mu.Unlock()

		start := time.Now()
		g, err := tree.BuildChunked(ctx, cats, s.treeOptions(lang), s.cfg.Slice, func(p tree.Progress) {
			s.mu.Lock()
			s.progress = p
			s.mu.Unlock()
		})
		if err != nil {
			return models.Graph{}, "", err
		}

		s.mu.Lock()
		if s.graphKeyLocked() != key {
			s.mu.Unlock()
			if attempt < maxStaleBuilds {
				slog.Debug("discarding stale graph build", "nodes", len(g.Nodes), "attempt", attempt)
				continue
			}
			// The graph matches the collection as it was when the build
			// started. It is returned under that key but not kept.
			slog.Warn("collection keeps changing during graph builds, serving last build", "attempts", attempt)
			return g, key, nil
		}
		s.setGraphLocked(g, key)
		g = s.graph.Clone()
		s.mu.Unlock()
		slog.Info("graph rebuilt in chunks", "nodes", len(g.Nodes), "duration", time.Since(start))
		return g, key, nil
	}
}

// GraphIn builds the render graph of cats labelled in lang. The display
// language, the cached graph and the build progress are left untouched.
func (s *Session) GraphIn(ctx context.Context, cats []models.Category, lang string) (models.Graph, error) {
	if len(cats) <= s.cfg.ChunkThreshold {
		return tree.Build(cats, s.treeOptions(lang)), nil
	}
	return tree.BuildChunked(ctx, cats, s.treeOptions(lang), s.cfg.Slice, nil)
}

// Progress reports the most recent graph build progress.
func (s *Session) Progress() tree.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

func (s *Session) treeOptions(lang string) tree.Options {
	return tree.Options{Language: lang, Spacing: s.cfg.Options.Spacing}
}

// graphKeyLocked identifies the collection and language a graph is valid
// for.
func (s *Session) graphKeyLocked() string {
	return s.lang + ":" + category.ContentHash(s.state.Categories)
}

// ensureGraphLocked makes s.graph current without yielding. Drags need the
// graph under the lock.
func (s *Session) ensureGraphLocked() {
	key := s.graphKeyLocked()
	if key == s.graphKey {
		return
	}
	s.setGraphLocked(tree.Build(s.state.Categories, s.treeOptions(s.lang)), key)
}

// setGraphLocked installs a freshly built graph. Drags in progress are
// carried over so a dragged subtree stays where the pointer put it.
func (s *Session) setGraphLocked(g models.Graph, key string) {
	s.moves.Restore(&g)
	s.graph = g
	s.graphKey = key
}
