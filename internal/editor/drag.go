// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"fmt"
	"slices"

	"github.com/StorkenPb/CategoryPlanner/internal/category"
	"github.com/StorkenPb/CategoryPlanner/internal/models"
)

// DragStart begins dragging code from pos.
func (s *Session) DragStart(code string, pos models.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !category.Exists(s.state.Categories, code) {
		return fmt.Errorf("drag start: %w: %q", category.ErrNotFound, code)
	}
	s.ensureGraphLocked()
	s.moves.Start(code, pos)
	return nil
}

// Drag moves code to pos on the canvas, carrying its subtree along. It
// returns the render positions of every node that moved. The category
// collection is not changed until DragStop.
func (s *Session) Drag(code string, pos models.Position) (map[string]models.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureGraphLocked()
	if !s.moves.Move(&s.graph, code, pos) {
		return nil, fmt.Errorf("drag %q: no drag in progress", code)
	}
	return s.subtreePositionsLocked(code), nil
}

// DragStop ends the drag, pins the final positions of code and its
// descendants and selects code.
func (s *Session) DragStop(code string, pos models.Position) (map[string]models.Position, error) {
	s.mu.Lock()
	if !category.Exists(s.state.Categories, code) {
		s.moves.Cancel(code)
		s.mu.Unlock()
		return nil, fmt.Errorf("drag stop: %w: %q", category.ErrNotFound, code)
	}
	s.ensureGraphLocked()
	commit := s.moves.Stop(&s.graph, code, pos)
	next, _, err := Reduce(s.state, Action{Kind: ActSetPositions, Code: commit.Selected, Positions: commit.Positions}, s.cfg.Options, s.lang)
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("drag stop: %w", err)
	}
	s.state = next
	// Pinning the subtree can shift unplaced siblings, so the next Graph
	// call rebuilds from the committed collection.
	moved := s.subtreePositionsLocked(code)
	snap := s.snapshotLocked()
	subs := slices.Clone(s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return moved, nil
}

func (s *Session) subtreePositionsLocked(code string) map[string]models.Position {
	ids := append([]string{code}, category.Resolve(s.graph.ChildIndex(), code)...)
	out := make(map[string]models.Position, len(ids))
	for _, id := range ids {
		if n := s.graph.Node(id); n != nil {
			out[id] = n.Position
		}
	}
	return out
}
