// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package movement keeps a dragged category and its whole subtree moving
// together. During a drag only the render graph is shifted; the category
// collection is updated once, when the drag stops.
package movement

import (
	"log/slog"

	"github.com/StorkenPb/CategoryPlanner/internal/category"
	"github.com/StorkenPb/CategoryPlanner/internal/models"
)

// drag is the state of one in-progress drag.
type drag struct {
	start       models.Position
	lastApplied models.Position
}

// Commit is the outcome of a finished drag.
type Commit struct {
	// Positions holds the final position of every moved code.
	Positions map[string]models.Position
	// Selected is the node that was dragged.
	Selected string
	// Delta is the total displacement since the drag started.
	Delta models.Position
	// Moved lists every code whose position was written.
	Moved []string
}

// Coordinator tracks drags per node id. It is not safe for concurrent use;
// the owning session serializes access.
type Coordinator struct {
	drags map[string]drag
}

// NewCoordinator returns an idle coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{drags: make(map[string]drag)}
}

// Start records the anchor position of a drag on id.
func (c *Coordinator) Start(id string, pos models.Position) {
	c.drags[id] = drag{start: pos, lastApplied: pos}
	slog.Debug("drag started", "node", id, "x", pos.X, "y", pos.Y)
}

// Restore re-applies every active drag to g, a graph freshly built from the
// collection: each dragged node goes back to its last position and its
// descendants get the offset accumulated since the drag started. Drags whose
// node is no longer in g are dropped.
func (c *Coordinator) Restore(g *models.Graph) {
	if len(c.drags) == 0 {
		return
	}
	idx := nodeIndex(g)
	children := g.ChildIndex()
	for id, d := range c.drags {
		i, ok := idx[id]
		if !ok {
			delete(c.drags, id)
			continue
		}
		g.Nodes[i].Position = d.lastApplied
		offset := d.lastApplied.Sub(d.start)
		if offset.IsZero() {
			continue
		}
		for _, code := range category.Resolve(children, id) {
			if j, ok := idx[code]; ok {
				g.Nodes[j].Position = g.Nodes[j].Position.Add(offset)
			}
		}
	}
}

// Move places id at pos in g and shifts its descendants by the same
// delta. It returns false when no drag is active for id.
func (c *Coordinator) Move(g *models.Graph, id string, pos models.Position) bool {
	d, ok := c.drags[id]
	if !ok {
		return false
	}
	c.apply(g, id, pos, d)
	d.lastApplied = pos
	c.drags[id] = d
	return true
}

// Stop applies any remaining movement, collects the final positions of id
// and its descendants and clears the drag. A stop without a start still
// pins the positions currently shown in g.
func (c *Coordinator) Stop(g *models.Graph, id string, pos models.Position) Commit {
	d, ok := c.drags[id]
	if ok {
		c.apply(g, id, pos, d)
		delete(c.drags, id)
	} else {
		d = drag{start: pos, lastApplied: pos}
		if n := g.Node(id); n != nil {
			n.Position = pos
		}
	}

	moved := append([]string{id}, category.Resolve(g.ChildIndex(), id)...)
	idx := nodeIndex(g)
	final := make(map[string]models.Position, len(moved))
	for _, code := range moved {
		if i, ok := idx[code]; ok {
			final[code] = g.Nodes[i].Position
			g.Nodes[i].Data.Position = models.PositionPtr(g.Nodes[i].Position)
		}
	}

	commit := Commit{
		Positions: final,
		Selected:  id,
		Delta:     pos.Sub(d.start),
		Moved:     moved,
	}
	slog.Debug("drag committed", "node", id, "moved", len(moved), "dx", commit.Delta.X, "dy", commit.Delta.Y)
	return commit
}

// Cancel drops any drag state for id without touching the graph.
func (c *Coordinator) Cancel(id string) {
	delete(c.drags, id)
}

func (c *Coordinator) apply(g *models.Graph, id string, pos models.Position, d drag) {
	if n := g.Node(id); n != nil {
		n.Position = pos
	}
	delta := pos.Sub(d.lastApplied)
	if delta.IsZero() {
		return
	}
	idx := nodeIndex(g)
	for _, code := range category.Resolve(g.ChildIndex(), id) {
		if i, ok := idx[code]; ok {
			g.Nodes[i].Position = g.Nodes[i].Position.Add(delta)
		}
	}
}

func nodeIndex(g *models.Graph) map[string]int {
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		idx[n.ID] = i
	}
	return idx
}
