// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package tree turns a flat category collection into the render graph.
// Stored positions are reused verbatim; categories without one are laid out
// breadth first, centered under their parent. The builder can run in one go
// or in bounded steps, and both produce the same graph.
package tree

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/StorkenPb/CategoryPlanner/internal/layout"
	"github.com/StorkenPb/CategoryPlanner/internal/models"
)

// DefaultSlice is the wall-clock budget of one incremental step.
const DefaultSlice = 16 * time.Millisecond

// Options controls graph construction.
type Options struct {
	// Language selects the label shown on each node.
	Language string
	// Spacing drives placement of nodes without a stored position.
	Spacing layout.Spacing
}

// Progress reports how many of the reachable categories have been emitted
// so far.
type Progress struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
}

// Fraction returns Processed/Total, or 1 for an empty build.
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 1
	}
	return float64(p.Processed) / float64(p.Total)
}

// frame is one pending sibling group: the children of parent, laid out at
// level and centered on anchorX.
type frame struct {
	parent  string
	level   int
	anchorX float64
}

// Builder produces the render graph one sibling group at a time.
type Builder struct {
	opts    Options
	buckets map[string][]models.Category
	queue   []frame
	visited map[string]bool
	graph   models.Graph
	total   int
}

// NewBuilder prepares a build of cats. The collection is read but never
// modified; the caller may keep using it.
func NewBuilder(cats []models.Category, opts Options) *Builder {
	opts.Spacing = opts.Spacing.Normalize()

	exists := make(map[string]bool, len(cats))
	for _, c := range cats {
		exists[c.Code] = true
	}
	buckets := make(map[string][]models.Category)
	for _, c := range cats {
		parent := c.Parent
		// A dangling parent would hide the node; show it as a root instead.
		if parent != "" && !exists[parent] {
			parent = ""
		}
		buckets[parent] = append(buckets[parent], c)
	}

	return &Builder{
		opts:    opts,
		buckets: buckets,
		queue:   []frame{{parent: "", level: 0, anchorX: 0}},
		visited: make(map[string]bool, len(cats)),
		graph: models.Graph{
			Nodes: make([]models.RenderNode, 0, len(cats)),
			Edges: make([]models.RenderEdge, 0, len(cats)),
		},
		total: reachable(buckets),
	}
}

// reachable counts the distinct codes reachable from the roots. Members of
// a parent cycle no root leads to are never emitted and are not counted.
func reachable(buckets map[string][]models.Category) int {
	seen := make(map[string]bool)
	stack := []string{""}
	for len(stack) > 0 {
		parent := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range buckets[parent] {
			if !seen[c.Code] {
				seen[c.Code] = true
				stack = append(stack, c.Code)
			}
		}
	}
	return len(seen)
}

// Done reports whether every reachable category has been emitted.
func (b *Builder) Done() bool {
	return len(b.queue) == 0
}

// Progress returns the current counts.
func (b *Builder) Progress() Progress {
	return Progress{Processed: len(b.graph.Nodes), Total: b.total}
}

// Result returns the graph built so far. After Done it is the full graph.
func (b *Builder) Result() models.Graph {
	return b.graph
}

// Step processes sibling groups until budget has elapsed or the build is
// done, and reports whether it is done. At least one group is processed per
// call so every step makes progress.
func (b *Builder) Step(budget time.Duration) bool {
	start := time.Now()
	for !b.Done() {
		b.next()
		if time.Since(start) >= budget {
			break
		}
	}
	return b.Done()
}

// StepNodes processes sibling groups until at least limit more nodes have
// been emitted or the build is done.
func (b *Builder) StepNodes(limit int) bool {
	target := len(b.graph.Nodes) + limit
	for !b.Done() {
		b.next()
		if len(b.graph.Nodes) >= target {
			break
		}
	}
	return b.Done()
}

// Run finishes the build without yielding.
func (b *Builder) Run() models.Graph {
	for !b.Done() {
		b.next()
	}
	return b.graph
}

func (b *Builder) next() {
	f := b.queue[0]
	b.queue = b.queue[1:]

	children := b.buckets[f.parent]
	if len(children) == 0 {
		return
	}
	// Each bucket is consumed once.
	delete(b.buckets, f.parent)
	sortSiblings(children)

	s := b.opts.Spacing
	unplaced := 0
	for _, c := range children {
		if c.Position == nil {
			unplaced++
		}
	}
	startX := f.anchorX - float64(unplaced)*s.SiblingSpacing/2 + s.SiblingSpacing/2

	idx := 0
	for _, c := range children {
		if b.visited[c.Code] {
			continue
		}
		b.visited[c.Code] = true

		var p models.Position
		if c.Position != nil {
			p = *c.Position
		} else {
			p = models.Position{
				X: startX + float64(idx)*s.SiblingSpacing,
				Y: float64(f.level) * s.LevelHeight,
			}
			idx++
		}

		b.graph.Nodes = append(b.graph.Nodes, renderNode(c, p, b.opts.Language))
		if f.parent != "" {
			b.graph.Edges = append(b.graph.Edges, models.NewRenderEdge(f.parent, c.Code))
		}
		b.queue = append(b.queue, frame{parent: c.Code, level: f.level + 1, anchorX: p.X})
	}
}

func renderNode(c models.Category, p models.Position, lang string) models.RenderNode {
	c = c.Clone()
	return models.RenderNode{
		ID:       c.Code,
		Position: p,
		Data: models.NodeData{
			Label:    c.DisplayLabel(lang),
			Code:     c.Code,
			Labels:   c.Labels,
			Parent:   c.Parent,
			Position: c.Position,
		},
	}
}

// sortSiblings orders positioned siblings left to right, then unpositioned
// siblings by code. Ties on x fall back to code so the order is total.
func sortSiblings(cs []models.Category) {
	slices.SortStableFunc(cs, func(a, b models.Category) int {
		switch {
		case a.Position != nil && b.Position != nil:
			if c := cmp.Compare(a.Position.X, b.Position.X); c != 0 {
				return c
			}
		case a.Position != nil:
			return -1
		case b.Position != nil:
			return 1
		}
		return strings.Compare(a.Code, b.Code)
	})
}

// Build lays out the whole collection at once.
func Build(cats []models.Category, opts Options) models.Graph {
	return NewBuilder(cats, opts).Run()
}
