// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Edge handle and type values emitted for every parent to child edge.
const (
	HandleBottom    = "bottom"
	HandleTop       = "top"
	EdgeTypeDefault = "default"
)

// NodeData is the payload attached to a render node.
type NodeData struct {
	Label    string    `json:"label"`
	Code     string    `json:"code"`
	Labels   []Label   `json:"labels"`
	Parent   string    `json:"parent,omitempty"`
	Position *Position `json:"position,omitempty"`
}

// RenderNode is the drawable projection of a category.
type RenderNode struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// RenderEdge connects a parent render node to a child render node.
type RenderEdge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle"`
	TargetHandle string `json:"targetHandle"`
	Type         string `json:"type"`
}

// NewRenderEdge builds the edge from parent to child with the fixed
// bottom to top handles.
func NewRenderEdge(parent, child string) RenderEdge {
	return RenderEdge{
		ID:           parent + "-" + child,
		Source:       parent,
		Target:       child,
		SourceHandle: HandleBottom,
		TargetHandle: HandleTop,
		Type:         EdgeTypeDefault,
	}
}

// Graph is the render projection of a category collection.
type Graph struct {
	Nodes []RenderNode `json:"nodes"`
	Edges []RenderEdge `json:"edges"`
}

// Node returns a pointer to the node with the given id, or nil.
func (g *Graph) Node(id string) *RenderNode {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// ChildIndex maps each source id to its edge targets in edge order.
func (g *Graph) ChildIndex() map[string][]string {
	idx := make(map[string][]string, len(g.Nodes))
	for _, e := range g.Edges {
		idx[e.Source] = append(idx[e.Source], e.Target)
	}
	return idx
}

// Clone returns a deep copy of the graph.
func (g Graph) Clone() Graph {
	out := Graph{
		Nodes: make([]RenderNode, len(g.Nodes)),
		Edges: make([]RenderEdge, len(g.Edges)),
	}
	copy(out.Edges, g.Edges)
	for i, n := range g.Nodes {
		n.Data.Labels = append([]Label(nil), n.Data.Labels...)
		if n.Data.Position != nil {
			p := *n.Data.Position
			n.Data.Position = &p
		}
		out.Nodes[i] = n
	}
	return out
}
