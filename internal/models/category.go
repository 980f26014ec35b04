// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// UnnamedLabel is shown for a category that carries no labels at all.
const UnnamedLabel = "Unnamed"

// Label is the display text of a category in one language.
type Label struct {
	Language string `json:"language"`
	Text     string `json:"text"`
}

// Position is a point on the editing canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p shifted by d.
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the delta that moves q onto p.
func (p Position) Sub(q Position) Position {
	return Position{X: p.X - q.X, Y: p.Y - q.Y}
}

// IsZero reports whether p is the origin.
func (p Position) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// Category is one node of the category forest. Code is the immutable key;
// an empty Parent marks a root. Position is nil until the node has been
// placed and is never overwritten by layout once set.
type Category struct {
	Code     string    `json:"code"`
	Labels   []Label   `json:"labels"`
	Parent   string    `json:"parent,omitempty"`
	Position *Position `json:"position,omitempty"`
}

// IsRoot reports whether the category has no parent.
func (c Category) IsRoot() bool {
	return c.Parent == ""
}

// Label returns the text for the given language and whether it exists.
func (c Category) Label(language string) (string, bool) {
	for _, l := range c.Labels {
		if l.Language == language {
			return l.Text, true
		}
	}
	return "", false
}

// DisplayLabel resolves the label shown for language: the matching label,
// else the first label, else UnnamedLabel.
func (c Category) DisplayLabel(language string) string {
	if text, ok := c.Label(language); ok {
		return text
	}
	if len(c.Labels) > 0 {
		return c.Labels[0].Text
	}
	return UnnamedLabel
}

// Clone returns a deep copy so callers can modify labels or position
// without touching the original.
func (c Category) Clone() Category {
	out := c
	if c.Labels != nil {
		out.Labels = make([]Label, len(c.Labels))
		copy(out.Labels, c.Labels)
	}
	if c.Position != nil {
		p := *c.Position
		out.Position = &p
	}
	return out
}

// PositionPtr returns a pointer to a copy of p.
func PositionPtr(p Position) *Position {
	return &p
}
