// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package layout computes canvas positions for newly created categories.
// All functions are pure: they read the collection and never modify it.
package layout

import "github.com/StorkenPb/CategoryPlanner/internal/models"

// Default spacing constants in canvas units.
const (
	DefaultSiblingSpacing = 150
	DefaultLevelHeight    = 120
	DefaultChildOffset    = 100
)

// Spacing holds the distances used when placing nodes.
type Spacing struct {
	// SiblingSpacing is the horizontal distance between adjacent siblings.
	SiblingSpacing float64
	// LevelHeight is the vertical distance between tree levels.
	LevelHeight float64
	// ChildOffset is the vertical distance from a parent to its first child.
	ChildOffset float64
}

// DefaultSpacing returns the standard spacing.
func DefaultSpacing() Spacing {
	return Spacing{
		SiblingSpacing: DefaultSiblingSpacing,
		LevelHeight:    DefaultLevelHeight,
		ChildOffset:    DefaultChildOffset,
	}
}

// Normalize returns s with unset fields replaced by the defaults.
func (s Spacing) Normalize() Spacing {
	d := DefaultSpacing()
	if s.SiblingSpacing == 0 {
		s.SiblingSpacing = d.SiblingSpacing
	}
	if s.LevelHeight == 0 {
		s.LevelHeight = d.LevelHeight
	}
	if s.ChildOffset == 0 {
		s.ChildOffset = d.ChildOffset
	}
	return s
}

// SiblingPosition returns where a new sibling under parent should go.
// With an empty parent the siblings are the roots. When reference names a
// positioned sibling the new node goes right of it; otherwise it goes
// right of the rightmost positioned sibling.
func SiblingPosition(cats []models.Category, parent, reference string, s Spacing) models.Position {
	s = s.Normalize()

	var (
		hasSiblings bool
		ref         *models.Position
		rightmost   *models.Position
	)
	for i := range cats {
		c := &cats[i]
		if c.Parent != parent {
			continue
		}
		hasSiblings = true
		if c.Position == nil {
			continue
		}
		if reference != "" && c.Code == reference {
			ref = c.Position
		}
		if rightmost == nil || c.Position.X > rightmost.X {
			rightmost = c.Position
		}
	}

	switch {
	case !hasSiblings:
		return models.Position{}
	case ref != nil:
		return models.Position{X: ref.X + s.SiblingSpacing, Y: ref.Y}
	case rightmost != nil:
		return models.Position{X: rightmost.X + s.SiblingSpacing, Y: rightmost.Y}
	default:
		return models.Position{}
	}
}

// ChildPosition returns where a new child of parent should go.
func ChildPosition(cats []models.Category, parent string, s Spacing) models.Position {
	s = s.Normalize()

	var parentPos *models.Position
	for i := range cats {
		if cats[i].Code == parent {
			parentPos = cats[i].Position
			break
		}
	}
	if parentPos == nil {
		return models.Position{X: 0, Y: s.LevelHeight}
	}

	var rightmost *models.Position
	for i := range cats {
		c := &cats[i]
		if c.Parent != parent || c.Position == nil {
			continue
		}
		if rightmost == nil || c.Position.X > rightmost.X {
			rightmost = c.Position
		}
	}
	if rightmost == nil {
		return models.Position{X: parentPos.X, Y: parentPos.Y + s.ChildOffset}
	}
	return models.Position{X: rightmost.X + s.SiblingSpacing, Y: rightmost.Y}
}
