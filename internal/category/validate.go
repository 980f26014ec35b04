// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/StorkenPb/CategoryPlanner/internal/models"
)

// Integrity violation kinds.
const (
	KindDuplicate = "duplicate"
	KindDangling  = "dangling"
	KindCycle     = "cycle"
	KindEmptyCode = "empty_code"

	// KindDuplicateLabel marks a category with two labels in one language.
	KindDuplicateLabel = "duplicate_label"
)

// IntegrityError describes one violation of the forest invariants.
type IntegrityError struct {
	Kind string
	Code string
}

func (e *IntegrityError) Error() string {
	switch e.Kind {
	case KindDuplicate:
		return fmt.Sprintf("duplicate category code %q", e.Code)
	case KindDangling:
		return fmt.Sprintf("category %q refers to a missing parent", e.Code)
	case KindCycle:
		return fmt.Sprintf("circular reference detected involving category %q", e.Code)
	case KindEmptyCode:
		return "category with empty code"
	case KindDuplicateLabel:
		return fmt.Sprintf("category %q has more than one label per language", e.Code)
	default:
		return fmt.Sprintf("integrity violation %s on %q", e.Kind, e.Code)
	}
}

// Validate checks that codes are unique and non-empty, label languages are
// unique per category, every parent exists and there are no cycles. All violations are returned joined; nil means
// the collection is a well-formed forest.
func Validate(cats []models.Category) error {
	var errs []error
	seen := make(map[string]bool, len(cats))
	for _, c := range cats {
		if c.Code == "" {
			errs = append(errs, &IntegrityError{Kind: KindEmptyCode})
			continue
		}
		if seen[c.Code] {
			errs = append(errs, &IntegrityError{Kind: KindDuplicate, Code: c.Code})
		}
		seen[c.Code] = true
		if hasDuplicateLanguage(c.Labels) {
			errs = append(errs, &IntegrityError{Kind: KindDuplicateLabel, Code: c.Code})
		}
	}
	for _, c := range cats {
		if c.Parent != "" && !seen[c.Parent] {
			errs = append(errs, &IntegrityError{Kind: KindDangling, Code: c.Code})
		}
	}
	if code, ok := FindCycle(cats); ok {
		errs = append(errs, &IntegrityError{Kind: KindCycle, Code: code})
	}
	return errors.Join(errs...)
}

func hasDuplicateLanguage(labels []models.Label) bool {
	for i := 1; i < len(labels); i++ {
		for _, l := range labels[:i] {
			if l.Language == labels[i].Language {
				return true
			}
		}
	}
	return false
}

// ClearDangling moves categories whose parent does not exist to the roots.
// It returns the repaired collection and the codes that were moved.
func ClearDangling(cats []models.Category) ([]models.Category, []string) {
	exists := make(map[string]bool, len(cats))
	for _, c := range cats {
		exists[c.Code] = true
	}
	var moved []string
	out := make([]models.Category, len(cats))
	for i, c := range cats {
		if c.Parent != "" && !exists[c.Parent] {
			c = c.Clone()
			c.Parent = ""
			moved = append(moved, c.Code)
		}
		out[i] = c
	}
	return out, moved
}

// FindCycle reports a category that takes part in a parent cycle. When
// several cycles exist the member earliest in collection order is named.
func FindCycle(cats []models.Category) (string, bool) {
	ids := make(map[string]int64, len(cats))
	for i, c := range cats {
		if _, dup := ids[c.Code]; !dup {
			ids[c.Code] = int64(i)
		}
	}

	g := simple.NewDirectedGraph()
	for _, c := range cats {
		id := ids[c.Code]
		if g.Node(id) == nil {
			g.AddNode(simple.Node(id))
		}
	}

	first := int64(-1)
	for _, c := range cats {
		pid, ok := ids[c.Parent]
		if c.Parent == "" || !ok {
			continue
		}
		cid := ids[c.Code]
		if pid == cid {
			// simple graphs reject self edges; a self parent is a cycle.
			if first < 0 || cid < first {
				first = cid
			}
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(pid), simple.Node(cid)))
	}

	if _, err := topo.Sort(g); err != nil {
		var cycles topo.Unorderable
		if errors.As(err, &cycles) {
			for _, component := range cycles {
				for _, n := range component {
					if first < 0 || n.ID() < first {
						first = n.ID()
					}
				}
			}
		}
	}
	if first < 0 {
		return "", false
	}
	return cats[first].Code, true
}
