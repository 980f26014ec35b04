// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package category holds the read access and the pure edit operations on a
// flat category collection. A collection is a []models.Category treated as
// an immutable value: every operation returns a new slice and leaves its
// input untouched, so the caller can swap the whole model in one step.
package category

import (
	"errors"
	"fmt"

	"github.com/StorkenPb/CategoryPlanner/internal/models"
)

// ErrNotFound is returned when an operation targets a code that does not
// exist. The returned collection is always the unchanged input.
var ErrNotFound = errors.New("category not found")

func notFound(code string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, code)
}

// Find returns the category with the given code.
func Find(cats []models.Category, code string) (models.Category, bool) {
	if i := indexOf(cats, code); i >= 0 {
		return cats[i], true
	}
	return models.Category{}, false
}

// Exists reports whether code is present in the collection.
func Exists(cats []models.Category, code string) bool {
	return indexOf(cats, code) >= 0
}

func indexOf(cats []models.Category, code string) int {
	for i := range cats {
		if cats[i].Code == code {
			return i
		}
	}
	return -1
}

// Children returns the direct children of code in collection order. An
// empty code returns the roots.
func Children(cats []models.Category, code string) []models.Category {
	var out []models.Category
	for _, c := range cats {
		if c.Parent == code {
			out = append(out, c)
		}
	}
	return out
}

// ChildIndex maps each parent code to its child codes in collection order.
// Roots are listed under the empty string.
func ChildIndex(cats []models.Category) map[string][]string {
	idx := make(map[string][]string, len(cats))
	for _, c := range cats {
		idx[c.Parent] = append(idx[c.Parent], c.Code)
	}
	return idx
}

// Descendants returns every code reachable from code through child links,
// breadth first, excluding code itself.
func Descendants(cats []models.Category, code string) []string {
	return Resolve(ChildIndex(cats), code)
}

// Resolve walks childrenOf breadth first from code and returns every
// reachable id except code. Each id is visited once even if the index
// contains a cycle.
func Resolve(childrenOf map[string][]string, code string) []string {
	visited := map[string]bool{code: true}
	queue := []string{code}
	var out []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range childrenOf[cur] {
			if visited[child] {
				continue
			}
			visited[child] = true
			out = append(out, child)
			queue = append(queue, child)
		}
	}
	return out
}

// Ancestors returns the parent chain of code, nearest first. The walk stops
// at a root, a dangling parent, or a repeated code.
func Ancestors(cats []models.Category, code string) []string {
	byCode := make(map[string]models.Category, len(cats))
	for _, c := range cats {
		byCode[c.Code] = c
	}
	seen := map[string]bool{code: true}
	var out []string
	cur, ok := byCode[code]
	for ok && cur.Parent != "" && !seen[cur.Parent] {
		seen[cur.Parent] = true
		out = append(out, cur.Parent)
		cur, ok = byCode[cur.Parent]
	}
	return out
}
