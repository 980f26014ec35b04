// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import (
	"strconv"

	"github.com/StorkenPb/CategoryPlanner/internal/layout"
	"github.com/StorkenPb/CategoryPlanner/internal/models"
)

const (
	// CodePrefix prefixes every generated category code.
	CodePrefix = "node_"

	// DefaultPlaceholder is the label text given to new categories.
	DefaultPlaceholder = "New Category"
)

// Options controls how new categories are created.
type Options struct {
	// Languages lists the language codes a new category gets a label for.
	Languages []string
	// Placeholder is the text of every label on a new category.
	Placeholder string
	// Spacing positions new categories on the canvas.
	Spacing layout.Spacing
}

// DefaultOptions uses the built-in languages and spacing.
func DefaultOptions() Options {
	return Options{
		Languages:   models.DefaultLanguages.Codes(),
		Placeholder: DefaultPlaceholder,
		Spacing:     layout.DefaultSpacing(),
	}
}

func (o Options) placeholderLabels() []models.Label {
	text := o.Placeholder
	if text == "" {
		text = DefaultPlaceholder
	}
	langs := o.Languages
	if len(langs) == 0 {
		langs = models.DefaultLanguages.Codes()
	}
	labels := make([]models.Label, len(langs))
	for i, lang := range langs {
		labels[i] = models.Label{Language: lang, Text: text}
	}
	return labels
}

// GenerateCode returns the lowest free code of the form node_<N>, N >= 1.
func GenerateCode(cats []models.Category) string {
	used := make(map[string]bool, len(cats))
	for _, c := range cats {
		used[c.Code] = true
	}
	for n := 1; ; n++ {
		code := CodePrefix + strconv.Itoa(n)
		if !used[code] {
			return code
		}
	}
}

// AddSibling appends a new category next to target, sharing its parent.
// It returns the new collection and the generated code.
func AddSibling(cats []models.Category, target string, opts Options) ([]models.Category, string, error) {
	t, ok := Find(cats, target)
	if !ok {
		return cats, "", notFound(target)
	}
	pos := layout.SiblingPosition(cats, t.Parent, t.Code, opts.Spacing)
	out, code := appendNew(cats, t.Parent, pos, opts)
	return out, code, nil
}

// AddChild appends a new category as the last child of target.
func AddChild(cats []models.Category, target string, opts Options) ([]models.Category, string, error) {
	if !Exists(cats, target) {
		return cats, "", notFound(target)
	}
	pos := layout.ChildPosition(cats, target, opts.Spacing)
	out, code := appendNew(cats, target, pos, opts)
	return out, code, nil
}

// AddRoot appends a new root category right of the existing roots.
func AddRoot(cats []models.Category, opts Options) ([]models.Category, string) {
	pos := layout.SiblingPosition(cats, "", "", opts.Spacing)
	return appendNew(cats, "", pos, opts)
}

func appendNew(cats []models.Category, parent string, pos models.Position, opts Options) ([]models.Category, string) {
	code := GenerateCode(cats)
	out := make([]models.Category, len(cats), len(cats)+1)
	copy(out, cats)
	out = append(out, models.Category{
		Code:     code,
		Labels:   opts.placeholderLabels(),
		Parent:   parent,
		Position: models.PositionPtr(pos),
	})
	return out, code
}

// Relabel sets the text of one language on target. The label is added if
// the category has none for that language; other languages are untouched.
func Relabel(cats []models.Category, target, language, text string) ([]models.Category, error) {
	i := indexOf(cats, target)
	if i < 0 {
		return cats, notFound(target)
	}
	c := cats[i].Clone()
	found := false
	for j := range c.Labels {
		if c.Labels[j].Language == language {
			c.Labels[j].Text = text
			found = true
		}
	}
	if !found {
		c.Labels = append(c.Labels, models.Label{Language: language, Text: text})
	}
	return replaceAt(cats, i, c), nil
}

// RemoveSubtree deletes target and all of its descendants. It returns the
// new collection and the removed code.
func RemoveSubtree(cats []models.Category, target string) ([]models.Category, string, error) {
	if !Exists(cats, target) {
		return cats, "", notFound(target)
	}
	drop := map[string]bool{target: true}
	for _, code := range Descendants(cats, target) {
		drop[code] = true
	}
	out := make([]models.Category, 0, len(cats)-len(drop))
	for _, c := range cats {
		if !drop[c.Code] {
			out = append(out, c)
		}
	}
	return out, target, nil
}

// SetPositions pins the given positions. Codes missing from the collection
// are ignored.
func SetPositions(cats []models.Category, positions map[string]models.Position) []models.Category {
	out := make([]models.Category, len(cats))
	for i, c := range cats {
		if p, ok := positions[c.Code]; ok {
			c = c.Clone()
			c.Position = models.PositionPtr(p)
		}
		out[i] = c
	}
	return out
}

func replaceAt(cats []models.Category, i int, c models.Category) []models.Category {
	out := make([]models.Category, len(cats))
	copy(out, cats)
	out[i] = c
	return out
}

// Reparent moves target under newParent, or to the roots when newParent is
// empty. Moving a category under itself or one of its descendants fails
// with an IntegrityError of KindCycle.
func Reparent(cats []models.Category, target, newParent string) ([]models.Category, error) {
	i := indexOf(cats, target)
	if i < 0 {
		return cats, notFound(target)
	}
	if newParent != "" {
		if !Exists(cats, newParent) {
			return cats, notFound(newParent)
		}
		if newParent == target {
			return cats, &IntegrityError{Kind: KindCycle, Code: target}
		}
		for _, d := range Descendants(cats, target) {
			if d == newParent {
				return cats, &IntegrityError{Kind: KindCycle, Code: target}
			}
		}
	}
	c := cats[i].Clone()
	c.Parent = newParent
	return replaceAt(cats, i, c), nil
}
