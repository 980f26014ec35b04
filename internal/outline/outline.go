// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package outline converts a category forest to and from an indented
// bullet list, one category per line:
//
//	• Electronics
//	  • Phones
//	  • Laptops
//	• Clothing
//
// Each level is indented by two spaces.
package outline

import (
	"strconv"
	"strings"

	"github.com/StorkenPb/CategoryPlanner/internal/category"
	"github.com/StorkenPb/CategoryPlanner/internal/models"
)

const (
	// Bullet prefixes every outline entry.
	Bullet = "•"
	// Indent is the whitespace of one nesting level.
	Indent = "  "
	// Empty is the outline of an empty collection.
	Empty = Bullet + " " + category.DefaultPlaceholder
)

// Line is one parsed outline entry.
type Line struct {
	Level int
	Text  string
	// Index is the position among the non-blank lines of the source text.
	Index int
}

// Encoded is an outline together with the code shown on each line.
type Encoded struct {
	Text  string
	Codes []string
}

// Encode renders cats as an outline using the label for lang, falling back
// to the code when the category has no such label.
func Encode(cats []models.Category, lang string) string {
	return EncodeWithCodes(cats, lang).Text
}

// EncodeWithCodes renders cats and records which category each line shows.
// Siblings keep collection order.
func EncodeWithCodes(cats []models.Category, lang string) Encoded {
	children := category.ChildIndex(cats)
	byCode := make(map[string]models.Category, len(cats))
	for _, c := range cats {
		byCode[c.Code] = c
	}

	var (
		b       strings.Builder
		codes   []string
		visited = make(map[string]bool, len(cats))
	)
	var walk func(parent string, level int)
	walk = func(parent string, level int) {
		for _, code := range children[parent] {
			if visited[code] {
				continue
			}
			visited[code] = true
			text, ok := byCode[code].Label(lang)
			if !ok || strings.TrimSpace(text) == "" {
				text = code
			}
			b.WriteString(strings.Repeat(Indent, level))
			b.WriteString(Bullet + " ")
			b.WriteString(singleLine(text))
			b.WriteByte('\n')
			codes = append(codes, code)
			walk(code, level+1)
		}
	}
	walk("", 0)

	text := strings.TrimSpace(b.String())
	if text == "" {
		return Encoded{Text: Empty}
	}
	return Encoded{Text: text, Codes: codes}
}

// Parse reads the non-blank entries of text. A tab counts as one level and
// odd leftover spaces are ignored.
func Parse(text string) []Line {
	var out []Line
	index := 0
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		i := index
		index++
		clean := strings.TrimSpace(strings.TrimPrefix(trimmed, Bullet))
		if clean == "" {
			continue
		}
		out = append(out, Line{Level: indentLevel(raw), Text: clean, Index: i})
	}
	return out
}

// Decode builds a fresh forest from text. Codes are node_<n> where n is the
// 1-based position of the line among non-blank lines; each category gets a
// single label in lang.
func Decode(text, lang string) []models.Category {
	lines := Parse(text)
	out := make([]models.Category, 0, len(lines))

	type open struct {
		level int
		code  string
	}
	stack := []open{{level: -1}}
	for _, l := range lines {
		for len(stack) > 1 && l.Level <= stack[len(stack)-1].level {
			stack = stack[:len(stack)-1]
		}
		code := category.CodePrefix + strconv.Itoa(l.Index+1)
		out = append(out, models.Category{
			Code:   code,
			Labels: []models.Label{{Language: lang, Text: l.Text}},
			Parent: stack[len(stack)-1].code,
		})
		stack = append(stack, open{level: l.Level, code: code})
	}
	return out
}

// Apply merges an edited outline into cats. When the number of entries or
// any indentation changed the forest is rebuilt from text and rebuilt is
// true. Otherwise only the labels in lang whose text changed are updated,
// and codes, positions and other languages survive.
func Apply(cats []models.Category, text, lang string) (out []models.Category, rebuilt bool) {
	prev := EncodeWithCodes(cats, lang)
	before := Parse(prev.Text)
	after := Parse(text)

	if structureChanged(before, after) || len(prev.Codes) != len(before) {
		return Decode(text, lang), true
	}

	out = cats
	for i := range before {
		if before[i].Text == after[i].Text {
			continue
		}
		next, err := category.Relabel(out, prev.Codes[i], lang, after[i].Text)
		if err == nil {
			out = next
		}
	}
	return out, false
}

func structureChanged(before, after []Line) bool {
	if len(before) != len(after) {
		return true
	}
	for i := range before {
		if before[i].Level != after[i].Level {
			return true
		}
	}
	return false
}

// IndentLine nests the line at index one level deeper.
func IndentLine(text string, index int) string {
	lines := strings.Split(text, "\n")
	if index < 0 || index >= len(lines) || strings.TrimSpace(lines[index]) == "" {
		return text
	}
	l := lines[index]
	lines[index] = strings.Repeat(Indent, indentLevel(l)+1) + strings.TrimLeft(l, " \t")
	return strings.Join(lines, "\n")
}

// OutdentLine moves the line at index one level up. Lines already at the
// top level are left alone.
func OutdentLine(text string, index int) string {
	lines := strings.Split(text, "\n")
	if index < 0 || index >= len(lines) || !strings.HasPrefix(lines[index], Indent) {
		return text
	}
	lines[index] = lines[index][len(Indent):]
	return strings.Join(lines, "\n")
}

// InsertAfter adds an empty entry after the line at index, at the same
// level.
func InsertAfter(text string, index int) string {
	lines := strings.Split(text, "\n")
	if index < 0 || index >= len(lines) {
		return text
	}
	entry := strings.Repeat(Indent, indentLevel(lines[index])) + Bullet + " "
	lines = append(lines[:index+1], append([]string{entry}, lines[index+1:]...)...)
	return strings.Join(lines, "\n")
}

func indentLevel(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += len(Indent)
		default:
			return width / len(Indent)
		}
	}
	return width / len(Indent)
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
