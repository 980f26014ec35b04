// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/StorkenPb/CategoryPlanner/internal/models"
	"github.com/StorkenPb/CategoryPlanner/internal/slug"
)

// fallbackSegment names a path segment when neither the label nor the
// internal code yields any usable characters.
const fallbackSegment = "node"

// Export writes cats as CSV with a leading BOM. One label column is written
// per language in langs.
func Export(w io.Writer, cats []models.Category, langs models.LanguageSet) error {
	if len(langs) == 0 {
		langs = models.DefaultLanguages
	}
	if _, err := w.Write(bom); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = Separator

	header := make([]string, 0, len(langs)+2)
	header = append(header, codeColumn)
	for _, l := range langs {
		header = append(header, l.Column())
	}
	header = append(header, parentColumn)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	codes := HierarchicalCodes(cats)
	record := make([]string, len(header))
	for _, c := range cats {
		record[0] = codes[c.Code]
		for i, l := range langs {
			text, _ := c.Label(l.Code)
			record[i+1] = text
		}
		record[len(record)-1] = codes[c.Parent]
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write category %q: %w", c.Code, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// HierarchicalCodes maps every internal code to its export code: the
// ancestor path of first-label segments joined by underscores. Paths that
// collide get a numeric suffix in collection order, so the mapping is
// injective. Unknown parents map to the empty string.
func HierarchicalCodes(cats []models.Category) map[string]string {
	byCode := make(map[string]models.Category, len(cats))
	for _, c := range cats {
		if _, dup := byCode[c.Code]; !dup {
			byCode[c.Code] = c
		}
	}

	assigned := make(map[string]string, len(cats))
	used := make(map[string]bool, len(cats))
	visiting := make(map[string]bool)

	var assign func(code string) string
	assign = func(code string) string {
		if out, ok := assigned[code]; ok {
			return out
		}
		c := byCode[code]
		visiting[code] = true
		path := segment(c)
		if p, ok := byCode[c.Parent]; ok && c.Parent != "" && !visiting[p.Code] {
			path = slug.Join(assign(p.Code), path)
		}
		delete(visiting, code)

		out := path
		for n := 2; used[out]; n++ {
			out = path + slug.Separator + strconv.Itoa(n)
		}
		used[out] = true
		assigned[code] = out
		return out
	}

	for _, c := range cats {
		assign(c.Code)
	}
	assigned[""] = ""
	return assigned
}

func segment(c models.Category) string {
	label := models.UnnamedLabel
	if len(c.Labels) > 0 {
		label = c.Labels[0].Text
	}
	if s := slug.Generate(label); s != "" {
		return s
	}
	if s := slug.Generate(c.Code); s != "" {
		return s
	}
	return fallbackSegment
}
