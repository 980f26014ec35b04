// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package csvio reads and writes the semicolon separated category
// interchange format:
//
//	code;label-en_US;label-sv_SE;...;parent
//
// Imported codes are taken literally. Exported codes are hierarchical
// paths built from the first label of each ancestor.
package csvio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/StorkenPb/CategoryPlanner/internal/category"
	"github.com/StorkenPb/CategoryPlanner/internal/models"
)

const (
	// Separator is the field separator of the format.
	Separator = ';'

	codeColumn   = "code"
	parentColumn = "parent"
)

// bom is the UTF-8 byte order mark written at the start of exports.
var bom = []byte{0xEF, 0xBB, 0xBF}

// languageColumn matches "label-xx_YY" and the bare "label-xx" form.
var languageColumn = regexp.MustCompile(`(?i)^label-([a-z]{2})(?:_|$)`)

// ImportError rejects a whole file. No categories are produced.
type ImportError struct {
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *ImportError) Unwrap() error { return e.Err }

// ImportOptions controls validation of an import.
type ImportOptions struct {
	// Languages is the supported language set.
	Languages models.LanguageSet
	// CycleCheckLimit skips cycle detection for files with more categories
	// than this. Zero or less always checks.
	CycleCheckLimit int
}

// Result is a successful import.
type Result struct {
	Categories []models.Category `json:"categories"`
	Warnings   []string          `json:"warnings"`
	// Skipped counts data rows dropped for a missing code or missing labels.
	Skipped int `json:"skipped"`
	// Reparented lists codes whose unknown parent was cleared.
	Reparented []string `json:"reparented,omitempty"`
}

type langColumn struct {
	index    int
	language string
}

// Import parses r into a category collection.
func Import(r io.Reader, opts ImportOptions) (*Result, error) {
	langs := opts.Languages
	if len(langs) == 0 {
		langs = models.DefaultLanguages
	}

	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, &ImportError{Reason: "CSV file must have at least a header row and one data row"}
	}

	header := rows[0]
	if header[0] != codeColumn {
		return nil, &ImportError{Reason: `first column must be "code"`}
	}
	if len(header) < 2 || header[len(header)-1] != parentColumn {
		return nil, &ImportError{Reason: `last column must be "parent"`}
	}

	var (
		supported   []langColumn
		unsupported []string
		ignored     []string
	)
	for i := 1; i < len(header)-1; i++ {
		m := languageColumn.FindStringSubmatch(header[i])
		if m == nil {
			continue
		}
		lang := strings.ToLower(m[1])
		switch {
		case !langs.Supports(lang):
			unsupported = append(unsupported, lang)
		case slices.ContainsFunc(supported, func(c langColumn) bool { return c.language == lang }):
			ignored = append(ignored, header[i])
		default:
			supported = append(supported, langColumn{index: i, language: lang})
		}
	}

	res := &Result{}
	for _, col := range ignored {
		res.Warnings = append(res.Warnings, fmt.Sprintf("Column %q ignored: its language is already imported from an earlier column", col))
	}
	if len(unsupported) > 0 {
		res.Warnings = append(res.Warnings, "Unsupported languages found: "+strings.Join(unsupported, ", "))
	}
	if len(supported) == 0 {
		return nil, &ImportError{
			Reason: "no supported language columns found. Supported languages: " + strings.Join(langs.Codes(), ", "),
		}
	}

	cats := make([]models.Category, 0, len(rows)-1)
	seen := make(map[string]bool, len(rows)-1)
	for _, row := range rows[1:] {
		for len(row) < len(header) {
			row = append(row, "")
		}
		code := row[0]
		if code == "" {
			res.Skipped++
			continue
		}
		var labels []models.Label
		for _, col := range supported {
			if text := row[col.index]; text != "" {
				labels = append(labels, models.Label{Language: col.language, Text: text})
			}
		}
		if len(labels) == 0 {
			res.Skipped++
			continue
		}
		if seen[code] {
			return nil, &ImportError{Reason: "invalid category data", Err: &category.IntegrityError{Kind: category.KindDuplicate, Code: code}}
		}
		seen[code] = true
		cats = append(cats, models.Category{
			Code:   code,
			Labels: labels,
			Parent: row[len(header)-1],
		})
	}

	cats, res.Reparented = category.ClearDangling(cats)
	if len(res.Reparented) > 0 {
		slog.Debug("import cleared unknown parents", "count", len(res.Reparented))
	}

	if opts.CycleCheckLimit > 0 && len(cats) > opts.CycleCheckLimit {
		slog.Warn("import cycle check skipped", "categories", len(cats), "limit", opts.CycleCheckLimit)
	} else if code, ok := category.FindCycle(cats); ok {
		return nil, &ImportError{Reason: "invalid category data", Err: &category.IntegrityError{Kind: category.KindCycle, Code: code}}
	}

	res.Categories = cats
	return res, nil
}

// readRows returns the trimmed, non-blank records of r. A leading BOM is
// ignored.
func readRows(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ImportError{Reason: "failed to read CSV", Err: err}
	}
	data = bytes.TrimPrefix(data, bom)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = Separator
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ImportError{Reason: "failed to parse CSV", Err: err}
		}
		blank := true
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
			if rec[i] != "" {
				blank = false
			}
		}
		if !blank {
			rows = append(rows, rec)
		}
	}
	return rows, nil
}

// IsImportError reports whether err rejected a whole file.
func IsImportError(err error) bool {
	var ie *ImportError
	return errors.As(err, &ie)
}

// String renders a short summary for logs and the CLI.
func (r *Result) String() string {
	return fmt.Sprintf("%d categories, %d skipped, %d warnings", len(r.Categories), r.Skipped, len(r.Warnings))
}
