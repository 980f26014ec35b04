// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/StorkenPb/CategoryPlanner/internal/models"
)

// languagesFile is the layout of LANGUAGES_FILE:
//
//	languages:
//	  - code: en
//	    name: English
//	    native_name: English
//	    csv_column: label-en_US
//	    default: true
type languagesFile struct {
	Languages []models.Language `yaml:"languages"`
}

var languageCode = regexp.MustCompile(`^[a-z]{2}$`)

// LoadLanguages reads the language set from path. An empty path returns the
// built-in set.
func LoadLanguages(path string) (models.LanguageSet, error) {
	if path == "" {
		return models.DefaultLanguages, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading languages file: %w", err)
	}
	return ParseLanguages(data)
}

// ParseLanguages decodes and validates a YAML language set. Codes must be
// two lowercase letters, unique, and at most one language may be default.
func ParseLanguages(data []byte) (models.LanguageSet, error) {
	var f languagesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing languages file: %w", err)
	}
	if len(f.Languages) == 0 {
		return nil, fmt.Errorf("languages file lists no languages")
	}

	seen := make(map[string]bool, len(f.Languages))
	defaults := 0
	for _, l := range f.Languages {
		if !languageCode.MatchString(l.Code) {
			return nil, fmt.Errorf("invalid language code %q", l.Code)
		}
		if seen[l.Code] {
			return nil, fmt.Errorf("duplicate language code %q", l.Code)
		}
		seen[l.Code] = true
		if l.Default {
			defaults++
		}
	}
	if defaults > 1 {
		return nil, fmt.Errorf("%d languages marked default, want at most one", defaults)
	}
	return models.LanguageSet(f.Languages), nil
}
