// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Language describes one supported label language and the CSV column
// that carries it.
type Language struct {
	Code       string `json:"code" yaml:"code"`
	Name       string `json:"name" yaml:"name"`
	NativeName string `json:"native_name" yaml:"native_name"`
	CSVColumn  string `json:"csv_column" yaml:"csv_column"`
	Default    bool   `json:"default,omitempty" yaml:"default"`
}

// Column returns the CSV header for the language, falling back to
// "label-<code>" when none is configured.
func (l Language) Column() string {
	if l.CSVColumn != "" {
		return l.CSVColumn
	}
	return "label-" + l.Code
}

// LanguageSet is the ordered list of languages an editor works with.
type LanguageSet []Language

// DefaultLanguages is the built-in language set.
var DefaultLanguages = LanguageSet{
	{Code: "en", Name: "English", NativeName: "English", CSVColumn: "label-en_US", Default: true},
	{Code: "sv", Name: "Swedish", NativeName: "Svenska", CSVColumn: "label-sv_SE"},
	{Code: "de", Name: "German", NativeName: "Deutsch", CSVColumn: "label-de_DE"},
	{Code: "fr", Name: "French", NativeName: "Français", CSVColumn: "label-fr_FR"},
	{Code: "es", Name: "Spanish", NativeName: "Español", CSVColumn: "label-es_ES"},
}

// Codes returns the language codes in order.
func (s LanguageSet) Codes() []string {
	out := make([]string, len(s))
	for i, l := range s {
		out[i] = l.Code
	}
	return out
}

// Default returns the language flagged as default, or the first one.
func (s LanguageSet) Default() Language {
	for _, l := range s {
		if l.Default {
			return l
		}
	}
	if len(s) > 0 {
		return s[0]
	}
	return Language{Code: "en", Name: "English", NativeName: "English", CSVColumn: "label-en_US"}
}

// Lookup finds a language by code.
func (s LanguageSet) Lookup(code string) (Language, bool) {
	for _, l := range s {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// Supports reports whether code is in the set.
func (s LanguageSet) Supports(code string) bool {
	_, ok := s.Lookup(code)
	return ok
}
