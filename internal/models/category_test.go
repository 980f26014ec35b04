package models

import "testing"

// TestCategoryDisplayLabel verifies label resolution falls back to the
// first label and then to the unnamed placeholder.
func TestCategoryDisplayLabel(t *testing.T) {
	tests := []struct {
		name     string
		labels   []Label
		language string
		want     string
	}{
		{
			name:     "exact language",
			labels:   []Label{{Language: "en", Text: "Phones"}, {Language: "sv", Text: "Telefoner"}},
			language: "sv",
			want:     "Telefoner",
		},
		{
			name:     "falls back to first label",
			labels:   []Label{{Language: "de", Text: "Handys"}, {Language: "en", Text: "Phones"}},
			language: "fr",
			want:     "Handys",
		},
		{
			name:     "no labels",
			labels:   nil,
			language: "en",
			want:     UnnamedLabel,
		},
		{
			name:     "empty text is still a match",
			labels:   []Label{{Language: "en", Text: ""}, {Language: "sv", Text: "Hem"}},
			language: "en",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Category{Code: "x", Labels: tt.labels}
			if got := c.DisplayLabel(tt.language); got != tt.want {
				t.Errorf("DisplayLabel(%q) = %q, want %q", tt.language, got, tt.want)
			}
		})
	}
}

// TestCategoryCloneIsDeep verifies that mutating a clone leaves the
// original untouched.
func TestCategoryCloneIsDeep(t *testing.T) {
	orig := Category{
		Code:     "a",
		Labels:   []Label{{Language: "en", Text: "A"}},
		Position: &Position{X: 1, Y: 2},
	}
	c := orig.Clone()
	c.Labels[0].Text = "changed"
	c.Position.X = 99

	if orig.Labels[0].Text != "A" {
		t.Errorf("original label = %q, want %q", orig.Labels[0].Text, "A")
	}
	if orig.Position.X != 1 {
		t.Errorf("original x = %v, want 1", orig.Position.X)
	}
}

// TestNewRenderEdge verifies edge ids and fixed handles.
func TestNewRenderEdge(t *testing.T) {
	e := NewRenderEdge("B", "C")
	if e.ID != "B-C" {
		t.Errorf("ID = %q, want %q", e.ID, "B-C")
	}
	if e.SourceHandle != HandleBottom || e.TargetHandle != HandleTop {
		t.Errorf("handles = %q -> %q, want bottom -> top", e.SourceHandle, e.TargetHandle)
	}
	if e.Type != EdgeTypeDefault {
		t.Errorf("Type = %q, want %q", e.Type, EdgeTypeDefault)
	}
}

// TestLanguageSetDefault verifies default language selection.
func TestLanguageSetDefault(t *testing.T) {
	if got := DefaultLanguages.Default().Code; got != "en" {
		t.Errorf("DefaultLanguages.Default() = %q, want en", got)
	}

	set := LanguageSet{{Code: "de"}, {Code: "sv", Default: true}}
	if got := set.Default().Code; got != "sv" {
		t.Errorf("Default() = %q, want sv", got)
	}

	if got := (LanguageSet{}).Default().Code; got != "en" {
		t.Errorf("empty Default() = %q, want en", got)
	}
}

// TestLanguageColumn verifies the CSV column fallback.
func TestLanguageColumn(t *testing.T) {
	if got := (Language{Code: "fi"}).Column(); got != "label-fi" {
		t.Errorf("Column() = %q, want label-fi", got)
	}
	if got := DefaultLanguages[1].Column(); got != "label-sv_SE" {
		t.Errorf("Column() = %q, want label-sv_SE", got)
	}
}
