package category

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"pgregory.net/rapid"

	"github.com/StorkenPb/CategoryPlanner/internal/models"
)

func pos(x, y float64) *models.Position {
	return &models.Position{X: x, Y: y}
}

func en(text string) []models.Label {
	return []models.Label{{Language: "en", Text: text}}
}

// sampleTree builds:
//
//	A
//	├── B
//	│   └── D
//	└── C
//	E
func sampleTree() []models.Category {
	return []models.Category{
		{Code: "A", Labels: en("A"), Position: pos(0, 0)},
		{Code: "B", Labels: en("B"), Parent: "A", Position: pos(-75, 120)},
		{Code: "C", Labels: en("C"), Parent: "A", Position: pos(75, 120)},
		{Code: "D", Labels: en("D"), Parent: "B"},
		{Code: "E", Labels: en("E"), Position: pos(150, 0)},
	}
}

// genForest draws an acyclic collection: node i may only point at a node
// with a lower index.
func genForest(t *rapid.T) []models.Category {
	n := rapid.IntRange(0, 40).Draw(t, "n")
	cats := make([]models.Category, n)
	for i := range cats {
		cats[i] = models.Category{
			Code:   fmt.Sprintf("c%d", i),
			Labels: en(fmt.Sprintf("label %d", i)),
		}
		if i > 0 && rapid.Bool().Draw(t, fmt.Sprintf("child%d", i)) {
			p := rapid.IntRange(0, i-1).Draw(t, fmt.Sprintf("parent%d", i))
			cats[i].Parent = cats[p].Code
		}
		if rapid.Bool().Draw(t, fmt.Sprintf("placed%d", i)) {
			cats[i].Position = pos(
				float64(rapid.IntRange(-500, 500).Draw(t, fmt.Sprintf("x%d", i))),
				float64(rapid.IntRange(0, 800).Draw(t, fmt.Sprintf("y%d", i))),
			)
		}
	}
	return cats
}

func codes(cats []models.Category) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.Code
	}
	return out
}

func TestDescendants(t *testing.T) {
	cats := sampleTree()
	tests := []struct {
		code string
		want []string
	}{
		{code: "A", want: []string{"B", "C", "D"}},
		{code: "B", want: []string{"D"}},
		{code: "D", want: nil},
		{code: "missing", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got := Descendants(cats, tt.code)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Descendants(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

// TestResolveTerminatesOnCycle verifies the visited guard.
func TestResolveTerminatesOnCycle(t *testing.T) {
	idx := map[string][]string{"a": {"b"}, "b": {"c"}, "c": {"a", "b"}}
	got := Resolve(idx, "a")
	want := []string{"b", "c"}
	if !slices.Equal(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestAncestors(t *testing.T) {
	got := Ancestors(sampleTree(), "D")
	if want := []string{"B", "A"}; !slices.Equal(got, want) {
		t.Errorf("Ancestors(D) = %v, want %v", got, want)
	}
	if got := Ancestors(sampleTree(), "A"); len(got) != 0 {
		t.Errorf("Ancestors(A) = %v, want none", got)
	}
}

func TestGenerateCode(t *testing.T) {
	tests := []struct {
		name string
		have []string
		want string
	}{
		{name: "empty", have: nil, want: "node_1"},
		{name: "gap is reused", have: []string{"node_1", "node_3"}, want: "node_2"},
		{name: "unrelated codes", have: []string{"phones", "node_0"}, want: "node_1"},
		{name: "dense", have: []string{"node_1", "node_2", "node_3"}, want: "node_4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cats []models.Category
			for _, c := range tt.have {
				cats = append(cats, models.Category{Code: c})
			}
			if got := GenerateCode(cats); got != tt.want {
				t.Errorf("GenerateCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddSibling(t *testing.T) {
	cats := sampleTree()
	before := slices.Clone(cats)

	out, code, err := AddSibling(cats, "B", DefaultOptions())
	if err != nil {
		t.Fatalf("AddSibling: %v", err)
	}
	if code != "node_1" {
		t.Errorf("code = %q, want node_1", code)
	}
	n, ok := Find(out, code)
	if !ok {
		t.Fatalf("new category %q not in result", code)
	}
	if n.Parent != "A" {
		t.Errorf("parent = %q, want A", n.Parent)
	}
	if n.Position == nil || *n.Position != (models.Position{X: 75, Y: 120}) {
		t.Errorf("position = %v, want {75 120}", n.Position)
	}
	if len(n.Labels) != len(models.DefaultLanguages) {
		t.Errorf("labels = %d, want %d", len(n.Labels), len(models.DefaultLanguages))
	}
	for _, l := range n.Labels {
		if l.Text != DefaultPlaceholder {
			t.Errorf("label %s = %q, want %q", l.Language, l.Text, DefaultPlaceholder)
		}
	}
	if !slices.EqualFunc(cats, before, func(a, b models.Category) bool { return a.Code == b.Code }) || len(cats) != len(before) {
		t.Error("input collection was modified")
	}
}

func TestAddSiblingNotFound(t *testing.T) {
	cats := sampleTree()
	out, code, err := AddSibling(cats, "nope", DefaultOptions())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if code != "" || len(out) != len(cats) {
		t.Errorf("collection changed on not-found: %d -> %d", len(cats), len(out))
	}
}

// TestAddChildBelowParent covers the addChild scenario: a childless parent
// at (100, 0) gets its child at (100, 100) with edge B-C.
func TestAddChildBelowParent(t *testing.T) {
	cats := []models.Category{
		{Code: "A", Labels: en("A"), Position: pos(0, 0)},
		{Code: "B", Labels: en("B"), Parent: "A", Position: pos(100, 0)},
	}
	out, code, err := AddChild(cats, "B", DefaultOptions())
	if err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	c, _ := Find(out, code)
	if c.Parent != "B" {
		t.Errorf("parent = %q, want B", c.Parent)
	}
	if *c.Position != (models.Position{X: 100, Y: 100}) {
		t.Errorf("position = %+v, want {100 100}", *c.Position)
	}

	if _, _, err := AddChild(cats, "nope", DefaultOptions()); !errors.Is(err, ErrNotFound) {
		t.Errorf("AddChild(nope) err = %v, want ErrNotFound", err)
	}
}

func TestAddRoot(t *testing.T) {
	out, code := AddRoot(sampleTree(), DefaultOptions())
	c, _ := Find(out, code)
	if !c.IsRoot() {
		t.Errorf("parent = %q, want root", c.Parent)
	}
	if *c.Position != (models.Position{X: 300, Y: 0}) {
		t.Errorf("position = %+v, want {300 0}", *c.Position)
	}
}

func TestRelabel(t *testing.T) {
	cats := []models.Category{{
		Code:   "A",
		Labels: []models.Label{{Language: "en", Text: "Old"}, {Language: "sv", Text: "Gammal"}},
	}}

	out, err := Relabel(cats, "A", "en", "New")
	if err != nil {
		t.Fatalf("Relabel: %v", err)
	}
	if got, _ := out[0].Label("en"); got != "New" {
		t.Errorf("en = %q, want New", got)
	}
	if got, _ := out[0].Label("sv"); got != "Gammal" {
		t.Errorf("sv = %q, want Gammal", got)
	}
	if got, _ := cats[0].Label("en"); got != "Old" {
		t.Errorf("input en = %q, want Old", got)
	}

	out, _ = Relabel(cats, "A", "de", "Neu")
	if got, ok := out[0].Label("de"); !ok || got != "Neu" {
		t.Errorf("de = %q (%v), want Neu", got, ok)
	}

	if _, err := Relabel(cats, "nope", "en", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRemoveSubtree(t *testing.T) {
	out, removed, err := RemoveSubtree(sampleTree(), "B")
	if err != nil {
		t.Fatalf("RemoveSubtree: %v", err)
	}
	if removed != "B" {
		t.Errorf("removed = %q, want B", removed)
	}
	if got, want := codes(out), []string{"A", "C", "E"}; !slices.Equal(got, want) {
		t.Errorf("remaining = %v, want %v", got, want)
	}

	cats := sampleTree()
	out, _, err = RemoveSubtree(cats, "nope")
	if !errors.Is(err, ErrNotFound) || len(out) != len(cats) {
		t.Errorf("not-found removal: err=%v len=%d", err, len(out))
	}
}

func TestSetPositions(t *testing.T) {
	cats := sampleTree()
	out := SetPositions(cats, map[string]models.Position{"D": {X: 5, Y: 6}, "ghost": {X: 1}})
	d, _ := Find(out, "D")
	if d.Position == nil || *d.Position != (models.Position{X: 5, Y: 6}) {
		t.Errorf("D position = %v, want {5 6}", d.Position)
	}
	if orig, _ := Find(cats, "D"); orig.Position != nil {
		t.Error("input collection was modified")
	}
}

func TestReparent(t *testing.T) {
	cats := sampleTree()

	out, err := Reparent(cats, "D", "E")
	if err != nil {
		t.Fatalf("Reparent: %v", err)
	}
	if d, _ := Find(out, "D"); d.Parent != "E" {
		t.Errorf("D parent = %q, want E", d.Parent)
	}

	var ie *IntegrityError
	if _, err := Reparent(cats, "A", "D"); !errors.As(err, &ie) || ie.Kind != KindCycle {
		t.Errorf("Reparent under descendant err = %v, want cycle", err)
	}
	if _, err := Reparent(cats, "A", "A"); !errors.As(err, &ie) {
		t.Errorf("Reparent under self err = %v, want cycle", err)
	}
	if out, err := Reparent(cats, "B", ""); err != nil {
		t.Errorf("Reparent to root: %v", err)
	} else if b, _ := Find(out, "B"); !b.IsRoot() {
		t.Errorf("B parent = %q, want root", b.Parent)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cats []models.Category
		kind string
	}{
		{name: "valid", cats: sampleTree(), kind: ""},
		{name: "duplicate", cats: []models.Category{{Code: "a"}, {Code: "a"}}, kind: KindDuplicate},
		{name: "dangling", cats: []models.Category{{Code: "a", Parent: "zz"}}, kind: KindDangling},
		{name: "self parent", cats: []models.Category{{Code: "a", Parent: "a"}}, kind: KindCycle},
		{
			name: "two node cycle",
			cats: []models.Category{{Code: "r"}, {Code: "a", Parent: "b"}, {Code: "b", Parent: "a"}},
			kind: KindCycle,
		},
		{name: "empty code", cats: []models.Category{{Code: ""}}, kind: KindEmptyCode},
		{
			name: "two labels in one language",
			cats: []models.Category{{Code: "a", Labels: []models.Label{
				{Language: "en", Text: "Alpha"}, {Language: "sv", Text: "Alfa"}, {Language: "en", Text: "Alfa"},
			}}},
			kind: KindDuplicateLabel,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cats)
			if tt.kind == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var ie *IntegrityError
			if !errors.As(err, &ie) || ie.Kind != tt.kind {
				t.Errorf("Validate() = %v, want kind %s", err, tt.kind)
			}
		})
	}
}

func TestFindCycleNamesEarliestMember(t *testing.T) {
	cats := []models.Category{
		{Code: "root"},
		{Code: "x", Parent: "y"},
		{Code: "y", Parent: "z"},
		{Code: "z", Parent: "x"},
	}
	code, ok := FindCycle(cats)
	if !ok || code != "x" {
		t.Errorf("FindCycle() = %q, %v, want x, true", code, ok)
	}
	err := (&IntegrityError{Kind: KindCycle, Code: code}).Error()
	if want := `circular reference detected involving category "x"`; err != want {
		t.Errorf("Error() = %q, want %q", err, want)
	}
}

func TestClearDangling(t *testing.T) {
	cats := []models.Category{{Code: "a"}, {Code: "b", Parent: "gone"}, {Code: "c", Parent: "a"}}
	out, moved := ClearDangling(cats)
	if !slices.Equal(moved, []string{"b"}) {
		t.Errorf("moved = %v, want [b]", moved)
	}
	if out[1].Parent != "" || out[2].Parent != "a" {
		t.Errorf("parents = %q %q, want \"\" a", out[1].Parent, out[2].Parent)
	}
	if cats[1].Parent != "gone" {
		t.Error("input collection was modified")
	}
}

func TestStructuralHashIgnoresPositions(t *testing.T) {
	a := sampleTree()
	b := SetPositions(a, map[string]models.Position{"A": {X: 999, Y: 999}})

	if StructuralHash(a) != StructuralHash(b) {
		t.Error("StructuralHash changed on a position-only edit")
	}
	if ContentHash(a) == ContentHash(b) {
		t.Error("ContentHash did not change on a position edit")
	}

	c, _ := Relabel(a, "A", "en", "renamed")
	if StructuralHash(a) == StructuralHash(c) {
		t.Error("StructuralHash did not change on relabel")
	}
}

// TestDescendantClosureProperty checks that every descendant has an
// ancestor chain reaching the start node and that nothing else does.
func TestDescendantClosureProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cats := genForest(t)
		if len(cats) == 0 {
			return
		}
		start := cats[rapid.IntRange(0, len(cats)-1).Draw(t, "start")].Code
		desc := Descendants(cats, start)

		in := make(map[string]bool, len(desc))
		for _, d := range desc {
			if in[d] {
				t.Fatalf("descendant %q listed twice", d)
			}
			in[d] = true
		}
		for _, c := range cats {
			reaches := slices.Contains(Ancestors(cats, c.Code), start)
			if reaches != in[c.Code] {
				t.Fatalf("%q: reaches %q = %v, in descendants = %v", c.Code, start, reaches, in[c.Code])
			}
		}
	})
}

// TestRemoveSubtreeProperty checks removal leaves no orphans and removes
// exactly the node and its descendants.
func TestRemoveSubtreeProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cats := genForest(t)
		if len(cats) == 0 {
			return
		}
		target := cats[rapid.IntRange(0, len(cats)-1).Draw(t, "target")].Code
		desc := Descendants(cats, target)

		out, _, err := RemoveSubtree(cats, target)
		if err != nil {
			t.Fatalf("RemoveSubtree: %v", err)
		}
		if len(out) != len(cats)-1-len(desc) {
			t.Fatalf("len = %d, want %d", len(out), len(cats)-1-len(desc))
		}
		if err := Validate(out); err != nil {
			t.Fatalf("result invalid: %v", err)
		}
	})
}

// TestGeneratedCodesUniqueProperty checks repeated inserts never collide.
func TestGeneratedCodesUniqueProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cats := genForest(t)
		opts := DefaultOptions()
		steps := rapid.IntRange(1, 15).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			if len(cats) == 0 {
				cats, _ = AddRoot(cats, opts)
				continue
			}
			target := cats[rapid.IntRange(0, len(cats)-1).Draw(t, fmt.Sprintf("target%d", i))].Code
			var err error
			if rapid.Bool().Draw(t, fmt.Sprintf("child%d", i)) {
				cats, _, err = AddChild(cats, target, opts)
			} else {
				cats, _, err = AddSibling(cats, target, opts)
			}
			if err != nil {
				t.Fatalf("insert: %v", err)
			}
		}
		if err := Validate(cats); err != nil {
			t.Fatalf("collection invalid after inserts: %v", err)
		}
	})
}
