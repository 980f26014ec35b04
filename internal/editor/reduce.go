// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"fmt"

	"github.com/StorkenPb/CategoryPlanner/internal/category"
	"github.com/StorkenPb/CategoryPlanner/internal/models"
	"github.com/StorkenPb/CategoryPlanner/internal/outline"
)

// Kind names an editor action.
type Kind string

// Action kinds accepted by Reduce.
const (
	ActReplace        Kind = "replace"
	ActAddRoot        Kind = "add_root"
	ActAddSibling     Kind = "add_sibling"
	ActAddChild       Kind = "add_child"
	ActRelabel        Kind = "relabel"
	ActReparent       Kind = "reparent"
	ActRequestRemoval Kind = "request_removal"
	ActConfirmRemoval Kind = "confirm_removal"
	ActCancelRemoval  Kind = "cancel_removal"
	ActSelect         Kind = "select"
	ActClearSelection Kind = "clear_selection"
	ActSelectParent   Kind = "select_parent"
	ActApplyOutline   Kind = "apply_outline"
	ActSetPositions   Kind = "set_positions"
)

// Action is one state transition request.
type Action struct {
	Kind       Kind
	Code       string
	Parent     string
	Language   string
	Text       string
	Categories []models.Category
	Positions  map[string]models.Position
}

// State is everything the reducer owns.
type State struct {
	Categories []models.Category
	Selected   string
	// PendingRemoval is the code awaiting delete confirmation.
	PendingRemoval string
}

// RemovalPrompt asks the user to confirm deleting a subtree.
type RemovalPrompt struct {
	Code        string `json:"code"`
	Label       string `json:"label"`
	Descendants int    `json:"descendants"`
}

// Message is the confirmation text shown to the user.
func (p RemovalPrompt) Message() string {
	if p.Descendants == 0 {
		return fmt.Sprintf("Delete %q?", p.Label)
	}
	return fmt.Sprintf("Delete %q and its %d descendant(s)?", p.Label, p.Descendants)
}

// Outcome describes what an action did.
type Outcome struct {
	Created string         `json:"created,omitempty"`
	Removed string         `json:"removed,omitempty"`
	Prompt  *RemovalPrompt `json:"prompt,omitempty"`
	// Changed is true when the category collection was replaced.
	Changed bool `json:"changed"`
	// Rebuilt is true when an outline edit replaced the whole forest.
	Rebuilt bool `json:"rebuilt,omitempty"`
}

// Reduce applies a to st and returns the next state. It never modifies st.
// On error the returned state is st.
func Reduce(st State, a Action, opts category.Options, displayLang string) (State, Outcome, error) {
	next := st
	var out Outcome

	switch a.Kind {
	case ActReplace:
		next = State{Categories: a.Categories}
		if category.Exists(a.Categories, st.Selected) {
			next.Selected = st.Selected
		}
		out.Changed = true

	case ActAddRoot:
		cats, code := category.AddRoot(st.Categories, opts)
		next.Categories, next.Selected = cats, code
		out.Created, out.Changed = code, true

	case ActAddSibling, ActAddChild:
		add := category.AddSibling
		if a.Kind == ActAddChild {
			add = category.AddChild
		}
		cats, code, err := add(st.Categories, a.Code, opts)
		if err != nil {
			return st, out, err
		}
		next.Categories, next.Selected = cats, code
		out.Created, out.Changed = code, true

	case ActRelabel:
		lang := a.Language
		if lang == "" {
			lang = displayLang
		}
		text := a.Text
		c, ok := category.Find(st.Categories, a.Code)
		if !ok {
			return st, out, fmt.Errorf("relabel: %w: %q", category.ErrNotFound, a.Code)
		}
		if cur, has := c.Label(lang); has && cur == text {
			return st, out, nil
		}
		cats, err := category.Relabel(st.Categories, a.Code, lang, text)
		if err != nil {
			return st, out, err
		}
		next.Categories = cats
		out.Changed = true

	case ActReparent:
		cats, err := category.Reparent(st.Categories, a.Code, a.Parent)
		if err != nil {
			return st, out, err
		}
		next.Categories = cats
		out.Changed = true

	case ActRequestRemoval:
		c, ok := category.Find(st.Categories, a.Code)
		if !ok {
			return st, out, fmt.Errorf("remove: %w: %q", category.ErrNotFound, a.Code)
		}
		next.PendingRemoval = a.Code
		out.Prompt = &RemovalPrompt{
			Code:        c.Code,
			Label:       c.DisplayLabel(displayLang),
			Descendants: len(category.Descendants(st.Categories, c.Code)),
		}

	case ActConfirmRemoval:
		code := a.Code
		if code == "" {
			code = st.PendingRemoval
		}
		cats, removed, err := category.RemoveSubtree(st.Categories, code)
		if err != nil {
			return st, out, err
		}
		next = State{Categories: cats}
		if category.Exists(cats, st.Selected) {
			next.Selected = st.Selected
		}
		out.Removed, out.Changed = removed, true

	case ActCancelRemoval:
		next.PendingRemoval = ""

	case ActSelect:
		if !category.Exists(st.Categories, a.Code) {
			return st, out, fmt.Errorf("select: %w: %q", category.ErrNotFound, a.Code)
		}
		next.Selected = a.Code

	case ActClearSelection:
		next.Selected = ""

	case ActSelectParent:
		c, ok := category.Find(st.Categories, a.Code)
		if !ok {
			return st, out, fmt.Errorf("select parent: %w: %q", category.ErrNotFound, a.Code)
		}
		if c.Parent != "" && category.Exists(st.Categories, c.Parent) {
			next.Selected = c.Parent
		}

	case ActApplyOutline:
		lang := a.Language
		if lang == "" {
			lang = displayLang
		}
		cats, rebuilt := outline.Apply(st.Categories, a.Text, lang)
		next.Categories = cats
		if rebuilt || !category.Exists(cats, st.Selected) {
			next.Selected = ""
		}
		out.Changed, out.Rebuilt = true, rebuilt

	case ActSetPositions:
		next.Categories = category.SetPositions(st.Categories, a.Positions)
		if a.Code != "" {
			next.Selected = a.Code
		}
		out.Changed = true

	default:
		return st, out, fmt.Errorf("unknown action %q", a.Kind)
	}

	if next.PendingRemoval != "" && !category.Exists(next.Categories, next.PendingRemoval) {
		next.PendingRemoval = ""
	}
	return next, out, nil
}
