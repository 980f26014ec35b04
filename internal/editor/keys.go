// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Named keys understood by HandleKey. Any other single printable character
// starts an inline edit.
const (
	KeyEnter  = "Enter"
	KeyTab    = "Tab"
	KeyDelete = "Delete"
	KeyEscape = "Escape"
)

// KeyEvent is a keystroke on the canvas.
type KeyEvent struct {
	Key   string `json:"key"`
	Shift bool   `json:"shift"`
}

// Key outcomes.
const (
	KeyIgnored       = "none"
	KeyBeginEdit     = "edit"
	KeyAddedSibling  = "add_sibling"
	KeyAddedChild    = "add_child"
	KeySelectedUp    = "select_parent"
	KeyConfirmRemove = "confirm_remove"
	KeyDeselected    = "deselect"
)

// InlineEdit asks the surface to open the label editor on a node with the
// typed character already entered.
type InlineEdit struct {
	Code string `json:"code"`
	Seed string `json:"seed"`
}

// KeyResult is what a keystroke did.
type KeyResult struct {
	Action   string         `json:"action"`
	Selected string         `json:"selected,omitempty"`
	Edit     *InlineEdit    `json:"edit,omitempty"`
	Prompt   *RemovalPrompt `json:"prompt,omitempty"`
}

// HandleKey applies a keystroke to the selected node. Without a selection
// every key is ignored.
func (s *Session) HandleKey(ev KeyEvent) (KeyResult, error) {
	sel := s.Selected()
	if sel == "" {
		return KeyResult{Action: KeyIgnored}, nil
	}

	switch {
	case ev.Key == KeyEnter:
		code, err := s.AddSibling(sel)
		if err != nil {
			return KeyResult{Action: KeyIgnored}, err
		}
		return KeyResult{Action: KeyAddedSibling, Selected: code}, nil

	case ev.Key == KeyTab && ev.Shift:
		if _, err := s.Dispatch(Action{Kind: ActSelectParent, Code: sel}); err != nil {
			return KeyResult{Action: KeyIgnored}, err
		}
		return KeyResult{Action: KeySelectedUp, Selected: s.Selected()}, nil

	case ev.Key == KeyTab:
		code, err := s.AddChild(sel)
		if err != nil {
			return KeyResult{Action: KeyIgnored}, err
		}
		return KeyResult{Action: KeyAddedChild, Selected: code}, nil

	case ev.Key == KeyDelete:
		p, err := s.RequestRemoval(sel)
		if err != nil {
			return KeyResult{Action: KeyIgnored}, err
		}
		return KeyResult{Action: KeyConfirmRemove, Selected: sel, Prompt: &p}, nil

	case ev.Key == KeyEscape:
		s.CancelRemoval()
		s.ClearSelection()
		return KeyResult{Action: KeyDeselected}, nil

	case isPrintable(ev.Key):
		return KeyResult{Action: KeyBeginEdit, Selected: sel, Edit: &InlineEdit{Code: sel, Seed: ev.Key}}, nil
	}
	return KeyResult{Action: KeyIgnored, Selected: sel}, nil
}

// CommitEdit finishes an inline edit by setting the display-language label
// of code to the trimmed text. Blank text keeps the old label.
func (s *Session) CommitEdit(code, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return s.Relabel(code, "", text)
}

func isPrintable(key string) bool {
	if utf8.RuneCountInString(key) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(key)
	return unicode.IsPrint(r)
}
