package history

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dshills/ropedit/internal/engine/rope"
)

// Kind identifies the type of an edit.
type Kind uint8

const (
	// Insert records text added at an index.
	Insert Kind = iota
	// Delete records text removed at an index.
	Delete
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Action is a single recorded edit.
// Index is a code point offset; Text is the exact text inserted or removed.
type Action struct {
	Kind  Kind
	Index int
	Text  string
}

// NewInsert creates an action for text inserted at index.
func NewInsert(index int, text string) Action {
	return Action{Kind: Insert, Index: index, Text: text}
}

// NewDelete creates an action for text removed at index.
func NewDelete(index int, text string) Action {
	return Action{Kind: Delete, Index: index, Text: text}
}

// Len returns the length of the action's text in code points.
func (a Action) Len() int {
	return utf8.RuneCountInString(a.Text)
}

// Invert returns the action that undoes a.
func (a Action) Invert() Action {
	inv := a
	if a.Kind == Insert {
		inv.Kind = Delete
	} else {
		inv.Kind = Insert
	}
	return inv
}

// Apply performs the action's original effect on r.
// Returns the new rope and the cursor position after the edit.
func (a Action) Apply(r rope.Rope) (rope.Rope, int) {
	switch a.Kind {
	case Insert:
		return r.Insert(a.Index, a.Text), a.Index + a.Len()
	case Delete:
		return r.Delete(a.Index, a.Len()), a.Index
	default:
		return r, a.Index
	}
}

// Revert performs the inverse of the action on r.
// Returns the new rope and the cursor position after the edit.
func (a Action) Revert(r rope.Rope) (rope.Rope, int) {
	return a.Invert().Apply(r)
}

// Description returns a short human-readable summary.
func (a Action) Description() string {
	switch a.Kind {
	case Insert:
		return fmt.Sprintf("Insert %d chars", a.Len())
	case Delete:
		return fmt.Sprintf("Delete %d chars", a.Len())
	default:
		return "Unknown"
	}
}

// String implements fmt.Stringer.
func (a Action) String() string {
	return fmt.Sprintf("%s@%d %q", a.Kind, a.Index, a.Text)
}

// ActionInfo describes a recorded action for display.
type ActionInfo struct {
	Action      Action
	Description string
	Timestamp   time.Time
}
