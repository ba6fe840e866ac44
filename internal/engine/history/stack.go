package history

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/ropedit/internal/engine/rope"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// entry wraps an action with metadata.
type entry struct {
	action    Action
	timestamp time.Time
}

// Result is the outcome of an undo or redo.
type Result struct {
	Rope   rope.Rope
	Cursor int
	Action Action
}

// History manages the undo and redo stacks for one document.
type History struct {
	mu sync.Mutex

	undoStack []entry
	redoStack []entry

	// maxEntries bounds the undo stack; 0 means unbounded.
	maxEntries int
}

// New creates a history. A maxEntries of zero or less keeps every action.
func New(maxEntries int) *History {
	return &History{
		maxEntries: max(maxEntries, 0),
	}
}

// Push records a new action and clears the redo stack.
func (h *History) Push(a Action) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = append(h.undoStack, entry{
		action:    a,
		timestamp: time.Now(),
	})
	h.redoStack = nil
	h.trimLocked()
}

// trimLocked drops the oldest undo entries beyond maxEntries.
func (h *History) trimLocked() {
	if h.maxEntries == 0 || len(h.undoStack) <= h.maxEntries {
		return
	}
	excess := len(h.undoStack) - h.maxEntries
	h.undoStack = append(h.undoStack[:0:0], h.undoStack[excess:]...)
}

// Undo pops the most recent action, reverts it on r and moves it to the
// redo stack. Returns ErrNothingToUndo when the undo stack is empty.
func (h *History) Undo(r rope.Rope) (Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return Result{Rope: r}, ErrNothingToUndo
	}

	e := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]

	out, cursor := e.action.Revert(r)
	h.redoStack = append(h.redoStack, e)

	return Result{Rope: out, Cursor: cursor, Action: e.action}, nil
}

// Redo pops the most recently undone action, re-applies it on r and moves
// it back to the undo stack. Returns ErrNothingToRedo when the redo stack
// is empty.
func (h *History) Redo(r rope.Rope) (Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return Result{Rope: r}, ErrNothingToRedo
	}

	e := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]

	out, cursor := e.action.Apply(r)
	h.undoStack = append(h.undoStack, e)
	h.trimLocked()

	return Result{Rope: out, Cursor: cursor, Action: e.action}, nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo operations available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo operations available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = nil
	h.redoStack = nil
}

// UndoActions returns a copy of the undo stack, oldest first.
func (h *History) UndoActions() []Action {
	h.mu.Lock()
	defer h.mu.Unlock()
	return actions(h.undoStack)
}

// RedoActions returns a copy of the redo stack, oldest first.
func (h *History) RedoActions() []Action {
	h.mu.Lock()
	defer h.mu.Unlock()
	return actions(h.redoStack)
}

func actions(stack []entry) []Action {
	out := make([]Action, len(stack))
	for i, e := range stack {
		out[i] = e.action
	}
	return out
}

// UndoInfo returns info about available undo operations.
func (h *History) UndoInfo() []ActionInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return infos(h.undoStack)
}

// RedoInfo returns info about available redo operations.
func (h *History) RedoInfo() []ActionInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return infos(h.redoStack)
}

func infos(stack []entry) []ActionInfo {
	out := make([]ActionInfo, len(stack))
	for i, e := range stack {
		out[i] = e.info()
	}
	return out
}

func (e entry) info() ActionInfo {
	return ActionInfo{
		Action:      e.action,
		Description: e.action.Description(),
		Timestamp:   e.timestamp,
	}
}

// PeekUndo returns info about the next undo operation without removing it.
func (h *History) PeekUndo() (ActionInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return ActionInfo{}, false
	}
	return h.undoStack[len(h.undoStack)-1].info(), true
}

// PeekRedo returns info about the next redo operation without removing it.
func (h *History) PeekRedo() (ActionInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return ActionInfo{}, false
	}
	return h.redoStack[len(h.redoStack)-1].info(), true
}

// SetMaxEntries changes the maximum number of undo entries.
// Zero or less removes the bound. If the current stack is larger, oldest
// entries are removed.
func (h *History) SetMaxEntries(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxEntries = max(n, 0)
	h.trimLocked()
}

// MaxEntries returns the maximum number of undo entries, or 0 if unbounded.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}
