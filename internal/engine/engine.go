package engine

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dshills/ropedit/internal/engine/history"
	"github.com/dshills/ropedit/internal/engine/rope"
)

// Status messages reported by session transitions.
const (
	StatusUndo        = "Undo performed"
	StatusNothingUndo = "Nothing to undo"
	StatusRedo        = "Redo performed"
	StatusNothingRedo = "Nothing to redo"
	StatusLoaded      = "File loaded successfully!"
	StatusSaved       = "File saved successfully!"
)

// Store persists the full text of a session under a name.
type Store interface {
	Save(name string, content io.WriterTo) error
}

// Point is a line/column position. Both are zero-based and counted in
// code points.
type Point struct {
	Line   int
	Column int
}

// Session is one editing session: the current document, a cursor, the
// undo/redo log and the display state the UI reads back.
//
// Sessions are independent; there is no package-level editor state.
// All methods are safe for concurrent use, though an editor normally
// drives a session from a single goroutine.
type Session struct {
	mu sync.RWMutex

	rope     rope.Rope
	cursor   int
	history  *history.History
	dirty    bool
	status   string
	filename string
	id       string

	// Configuration
	maxUndoEntries int
	maintain       rope.Maintainer
}

// New creates a new Session with the given options.
func New(opts ...Option) *Session {
	s := &Session{
		rope: rope.New(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.id == "" {
		s.id = uuid.NewString()
	}
	s.history = history.New(s.maxUndoEntries)
	return s
}

// NewFromReader creates a Session whose content is read from r.
func NewFromReader(r io.Reader, opts ...Option) (*Session, error) {
	content, err := rope.FromReader(r)
	if err != nil {
		return nil, err
	}

	s := New(opts...)
	s.rope = content
	return s, nil
}

// ============================================================================
// Read Operations
// ============================================================================

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Rope returns the current document. The returned value is immutable.
func (s *Session) Rope() rope.Rope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rope
}

// Text returns the full document content.
func (s *Session) Text() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rope.String()
}

// Len returns the document length in code points.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rope.Len()
}

// Lines returns the document split on "\n". A trailing newline yields a
// final empty line, and an empty document yields one empty line.
func (s *Session) Lines() []string {
	return strings.Split(s.Text(), "\n")
}

// CharAt returns the code point at index i.
func (s *Session) CharAt(i int) (rune, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rope.CharAt(i)
}

// Cursor returns the cursor position as a code point index.
func (s *Session) Cursor() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor
}

// CursorPoint returns the cursor position as a line and column.
func (s *Session) CursorPoint() Point {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p Point
	it := s.rope.Leaves()
	remaining := s.cursor
	for remaining > 0 && it.Next() {
		for _, r := range it.Text() {
			if remaining == 0 {
				break
			}
			remaining--
			if r == '\n' {
				p.Line++
				p.Column = 0
			} else {
				p.Column++
			}
		}
	}
	return p
}

// Dirty reports whether the document differs from the last load or save.
func (s *Session) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Status returns the current status message, or "" if none.
func (s *Session) Status() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Filename returns the save destination, or "" if none is set.
func (s *Session) Filename() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filename
}

// DisplayName returns the filename, or "Untitled" if none is set.
func (s *Session) DisplayName() string {
	if name := s.Filename(); name != "" {
		return name
	}
	return "Untitled"
}

// ============================================================================
// Edit Intents
// ============================================================================

// Acceptable reports whether text may be inserted: it must be non-empty
// valid UTF-8 made only of printable or whitespace characters.
func Acceptable(text string) bool {
	if text == "" || !utf8.ValidString(text) {
		return false
	}
	for _, r := range text {
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// Insert inserts text at the cursor and moves the cursor past it.
// Text that is not Acceptable is ignored. Returns true if the text was inserted.
func (s *Session) Insert(text string) bool {
	if !Acceptable(text) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := history.NewInsert(s.cursor, text)
	s.rope, s.cursor = a.Apply(s.rope)
	s.history.Push(a)
	s.afterEditLocked()
	s.status = ""
	return true
}

// DeleteBackward removes the character before the cursor.
// Returns false if the cursor is at the start of the document.
func (s *Session) DeleteBackward() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor == 0 {
		return false
	}

	if s.cursor > s.rope.Len() {
		s.cursor = s.rope.Len()
		return false
	}

	// Record the exact bytes; CharAt maps invalid UTF-8 to U+FFFD.
	a := history.NewDelete(s.cursor-1, s.rope.Slice(s.cursor-1, s.cursor))
	s.rope, s.cursor = a.Apply(s.rope)
	s.history.Push(a)
	s.afterEditLocked()
	s.status = ""
	return true
}

// Undo reverts the most recent action.
// Returns ErrNothingToUndo, and sets an informational status, when there
// is nothing to undo.
func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.history.Undo(s.rope)
	if err != nil {
		s.status = StatusNothingUndo
		return err
	}

	s.rope, s.cursor = res.Rope, res.Cursor
	s.afterEditLocked()
	s.status = StatusUndo
	return nil
}

// Redo re-applies the most recently undone action.
// Returns ErrNothingToRedo, and sets an informational status, when there
// is nothing to redo.
func (s *Session) Redo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.history.Redo(s.rope)
	if err != nil {
		s.status = StatusNothingRedo
		return err
	}

	s.rope, s.cursor = res.Rope, res.Cursor
	s.afterEditLocked()
	s.status = StatusRedo
	return nil
}

// afterEditLocked runs maintenance and keeps the cursor in range.
func (s *Session) afterEditLocked() {
	if s.maintain != nil {
		s.rope = s.maintain(s.rope)
	}
	s.cursor = clampCursor(s.cursor, s.rope.Len())
	s.dirty = true
}

// CursorLeft moves the cursor one character left.
// Returns true if the cursor moved.
func (s *Session) CursorLeft() bool {
	return s.moveCursor(-1)
}

// CursorRight moves the cursor one character right.
// Returns true if the cursor moved.
func (s *Session) CursorRight() bool {
	return s.moveCursor(1)
}

func (s *Session) moveCursor(delta int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := clampCursor(s.cursor+delta, s.rope.Len())
	if next == s.cursor {
		return false
	}
	s.cursor = next
	s.status = ""
	return true
}

// SetCursor moves the cursor to i, clamped to [0, Len()].
func (s *Session) SetCursor(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = clampCursor(i, s.rope.Len())
}

func clampCursor(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// ============================================================================
// History
// ============================================================================

// CanUndo returns true if undo is available.
func (s *Session) CanUndo() bool {
	return s.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (s *Session) CanRedo() bool {
	return s.history.CanRedo()
}

// UndoCount returns the number of actions on the undo stack.
func (s *Session) UndoCount() int {
	return s.history.UndoCount()
}

// RedoCount returns the number of actions on the redo stack.
func (s *Session) RedoCount() int {
	return s.history.RedoCount()
}

// History returns the session's action log.
func (s *Session) History() *history.History {
	return s.history
}

// ClearHistory drops both stacks.
func (s *Session) ClearHistory() {
	s.history.Clear()
}

// ============================================================================
// Load and Save
// ============================================================================

// Load replaces the document with text under the given display name.
// The cursor returns to 0 and the dirty flag clears. History is kept.
func (s *Session) Load(name, text string) {
	s.LoadRope(name, rope.FromString(text))
}

// LoadRope is Load for content that is already a rope.
func (s *Session) LoadRope(name string, r rope.Rope) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rope = r
	s.filename = name
	s.cursor = 0
	s.dirty = false
	s.status = StatusLoaded
}

// Save writes the document to store under the session's filename.
// On success the dirty flag clears. On failure the document is unchanged,
// the session stays dirty and the status reports the reason.
func (s *Session) Save(store Store) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch {
	case s.filename == "":
		err = ErrNoFilename
	case store == nil:
		err = ErrNoStore
	default:
		err = store.Save(s.filename, s.rope)
	}

	if err != nil {
		s.status = fmt.Sprintf("Save failed: %v", err)
		return err
	}

	s.dirty = false
	s.status = StatusSaved
	return nil
}

// SetFilename changes the save destination.
func (s *Session) SetFilename(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filename = name
}

// SetStatus sets the status message shown to the user.
func (s *Session) SetStatus(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = msg
}

// ============================================================================
// Diagnostics
// ============================================================================

// Stats describes the shape of the session's rope.
type Stats struct {
	Length int
	Depth  int
	Leaves int
}

// Stats returns structural statistics for the current document.
func (s *Session) Stats() Stats {
	r := s.Rope()
	return Stats{
		Length: r.Len(),
		Depth:  r.Depth(),
		Leaves: r.LeafCount(),
	}
}

// Validate checks the rope invariants of the current document.
func (s *Session) Validate() error {
	return s.Rope().Validate()
}
