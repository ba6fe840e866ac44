package engine

import (
	"github.com/dshills/ropedit/internal/engine/rope"
)

// Option configures a Session during creation.
type Option func(*Session)

// WithContent sets the initial content of the session.
// Initial content is not recorded in history and does not mark the session dirty.
func WithContent(content string) Option {
	return func(s *Session) {
		s.rope = rope.FromString(content)
	}
}

// WithFilename sets the destination used by Save.
func WithFilename(name string) Option {
	return func(s *Session) {
		s.filename = name
	}
}

// WithMaxUndoEntries bounds the undo stack. Zero keeps every action.
func WithMaxUndoEntries(n int) Option {
	return func(s *Session) {
		if n >= 0 {
			s.maxUndoEntries = n
		}
	}
}

// WithMaintainer sets the maintenance step run after every edit.
func WithMaintainer(m rope.Maintainer) Option {
	return func(s *Session) {
		s.maintain = m
	}
}

// WithRebalanceDepth rebalances the rope whenever its depth exceeds depth.
// Zero disables rebalancing.
func WithRebalanceDepth(depth int) Option {
	return func(s *Session) {
		if depth > 0 {
			s.maintain = rope.DepthRebalancer(depth)
		}
	}
}

// WithID sets the session identifier instead of generating one.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}
