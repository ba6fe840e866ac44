package engine

import (
	"errors"

	"github.com/dshills/ropedit/internal/engine/history"
)

// Errors returned by session operations.
var (
	// ErrNoFilename indicates a save was requested before a filename was set.
	ErrNoFilename = errors.New("no filename specified")

	// ErrNoStore indicates a save was requested without a store.
	ErrNoStore = errors.New("no store configured")

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = history.ErrNothingToRedo
)
