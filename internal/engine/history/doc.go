// Package history records edits as invertible actions and provides
// undo/redo over a rope.
//
// # Actions
//
// An Action is either an Insert or a Delete. Each carries the code point
// index of the edit and the exact text inserted or removed, so it can be
// reversed without consulting the document:
//
//	a := history.NewInsert(5, " world")
//	r, cursor := a.Apply(r)   // re-perform the edit
//	r, cursor = a.Revert(r)   // undo it
//
// # History Stack
//
// History keeps an undo stack and a redo stack, most recent last. Pushing a
// new action clears the redo stack. Undo pops an action, reverts it and
// moves it to the redo stack; Redo does the opposite:
//
//	h := history.New(0) // 0 keeps every action
//	h.Push(history.NewInsert(0, "hello"))
//
//	res, err := h.Undo(r)
//	if errors.Is(err, history.ErrNothingToUndo) {
//		// ...
//	}
//	r, cursor = res.Rope, res.Cursor
//
// Consecutive keystrokes are never coalesced; each action is its own
// undo unit.
package history
