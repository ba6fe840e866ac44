// Package engine provides the editing session at the core of ropedit.
//
// A Session owns a persistent rope (package rope), a cursor measured in
// code points, and an undo/redo log of invertible actions (package
// history). The UI layer translates input into exactly one edit intent per
// event and reads the result back:
//
//	s := engine.New()
//	s.Insert("hello")  // text "hello", cursor 5
//	s.Insert(" world") // text "hello world", cursor 11
//	s.Undo()           // text "hello", cursor 5
//	s.Redo()           // text "hello world", cursor 11
//
// # Edit Intents
//
//   - Insert(text): inserts at the cursor; non-printable input is ignored
//   - DeleteBackward(): removes the character before the cursor
//   - Undo() / Redo(): walk the action log
//   - CursorLeft() / CursorRight(): clamped cursor movement
//
// Every accepted edit records one action and clears the redo stack.
// Keystrokes are never coalesced.
//
// # Load and Save
//
// Load replaces the document and resets the cursor without touching
// history. Save writes the text through a Store; failures leave the
// document unchanged and are reported both as an error and as the
// session's status message.
//
// # Maintenance
//
// Rope split and concat never rebalance. A rope.Maintainer supplied with
// WithMaintainer or WithRebalanceDepth runs after every edit to keep the
// tree shallow.
package engine
