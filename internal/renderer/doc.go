// Package renderer draws an editing session on a terminal.
//
// The layout follows the classic single-buffer editor: every row but the
// last shows a document line, and the last row is the status line
//
//	File: notes.txt | Cursor: 42 | [Modified] | File saved successfully!
//
// The character under the cursor is underlined. When the cursor sits past
// the end of its line a cyan underlined space marks it. Columns are
// computed per grapheme cluster with uniseg, so wide and combining
// characters line up with what the terminal displays.
//
// Usage:
//
//	term, _ := backend.NewTerminal()
//	_ = term.Init()
//	defer term.Shutdown()
//
//	r := renderer.New(term.Screen())
//	r.Render(session)
package renderer
