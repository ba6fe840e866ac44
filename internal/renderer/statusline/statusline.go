// Package statusline formats and draws the bottom status line.
package statusline

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// ModifiedMarker is shown while the document has unsaved changes.
const ModifiedMarker = "[Modified]"

// Info is the state summarized on the status line.
type Info struct {
	Name     string
	Cursor   int
	Modified bool
	Message  string
}

// Format renders the status text:
//
//	File: <name> | Cursor: <n> | [Modified] | <message>
//
// The marker and message fields are empty when there is nothing to show.
func Format(info Info) string {
	modified := ""
	if info.Modified {
		modified = ModifiedMarker
	}
	return fmt.Sprintf("File: %s | Cursor: %d | %s | %s", info.Name, info.Cursor, modified, info.Message)
}

// Draw writes text on row, clipped to width cells, and blanks the rest of
// the row.
func Draw(screen tcell.Screen, row, width int, text string, style tcell.Style) {
	x := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() && x < width {
		runes := g.Runes()
		w := g.Width()
		if w == 0 {
			continue
		}
		if x+w > width {
			break
		}
		screen.SetContent(x, row, runes[0], runes[1:], style)
		x += w
	}
	for ; x < width; x++ {
		screen.SetContent(x, row, ' ', nil, style)
	}
}
