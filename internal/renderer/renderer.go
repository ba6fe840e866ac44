package renderer

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/ropedit/internal/engine"
	"github.com/dshills/ropedit/internal/renderer/statusline"
)

// DefaultTabWidth is the tab stop interval in cells.
const DefaultTabWidth = 4

// View is the session state the renderer reads. *engine.Session
// implements it.
type View interface {
	Lines() []string
	Cursor() int
	CursorPoint() engine.Point
	Dirty() bool
	Status() string
	DisplayName() string
}

// Styles are the cell styles used for drawing.
type Styles struct {
	Text      tcell.Style
	Cursor    tcell.Style
	CursorEOL tcell.Style
	Status    tcell.Style
}

// DefaultStyles returns the default styles: the cursor cell is
// underlined, a cursor past the end of a line is a cyan underlined space
// and the status line is cyan.
func DefaultStyles() Styles {
	return Styles{
		Text:      tcell.StyleDefault,
		Cursor:    tcell.StyleDefault.Underline(true),
		CursorEOL: tcell.StyleDefault.Foreground(tcell.ColorTeal).Underline(true),
		Status:    tcell.StyleDefault.Foreground(tcell.ColorTeal),
	}
}

// Renderer draws a View onto a tcell screen.
type Renderer struct {
	screen   tcell.Screen
	styles   Styles
	tabWidth int

	// top is the first document line shown.
	top int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithStyles overrides the default styles.
func WithStyles(s Styles) Option {
	return func(r *Renderer) {
		r.styles = s
	}
}

// WithTabWidth sets the tab stop interval.
func WithTabWidth(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.tabWidth = n
		}
	}
}

// New creates a renderer for screen.
func New(screen tcell.Screen, opts ...Option) *Renderer {
	r := &Renderer{
		screen:   screen,
		styles:   DefaultStyles(),
		tabWidth: DefaultTabWidth,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Styles returns the styles in use.
func (r *Renderer) Styles() Styles {
	return r.styles
}

// Top returns the first visible document line.
func (r *Renderer) Top() int {
	return r.top
}

// Render draws the document and the status line and shows the frame.
// All rows but the last hold text; the view scrolls vertically to keep
// the cursor line visible.
func (r *Renderer) Render(v View) {
	r.screen.Clear()

	width, height := r.screen.Size()
	if width <= 0 || height <= 0 {
		r.screen.Show()
		return
	}

	textRows := height - 1
	pt := v.CursorPoint()
	r.scrollTo(pt.Line, textRows)

	lines := v.Lines()
	cursorX, cursorY := -1, -1
	for row := 0; row < textRows && r.top+row < len(lines); row++ {
		li := r.top + row
		col := -1
		if li == pt.Line {
			col = pt.Column
		}
		if x := r.drawLine(row, width, lines[li], col); li == pt.Line {
			cursorX, cursorY = x, row
		}
	}

	if cursorY >= 0 {
		if cursorX >= width {
			cursorX = width - 1
		}
		r.screen.ShowCursor(cursorX, cursorY)
	} else {
		r.screen.HideCursor()
	}

	status := statusline.Format(statusline.Info{
		Name:     v.DisplayName(),
		Cursor:   v.Cursor(),
		Modified: v.Dirty(),
		Message:  v.Status(),
	})
	statusline.Draw(r.screen, height-1, width, status, r.styles.Status)

	r.screen.Show()
}

// scrollTo adjusts top so that line is within the visible rows.
func (r *Renderer) scrollTo(line, rows int) {
	if rows <= 0 {
		r.top = line
		return
	}
	if line < r.top {
		r.top = line
	}
	if line >= r.top+rows {
		r.top = line - rows + 1
	}
	if r.top < 0 {
		r.top = 0
	}
}

// drawLine draws one line at row and returns the screen column of the
// code point at cursorCol, or -1 when cursorCol is negative. A cursor at
// the end of the line is drawn as a styled space.
func (r *Renderer) drawLine(row, width int, line string, cursorCol int) int {
	x, idx := 0, 0
	cursorX := -1

	g := uniseg.NewGraphemes(line)
	for g.Next() {
		runes := g.Runes()
		style := r.styles.Text
		if cursorCol >= idx && cursorCol < idx+len(runes) {
			style = r.styles.Cursor
			cursorX = x
		}

		main, combining := runes[0], runes[1:]
		w := g.Width()
		switch {
		case main == '\t':
			w = r.tabWidth - x%r.tabWidth
			main, combining = ' ', nil
		case w == 0:
			w = 1
			main, combining = ' ', nil
		}

		if x < width {
			r.screen.SetContent(x, row, main, combining, style)
			for i := 1; i < w && main == ' ' && x+i < width; i++ {
				r.screen.SetContent(x+i, row, ' ', nil, r.styles.Text)
			}
		}
		x += w
		idx += len(runes)
	}

	if cursorCol >= idx {
		cursorX = x
		if x < width {
			r.screen.SetContent(x, row, ' ', nil, r.styles.CursorEOL)
		}
	}
	return cursorX
}

// DisplayWidth returns the number of terminal cells s occupies, counting
// tabs as advancing to the next stop.
func (r *Renderer) DisplayWidth(s string) int {
	x := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		switch w := g.Width(); {
		case g.Str() == "\t":
			x += r.tabWidth - x%r.tabWidth
		case w == 0:
			x++
		default:
			x += w
		}
	}
	return x
}
