package renderer

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/ropedit/internal/engine"
)

func newSimScreen(t *testing.T, width, height int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	s.SetSize(width, height)
	t.Cleanup(s.Fini)
	return s
}

// rowText returns the text of one screen row with trailing spaces removed.
func rowText(s tcell.SimulationScreen, row int) string {
	cells, width, _ := s.GetContents()
	var sb strings.Builder
	for x := 0; x < width; x++ {
		c := cells[row*width+x]
		if len(c.Runes) == 0 {
			sb.WriteRune(' ')
			continue
		}
		sb.WriteString(string(c.Runes))
	}
	return strings.TrimRight(sb.String(), " ")
}

func cellStyle(s tcell.SimulationScreen, x, y int) tcell.Style {
	cells, width, _ := s.GetContents()
	return cells[y*width+x].Style
}

func TestRender_TextAndStatus(t *testing.T) {
	screen := newSimScreen(t, 60, 5)
	session := engine.New(engine.WithContent("hello\nworld"), engine.WithFilename("notes.txt"))
	session.SetCursor(3)

	New(screen).Render(session)

	if got := rowText(screen, 0); got != "hello" {
		t.Errorf("row 0 = %q, want hello", got)
	}
	if got := rowText(screen, 1); got != "world" {
		t.Errorf("row 1 = %q, want world", got)
	}
	if got := rowText(screen, 4); got != "File: notes.txt | Cursor: 3 |  |" {
		t.Errorf("status = %q", got)
	}
}

func TestRender_StatusModified(t *testing.T) {
	screen := newSimScreen(t, 80, 3)
	session := engine.New()
	session.Insert("hi")

	New(screen).Render(session)

	want := "File: Untitled | Cursor: 2 | [Modified] |"
	if got := rowText(screen, 2); got != want {
		t.Errorf("status = %q, want %q", got, want)
	}

	session.SetStatus("Menu opened")
	New(screen).Render(session)
	if got := rowText(screen, 2); got != want+" Menu opened" {
		t.Errorf("status = %q", got)
	}
}

func TestRender_CursorStyles(t *testing.T) {
	screen := newSimScreen(t, 20, 4)
	session := engine.New(engine.WithContent("abc\nde"))
	r := New(screen)
	styles := r.Styles()

	session.SetCursor(1)
	r.Render(session)
	if got := cellStyle(screen, 1, 0); got != styles.Cursor {
		t.Error("cell under the cursor should use the cursor style")
	}
	if got := cellStyle(screen, 0, 0); got != styles.Text {
		t.Error("other cells should use the text style")
	}
	if x, y, visible := screen.GetCursor(); !visible || x != 1 || y != 0 {
		t.Errorf("GetCursor() = %d, %d, %v; want 1, 0, true", x, y, visible)
	}

	session.SetCursor(6)
	r.Render(session)
	if got := cellStyle(screen, 2, 1); got != styles.CursorEOL {
		t.Error("cursor at end of line should draw the end-of-line marker")
	}
	if x, y, _ := screen.GetCursor(); x != 2 || y != 1 {
		t.Errorf("GetCursor() = %d, %d; want 2, 1", x, y)
	}
}

func TestRender_WideCharacters(t *testing.T) {
	screen := newSimScreen(t, 20, 3)
	session := engine.New(engine.WithContent("日本語"))
	session.SetCursor(2)

	New(screen).Render(session)

	if x, _, _ := screen.GetCursor(); x != 4 {
		t.Errorf("cursor x = %d, want 4 (two wide characters)", x)
	}
}

func TestRender_Tabs(t *testing.T) {
	screen := newSimScreen(t, 20, 3)
	session := engine.New(engine.WithContent("a\tb"))
	session.SetCursor(2)

	New(screen, WithTabWidth(4)).Render(session)

	if got := rowText(screen, 0); got != "a   b" {
		t.Errorf("row 0 = %q, want tab expanded to the next stop", got)
	}
	if x, _, _ := screen.GetCursor(); x != 4 {
		t.Errorf("cursor x = %d, want 4", x)
	}
}

func TestRender_ScrollsToCursor(t *testing.T) {
	screen := newSimScreen(t, 20, 5)
	lines := make([]string, 30)
	for i := range lines {
		lines[i] = "line"
	}
	session := engine.New(engine.WithContent(strings.Join(lines, "\n")))
	session.SetCursor(session.Len())

	r := New(screen)
	r.Render(session)
	if got := r.Top(); got != 26 {
		t.Errorf("Top() = %d, want 26", got)
	}
	if _, y, _ := screen.GetCursor(); y != 3 {
		t.Errorf("cursor row = %d, want 3", y)
	}

	session.SetCursor(0)
	r.Render(session)
	if got := r.Top(); got != 0 {
		t.Errorf("Top() after moving to start = %d, want 0", got)
	}
}

func TestRender_LongLineClipped(t *testing.T) {
	screen := newSimScreen(t, 5, 2)
	session := engine.New(engine.WithContent("abcdefghij"))
	session.SetCursor(10)

	New(screen).Render(session)

	if got := rowText(screen, 0); got != "abcde" {
		t.Errorf("row 0 = %q", got)
	}
	if x, _, _ := screen.GetCursor(); x != 4 {
		t.Errorf("cursor x = %d, want clamped to 4", x)
	}
}

func TestDisplayWidth(t *testing.T) {
	r := New(tcell.NewSimulationScreen("UTF-8"))
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"日本", 4},
		{"é", 1},
		{"\tx", 5},
		{"ab\tx", 5},
	}
	for _, tt := range tests {
		if got := r.DisplayWidth(tt.in); got != tt.want {
			t.Errorf("DisplayWidth(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
