// Package backend owns the terminal screen used by the renderer.
package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Terminal wraps a tcell screen with idempotent setup and teardown.
type Terminal struct {
	screen tcell.Screen

	mu          sync.Mutex
	initialized bool
}

// NewTerminal creates a backend for the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// New wraps an existing screen, such as a tcell simulation screen.
func New(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// Init enters the alternate screen and enables bracketed paste.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}
	if err := t.screen.Init(); err != nil {
		return err
	}

	t.screen.EnablePaste()
	t.screen.SetStyle(tcell.StyleDefault)
	t.screen.Clear()
	t.initialized = true
	return nil
}

// Shutdown restores the terminal. It is safe to call more than once.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized {
		return
	}
	t.screen.DisablePaste()
	t.screen.Fini()
	t.initialized = false
}

// Screen returns the underlying screen.
func (t *Terminal) Screen() tcell.Screen {
	return t.screen
}

// Size returns the screen size in cells.
func (t *Terminal) Size() (int, int) {
	return t.screen.Size()
}

// PollEvent blocks until the next event. It returns nil after Shutdown.
func (t *Terminal) PollEvent() tcell.Event {
	return t.screen.PollEvent()
}

// PostEvent queues an event for PollEvent. It may be called from any goroutine.
func (t *Terminal) PostEvent(ev tcell.Event) error {
	return t.screen.PostEvent(ev)
}
