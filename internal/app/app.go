package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/dshills/ropedit/internal/config"
	"github.com/dshills/ropedit/internal/config/watcher"
	"github.com/dshills/ropedit/internal/engine"
	"github.com/dshills/ropedit/internal/plugin/lua"
	"github.com/dshills/ropedit/internal/renderer"
	"github.com/dshills/ropedit/internal/renderer/backend"
)

// Status messages set by the application.
const (
	StatusMenu         = "Menu opened"
	StatusFileChanged  = "File changed on disk"
	StatusFileRemoved  = "File removed from disk"
	StatusConfigReload = "Config reloaded"
)

// fileChangedEvent carries a watcher notification into the tcell queue.
type fileChangedEvent struct {
	when time.Time
	path string
	op   watcher.Operation
}

func (e *fileChangedEvent) When() time.Time { return e.when }

// quitEvent stops the event loop.
type quitEvent struct {
	when time.Time
}

func (e *quitEvent) When() time.Time { return e.when }

// App is the terminal editor: one document, its key bindings and the
// event loop that feeds key presses into the session.
type App struct {
	cfg    *config.Config
	logger zerolog.Logger

	term     *backend.Terminal
	renderer *renderer.Renderer
	doc      *Document
	keymap   *Keymap
	debounce *Debouncer
	scripts  *lua.State

	watchEnabled *bool
	watcher      *watcher.Watcher

	renameTo string

	pasting bool
	paste   strings.Builder

	ctx     context.Context
	mu      sync.Mutex
	running bool
}

// New creates an App editing path. An empty path starts an untitled
// document.
func New(path string, opts ...Option) (*App, error) {
	a := &App{
		logger:   zerolog.Nop(),
		debounce: NewDebouncer(0),
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.cfg == nil {
		a.cfg = config.New()
	}

	editorCfg := a.cfg.Editor()
	engineOpts := []engine.Option{
		engine.WithMaxUndoEntries(editorCfg.MaxUndo),
		engine.WithRebalanceDepth(editorCfg.RebalanceDepth),
	}

	if path == "" {
		a.doc = NewScratchDocument(engineOpts...)
	} else {
		doc, err := OpenDocument(path, engineOpts...)
		if err != nil {
			return nil, err
		}
		a.doc = doc
	}

	a.logger = WithField(WithComponent(a.logger, "app"), "session", a.doc.Session.ID())

	if err := a.applyConfig(); err != nil {
		return nil, err
	}

	a.scripts = lua.NewState(lua.WithOutput(a.doc.Session.SetStatus))
	lua.BindEditor(a.scripts, a.doc.Session)

	if a.term == nil {
		term, err := backend.NewTerminal()
		if err != nil {
			_ = a.scripts.Close()
			return nil, NewOperationError("open", "terminal", err)
		}
		a.term = term
	}
	a.renderer = renderer.New(a.term.Screen())

	a.logger.Info().Str("file", a.doc.Path()).Msg("session started")
	return a, nil
}

// Document returns the open document.
func (a *App) Document() *Document {
	return a.doc
}

// Session returns the editing session of the open document.
func (a *App) Session() *engine.Session {
	return a.doc.Session
}

// applyConfig installs the keymap, debounce window and rename target from
// the current configuration.
func (a *App) applyConfig() error {
	editorCfg := a.cfg.Editor()

	bindings := a.cfg.Keymap()
	for key, script := range a.cfg.Script().Bindings {
		bindings[ScriptActionPrefix+script] = key
	}

	km, err := NewKeymap(bindings)
	if err != nil {
		return NewOperationError("load", "keymap", err)
	}

	a.keymap = km
	a.debounce.SetWindow(editorCfg.Debounce)
	a.renameTo = editorCfg.RenameTo
	a.doc.Session.History().SetMaxEntries(editorCfg.MaxUndo)

	for path, err := range a.cfg.ConfigErrors() {
		a.logger.Warn().Err(err).Str("setting", path).Msg("invalid setting, using default")
	}
	return nil
}

// ============================================================================
// Event Loop
// ============================================================================

// Run initializes the terminal and processes events until quit or until
// ctx is cancelled. The terminal is restored on return.
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return ErrAlreadyRunning
	}
	a.running = true
	a.ctx = ctx
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	if err := a.term.Init(); err != nil {
		return NewOperationError("init", "terminal", err)
	}
	defer a.term.Shutdown()

	a.startWatcher()
	defer a.stopWatcher()

	a.runInitScript()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = a.term.PostEvent(&quitEvent{when: time.Now()})
		case <-done:
		}
	}()

	for {
		a.Render()

		ev := a.term.PollEvent()
		if ev == nil {
			return nil
		}
		if err := a.HandleEvent(ev); err != nil {
			if errors.Is(err, ErrQuit) {
				a.logger.Info().Msg("quit")
				return nil
			}
			a.logger.Error().Err(err).Msg("event failed")
		}
	}
}

// Render draws the current session state.
func (a *App) Render() {
	a.renderer.Render(a.doc.Session)
}

// Close releases the scripting state.
func (a *App) Close() error {
	return a.scripts.Close()
}

// HandleEvent applies one terminal event to the session. It returns
// ErrQuit when the editor should exit.
func (a *App) HandleEvent(ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if a.pasting {
			a.collectPaste(ev)
			return nil
		}
		if !a.debounce.Allow(ev.When()) {
			return nil
		}
		return a.handleKey(ev)

	case *tcell.EventPaste:
		if ev.Start() {
			a.pasting = true
			a.paste.Reset()
			return nil
		}
		a.pasting = false
		if text := a.paste.String(); text != "" {
			a.doc.Session.Insert(text)
		}
		a.paste.Reset()

	case *tcell.EventResize:
		a.term.Screen().Sync()

	case *fileChangedEvent:
		a.handleFileChange(ev)

	case *quitEvent:
		return ErrQuit
	}
	return nil
}

// handleKey maps a key event to exactly one session intent or app action.
func (a *App) handleKey(ev *tcell.EventKey) error {
	if action, ok := a.keymap.Lookup(ev); ok {
		return a.runAction(action)
	}

	s := a.doc.Session
	switch ev.Key() {
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		s.DeleteBackward()
	case tcell.KeyLeft:
		s.CursorLeft()
	case tcell.KeyRight:
		s.CursorRight()
	case tcell.KeyEnter:
		s.Insert("\n")
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) != 0 {
			return nil
		}
		text := string(ev.Rune())
		if ev.Modifiers()&tcell.ModShift != 0 {
			text = strings.ToUpper(text)
		}
		s.Insert(text)
	}
	return nil
}

// collectPaste buffers the text of a key event inside a bracketed paste.
func (a *App) collectPaste(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		a.paste.WriteRune(ev.Rune())
	case tcell.KeyEnter:
		a.paste.WriteByte('\n')
	case tcell.KeyTab:
		a.paste.WriteByte('\t')
	}
}

// runAction performs a keymap action.
func (a *App) runAction(action string) error {
	s := a.doc.Session

	switch action {
	case config.ActionQuit:
		return ErrQuit
	case config.ActionSave:
		if err := a.doc.Save(); err != nil {
			a.logger.Warn().Err(err).Msg("save failed")
			return nil
		}
		a.logger.Info().Str("file", a.doc.Path()).Msg("saved")
	case config.ActionUndo:
		_ = s.Undo()
	case config.ActionRedo:
		_ = s.Redo()
	case config.ActionRename:
		a.rename(a.renameTo)
	case config.ActionMenu:
		s.SetStatus(StatusMenu)
	default:
		if script, ok := strings.CutPrefix(action, ScriptActionPrefix); ok {
			a.runScript(script)
			return nil
		}
		a.logger.Warn().Str("action", action).Msg("unknown action")
	}
	return nil
}

// rename changes the save destination and moves the file watch with it.
func (a *App) rename(path string) {
	old := a.doc.Path()
	a.doc.Rename(path)

	if a.watcher != nil {
		if old != "" {
			_ = a.watcher.Unwatch(old)
		}
		if err := a.watcher.Watch(path); err != nil {
			a.logger.Warn().Err(err).Str("file", path).Msg("watch failed")
		}
	}
	a.logger.Info().Str("from", old).Str("to", path).Msg("renamed")
}

// ============================================================================
// Scripts
// ============================================================================

func (a *App) runInitScript() {
	if init := a.cfg.Script().Init; init != "" {
		a.runScript(init)
	}
}

func (a *App) runScript(path string) {
	path = expandHome(path)
	a.logger.Debug().Str("script", path).Msg("running script")

	if err := a.scripts.DoFile(a.ctx, path); err != nil {
		a.doc.Session.SetStatus(fmt.Sprintf("Script failed: %v", err))
		a.logger.Warn().Err(err).Str("script", path).Msg("script failed")
	}
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}

// ============================================================================
// File Watching
// ============================================================================

func (a *App) startWatcher() {
	enabled := a.cfg.Watch().Enabled
	if a.watchEnabled != nil {
		enabled = *a.watchEnabled
	}
	if !enabled {
		return
	}

	w, err := watcher.New(
		watcher.WithDebounce(a.cfg.Watch().Debounce),
		watcher.WithErrorHandler(func(err error) {
			a.logger.Warn().Err(err).Msg("watcher error")
		}),
	)
	if err != nil {
		a.logger.Warn().Err(err).Msg("file watching disabled")
		return
	}

	for _, path := range []string{a.doc.Path(), a.cfg.Path()} {
		if path == "" {
			continue
		}
		if err := w.Watch(path); err != nil {
			a.logger.Warn().Err(err).Str("file", path).Msg("watch failed")
		}
	}

	w.OnChange(func(e watcher.Event) {
		_ = a.term.PostEvent(&fileChangedEvent{when: e.Time, path: e.Path, op: e.Op})
	})
	w.Start()
	a.watcher = w
}

func (a *App) stopWatcher() {
	if a.watcher == nil {
		return
	}
	if err := a.watcher.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("closing watcher")
	}
	a.watcher = nil
}

// handleFileChange reacts to an external change of the config file or
// the open document.
func (a *App) handleFileChange(ev *fileChangedEvent) {
	switch ev.path {
	case absPath(a.cfg.Path()):
		a.reloadConfig()

	case absPath(a.doc.Path()):
		switch {
		case ev.op == watcher.OpRemove || ev.op == watcher.OpRename:
			a.doc.Session.SetStatus(StatusFileRemoved)
		case !a.doc.MatchesDisk():
			a.doc.Session.SetStatus(StatusFileChanged)
		}
		a.logger.Debug().Str("file", ev.path).Stringer("op", ev.op).Msg("document changed on disk")
	}
}

func (a *App) reloadConfig() {
	if err := a.cfg.Load(a.ctx); err != nil {
		a.doc.Session.SetStatus(fmt.Sprintf("Config reload failed: %v", err))
		a.logger.Warn().Err(err).Msg("config reload failed")
		return
	}
	if err := a.applyConfig(); err != nil {
		a.doc.Session.SetStatus(fmt.Sprintf("Config reload failed: %v", err))
		a.logger.Warn().Err(err).Msg("config reload failed")
		return
	}
	a.doc.Session.SetStatus(StatusConfigReload)
	a.logger.Info().Msg("config reloaded")
}

func absPath(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
