package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/dshills/ropedit/internal/config/loader"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew_Defaults(t *testing.T) {
	c := New()

	editor := c.Editor()
	if editor.Debounce != 10*time.Millisecond {
		t.Errorf("Debounce = %v, want 10ms", editor.Debounce)
	}
	if editor.RebalanceDepth != 0 || editor.MaxUndo != 0 {
		t.Errorf("editor = %+v", editor)
	}
	if editor.RenameTo != "newname" {
		t.Errorf("RenameTo = %q", editor.RenameTo)
	}

	keys := c.Keymap()
	want := map[string]string{
		ActionQuit:   "Ctrl+A",
		ActionSave:   "Ctrl+S",
		ActionUndo:   "Ctrl+Z",
		ActionRedo:   "Ctrl+Y",
		ActionRename: "Ctrl+X",
		ActionMenu:   "Ctrl+M",
	}
	for action, key := range want {
		if keys[action] != key {
			t.Errorf("Keymap()[%s] = %q, want %q", action, keys[action], key)
		}
	}

	if lc := c.Logging(); lc.Level != "info" || lc.File != "" {
		t.Errorf("Logging() = %+v", lc)
	}
	if w := c.Watch(); !w.Enabled || w.Debounce != 100*time.Millisecond {
		t.Errorf("Watch() = %+v", w)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeConfig(t, "config.toml", `
[editor]
debounce = "25ms"
rebalance_depth = 48
max_undo = 100

[log]
level = "DEBUG"
file = "/tmp/ropedit.log"

[keymap]
quit = "Ctrl+Q"

[script]
init = "init.lua"

[script.bindings]
"Ctrl+T" = "stamp.lua"
`)

	c := New(WithPath(path), WithEnv(false))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	editor := c.Editor()
	if editor.Debounce != 25*time.Millisecond || editor.RebalanceDepth != 48 || editor.MaxUndo != 100 {
		t.Errorf("Editor() = %+v", editor)
	}
	if lc := c.Logging(); lc.Level != "debug" || lc.File != "/tmp/ropedit.log" {
		t.Errorf("Logging() = %+v", lc)
	}

	keys := c.Keymap()
	if keys[ActionQuit] != "Ctrl+Q" {
		t.Errorf("quit = %q, want Ctrl+Q", keys[ActionQuit])
	}
	if keys[ActionSave] != "Ctrl+S" {
		t.Errorf("unset actions should keep defaults, save = %q", keys[ActionSave])
	}

	script := c.Script()
	if script.Init != "init.lua" || script.Bindings["Ctrl+T"] != "stamp.lua" {
		t.Errorf("Script() = %+v", script)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
editor:
  max_undo: 7
watch:
  enabled: false
`)

	c := New(WithPath(path), WithEnv(false))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := c.Editor().MaxUndo; got != 7 {
		t.Errorf("MaxUndo = %d, want 7", got)
	}
	if c.Watch().Enabled {
		t.Error("watch.enabled should be false")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	c := New(WithPath(filepath.Join(t.TempDir(), "none.toml")), WithEnv(false))
	if err := c.Load(context.Background()); err != nil {
		t.Errorf("missing config file should not fail, got %v", err)
	}
	if c.Editor().RenameTo != "newname" {
		t.Error("defaults lost")
	}
}

func TestLoad_FileSystem(t *testing.T) {
	fsys := fstest.MapFS{
		"ropedit.yaml": {Data: []byte("editor:\n  rename_to: draft.txt\n")},
	}
	cfg := New(WithPath("ropedit.yaml"), WithFileSystem(fsys), WithEnv(false))
	if err := cfg.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.Editor().RenameTo; got != "draft.txt" {
		t.Errorf("RenameTo = %q, want draft.txt", got)
	}
}

func TestLoad_FailureKeepsPrevious(t *testing.T) {
	fsys := fstest.MapFS{"c.toml": {Data: []byte("[editor]\nmax_undo = 7\n")}}
	cfg := New(WithPath("c.toml"), WithFileSystem(fsys), WithEnv(false))
	if err := cfg.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	fsys["c.toml"] = &fstest.MapFile{Data: []byte("[editor]\nmax_undo = -1\n")}
	if err := cfg.Load(context.Background()); err == nil {
		t.Fatal("Load() should reject a negative max_undo")
	}
	if got := cfg.Editor().MaxUndo; got != 7 {
		t.Errorf("MaxUndo = %d, want the previous 7", got)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		check   func(error) bool
	}{
		{
			name:    "parse error",
			file:    "bad.toml",
			content: "[editor\n",
			check: func(err error) bool {
				var pe *loader.ParseError
				return errors.As(err, &pe)
			},
		},
		{
			name:    "unsupported format",
			file:    "config.ini",
			content: "x=1",
			check:   func(err error) bool { return errors.Is(err, loader.ErrUnsupportedFormat) },
		},
		{
			name:    "negative max_undo",
			file:    "neg.toml",
			content: "[editor]\nmax_undo = -1\n",
			check:   func(err error) bool { return errors.Is(err, ErrValidationFailed) },
		},
		{
			name:    "unknown log level",
			file:    "level.toml",
			content: "[log]\nlevel = \"loud\"\n",
			check: func(err error) bool {
				var ve *ValidationError
				return errors.As(err, &ve) && ve.Path == "log.level"
			},
		},
		{
			name:    "bad debounce type",
			file:    "debounce.toml",
			content: "[editor]\ndebounce = true\n",
			check:   func(err error) bool { return errors.Is(err, ErrValidationFailed) },
		},
		{
			name:    "unknown keymap action",
			file:    "keys.toml",
			content: "[keymap]\nfly = \"Ctrl+F\"\n",
			check: func(err error) bool {
				var ve *ValidationError
				return errors.As(err, &ve) && ve.Path == "keymap.fly"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(WithPath(writeConfig(t, tt.file, tt.content)), WithEnv(false))
			err := c.Load(context.Background())
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !tt.check(err) {
				t.Errorf("unexpected error %v", err)
			}
			if c.Editor().MaxUndo != 0 {
				t.Error("failed load should keep the previous configuration")
			}
		})
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "config.toml", "[editor]\nmax_undo = 5\n")
	t.Setenv("ROPEDIT_EDITOR_MAX_UNDO", "9")
	t.Setenv("ROPEDIT_LOGLEVEL", "warn")

	c := New(WithPath(path))
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := c.Editor().MaxUndo; got != 9 {
		t.Errorf("MaxUndo = %d, want 9 from environment", got)
	}
	if got := c.Logging().Level; got != "warn" {
		t.Errorf("Level = %q, want warn", got)
	}
}

func TestGetters(t *testing.T) {
	c := New()
	_ = c.Set("editor.max_undo", "12")
	_ = c.Set("editor.debounce", int64(30))
	_ = c.Set("custom.flag", "yes")

	if n, err := c.GetInt("editor.max_undo"); err != nil || n != 12 {
		t.Errorf("GetInt() = %d, %v", n, err)
	}
	if d, err := c.GetDuration("editor.debounce"); err != nil || d != 30*time.Millisecond {
		t.Errorf("GetDuration() = %v, %v", d, err)
	}

	_, err := c.GetBool("custom.flag")
	var te *TypeError
	if !errors.As(err, &te) || te.Expected != "bool" || te.Actual != "string" {
		t.Errorf("GetBool() error = %v", err)
	}

	if _, err := c.GetString("nope.nothing"); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("missing setting error = %v", err)
	}
	if err := c.Set("", 1); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Set(\"\") error = %v", err)
	}
	if err := c.Set("editor.max_undo.deep", 1); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Set through a scalar error = %v", err)
	}
}

func TestConfigErrors(t *testing.T) {
	c := New()
	_ = c.Set("editor.rebalance_depth", true)

	if got := c.Editor().RebalanceDepth; got != 0 {
		t.Errorf("bad value should fall back to the default, got %d", got)
	}

	errs := c.ConfigErrors()
	var te *TypeError
	if !errors.As(errs["editor.rebalance_depth"], &te) {
		t.Errorf("ConfigErrors() = %v", errs)
	}
}

func TestMerged_IsCopy(t *testing.T) {
	c := New()
	m := c.Merged()
	m["editor"].(map[string]any)["rename_to"] = "changed"

	if c.Editor().RenameTo != "newname" {
		t.Error("Merged() should return a copy")
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("ROPEDIT_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := DefaultPath(); got != filepath.Join("/xdg", "ropedit", "config.toml") {
		t.Errorf("DefaultPath() = %q", got)
	}

	t.Setenv("ROPEDIT_CONFIG", "/etc/ropedit.yaml")
	if got := DefaultPath(); got != "/etc/ropedit.yaml" {
		t.Errorf("DefaultPath() = %q", got)
	}
}
