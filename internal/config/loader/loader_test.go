package loader

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

func TestFile_LoadTOML(t *testing.T) {
	fsys := fstest.MapFS{"config.toml": {Data: []byte(`
[editor]
debounce = "25ms"
rebalance_depth = 32

[keymap]
quit = "Ctrl+Q"
`)}}

	config, err := NewFile(fsys, "config.toml", TOML).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	editor, ok := config["editor"].(map[string]any)
	if !ok {
		t.Fatal("expected editor to be a map")
	}
	if editor["debounce"] != "25ms" {
		t.Errorf("debounce = %v, want 25ms", editor["debounce"])
	}
	if editor["rebalance_depth"] != int64(32) {
		t.Errorf("rebalance_depth = %v (%T), want 32", editor["rebalance_depth"], editor["rebalance_depth"])
	}
}

func TestFile_LoadMissing(t *testing.T) {
	config, err := NewFile(fstest.MapFS{}, "missing.toml", TOML).Load()
	if err != nil {
		t.Errorf("missing file should not be an error, got %v", err)
	}
	if config != nil {
		t.Errorf("missing file should return nil config, got %v", config)
	}
}

func TestFile_LoadInvalidTOML(t *testing.T) {
	fsys := fstest.MapFS{"bad.toml": {Data: []byte("[editor\nkey = ")}}

	_, err := NewFile(fsys, "bad.toml", TOML).Load()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Path != "bad.toml" {
		t.Errorf("ParseError.Path = %q", pe.Path)
	}
	if pe.Line == 0 {
		t.Error("ParseError should carry a line number")
	}
	if !strings.HasPrefix(pe.Error(), "bad.toml:") {
		t.Errorf("Error() = %q", pe.Error())
	}
}

func TestFormat_Decode(t *testing.T) {
	config, err := TOML.Decode(strings.NewReader("[log]\nlevel = \"debug\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if config["log"].(map[string]any)["level"] != "debug" {
		t.Errorf("config = %v", config)
	}
}

func TestFile_LoadYAML(t *testing.T) {
	fsys := fstest.MapFS{"config.yaml": {Data: []byte(`
editor:
  debounce: 15ms
  max_undo: 500
script:
  bindings:
    Ctrl+T: stamp.lua
watch:
  enabled: false
`)}}

	config, err := NewFile(fsys, "config.yaml", YAML).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	editor := config["editor"].(map[string]any)
	if editor["max_undo"] != int64(500) {
		t.Errorf("max_undo = %v (%T), want int64 500", editor["max_undo"], editor["max_undo"])
	}
	if editor["debounce"] != "15ms" {
		t.Errorf("debounce = %v", editor["debounce"])
	}

	bindings := config["script"].(map[string]any)["bindings"].(map[string]any)
	if bindings["Ctrl+T"] != "stamp.lua" {
		t.Errorf("bindings = %v", bindings)
	}
	if config["watch"].(map[string]any)["enabled"] != false {
		t.Errorf("watch = %v", config["watch"])
	}
}

func TestFile_LoadInvalidYAML(t *testing.T) {
	fsys := fstest.MapFS{"bad.yml": {Data: []byte("editor: [unclosed")}}

	_, err := NewFile(fsys, "bad.yml", YAML).Load()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"config.toml", "toml", false},
		{"config.YAML", "yaml", false},
		{"config.yml", "yaml", false},
		{"config.json", "", true},
		{"config", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			l, err := ForPath(fstest.MapFS{}, tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("ForPath(%q) error = %v, want ErrUnsupportedFormat", tt.path, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if l.Format().Name != tt.want || l.Path() != tt.path {
				t.Errorf("ForPath(%q) = %s loader for %q", tt.path, l.Format().Name, l.Path())
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := map[string]any{
		"editor": map[string]any{"debounce": "10ms", "max_undo": int64(0)},
		"log":    map[string]any{"level": "info"},
	}
	over := map[string]any{
		"editor": map[string]any{"max_undo": int64(100)},
		"watch":  map[string]any{"enabled": false},
	}

	got := Merge(base, over)
	editor := got["editor"].(map[string]any)
	if editor["debounce"] != "10ms" || editor["max_undo"] != int64(100) {
		t.Errorf("editor = %v", editor)
	}
	if got["log"].(map[string]any)["level"] != "info" {
		t.Error("untouched section lost")
	}
	if got["watch"].(map[string]any)["enabled"] != false {
		t.Error("new section not added")
	}

	if base["editor"].(map[string]any)["max_undo"] != int64(0) {
		t.Error("Merge should not modify base")
	}
	if _, ok := base["watch"]; ok {
		t.Error("Merge should not add keys to base")
	}

	if Merge(nil, nil) == nil {
		t.Error("Merge(nil, nil) should return an empty map")
	}
}

func TestClone(t *testing.T) {
	src := map[string]any{
		"a": map[string]any{"b": []any{"x", map[string]any{"c": 1}}},
	}
	dst := Clone(src)
	dst["a"].(map[string]any)["b"].([]any)[0] = "changed"

	if src["a"].(map[string]any)["b"].([]any)[0] != "x" {
		t.Error("Clone should deep copy slices")
	}
	if Clone(nil) != nil {
		t.Error("Clone(nil) should be nil")
	}
}

func TestEnvLoader_Load(t *testing.T) {
	l := NewEnvLoader(EnvPrefix)
	l.environ = func() []string {
		return []string{
			"HOME=/root",
			"ROPEDIT_EDITOR_REBALANCE_DEPTH=8",
			"ROPEDIT_EDITOR_DEBOUNCE=20ms",
			"ROPEDIT_KEYMAP_QUIT=Ctrl+Q",
			"ROPEDIT_WATCH_ENABLED=false",
			"ROPEDIT_LOGLEVEL=debug",
			"ROPEDIT_CONFIG=/etc/ropedit.toml",
			"ROPEDIT_BARE=1",
		}
	}

	config, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}

	checks := map[string]any{
		"editor.rebalance_depth": int64(8),
		"editor.debounce":        20 * time.Millisecond,
		"keymap.quit":            "Ctrl+Q",
		"watch.enabled":          false,
		"log.level":              "debug",
	}
	for path, want := range checks {
		parts := strings.Split(path, ".")
		section, ok := config[parts[0]].(map[string]any)
		if !ok {
			t.Errorf("%s: section missing", path)
			continue
		}
		if got := section[parts[1]]; got != want {
			t.Errorf("%s = %v (%T), want %v", path, got, got, want)
		}
	}

	if _, ok := config["config"]; ok {
		t.Error("ROPEDIT_CONFIG should not become a setting")
	}
	if _, ok := config["bare"]; ok {
		t.Error("variables without a key should be ignored")
	}
}

func TestEnvLoader_envToPath(t *testing.T) {
	l := NewEnvLoader(EnvPrefix)
	tests := map[string]string{
		"ROPEDIT_EDITOR_MAX_UNDO": "editor.max_undo",
		"ROPEDIT_LOG_FILE":        "log.file",
		"ROPEDIT_SCRIPT_INIT":     "script.init",
		"ROPEDIT_EDITOR":          "",
	}
	for env, want := range tests {
		if got := l.envToPath(env); got != want {
			t.Errorf("envToPath(%q) = %q, want %q", env, got, want)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"true", true},
		{"OFF", false},
		{"1", int64(1)},
		{"0", int64(0)},
		{"2.5", 2.5},
		{"150ms", 150 * time.Millisecond},
		{"Ctrl+S", "Ctrl+S"},
	}
	for _, tt := range tests {
		if got := parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v", tt.in, got, got, tt.want)
		}
	}

	if got, ok := parseValue(`["a","b"]`).([]any); !ok || len(got) != 2 {
		t.Errorf("JSON array not parsed: %v", got)
	}
}

func TestEnvLoader_AddMapping(t *testing.T) {
	l := NewEnvLoader(EnvPrefix)
	l.AddMapping("ROPEDIT_UNDO", "editor.max_undo")
	l.environ = func() []string { return []string{"ROPEDIT_UNDO=9"} }

	config, _ := l.Load()
	if config["editor"].(map[string]any)["max_undo"] != int64(9) {
		t.Errorf("config = %v", config)
	}
}
