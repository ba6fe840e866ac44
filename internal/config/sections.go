package config

import (
	"errors"
	"strings"
	"time"
)

// Section accessor methods return snapshot structs. Mutating the returned
// struct does not modify the underlying configuration. Use Config.Set()
// to update configuration values.

// Keymap action names.
const (
	ActionQuit   = "quit"
	ActionSave   = "save"
	ActionUndo   = "undo"
	ActionRedo   = "redo"
	ActionRename = "rename"
	ActionMenu   = "menu"
)

// EditorConfig provides type-safe access to editor settings.
type EditorConfig struct {
	// Debounce is how long the event loop waits after an edit before redrawing.
	Debounce time.Duration

	// RebalanceDepth rebuilds the rope after an edit once its depth exceeds
	// this value. Zero disables rebalancing.
	RebalanceDepth int

	// MaxUndo bounds the undo stack. Zero keeps every entry.
	MaxUndo int

	// RenameTo is the filename assigned by the rename key.
	RenameTo string
}

// LoggingConfig provides type-safe access to log settings.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error or disabled.
	Level string

	// File receives log output. Empty discards logs, since the terminal
	// belongs to the editor.
	File string
}

// ScriptConfig provides type-safe access to Lua scripting settings.
type ScriptConfig struct {
	// Init is a script run once at startup.
	Init string

	// Bindings maps key names to script files run on that key.
	Bindings map[string]string
}

// WatchConfig provides type-safe access to file watching settings.
type WatchConfig struct {
	// Enabled reloads the document and config when they change on disk.
	Enabled bool

	// Debounce coalesces bursts of file system events.
	Debounce time.Duration
}

// validLogLevels lists the accepted log.level values.
var validLogLevels = map[string]bool{
	"trace":    true,
	"debug":    true,
	"info":     true,
	"warn":     true,
	"error":    true,
	"disabled": true,
}

// defaultKeymap returns the built-in action to key bindings.
func defaultKeymap() map[string]any {
	return map[string]any{
		ActionQuit:   "Ctrl+A",
		ActionSave:   "Ctrl+S",
		ActionUndo:   "Ctrl+Z",
		ActionRedo:   "Ctrl+Y",
		ActionRename: "Ctrl+X",
		ActionMenu:   "Ctrl+M",
	}
}

// Editor returns the editor configuration section.
func (c *Config) Editor() EditorConfig {
	return EditorConfig{
		Debounce:       c.getDurationOr("editor.debounce", 10*time.Millisecond),
		RebalanceDepth: c.getIntOr("editor.rebalance_depth", 0),
		MaxUndo:        c.getIntOr("editor.max_undo", 0),
		RenameTo:       c.getStringOr("editor.rename_to", "newname"),
	}
}

// Logging returns the log configuration section.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level: strings.ToLower(c.getStringOr("log.level", "info")),
		File:  c.getStringOr("log.file", ""),
	}
}

// Keymap returns the action to key bindings. Actions missing from the
// config keep their defaults.
func (c *Config) Keymap() map[string]string {
	result := make(map[string]string)
	for action, key := range defaultKeymap() {
		result[action] = key.(string)
	}

	m, err := c.GetStringMap("keymap")
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError("keymap", err)
		}
		return result
	}
	for action, key := range m {
		result[action] = key
	}
	return result
}

// Script returns the scripting configuration section.
func (c *Config) Script() ScriptConfig {
	bindings, err := c.GetStringMap("script.bindings")
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError("script.bindings", err)
		}
		bindings = make(map[string]string)
	}
	return ScriptConfig{
		Init:     c.getStringOr("script.init", ""),
		Bindings: bindings,
	}
}

// Watch returns the file watching configuration section.
func (c *Config) Watch() WatchConfig {
	return WatchConfig{
		Enabled:  c.getBoolOr("watch.enabled", true),
		Debounce: c.getDurationOr("watch.debounce", 100*time.Millisecond),
	}
}

// Validate checks the merged configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs ValidationErrors

	checkType := func(path string, err error) bool {
		if err == nil || errors.Is(err, ErrSettingNotFound) {
			return true
		}
		v, _ := c.Get(path)
		errs = append(errs, &ValidationError{Path: path, Message: err.Error(), Value: v})
		return false
	}

	if d, err := c.GetDuration("editor.debounce"); checkType("editor.debounce", err) && d < 0 {
		errs = append(errs, &ValidationError{Path: "editor.debounce", Message: "must not be negative", Value: d})
	}
	if d, err := c.GetDuration("watch.debounce"); checkType("watch.debounce", err) && d < 0 {
		errs = append(errs, &ValidationError{Path: "watch.debounce", Message: "must not be negative", Value: d})
	}
	for _, path := range []string{"editor.rebalance_depth", "editor.max_undo"} {
		if n, err := c.GetInt(path); checkType(path, err) && n < 0 {
			errs = append(errs, &ValidationError{Path: path, Message: "must not be negative", Value: n})
		}
	}
	if name, err := c.GetString("editor.rename_to"); checkType("editor.rename_to", err) && err == nil && name == "" {
		errs = append(errs, &ValidationError{Path: "editor.rename_to", Message: "must not be empty", Value: name})
	}
	if level, err := c.GetString("log.level"); checkType("log.level", err) && err == nil && !validLogLevels[strings.ToLower(level)] {
		errs = append(errs, &ValidationError{Path: "log.level", Message: "unknown log level", Value: level})
	}
	_, err := c.GetBool("watch.enabled")
	checkType("watch.enabled", err)

	keys, err := c.GetStringMap("keymap")
	if checkType("keymap", err) {
		for action, key := range keys {
			if _, known := defaultKeymap()[action]; !known {
				errs = append(errs, &ValidationError{Path: "keymap." + action, Message: "unknown action", Value: key})
			}
		}
	}
	_, err = c.GetStringMap("script.bindings")
	checkType("script.bindings", err)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ConfigErrors returns any configuration errors encountered during access.
// The map is keyed by setting path and is a copy.
func (c *Config) ConfigErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]error, len(c.configErrors))
	for k, v := range c.configErrors {
		result[k] = v
	}
	return result
}

func (c *Config) getStringOr(path string, defaultValue string) string {
	v, err := c.GetString(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getIntOr(path string, defaultValue int) int {
	v, err := c.GetInt(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getBoolOr(path string, defaultValue bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getDurationOr(path string, defaultValue time.Duration) time.Duration {
	v, err := c.GetDuration(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

// recordConfigError stores configuration errors for later retrieval.
// Only the first error for each path is recorded.
func (c *Config) recordConfigError(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	if _, exists := c.configErrors[path]; !exists {
		c.configErrors[path] = err
	}
}
