// Package config loads ropedit settings.
//
// Settings are merged from three layers, later layers overriding earlier
// ones:
//
//  1. Built-in defaults
//  2. The config file (TOML or YAML, chosen by extension)
//  3. ROPEDIT_<SECTION>_<KEY> environment variables
//
// A missing config file is not an error. Typed section accessors such as
// Editor and Keymap fall back to defaults for unset values and record
// type mismatches, which callers can inspect with ConfigErrors.
//
// Example config.toml:
//
//	[editor]
//	debounce = "10ms"
//	rebalance_depth = 64
//	max_undo = 0
//
//	[log]
//	level = "info"
//	file = "/tmp/ropedit.log"
//
//	[keymap]
//	save = "Ctrl+S"
//	quit = "Ctrl+Q"
//
//	[script]
//	init = "~/.config/ropedit/init.lua"
//
//	[script.bindings]
//	"Ctrl+T" = "~/.config/ropedit/timestamp.lua"
//
//	[watch]
//	enabled = true
package config
