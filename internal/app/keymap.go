package app

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// ScriptActionPrefix marks keymap actions that run a Lua script file.
const ScriptActionPrefix = "script:"

// Keybinding is a parsed key description such as "Ctrl+S" or "Alt+x".
type Keybinding struct {
	Key  tcell.Key
	Rune rune
	Mod  tcell.ModMask
}

// namedKeys maps key names accepted by ParseKeybinding to tcell keys.
var namedKeys = map[string]tcell.Key{
	"enter":     tcell.KeyEnter,
	"backspace": tcell.KeyBackspace2,
	"tab":       tcell.KeyTab,
	"esc":       tcell.KeyEscape,
	"escape":    tcell.KeyEscape,
	"left":      tcell.KeyLeft,
	"right":     tcell.KeyRight,
	"up":        tcell.KeyUp,
	"down":      tcell.KeyDown,
	"home":      tcell.KeyHome,
	"end":       tcell.KeyEnd,
	"pgup":      tcell.KeyPgUp,
	"pgdn":      tcell.KeyPgDn,
	"delete":    tcell.KeyDelete,
	"insert":    tcell.KeyInsert,
	"f1":        tcell.KeyF1,
	"f2":        tcell.KeyF2,
	"f3":        tcell.KeyF3,
	"f4":        tcell.KeyF4,
	"f5":        tcell.KeyF5,
	"f6":        tcell.KeyF6,
	"f7":        tcell.KeyF7,
	"f8":        tcell.KeyF8,
	"f9":        tcell.KeyF9,
	"f10":       tcell.KeyF10,
	"f11":       tcell.KeyF11,
	"f12":       tcell.KeyF12,
}

// ParseKeybinding converts a textual key description into a Keybinding.
// Modifiers (Ctrl, Alt, Shift) are joined to the key with "+". The key is
// a single character or a name such as Enter, Left or F5.
func ParseKeybinding(s string) (Keybinding, error) {
	parts := strings.Split(s, "+")
	keyName := parts[len(parts)-1]
	if keyName == "" {
		return Keybinding{}, fmt.Errorf("%w: %q", ErrInvalidKeybinding, s)
	}

	var mod tcell.ModMask
	for _, m := range parts[:len(parts)-1] {
		switch strings.ToLower(m) {
		case "ctrl":
			mod |= tcell.ModCtrl
		case "alt":
			mod |= tcell.ModAlt
		case "shift":
			mod |= tcell.ModShift
		default:
			return Keybinding{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidKeybinding, m, s)
		}
	}

	if key, ok := namedKeys[strings.ToLower(keyName)]; ok {
		return Keybinding{Key: key, Mod: mod}, nil
	}

	r, size := utf8.DecodeRuneInString(keyName)
	if size != len(keyName) || r == utf8.RuneError {
		return Keybinding{}, fmt.Errorf("%w: unknown key %q in %q", ErrInvalidKeybinding, keyName, s)
	}

	if mod == tcell.ModCtrl {
		lower := unicode.ToLower(r)
		if lower < 'a' || lower > 'z' {
			return Keybinding{}, fmt.Errorf("%w: Ctrl needs a letter in %q", ErrInvalidKeybinding, s)
		}
		return Keybinding{Key: tcell.KeyCtrlA + tcell.Key(lower-'a'), Rune: lower, Mod: tcell.ModCtrl}, nil
	}
	if mod&tcell.ModCtrl != 0 {
		return Keybinding{}, fmt.Errorf("%w: Ctrl cannot combine with other modifiers in %q", ErrInvalidKeybinding, s)
	}
	return Keybinding{Key: tcell.KeyRune, Rune: r, Mod: mod &^ tcell.ModShift}, nil
}

// ambiguousCtrl holds control codes that terminals also send for
// ordinary keys: Ctrl+H is Backspace, Ctrl+I is Tab and Ctrl+M is Enter.
var ambiguousCtrl = map[tcell.Key]bool{
	tcell.KeyCtrlH: true,
	tcell.KeyCtrlI: true,
	tcell.KeyCtrlM: true,
}

// Matches reports whether the binding matches the key event.
func (k Keybinding) Matches(ev *tcell.EventKey) bool {
	switch {
	case k.Mod == tcell.ModCtrl && k.Key >= tcell.KeyCtrlA && k.Key <= tcell.KeyCtrlZ:
		if ev.Key() == k.Key {
			return ev.Modifiers()&tcell.ModCtrl != 0 || !ambiguousCtrl[k.Key]
		}
		return ev.Key() == tcell.KeyRune &&
			ev.Modifiers()&tcell.ModCtrl != 0 &&
			unicode.ToLower(ev.Rune()) == k.Rune

	case k.Key == tcell.KeyRune:
		return ev.Key() == tcell.KeyRune &&
			ev.Rune() == k.Rune &&
			ev.Modifiers()&^tcell.ModShift == k.Mod

	default:
		key := ev.Key()
		if key == tcell.KeyBackspace {
			key = tcell.KeyBackspace2
		}
		return key == k.Key && ev.Modifiers() == k.Mod
	}
}

// String returns the canonical description of the binding.
func (k Keybinding) String() string {
	var parts []string
	if k.Mod&tcell.ModCtrl != 0 {
		parts = append(parts, "Ctrl")
	}
	if k.Mod&tcell.ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	if k.Mod&tcell.ModShift != 0 {
		parts = append(parts, "Shift")
	}

	switch {
	case k.Mod&tcell.ModCtrl != 0 && k.Rune != 0:
		parts = append(parts, string(unicode.ToUpper(k.Rune)))
	case k.Key == tcell.KeyRune:
		parts = append(parts, string(k.Rune))
	default:
		name := ""
		for n, key := range namedKeys {
			if key == k.Key && (name == "" || n < name) {
				name = n
			}
		}
		if name == "" {
			parts = append(parts, tcell.KeyNames[k.Key])
			break
		}
		parts = append(parts, strings.ToUpper(name[:1])+name[1:])
	}
	return strings.Join(parts, "+")
}

// Keymap maps key events to action names.
type Keymap struct {
	bindings []boundKey
}

type boundKey struct {
	key    Keybinding
	action string
}

// NewKeymap parses an action to key description map. Every invalid
// binding is reported; valid ones are still bound.
func NewKeymap(actions map[string]string) (*Keymap, error) {
	names := make([]string, 0, len(actions))
	for action := range actions {
		names = append(names, action)
	}
	sort.Strings(names)

	km := &Keymap{}
	var errs []error
	for _, action := range names {
		kb, err := ParseKeybinding(actions[action])
		if err != nil {
			errs = append(errs, fmt.Errorf("keymap.%s: %w", action, err))
			continue
		}
		km.Bind(action, kb)
	}
	return km, errors.Join(errs...)
}

// Bind adds a binding. Later bindings for the same key take precedence.
func (k *Keymap) Bind(action string, kb Keybinding) {
	k.bindings = append(k.bindings, boundKey{key: kb, action: action})
}

// Lookup returns the action bound to the event.
func (k *Keymap) Lookup(ev *tcell.EventKey) (string, bool) {
	for i := len(k.bindings) - 1; i >= 0; i-- {
		if k.bindings[i].key.Matches(ev) {
			return k.bindings[i].action, true
		}
	}
	return "", false
}

// Len returns the number of bindings.
func (k *Keymap) Len() int {
	return len(k.bindings)
}
