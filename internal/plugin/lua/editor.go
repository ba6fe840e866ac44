package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// Editor is the session surface exposed to scripts.
// *engine.Session implements it.
type Editor interface {
	Insert(text string) bool
	DeleteBackward() bool
	Undo() error
	Redo() error
	CursorLeft() bool
	CursorRight() bool
	SetCursor(i int)

	Text() string
	Cursor() int
	Dirty() bool
	Status() string
	SetStatus(msg string)
	Filename() string
}

// EditorModule is the name of the global table bound to the session.
const EditorModule = "editor"

// BindEditor installs the editor table. Each mutating function performs
// exactly one session intent and returns whether it took effect.
//
//	editor.insert(s)      -> bool
//	editor.backspace()    -> bool
//	editor.undo()         -> bool
//	editor.redo()         -> bool
//	editor.left()         -> bool
//	editor.right()        -> bool
//	editor.set_cursor(i)
//	editor.text()         -> string
//	editor.cursor()       -> int
//	editor.dirty()        -> bool
//	editor.status([msg])  -> string
//	editor.filename()     -> string
func BindEditor(s *State, ed Editor) {
	s.RegisterModule(EditorModule, map[string]lua.LGFunction{
		"insert": func(L *lua.LState) int {
			L.Push(lua.LBool(ed.Insert(L.CheckString(1))))
			return 1
		},
		"backspace": func(L *lua.LState) int {
			L.Push(lua.LBool(ed.DeleteBackward()))
			return 1
		},
		"undo": func(L *lua.LState) int {
			L.Push(lua.LBool(ed.Undo() == nil))
			return 1
		},
		"redo": func(L *lua.LState) int {
			L.Push(lua.LBool(ed.Redo() == nil))
			return 1
		},
		"left": func(L *lua.LState) int {
			L.Push(lua.LBool(ed.CursorLeft()))
			return 1
		},
		"right": func(L *lua.LState) int {
			L.Push(lua.LBool(ed.CursorRight()))
			return 1
		},
		"set_cursor": func(L *lua.LState) int {
			ed.SetCursor(L.CheckInt(1))
			return 0
		},
		"text": func(L *lua.LState) int {
			L.Push(lua.LString(ed.Text()))
			return 1
		},
		"cursor": func(L *lua.LState) int {
			L.Push(lua.LNumber(ed.Cursor()))
			return 1
		},
		"dirty": func(L *lua.LState) int {
			L.Push(lua.LBool(ed.Dirty()))
			return 1
		},
		"status": func(L *lua.LState) int {
			if L.GetTop() >= 1 {
				ed.SetStatus(L.CheckString(1))
			}
			L.Push(lua.LString(ed.Status()))
			return 1
		},
		"filename": func(L *lua.LState) int {
			L.Push(lua.LString(ed.Filename()))
			return 1
		},
	})
}
