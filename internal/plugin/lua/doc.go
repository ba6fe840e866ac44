// Package lua runs user scripts against an editing session.
//
// Scripts execute in a gopher-lua state with the base, table, string and
// math libraries only. Functions that load code (dofile, load, require)
// are removed, print is redirected, and each run is bounded by a timeout.
//
// The editor table exposes the session:
//
//	state := lua.NewState(lua.WithOutput(func(s string) { session.SetStatus(s) }))
//	defer state.Close()
//	lua.BindEditor(state, session)
//
//	err := state.DoString(ctx, `
//	    editor.insert("-- ")
//	    editor.status("inserted at " .. editor.cursor())
//	`)
//
// Every mutating editor function performs one session intent, so a script
// that inserts twice records two undo entries.
package lua
