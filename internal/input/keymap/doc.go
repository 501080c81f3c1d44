// Package keymap maps key events to find commands.
//
// The default keymap binds:
//
//	Ctrl+F    find
//	Ctrl+H    replace
//	F3        find-next
//	Shift+F3  find-previous
//
// Any binding can be replaced with Bind, typically from the [keys] section
// of the configuration file.
package keymap
