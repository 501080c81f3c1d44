// Package lua runs find scripts in a sandboxed gopher-lua state.
//
// A State opens only the base, table, string and math libraries and
// removes the loaders that could read code from disk. Scripts reach the
// editor through the global find table installed by FindModule:
//
//	local n = find.search("cat", { word = true })
//	find.next()
//	find.replace("dog")
//	print(find.count(), n)
package lua
