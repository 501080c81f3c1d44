// Package config loads the find/replace configuration.
//
// Configuration is read from a TOML or YAML file (chosen by extension) and
// decoded over the defaults, so a file only needs the keys it changes:
//
//	[find]
//	debounce_ms = 50
//	regex = true
//
//	[keys]
//	find_next = "Ctrl+G"
//
//	[log]
//	level = "debug"
//
// Unknown keys are rejected. A Watcher reloads the file when it changes.
package config
