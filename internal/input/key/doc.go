// Package key defines key events and the key specification syntax used by
// bindings.
//
// Specifications can be written as:
//
//   - Simple keys: "a", "Enter", "Escape", "F3"
//   - With modifiers: "Ctrl+F", "Shift+F3", "Ctrl+Shift+P"
//   - Vim-style: "<C-h>", "<S-F3>", "<CR>", "<Esc>"
//
// Events from the terminal are converted with FromTcell.
package key
