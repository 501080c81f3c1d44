// Package frontend is the terminal host for a find session. It draws the
// document viewport with match highlights, a two-row find bar and a
// status line on a tcell screen, and routes key events through the keymap
// to the session.
//
// Debounced searches are posted back to the event loop as tcell interrupt
// events, so the session is only ever touched from the loop goroutine.
package frontend
