// Package view is an editing surface over a text buffer.
//
// A View owns the buffer's marker set, a selection, a viewport height and
// keyboard focus, and it implements find.Host. Each view lazily owns one
// find session, created by Finder and torn down by Close.
//
// Every edit is published on the view's event bus as TopicChanged with a
// Change payload after markers and the selection have been transformed.
package view
