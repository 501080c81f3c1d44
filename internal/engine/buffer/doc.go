// Package buffer provides the text document that the editor view and the
// find engine operate on.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Conversion between flat byte offsets and line/column positions,
//     backed by an index of line start offsets
//   - Single edits (Insert, Delete, Replace, ApplyEdit)
//   - Line ending normalization
//   - Synchronous edit observers, used to keep live markers and cursors in
//     step with the text
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//
//	cancel := buf.Observe(func(edit buffer.Edit, res buffer.EditResult) {
//	    // react to the change
//	})
//	defer cancel()
//
//	buf.Insert(7, "Beautiful ") // "Hello, Beautiful World!"
//	buf.Delete(0, 7)            // "Beautiful World!"
//
// Position Types:
//
//   - ByteOffset: Raw byte position in the buffer
//   - Point: Line and column position (0-indexed, column in bytes)
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Observers run after the write lock is
// released, on the goroutine that performed the edit, so an observer may read
// the buffer but must not assume no other edit has happened in between when
// the buffer is shared across goroutines.
package buffer
