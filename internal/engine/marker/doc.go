// Package marker provides live, position-tracking ranges over a buffer.
//
// A marker is created over a byte range and keeps pointing at the same text
// while the buffer is edited around it:
//
//   - an edit that ends at or before the marker start shifts the marker by
//     the edit's delta
//   - an edit that starts at or after the marker end leaves it unchanged
//   - an edit that touches the marked text itself invalidates the marker,
//     after which Range reports false
//
// Markers carry a Class tag used by renderers to pick a highlight style.
//
// Usage:
//
//	set := marker.NewSet(buf)
//	defer set.Close()
//
//	m := set.Mark(buffer.Range{Start: 4, End: 7}, marker.ClassMatch)
//	buf.Insert(0, ">> ")
//	r, ok := m.Range() // [7:10), true
package marker
