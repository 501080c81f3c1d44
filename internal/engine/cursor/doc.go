// Package cursor provides the selection value type used by editor views and
// the rules that move a selection when the text under it is edited.
//
// A Selection has an Anchor (where the selection started) and a Head (where
// typing occurs). When Anchor == Head the selection is a plain cursor.
//
//	sel := cursor.NewSelection(4, 9)
//	sel = cursor.TransformSelection(sel, buffer.NewInsert(0, "--"))
//	// sel.Range() == [6:11)
package cursor
