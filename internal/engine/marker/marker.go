package marker

import (
	"sort"
	"sync"

	"github.com/dshills/adxstudio/internal/engine/buffer"
)

// Class tags a marker for highlighting.
type Class string

const (
	// ClassMatch marks every search match.
	ClassMatch Class = "match"

	// ClassCurrent marks the selected search match.
	ClassCurrent Class = "current"
)

// Marker is a handle to a live range in a buffer.
type Marker struct {
	set   *Set
	id    uint64
	class Class

	// guarded by set.mu
	r    buffer.Range
	live bool
}

// Range returns the current range of the marker. It returns false once the
// marker has been cleared or the marked text was edited.
func (m *Marker) Range() (buffer.Range, bool) {
	if m == nil {
		return buffer.Range{}, false
	}
	m.set.mu.Lock()
	defer m.set.mu.Unlock()
	return m.r, m.live
}

// Class returns the marker's class tag.
func (m *Marker) Class() Class {
	return m.class
}

// IsLive reports whether the marker still tracks text.
func (m *Marker) IsLive() bool {
	_, ok := m.Range()
	return ok
}

// Clear releases the marker. Clearing an already cleared marker is a no-op.
func (m *Marker) Clear() {
	if m == nil {
		return
	}
	m.set.remove(m)
}

// Set owns the markers of one buffer and keeps them in step with its edits.
//
// Set is safe for concurrent use.
type Set struct {
	mu      sync.Mutex
	markers []*Marker
	nextID  uint64
	cancel  func()
}

// NewSet creates a marker set observing buf.
func NewSet(buf *buffer.Buffer) *Set {
	s := &Set{}
	s.cancel = buf.Observe(s.apply)
	return s
}

// Mark creates a marker over r.
func (s *Set) Mark(r buffer.Range, class Class) *Marker {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	m := &Marker{set: s, id: s.nextID, class: class, r: r, live: true}
	s.markers = append(s.markers, m)
	return m
}

// Marks returns the live markers of the given class in document order.
// An empty class returns markers of every class.
func (s *Set) Marks(class Class) []*Marker {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Marker, 0, len(s.markers))
	for _, m := range s.markers {
		if m.live && (class == "" || m.class == class) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].r.Start != out[j].r.Start {
			return out[i].r.Start < out[j].r.Start
		}
		return out[i].r.End < out[j].r.End
	})
	return out
}

// Len returns the number of live markers.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.markers)
}

// ClearClass clears every marker of the given class.
func (s *Set) ClearClass(class Class) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.markers[:0]
	for _, m := range s.markers {
		if m.class == class {
			m.live = false
			continue
		}
		kept = append(kept, m)
	}
	clearTail(s.markers, len(kept))
	s.markers = kept
}

// Close clears all markers and detaches the set from its buffer.
func (s *Set) Close() {
	s.cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.markers {
		m.live = false
	}
	s.markers = nil
}

func (s *Set) remove(m *Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !m.live {
		return
	}
	m.live = false
	for i, other := range s.markers {
		if other == m {
			s.markers = append(s.markers[:i], s.markers[i+1:]...)
			return
		}
	}
}

// apply transforms every marker through edit. Markers whose text was
// edited are dropped.
func (s *Set) apply(edit buffer.Edit, _ buffer.EditResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.markers[:0]
	for _, m := range s.markers {
		r, ok := TransformRange(m.r, edit)
		if !ok {
			m.live = false
			continue
		}
		m.r = r
		kept = append(kept, m)
	}
	clearTail(s.markers, len(kept))
	s.markers = kept
}

func clearTail(ms []*Marker, from int) {
	for i := from; i < len(ms); i++ {
		ms[i] = nil
	}
}
