// Package navigation tracks the reader's position and expansion set over a
// flattened outline. It performs no I/O: callers decide whether a change is
// announced.
package navigation

import (
	"sort"

	"github.com/go-go-golems/naofs/pkg/outline"
)

// State is the serializable navigation state.
type State struct {
	Index    int      `json:"index" yaml:"index"`
	Expanded []string `json:"expanded" yaml:"expanded"`
}

// Navigator owns the current index and the set of expanded ids for one
// flattened outline. A new Navigator is created whenever the outline is
// replaced, which discards ids of the superseded tree.
//
// Navigator is not safe for concurrent use.
type Navigator struct {
	entries  []outline.FlatEntry
	ids      map[string]struct{}
	index    int
	expanded map[string]struct{}
}

// New creates a navigator positioned on the first entry with nothing expanded.
func New(entries []outline.FlatEntry) *Navigator {
	ids := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		ids[e.ID] = struct{}{}
	}
	return &Navigator{
		entries:  entries,
		ids:      ids,
		expanded: map[string]struct{}{},
	}
}

func (n *Navigator) Len() int {
	return len(n.entries)
}

func (n *Navigator) Index() int {
	return n.index
}

// Entries returns the flattened entries. The slice must not be modified.
func (n *Navigator) Entries() []outline.FlatEntry {
	return n.entries
}

// Current returns the entry at the current index, false when empty.
func (n *Navigator) Current() (outline.FlatEntry, bool) {
	if len(n.entries) == 0 {
		return outline.FlatEntry{}, false
	}
	return n.entries[n.index], true
}

// Entry returns the entry at i, false when out of range.
func (n *Navigator) Entry(i int) (outline.FlatEntry, bool) {
	if i < 0 || i >= len(n.entries) {
		return outline.FlatEntry{}, false
	}
	return n.entries[i], true
}

// MoveNext advances by one, stopping at the last entry. It reports whether
// the index changed.
func (n *Navigator) MoveNext() bool {
	return n.SetIndex(n.index + 1)
}

// MovePrevious goes back by one, stopping at the first entry.
func (n *Navigator) MovePrevious() bool {
	return n.SetIndex(n.index - 1)
}

// SetIndex moves to i, clamped into range. It never fails and reports
// whether the index changed.
func (n *Navigator) SetIndex(i int) bool {
	if len(n.entries) == 0 {
		n.index = 0
		return false
	}
	if i < 0 {
		i = 0
	}
	if i > len(n.entries)-1 {
		i = len(n.entries) - 1
	}
	changed := i != n.index
	n.index = i
	return changed
}

func (n *Navigator) IsExpanded(id string) bool {
	_, ok := n.expanded[id]
	return ok
}

// Toggle flips the expansion of id, or sets it to *force when force is not
// nil. It returns the resulting membership. Ids that are not part of the
// current outline are never added.
func (n *Navigator) Toggle(id string, force *bool) bool {
	open := !n.IsExpanded(id)
	if force != nil {
		open = *force
	}
	if _, known := n.ids[id]; !known {
		open = false
	}
	if open {
		n.expanded[id] = struct{}{}
	} else {
		delete(n.expanded, id)
	}
	return open
}

func (n *Navigator) Expand(id string) bool {
	open := true
	return n.Toggle(id, &open)
}

func (n *Navigator) Collapse(id string) bool {
	closed := false
	return n.Toggle(id, &closed)
}

// State returns a snapshot with the expanded ids in flattened order.
func (n *Navigator) State() State {
	expanded := make([]string, 0, len(n.expanded))
	for id := range n.expanded {
		expanded = append(expanded, id)
	}
	order := make(map[string]int, len(n.entries))
	for i, e := range n.entries {
		if _, ok := order[e.ID]; !ok {
			order[e.ID] = i
		}
	}
	sort.SliceStable(expanded, func(i, j int) bool {
		return order[expanded[i]] < order[expanded[j]]
	})
	return State{Index: n.index, Expanded: expanded}
}
