package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/naofs/pkg/outline"
)

func entries(ids ...string) []outline.FlatEntry {
	ret := make([]outline.FlatEntry, 0, len(ids))
	for _, id := range ids {
		ret = append(ret, outline.FlatEntry{ID: id, Title: "title " + id, Body: "body " + id})
	}
	return ret
}

func TestNavigator_MoveClampsAtBoundaries(t *testing.T) {
	n := New(entries("a", "b", "c"))

	assert.False(t, n.MovePrevious(), "no-op at first entry")
	assert.Equal(t, 0, n.Index())

	assert.True(t, n.MoveNext())
	assert.True(t, n.MoveNext())
	assert.Equal(t, 2, n.Index())

	for i := 0; i < 5; i++ {
		assert.False(t, n.MoveNext(), "no-op at last entry")
		assert.Equal(t, 2, n.Index())
	}

	cur, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, "c", cur.ID)
}

func TestNavigator_IndexAlwaysInRange(t *testing.T) {
	n := New(entries("a", "b", "c", "d"))
	moves := []bool{true, true, false, true, true, true, true, false, false, false, false, false, true}
	for _, next := range moves {
		if next {
			n.MoveNext()
		} else {
			n.MovePrevious()
		}
		assert.GreaterOrEqual(t, n.Index(), 0)
		assert.Less(t, n.Index(), n.Len())
	}
}

func TestNavigator_SetIndexClamps(t *testing.T) {
	n := New(entries("a", "b", "c"))

	assert.True(t, n.SetIndex(99))
	assert.Equal(t, 2, n.Index())
	assert.True(t, n.SetIndex(-4))
	assert.Equal(t, 0, n.Index())
	assert.False(t, n.SetIndex(0))
}

func TestNavigator_Empty(t *testing.T) {
	n := New(nil)
	assert.False(t, n.MoveNext())
	assert.False(t, n.MovePrevious())
	assert.False(t, n.SetIndex(3))
	assert.Equal(t, 0, n.Index())
	_, ok := n.Current()
	assert.False(t, ok)
}

func TestNavigator_ToggleTwiceRestores(t *testing.T) {
	n := New(entries("a", "b"))

	for _, id := range []string{"a", "b"} {
		before := n.IsExpanded(id)
		n.Toggle(id, nil)
		assert.NotEqual(t, before, n.IsExpanded(id))
		n.Toggle(id, nil)
		assert.Equal(t, before, n.IsExpanded(id))
	}

	n.Expand("a")
	n.Toggle("a", nil)
	n.Toggle("a", nil)
	assert.True(t, n.IsExpanded("a"))
}

func TestNavigator_ToggleForce(t *testing.T) {
	n := New(entries("a"))
	open, closed := true, false

	assert.True(t, n.Toggle("a", &open))
	assert.True(t, n.Toggle("a", &open), "forcing open twice is idempotent")
	assert.True(t, n.IsExpanded("a"))

	assert.False(t, n.Toggle("a", &closed))
	assert.False(t, n.Toggle("a", &closed))
	assert.False(t, n.IsExpanded("a"))
}

func TestNavigator_UnknownIDsAreNeverExpanded(t *testing.T) {
	n := New(entries("a"))
	assert.False(t, n.Expand("ghost"))
	assert.False(t, n.IsExpanded("ghost"))
	assert.Empty(t, n.State().Expanded)
}

func TestNavigator_StateOrdersExpandedByPosition(t *testing.T) {
	n := New(entries("a", "b", "c"))
	n.Expand("c")
	n.Expand("a")
	n.SetIndex(1)

	assert.Equal(t, State{Index: 1, Expanded: []string{"a", "c"}}, n.State())
}
