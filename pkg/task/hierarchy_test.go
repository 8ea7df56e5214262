package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tasks(pairs ...string) []*Task {
	var out []*Task
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, &Task{ID: pairs[i], ParentID: pairs[i+1]})
	}
	return out
}

func TestIndexDepth(t *testing.T) {
	all := tasks(
		"root", "",
		"child", "root",
		"grand", "child",
		"great", "grand",
		"orphan", "missing",
		"self", "self",
	)
	ix := NewIndex(all)

	assert.Equal(t, 1, ix.Depth(all[0]))
	assert.Equal(t, 2, ix.Depth(all[1]))
	assert.Equal(t, 3, ix.Depth(all[2]))
	assert.Equal(t, MaxDepth+1, ix.Depth(all[3]))
	assert.Equal(t, 1, ix.Depth(all[4]))
	assert.Equal(t, 1, ix.Depth(all[5]))
}

func TestIndexCycleIsBounded(t *testing.T) {
	all := tasks("a", "b", "b", "a")
	ix := NewIndex(all)

	assert.Equal(t, MaxDepth+1, ix.Depth(all[0]))
	assert.Len(t, ix.Ancestors(all[0]), MaxDepth-1)
	assert.Len(t, ix.Descendants("a"), 1)
}

func TestIndexIsWithin(t *testing.T) {
	all := tasks(
		"folder", "",
		"child", "folder",
		"grand", "child",
		"other", "",
	)
	ix := NewIndex(all)

	assert.True(t, ix.IsWithin(all[0], "folder"))
	assert.True(t, ix.IsWithin(all[1], "folder"))
	assert.True(t, ix.IsWithin(all[2], "folder"))
	assert.False(t, ix.IsWithin(all[3], "folder"))
}

func TestIndexDescendants(t *testing.T) {
	all := tasks(
		"root", "",
		"a", "root",
		"b", "root",
		"a1", "a",
		"a1x", "a1",
		"other", "",
	)
	ix := NewIndex(all)

	var ids []string
	for _, d := range ix.Descendants("root") {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"a", "b", "a1", "a1x"}, ids)
	assert.Empty(t, ix.Descendants("other"))
}

func TestSortByOrderIsStable(t *testing.T) {
	all := []*Task{
		{ID: "c", Order: 3},
		{ID: "a1", Order: 1},
		{ID: "b", Order: 2},
		{ID: "a2", Order: 1},
	}
	SortByOrder(all)

	var ids []string
	for _, tk := range all {
		ids = append(ids, tk.ID)
	}
	assert.Equal(t, []string{"a1", "a2", "b", "c"}, ids)
}
