package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeIdeas(t *testing.T) {
	t.Run("preserves existing order and appends unseen", func(t *testing.T) {
		existing := []Idea{{ID: 1, ProjectName: "a"}, {ID: 2, ProjectName: "b"}}
		incoming := []Idea{{ID: 3, ProjectName: "c"}, {ID: 4, ProjectName: "d"}}

		merged := MergeIdeas(existing, incoming)

		require.Len(t, merged, 4)
		assert.Equal(t, []int{1, 2, 3, 4}, ideaIDs(merged))
	})

	t.Run("skips ids already present", func(t *testing.T) {
		existing := []Idea{{ID: 1}, {ID: 2}}
		incoming := []Idea{{ID: 2, ProjectName: "dup"}, {ID: 3}}

		merged := MergeIdeas(existing, incoming)

		assert.Equal(t, []int{1, 2, 3}, ideaIDs(merged))
		// the first-loaded record wins
		assert.Empty(t, merged[1].ProjectName)
	})

	t.Run("empty incoming returns existing unchanged", func(t *testing.T) {
		existing := []Idea{{ID: 1}, {ID: 2}}
		merged := MergeIdeas(existing, nil)
		assert.Equal(t, ideaIDs(existing), ideaIDs(merged))
	})

	t.Run("idempotent under repeated application", func(t *testing.T) {
		a := []Idea{{ID: 1}, {ID: 2}}
		b := []Idea{{ID: 2}, {ID: 3}}

		once := MergeIdeas(a, b)
		twice := MergeIdeas(once, b)

		assert.Equal(t, ideaIDs(once), ideaIDs(twice))
	})

	t.Run("unsaved records are never deduplicated", func(t *testing.T) {
		existing := []Idea{{ProjectName: "draft one"}}
		incoming := []Idea{{ProjectName: "draft two"}, {ProjectName: "draft three"}}

		merged := MergeIdeas(existing, incoming)
		assert.Len(t, merged, 3)

		again := MergeIdeas(merged, incoming)
		assert.Len(t, again, 5)
	})

	t.Run("does not mutate inputs", func(t *testing.T) {
		existing := []Idea{{ID: 1}}
		incoming := []Idea{{ID: 2}}

		merged := MergeIdeas(existing, incoming)
		merged[0].ProjectName = "changed"

		assert.Empty(t, existing[0].ProjectName)
	})
}

func TestStoreLifecycle(t *testing.T) {
	store := NewStore()

	store.Replace([]Idea{{ID: 1}, {ID: 2}}, "10")
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, "10", store.Cursor())
	assert.True(t, store.HasMore())

	store.Merge([]Idea{{ID: 2}, {ID: 3}}, "")
	assert.Equal(t, 3, store.Len())
	assert.False(t, store.HasMore())
	assert.Empty(t, store.Cursor())

	store.Reset()
	assert.Zero(t, store.Len())
	assert.False(t, store.HasMore())
}

func TestStoreToggleLike(t *testing.T) {
	t.Run("toggles the flag and count", func(t *testing.T) {
		store := NewStore()
		store.Replace([]Idea{{ID: 1, Likes: 5}}, "")

		require.True(t, store.ToggleLike(1))
		assert.Equal(t, 6, store.Ideas()[0].Likes)
		assert.True(t, store.Ideas()[0].IsLiked)

		require.True(t, store.ToggleLike(1))
		assert.Equal(t, 5, store.Ideas()[0].Likes)
		assert.False(t, store.Ideas()[0].IsLiked)
	})

	t.Run("likes never go negative", func(t *testing.T) {
		store := NewStore()
		store.Replace([]Idea{{ID: 1, Likes: 0, IsLiked: true}}, "")

		require.True(t, store.ToggleLike(1))
		assert.Equal(t, 0, store.Ideas()[0].Likes)
	})

	t.Run("unknown and unsaved ids are ignored", func(t *testing.T) {
		store := NewStore()
		store.Replace([]Idea{{ProjectName: "draft"}}, "")

		assert.False(t, store.ToggleLike(42))
		assert.False(t, store.ToggleLike(0))
	})
}

func ideaIDs(ideas []Idea) []int {
	ids := make([]int, len(ideas))
	for i, idea := range ideas {
		ids[i] = idea.ID
	}
	return ids
}
