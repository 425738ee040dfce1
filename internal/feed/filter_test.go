package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(names ...string) LabelList {
	out := make(LabelList, len(names))
	for i, name := range names {
		out[i] = Label{ID: i, Name: name}
	}
	return out
}

func TestApplyQuery(t *testing.T) {
	ideas := []Idea{
		{ID: 1, ProjectName: "Budget Buddy", ShortDescription: "a FinTech planner"},
		{ID: 2, ProjectName: "PetMatch", CreatedBy: "finn"},
		{ID: 3, ProjectName: "GreenGrid"},
	}

	t.Run("empty query matches everything", func(t *testing.T) {
		visible := Apply(ideas, Filter{})
		assert.Len(t, visible, 3)
	})

	t.Run("substring match is case-insensitive across fields", func(t *testing.T) {
		visible := Apply(ideas, Filter{Query: "fin"})
		assert.Equal(t, []int{1, 2}, ideaIDs(visible))
	})

	t.Run("query is trimmed", func(t *testing.T) {
		visible := Apply(ideas, Filter{Query: "  green  "})
		assert.Equal(t, []int{3}, ideaIDs(visible))
	})
}

func TestApplyFacetFilters(t *testing.T) {
	ideas := []Idea{
		{ID: 1, Categories: labels("AI"), Technologies: labels("Go")},
		{ID: 2, Categories: labels("AI", "Web3"), Technologies: labels("Rust")},
		{ID: 3, Categories: labels("Health")},
	}

	t.Run("category filter is exact and case-insensitive", func(t *testing.T) {
		visible := Apply(ideas, Filter{Category: "ai"})
		assert.Equal(t, []int{1, 2}, ideaIDs(visible))
	})

	t.Run("technology filter", func(t *testing.T) {
		visible := Apply(ideas, Filter{Technology: "go"})
		assert.Equal(t, []int{1}, ideaIDs(visible))
	})

	t.Run("all predicates AND together", func(t *testing.T) {
		visible := Apply(ideas, Filter{Category: "AI", Technology: "Rust"})
		assert.Equal(t, []int{2}, ideaIDs(visible))
	})

	t.Run("category match plus query match", func(t *testing.T) {
		ideas := []Idea{{
			ID:               9,
			ProjectName:      "Planner",
			ShortDescription: "a FinTech planner for students",
			Categories:       labels("AI"),
		}}
		visible := Apply(ideas, Filter{Query: "fin", Category: "AI"})
		assert.Equal(t, []int{9}, ideaIDs(visible))
	})
}

func TestApplySort(t *testing.T) {
	ideas := []Idea{
		{ID: 1, Likes: 3, Rating: 9, Comments: []Comment{{}, {}}},
		{ID: 2, Likes: 8, Rating: 5},
		{ID: 3, Likes: 3, Rating: 7, Comments: []Comment{{}}},
	}

	t.Run("most liked", func(t *testing.T) {
		visible := Apply(ideas, Filter{Sort: SortMostLiked})
		assert.Equal(t, []int{2, 1, 3}, ideaIDs(visible))
	})

	t.Run("ties are stable", func(t *testing.T) {
		// ids 1 and 3 share a like count and must keep input order
		visible := Apply(ideas, Filter{Sort: SortMostLiked})
		require.Equal(t, 1, visible[1].ID)
		require.Equal(t, 3, visible[2].ID)
	})

	t.Run("highest rated", func(t *testing.T) {
		visible := Apply(ideas, Filter{Sort: SortHighestRated})
		assert.Equal(t, []int{1, 3, 2}, ideaIDs(visible))
	})

	t.Run("most discussed treats missing comments as zero", func(t *testing.T) {
		visible := Apply(ideas, Filter{Sort: SortMostDiscussed})
		assert.Equal(t, []int{1, 3, 2}, ideaIDs(visible))
	})

	t.Run("newest orders by id descending", func(t *testing.T) {
		visible := Apply(ideas, Filter{Sort: SortNewest})
		assert.Equal(t, []int{3, 2, 1}, ideaIDs(visible))
	})

	t.Run("no sort key keeps input order", func(t *testing.T) {
		visible := Apply(ideas, Filter{})
		assert.Equal(t, []int{1, 2, 3}, ideaIDs(visible))
	})

	t.Run("input slice is not reordered", func(t *testing.T) {
		Apply(ideas, Filter{Sort: SortMostLiked})
		assert.Equal(t, []int{1, 2, 3}, ideaIDs(ideas))
	})
}
