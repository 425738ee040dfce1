package feed

import (
	"sort"
	"strings"
)

// SortKey selects the feed ordering.
type SortKey string

const (
	SortMostLiked     SortKey = "most-liked"
	SortHighestRated  SortKey = "highest-rated"
	SortMostDiscussed SortKey = "most-discussed"
	// SortNewest orders by id descending. Ids are backend-assigned with
	// unspecified allocation order, so this is an approximation of
	// recency, not a true timestamp ordering.
	SortNewest SortKey = "newest"
)

// Filter is the current query, facet selections and sort key. Empty
// strings mean "no restriction".
type Filter struct {
	Query      string
	Category   string
	Technology string
	Sort       SortKey
}

// Apply computes the visible subset and order from the loaded set. Pure:
// the input slice is not modified.
func Apply(ideas []Idea, f Filter) []Idea {
	query := strings.TrimSpace(f.Query)

	visible := make([]Idea, 0, len(ideas))
	for _, idea := range ideas {
		if !matchesQuery(idea, query) {
			continue
		}
		if f.Category != "" && !idea.Categories.Contains(f.Category) {
			continue
		}
		if f.Technology != "" && !idea.Technologies.Contains(f.Technology) {
			continue
		}
		visible = append(visible, idea)
	}

	sortIdeas(visible, f.Sort)
	return visible
}

// matchesQuery reports whether any searchable text field contains the
// query, case-insensitively. An empty query matches everything.
func matchesQuery(idea Idea, query string) bool {
	if query == "" {
		return true
	}
	lowered := strings.ToLower(query)
	fields := []string{
		idea.ProjectName,
		idea.ShortDescription,
		idea.ProblemDescription,
		idea.Solution,
		idea.TechnicalDetails,
		idea.CreatedBy,
	}
	for _, field := range fields {
		if field == "" {
			continue
		}
		if strings.Contains(strings.ToLower(field), lowered) {
			return true
		}
	}
	return false
}

// sortIdeas orders in place, stable so equal keys keep their relative
// input order.
func sortIdeas(ideas []Idea, key SortKey) {
	switch key {
	case SortMostLiked:
		sort.SliceStable(ideas, func(i, j int) bool {
			return ideas[i].Likes > ideas[j].Likes
		})
	case SortHighestRated:
		sort.SliceStable(ideas, func(i, j int) bool {
			return ideas[i].Rating > ideas[j].Rating
		})
	case SortMostDiscussed:
		sort.SliceStable(ideas, func(i, j int) bool {
			return len(ideas[i].Comments) > len(ideas[j].Comments)
		})
	case SortNewest:
		sort.SliceStable(ideas, func(i, j int) bool {
			return ideas[i].ID > ideas[j].ID
		})
	}
}
