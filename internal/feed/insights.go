package feed

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CountItem is one facet label with its occurrence count across the
// loaded set. Rebuilt on every aggregation pass, never persisted.
type CountItem struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Stats summarizes the loaded set for the sidebar.
type Stats struct {
	ProjectCount     int `json:"projectCount"`
	ContributorCount int `json:"contributorCount"`
	AverageLikes     int `json:"averageLikes"`
	CoveragePercent  int `json:"coveragePercent"`
}

// Insights holds the facet counts, like ranking and summary stats
// derived from the entire loaded set (not the filtered view).
type Insights struct {
	Categories   []CountItem `json:"categories"`
	Technologies []CountItem `json:"technologies"`
	Spotlight    *Idea       `json:"spotlight"`
	TopIdeas     []Idea      `json:"topIdeas"`
	Stats        Stats       `json:"stats"`
}

const topIdeaCount = 3

var labelCollator = collate.New(language.Und)

// CollectCounts groups the labels picked from each idea, trimmed and
// compared case-insensitively. The first-seen casing wins for display.
// Result is ordered by descending count, ties by ascending label.
func CollectCounts(ideas []Idea, picker func(Idea) LabelList) []CountItem {
	counts := make(map[string]*CountItem)
	var order []string

	for _, idea := range ideas {
		for _, label := range picker(idea) {
			name := strings.TrimSpace(label.Name)
			if name == "" {
				continue
			}
			key := strings.ToLower(name)
			if existing, ok := counts[key]; ok {
				existing.Count++
			} else {
				counts[key] = &CountItem{Label: name, Count: 1}
				order = append(order, key)
			}
		}
	}

	items := make([]CountItem, 0, len(order))
	for _, key := range order {
		items = append(items, *counts[key])
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return labelCollator.CompareString(items[i].Label, items[j].Label) < 0
	})

	return items
}

// Summarize recomputes all insights from scratch. The loaded set is
// bounded by pagination, so a full pass per change is fine.
func Summarize(ideas []Idea) Insights {
	ranked := make([]Idea, len(ideas))
	copy(ranked, ideas)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Likes > ranked[j].Likes
	})

	var spotlight *Idea
	if len(ranked) > 0 {
		spotlight = &ranked[0]
	}
	top := ranked
	if len(top) > topIdeaCount {
		top = top[:topIdeaCount]
	}

	contributors := make(map[string]struct{})
	likeSum := 0
	coverageSum := 0
	for _, idea := range ideas {
		if idea.CreatedBy != "" {
			contributors[idea.CreatedBy] = struct{}{}
		}
		likeSum += idea.Likes
		coverageSum += countCoverage(idea)
	}

	stats := Stats{
		ProjectCount:     len(ideas),
		ContributorCount: len(contributors),
	}
	if stats.ProjectCount > 0 {
		stats.AverageLikes = roundRatio(likeSum, stats.ProjectCount)
		stats.CoveragePercent = roundRatio(coverageSum*100, stats.ProjectCount*3)
	}

	return Insights{
		Categories:   CollectCounts(ideas, func(i Idea) LabelList { return i.Categories }),
		Technologies: CollectCounts(ideas, func(i Idea) LabelList { return i.Technologies }),
		Spotlight:    spotlight,
		TopIdeas:     top,
		Stats:        stats,
	}
}

// countCoverage counts how many of the three narrative fields are
// populated after trimming.
func countCoverage(idea Idea) int {
	total := 0
	if strings.TrimSpace(idea.ProblemDescription) != "" {
		total++
	}
	if strings.TrimSpace(idea.Solution) != "" {
		total++
	}
	if strings.TrimSpace(idea.TechnicalDetails) != "" {
		total++
	}
	return total
}

// roundRatio rounds num/den to the nearest integer. Inputs here are
// non-negative, so half-away-from-zero matches the usual display math.
func roundRatio(num, den int) int {
	return int(math.Round(float64(num) / float64(den)))
}
