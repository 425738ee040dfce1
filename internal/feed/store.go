package feed

// Store holds the currently loaded ideas and the pagination cursor. It
// is mutated only through Reset, Replace and Merge, which the
// pagination controller invokes; nothing else touches the loaded set.
type Store struct {
	ideas   []Idea
	cursor  string
	hasMore bool
}

func NewStore() *Store {
	return &Store{}
}

// Reset clears all ideas, the cursor and the has-more flag. Called on
// logout or when the session becomes not-ready.
func (s *Store) Reset() {
	s.ideas = nil
	s.cursor = ""
	s.hasMore = false
}

// Replace discards prior state and installs the first page.
func (s *Store) Replace(items []Idea, nextCursor string) {
	s.ideas = items
	s.cursor = nextCursor
	s.hasMore = nextCursor != ""
}

// Merge appends records from a subsequent page, skipping ids already
// loaded, and advances the cursor.
func (s *Store) Merge(incoming []Idea, nextCursor string) {
	s.ideas = MergeIdeas(s.ideas, incoming)
	s.cursor = nextCursor
	s.hasMore = nextCursor != ""
}

// Ideas returns the loaded set. Callers must not mutate it outside
// ToggleLike.
func (s *Store) Ideas() []Idea {
	return s.ideas
}

func (s *Store) Len() int {
	return len(s.ideas)
}

func (s *Store) Cursor() string {
	return s.cursor
}

func (s *Store) HasMore() bool {
	return s.hasMore
}

// ToggleLike flips the optimistic like flag on the idea with the given
// id, adjusting its like count in place. Likes never drop below zero.
// Returns false if no loaded idea has that id.
func (s *Store) ToggleLike(id int) bool {
	if id == 0 {
		return false
	}
	for i := range s.ideas {
		if s.ideas[i].ID != id {
			continue
		}
		if s.ideas[i].IsLiked {
			s.ideas[i].IsLiked = false
			if s.ideas[i].Likes > 0 {
				s.ideas[i].Likes--
			}
		} else {
			s.ideas[i].IsLiked = true
			s.ideas[i].Likes++
		}
		return true
	}
	return false
}

// MergeIdeas returns a new slice preserving existing's order, appending
// each incoming record whose id has not been seen. Records with id 0
// (not yet persisted) are always appended, never deduplicated.
func MergeIdeas(existing, incoming []Idea) []Idea {
	seen := make(map[int]struct{}, len(existing))
	for _, idea := range existing {
		if idea.ID != 0 {
			seen[idea.ID] = struct{}{}
		}
	}

	merged := make([]Idea, len(existing), len(existing)+len(incoming))
	copy(merged, existing)
	for _, idea := range incoming {
		if idea.ID != 0 {
			if _, ok := seen[idea.ID]; ok {
				continue
			}
			seen[idea.ID] = struct{}{}
		}
		merged = append(merged, idea)
	}

	return merged
}
