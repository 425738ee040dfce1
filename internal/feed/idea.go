package feed

import (
	"encoding/json"
	"strings"
)

// Label is a category or technology attached to an idea.
type Label struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// LabelList accepts the two shapes the API emits for categories and
// technologies: a bare string ("AI") or an object ({"id":3,"name":"AI"}).
// Bare strings get their positional index as the id. Decoding
// already-normalized data leaves it unchanged.
type LabelList []Label

func (l *LabelList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make([]Label, 0, len(raw))
	for i, entry := range raw {
		var name string
		if err := json.Unmarshal(entry, &name); err == nil {
			out = append(out, Label{ID: i, Name: name})
			continue
		}

		var label Label
		if err := json.Unmarshal(entry, &label); err != nil {
			return err
		}
		out = append(out, label)
	}

	*l = out
	return nil
}

// Names returns the label names in order.
func (l LabelList) Names() []string {
	names := make([]string, len(l))
	for i, label := range l {
		names[i] = label.Name
	}
	return names
}

// Contains reports whether a label with the given name exists,
// compared case-insensitively.
func (l LabelList) Contains(name string) bool {
	for _, label := range l {
		if strings.EqualFold(label.Name, name) {
			return true
		}
	}
	return false
}

// Comment is a user comment on an idea. Only the count matters to the
// feed; the content is carried through for rendering.
type Comment struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
	IdeaID  int    `json:"ideaId"`
	UserID  int    `json:"userId"`
}

// Idea is a transformed hackathon-project record. ID 0 means the record
// has not been persisted yet; such records are never considered equal to
// any other.
type Idea struct {
	ID                 int       `json:"id,omitempty"`
	ProjectName        string    `json:"projectName"`
	CreatedBy          string    `json:"createdBy"`
	Likes              int       `json:"likes"`
	Rating             float64   `json:"rating"`
	ShortDescription   string    `json:"shortDescription,omitempty"`
	ProblemDescription string    `json:"problemDescription,omitempty"`
	Solution           string    `json:"solution,omitempty"`
	TechnicalDetails   string    `json:"technicalDetails,omitempty"`
	Categories         LabelList `json:"categories"`
	Technologies       LabelList `json:"technologies"`
	Comments           []Comment `json:"comments,omitempty"`

	// IsLiked is a client-only optimistic flag, never persisted.
	IsLiked bool `json:"-"`
}

// Page is one unit of transfer from the ideas API. A nil NextCursor
// signals the end of the stream.
type Page struct {
	Items      []Idea  `json:"items"`
	NextCursor *string `json:"nextCursor"`
}
