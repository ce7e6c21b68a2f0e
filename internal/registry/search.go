package registry

import (
	"slices"
	"strings"
)

// Relevance weights for Search. A field contributes its weight when it
// contains the query; contributions are summed.
const (
	WeightName        = 10
	WeightDescription = 5
	WeightCategory    = 3
)

// Match is one Search hit.
type Match struct {
	Entry

	// Score is the summed weight of every matching field.
	Score int `json:"score"`

	// Fields names the fields that matched, in name, description, category order.
	Fields []string `json:"matches"`
}

// Search returns entries whose name, description or category contains query,
// ignoring case, ordered by descending Score. Entries with equal scores keep
// registry order. The empty query matches every entry.
func (r *Registry) Search(query string) []Match {
	q := strings.ToLower(query)

	matches := make([]Match, 0, len(r.entries))
	for _, e := range r.entries {
		m := Match{Entry: cloneEntry(e)}
		if strings.Contains(strings.ToLower(e.Name), q) {
			m.Score += WeightName
			m.Fields = append(m.Fields, "name")
		}
		if strings.Contains(strings.ToLower(e.Description), q) {
			m.Score += WeightDescription
			m.Fields = append(m.Fields, "description")
		}
		if strings.Contains(strings.ToLower(e.Category), q) {
			m.Score += WeightCategory
			m.Fields = append(m.Fields, "category")
		}
		if m.Score > 0 {
			matches = append(matches, m)
		}
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		return b.Score - a.Score
	})
	return matches
}
