package domain

import "sort"

// Question models a single multiple-choice entry of the question bank.
// Options keep their canonical order; CorrectIndex always points into Options.
type Question struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_answer_index"`
	Category     string   `json:"category"`
	Explanation  string   `json:"explanation"`
	CodeSnippet  string   `json:"code_snippet,omitempty"`
	IsNew        bool     `json:"is_new,omitempty"`
}

// Bank is the validated, immutable question list loaded at startup.
// Questions are referenced by their index in this list.
type Bank struct {
	Questions []Question `json:"questions"`
}

func (b Bank) Len() int { return len(b.Questions) }

// Categories returns the sorted set of category names present in the bank.
func (b Bank) Categories() []string {
	seen := make(map[string]struct{})
	for _, q := range b.Questions {
		seen[q.Category] = struct{}{}
	}
	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}

// CategoryCounts returns the number of questions per category.
func (b Bank) CategoryCounts() map[string]int {
	counts := make(map[string]int)
	for _, q := range b.Questions {
		counts[q.Category]++
	}
	return counts
}

// ShuffleMapping is a reversible permutation of one question's options.
// Order maps display position to canonical index; Inverse maps canonical
// index back to display position.
type ShuffleMapping struct {
	Order   []int `json:"order"`
	Inverse []int `json:"inverse"`
}

// Valid reports whether the mapping is a well-formed permutation pair for n options.
func (m ShuffleMapping) Valid(n int) bool {
	if len(m.Order) != n || len(m.Inverse) != n {
		return false
	}
	for pos, canonical := range m.Order {
		if canonical < 0 || canonical >= n || m.Inverse[canonical] != pos {
			return false
		}
	}
	return true
}
