package quiz

import (
	"fmt"
	"math/rand"

	"timed-quiz-service/internal/domain"
)

// FilterByCategories returns the bank indices of questions belonging to the
// selected categories, preserving bank order.
func FilterByCategories(bank domain.Bank, categories []string) []int {
	selected := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		selected[c] = struct{}{}
	}
	var ids []int
	for i, q := range bank.Questions {
		if _, ok := selected[q.Category]; ok {
			ids = append(ids, i)
		}
	}
	return ids
}

// SelectQuestions draws exactly count distinct questions from the selected
// categories, sampling without replacement. The draw order becomes the
// presentation order.
func SelectQuestions(bank domain.Bank, categories []string, count int, rnd *rand.Rand) ([]int, error) {
	pool := FilterByCategories(bank, categories)
	if count < 1 {
		return nil, fmt.Errorf("%w: must be at least 1", domain.ErrQuestionCount)
	}
	if count > len(pool) {
		return nil, fmt.Errorf("%w: requested %d, have %d", domain.ErrInsufficientQuestions, count, len(pool))
	}
	picks := rnd.Perm(len(pool))[:count]
	ids := make([]int, count)
	for i, p := range picks {
		ids[i] = pool[p]
	}
	return ids, nil
}
