package quiz

import (
	"fmt"
	"math/rand"

	"timed-quiz-service/internal/domain"
)

// BuildShuffleMap produces a uniformly random permutation of option
// positions plus its inverse. rand.Perm is a Fisher-Yates shuffle, so the
// distribution is uniform. An option count of 0 or 1 yields a valid trivial
// mapping.
func BuildShuffleMap(optionCount int, rnd *rand.Rand) domain.ShuffleMapping {
	order := rnd.Perm(optionCount)
	inverse := make([]int, optionCount)
	for pos, canonical := range order {
		inverse[canonical] = pos
	}
	return domain.ShuffleMapping{Order: order, Inverse: inverse}
}

// IdentityMapping returns the no-op mapping used when shuffling is disabled.
func IdentityMapping(optionCount int) domain.ShuffleMapping {
	order := make([]int, optionCount)
	inverse := make([]int, optionCount)
	for i := range order {
		order[i] = i
		inverse[i] = i
	}
	return domain.ShuffleMapping{Order: order, Inverse: inverse}
}

// ApplyShuffle returns the options reordered for display. The input slice is
// never modified.
func ApplyShuffle(options []string, m domain.ShuffleMapping) []string {
	display := make([]string, len(m.Order))
	for pos, canonical := range m.Order {
		display[pos] = options[canonical]
	}
	return display
}

// ResolveCanonicalIndex maps the display position the user clicked back to
// the canonical option index. The canonical index is what gets stored and
// compared against the question's correct index.
func ResolveCanonicalIndex(m domain.ShuffleMapping, displayPos int) (int, error) {
	if displayPos < 0 || displayPos >= len(m.Order) {
		return 0, fmt.Errorf("%w: display position %d of %d", domain.ErrAnswerIndex, displayPos, len(m.Order))
	}
	return m.Order[displayPos], nil
}

// DisplayPosition maps a canonical index to where it appears on screen.
// Used by review rendering to highlight the correct option.
func DisplayPosition(m domain.ShuffleMapping, canonical int) (int, error) {
	if canonical < 0 || canonical >= len(m.Inverse) {
		return 0, fmt.Errorf("%w: canonical index %d of %d", domain.ErrAnswerIndex, canonical, len(m.Inverse))
	}
	return m.Inverse[canonical], nil
}
