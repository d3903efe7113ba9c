// Package quiz holds the pure quiz core: input validation, the option
// shuffle engine, question selection, and scoring/review building. Nothing
// in this package touches storage, transport, or the wall clock.
package quiz

import (
	"fmt"
	"strings"

	"timed-quiz-service/internal/domain"
)

// Default time-limit bounds in minutes, overridable via config.
const (
	MinTimeLimitMinutes     = 1
	MaxTimeLimitMinutes     = 120
	DefaultTimeLimitMinutes = 10
)

// ValidateCategories checks that at least one category is selected and that
// every selected category exists in the bank.
func ValidateCategories(selected, known []string) error {
	if len(selected) == 0 {
		return domain.ErrNoCategories
	}
	knownSet := make(map[string]struct{}, len(known))
	for _, c := range known {
		knownSet[c] = struct{}{}
	}
	for _, c := range selected {
		if _, ok := knownSet[c]; !ok {
			return fmt.Errorf("%w: %q", domain.ErrUnknownCategory, c)
		}
	}
	return nil
}

// ValidateQuestionCount checks 1 <= n <= available. Requesting more than the
// pool holds is reported as an insufficient-questions failure so the user
// sees how many are actually available.
func ValidateQuestionCount(n, available int) error {
	if n < 1 {
		return fmt.Errorf("%w: must be at least 1", domain.ErrQuestionCount)
	}
	if n > available {
		return fmt.Errorf("%w: only %d available", domain.ErrInsufficientQuestions, available)
	}
	return nil
}

// ValidateTimeLimit checks minLimit <= minutes <= maxLimit.
func ValidateTimeLimit(minutes, minLimit, maxLimit int) error {
	if minutes < minLimit {
		return fmt.Errorf("%w: must be at least %d minute(s)", domain.ErrTimeLimit, minLimit)
	}
	if minutes > maxLimit {
		return fmt.Errorf("%w: cannot exceed %d minutes", domain.ErrTimeLimit, maxLimit)
	}
	return nil
}

// ParseShuffleFlag interprets a form value as a boolean shuffle option.
func ParseShuffleFlag(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", domain.ErrShuffleFlag, raw)
	}
}

// ValidateAnswerIndex checks a canonical answer index against the option
// count. A nil index is a legal "skipped" answer.
func ValidateAnswerIndex(index *int, optionCount int) error {
	if index == nil {
		return nil
	}
	if *index < 0 || *index >= optionCount {
		return fmt.Errorf("%w: %d of %d options", domain.ErrAnswerIndex, *index, optionCount)
	}
	return nil
}

// ValidateSession rejects stored session state that is missing required
// fields or has its question pointer out of bounds. Corrupt state is never
// repaired; the caller must restart the attempt.
func ValidateSession(s domain.QuizSession, bankSize int) error {
	if len(s.QuestionIDs) == 0 {
		return fmt.Errorf("%w: no questions selected", domain.ErrSessionCorrupt)
	}
	if s.CurrentIndex < 0 || s.CurrentIndex > len(s.QuestionIDs) {
		return fmt.Errorf("%w: question pointer %d out of range", domain.ErrSessionCorrupt, s.CurrentIndex)
	}
	if s.TimeLimitSeconds <= 0 || s.StartedAt <= 0 {
		return fmt.Errorf("%w: missing timer state", domain.ErrSessionCorrupt)
	}
	switch s.State {
	case domain.StateInProgress, domain.StateExpired, domain.StateCompleted:
	default:
		return fmt.Errorf("%w: unknown state %q", domain.ErrSessionCorrupt, s.State)
	}
	for _, id := range s.QuestionIDs {
		if id < 0 || id >= bankSize {
			return fmt.Errorf("%w: question reference %d out of range", domain.ErrSessionCorrupt, id)
		}
	}
	if len(s.Answers) > len(s.QuestionIDs) {
		return fmt.Errorf("%w: more answers than questions", domain.ErrSessionCorrupt)
	}
	return nil
}
