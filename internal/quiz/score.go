package quiz

import (
	"math"

	"timed-quiz-service/internal/domain"
)

// Percentage computes the score as a percentage rounded to two decimals.
// An empty quiz scores 0, never a division fault.
func Percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(score)/float64(total)*10000) / 100
}

// ReviewItem is one wrong or skipped answer prepared for the review page.
// Options are in the order the user saw them.
type ReviewItem struct {
	QuestionNumber int      `json:"question_number"`
	Text           string   `json:"text"`
	CodeSnippet    string   `json:"code_snippet,omitempty"`
	Options        []string `json:"options"`
	ChosenOption   *string  `json:"chosen_option"`
	CorrectOption  string   `json:"correct_option"`
	Explanation    string   `json:"explanation"`
}

// BuildReview assembles review entries for every wrong or unanswered
// question. It is recomputed from immutable session plus bank data, so
// callers may invoke it any number of times. Malformed answer records are
// skipped rather than faulted on.
func BuildReview(bank domain.Bank, session domain.QuizSession) []ReviewItem {
	items := make([]ReviewItem, 0, len(session.Answers))
	for _, record := range session.Answers {
		if record.QuestionID < 0 || record.QuestionID >= bank.Len() {
			continue
		}
		question := bank.Questions[record.QuestionID]
		if question.CorrectIndex < 0 || question.CorrectIndex >= len(question.Options) {
			continue
		}
		if record.Chosen != nil && *record.Chosen == question.CorrectIndex {
			continue
		}
		if record.Chosen != nil && (*record.Chosen < 0 || *record.Chosen >= len(question.Options)) {
			continue
		}

		mapping := MappingFor(session, record.QuestionID, len(question.Options))
		var chosen *string
		if record.Chosen != nil {
			text := question.Options[*record.Chosen]
			chosen = &text
		}
		items = append(items, ReviewItem{
			QuestionNumber: record.Number,
			Text:           question.Text,
			CodeSnippet:    question.CodeSnippet,
			Options:        ApplyShuffle(question.Options, mapping),
			ChosenOption:   chosen,
			CorrectOption:  question.Options[question.CorrectIndex],
			Explanation:    question.Explanation,
		})
	}
	return items
}

// MappingFor returns the shuffle mapping recorded for a question, falling
// back to the identity mapping when shuffling was disabled or the stored
// mapping is unusable.
func MappingFor(session domain.QuizSession, questionID, optionCount int) domain.ShuffleMapping {
	if session.Shuffle {
		if m, ok := session.ShuffleMaps[questionID]; ok && m.Valid(optionCount) {
			return m
		}
	}
	return IdentityMapping(optionCount)
}
