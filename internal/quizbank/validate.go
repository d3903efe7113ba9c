// Package quizbank validates question bank data at load time so the quiz
// core never sees a malformed question. Validation failures are fatal at
// startup; the service refuses to serve a bank it cannot trust.
package quizbank

import (
	"fmt"
	"strings"

	"timed-quiz-service/internal/domain"
)

const (
	minOptions = 2
	maxOptions = 10
)

// Validate runs schema-level and semantic checks over every question and
// collects all diagnostics before failing, so a broken bank reports every
// problem in one pass.
func Validate(questions []domain.Question) error {
	var diags []string
	if len(questions) == 0 {
		diags = append(diags, "bank contains no questions")
	}
	for i, q := range questions {
		diags = append(diags, checkFields(i, q)...)
		diags = append(diags, checkAnswerIndex(i, q)...)
		diags = append(diags, checkUniqueOptions(i, q)...)
	}
	if len(diags) > 0 {
		return fmt.Errorf("%w:\n  - %s", domain.ErrBankInvalid, strings.Join(diags, "\n  - "))
	}
	return nil
}

func checkFields(i int, q domain.Question) []string {
	var diags []string
	if strings.TrimSpace(q.Text) == "" {
		diags = append(diags, fmt.Sprintf("question %d: text is empty", i))
	}
	if strings.TrimSpace(q.Category) == "" {
		diags = append(diags, fmt.Sprintf("question %d: category is empty", i))
	}
	if strings.TrimSpace(q.Explanation) == "" {
		diags = append(diags, fmt.Sprintf("question %d: explanation is empty", i))
	}
	if len(q.Options) < minOptions || len(q.Options) > maxOptions {
		diags = append(diags, fmt.Sprintf("question %d: has %d options, want %d-%d", i, len(q.Options), minOptions, maxOptions))
	}
	for j, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			diags = append(diags, fmt.Sprintf("question %d: option %d is empty", i, j))
		}
	}
	return diags
}

func checkAnswerIndex(i int, q domain.Question) []string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return []string{fmt.Sprintf("question %d: correct_answer_index %d is out of bounds (0-%d)", i, q.CorrectIndex, len(q.Options)-1)}
	}
	return nil
}

func checkUniqueOptions(i int, q domain.Question) []string {
	seen := make(map[string]struct{}, len(q.Options))
	var dupes []string
	for _, opt := range q.Options {
		if _, ok := seen[opt]; ok {
			dupes = append(dupes, fmt.Sprintf("%q", opt))
		}
		seen[opt] = struct{}{}
	}
	if len(dupes) > 0 {
		return []string{fmt.Sprintf("question %d: duplicate options: %s", i, strings.Join(dupes, ", "))}
	}
	return nil
}

// Summary describes a validated bank for reporting and the landing page.
type Summary struct {
	TotalQuestions int            `json:"total_questions"`
	Categories     []string       `json:"categories"`
	CategoryCounts map[string]int `json:"category_counts"`
}

// Summarize builds a Summary from a bank.
func Summarize(bank domain.Bank) Summary {
	return Summary{
		TotalQuestions: bank.Len(),
		Categories:     bank.Categories(),
		CategoryCounts: bank.CategoryCounts(),
	}
}
