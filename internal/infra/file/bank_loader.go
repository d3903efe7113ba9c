// Package file loads the question bank from a JSON file on disk.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/quizbank"
)

// BankLoader reads and validates a JSON array of questions. Validation
// failures carry field-level diagnostics and must abort startup.
type BankLoader struct {
	path string
}

func NewBankLoader(path string) *BankLoader {
	return &BankLoader{path: path}
}

func (l *BankLoader) LoadBank(_ context.Context) (domain.Bank, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return domain.Bank{}, fmt.Errorf("read question bank %s: %w", l.path, err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return domain.Bank{}, fmt.Errorf("parse question bank %s: %w", l.path, err)
	}
	if err := quizbank.Validate(questions); err != nil {
		return domain.Bank{}, err
	}
	return domain.Bank{Questions: questions}, nil
}
