package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/quizbank"
)

// BankLoader loads a question bank stored as a JSONB array in Postgres.
type BankLoader struct {
	pool   *pgxpool.Pool
	bankID string
}

func NewBankLoader(pool *pgxpool.Pool, bankID string) *BankLoader {
	return &BankLoader{pool: pool, bankID: bankID}
}

func (l *BankLoader) LoadBank(ctx context.Context) (domain.Bank, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_banks WHERE id=$1`, l.bankID).Scan(&raw)
	if err != nil {
		return domain.Bank{}, fmt.Errorf("load question bank %q: %w", l.bankID, err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return domain.Bank{}, fmt.Errorf("unmarshal question bank %q: %w", l.bankID, err)
	}
	if err := quizbank.Validate(questions); err != nil {
		return domain.Bank{}, err
	}
	return domain.Bank{Questions: questions}, nil
}
