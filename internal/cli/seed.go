package cli

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/quizbank"
)

// NewSeedCmd loads a question bank JSON file into Postgres so the server can
// serve it instead of reading the file directly.
func NewSeedCmd(configPath *string) *cobra.Command {
	var bankFile string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upload a question bank file into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			if bankFile == "" {
				bankFile = cfg.Quiz.BankPath
			}

			raw, err := os.ReadFile(bankFile)
			if err != nil {
				return fmt.Errorf("read %s: %w", bankFile, err)
			}
			var questions []domain.Question
			if err := json.Unmarshal(raw, &questions); err != nil {
				return fmt.Errorf("parse %s: %w", bankFile, err)
			}
			if err := quizbank.Validate(questions); err != nil {
				return err
			}

			if err := runMigrationsWithConfig(cmd.Context(), cfg); err != nil {
				return err
			}
			db := openBun(cfg.Postgres.URL)
			defer db.Close()
			if _, err := db.ExecContext(cmd.Context(),
				`INSERT INTO question_banks (id, data) VALUES (?, ?::jsonb)
				 ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data, updated_at=now()`,
				cfg.Quiz.BankID, string(raw)); err != nil {
				return fmt.Errorf("upsert bank: %w", err)
			}
			log.Printf("seeded bank %q with %d questions", cfg.Quiz.BankID, len(questions))
			return nil
		},
	}
	cmd.Flags().StringVar(&bankFile, "file", "", "question bank JSON file (defaults to quiz.bank_path)")
	return cmd
}
