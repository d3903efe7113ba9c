package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	filebank "timed-quiz-service/internal/infra/file"
	"timed-quiz-service/internal/quizbank"
)

// NewValidateCmd checks a question bank file and prints a summary, so a
// broken bank is caught before deploying it.
func NewValidateCmd(configPath *string) *cobra.Command {
	var bankFile string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a question bank file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if bankFile == "" {
				cfg, err := loadConfig(*configPath)
				if err != nil {
					return err
				}
				bankFile = cfg.Quiz.BankPath
			}

			bank, err := filebank.NewBankLoader(bankFile).LoadBank(cmd.Context())
			if err != nil {
				return err
			}

			summary := quizbank.Summarize(bank)
			fmt.Printf("%s: OK\n", bankFile)
			fmt.Printf("  questions: %d\n", summary.TotalQuestions)
			fmt.Printf("  categories: %d\n", len(summary.Categories))
			for _, c := range summary.Categories {
				fmt.Printf("    %-20s %d\n", c, summary.CategoryCounts[c])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&bankFile, "file", "", "question bank JSON file (defaults to quiz.bank_path)")
	return cmd
}
