package domain

import "errors"

var (
	// ErrSessionNotFound is returned when no quiz attempt exists for the session ID.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrSessionCorrupt is returned when stored session state fails validation; callers must restart.
	ErrSessionCorrupt = errors.New("quiz session state is corrupt")
	// ErrTimeExpired signals that the time limit was reached; it forces finalization, not an error page.
	ErrTimeExpired = errors.New("time limit expired")
	// ErrQuizFinished is returned when an answer arrives after the last question.
	ErrQuizFinished = errors.New("quiz already finished")

	// ErrNoCategories rejects an empty category selection.
	ErrNoCategories = errors.New("no categories selected")
	// ErrUnknownCategory rejects categories absent from the bank.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrQuestionCount rejects question counts outside [1, available].
	ErrQuestionCount = errors.New("question count out of range")
	// ErrInsufficientQuestions is returned when fewer questions qualify than requested.
	ErrInsufficientQuestions = errors.New("not enough questions in selected categories")
	// ErrTimeLimit rejects time limits outside configured bounds.
	ErrTimeLimit = errors.New("time limit out of range")
	// ErrShuffleFlag rejects shuffle values that are not interpretable as boolean.
	ErrShuffleFlag = errors.New("invalid shuffle option")
	// ErrAnswerIndex rejects answer indices outside the option range.
	ErrAnswerIndex = errors.New("answer index out of range")

	// ErrBankInvalid indicates the question bank failed schema or semantic
	// validation; fatal at startup.
	ErrBankInvalid = errors.New("question bank validation failed")
)

// IsValidation reports whether err is a user-input validation failure, as
// opposed to a session or data-integrity problem.
func IsValidation(err error) bool {
	for _, v := range []error{
		ErrNoCategories,
		ErrUnknownCategory,
		ErrQuestionCount,
		ErrInsufficientQuestions,
		ErrTimeLimit,
		ErrShuffleFlag,
		ErrAnswerIndex,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
