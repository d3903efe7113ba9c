package app

import "timed-quiz-service/internal/domain"

// StartInput is the validated-on-entry configuration of a new attempt.
type StartInput struct {
	Categories       []string `json:"categories"`
	NumQuestions     int      `json:"num_questions"`
	TimeLimitMinutes int      `json:"time_limit_minutes"`
	Shuffle          bool     `json:"shuffle"`
}

// QuestionView is one question prepared for display. Options are in display
// order; the correct index is never exposed mid-quiz.
type QuestionView struct {
	Number           int      `json:"number"` // 1-based
	Total            int      `json:"total"`
	Text             string   `json:"text"`
	Category         string   `json:"category"`
	CodeSnippet      string   `json:"code_snippet,omitempty"`
	IsNew            bool     `json:"is_new,omitempty"`
	Options          []string `json:"options"`
	RemainingSeconds int      `json:"remaining_seconds"`
	ServerTimestamp  float64  `json:"server_timestamp"`
}

// SubmitInput carries one answer submission. SelectedOption is the display
// position the user clicked; nil skips the question. ClientTimestamp is used
// for skew diagnostics only, never for enforcement.
type SubmitInput struct {
	SelectedOption  *int     `json:"selected_option"`
	ClientTimestamp *float64 `json:"client_timestamp"`
}

// SubmitResult reports where the attempt stands after an accepted answer.
type SubmitResult struct {
	Done             bool    `json:"done"`
	NextNumber       int     `json:"next_number,omitempty"`
	RemainingSeconds int     `json:"remaining_seconds"`
	ServerTimestamp  float64 `json:"server_timestamp"`
}

// ScoreSummary is the final (or current) scoring state of an attempt.
type ScoreSummary struct {
	Score      int                 `json:"score"`
	Total      int                 `json:"total"`
	Percent    float64             `json:"percent"`
	WrongCount int                 `json:"wrong_count"`
	State      domain.SessionState `json:"state"`
}

// TimerStatus is the payload of a timer sync: authoritative remaining time
// plus the server clock so the client can render a countdown, and the
// measured skew when the client reported its own clock.
type TimerStatus struct {
	RemainingSeconds int                 `json:"remaining_seconds"`
	ServerTimestamp  float64             `json:"server_timestamp"`
	State            domain.SessionState `json:"state"`
	SkewSeconds      *float64            `json:"skew_seconds,omitempty"`
	SkewExceeded     bool                `json:"skew_exceeded,omitempty"`
}
