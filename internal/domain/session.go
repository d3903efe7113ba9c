package domain

import "time"

// SessionState tracks where a quiz attempt is in its lifecycle. A session
// that does not exist in the store is the implicit "not started" state.
type SessionState string

const (
	StateInProgress SessionState = "in_progress"
	StateExpired    SessionState = "expired"
	StateCompleted  SessionState = "completed"
)

// AnswerRecord stores one submitted answer in presentation order. Chosen is
// the canonical option index, or nil when the question was skipped or timed
// out unanswered.
type AnswerRecord struct {
	QuestionID int  `json:"question_id"`
	Number     int  `json:"number"` // 1-based presentation number
	Chosen     *int `json:"chosen"`
}

// QuizSession is the full state of one quiz attempt. It is plain data so the
// session store can serialize it; all fields are owned by a single opaque
// session ID and never shared between users.
type QuizSession struct {
	QuestionIDs      []int                  `json:"question_ids"`
	CurrentIndex     int                    `json:"current_index"`
	Shuffle          bool                   `json:"shuffle"`
	ShuffleMaps      map[int]ShuffleMapping `json:"shuffle_maps"`
	Answers          []AnswerRecord         `json:"answers"`
	Score            int                    `json:"score"`
	TimeLimitSeconds int                    `json:"time_limit_seconds"`
	StartedAt        float64                `json:"started_at"` // fractional unix seconds, authoritative
	State            SessionState           `json:"state"`
}

// NewQuizSession starts an attempt over the given bank indices.
func NewQuizSession(questionIDs []int, timeLimitSeconds int, shuffle bool, now time.Time) QuizSession {
	return QuizSession{
		QuestionIDs:      questionIDs,
		CurrentIndex:     0,
		Shuffle:          shuffle,
		ShuffleMaps:      make(map[int]ShuffleMapping),
		Answers:          make([]AnswerRecord, 0, len(questionIDs)),
		TimeLimitSeconds: timeLimitSeconds,
		StartedAt:        unixSeconds(now),
		State:            StateInProgress,
	}
}

// Elapsed returns the server-authoritative elapsed time in seconds.
func (s QuizSession) Elapsed(now time.Time) float64 {
	return unixSeconds(now) - s.StartedAt
}

// Remaining returns whole seconds left on the clock, clamped at zero.
func (s QuizSession) Remaining(now time.Time) int {
	remaining := float64(s.TimeLimitSeconds) - s.Elapsed(now)
	if remaining <= 0 {
		return 0
	}
	return int(remaining)
}

// ExpiredAt reports whether the time limit has been reached.
func (s QuizSession) ExpiredAt(now time.Time) bool {
	return s.Elapsed(now) >= float64(s.TimeLimitSeconds)
}

// Finished reports whether every selected question has been answered.
func (s QuizSession) Finished() bool {
	return s.CurrentIndex >= len(s.QuestionIDs)
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
