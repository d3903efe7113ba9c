package quiz

import (
	"errors"
	"testing"
	"time"

	"timed-quiz-service/internal/domain"
)

func TestValidateCategories(t *testing.T) {
	known := []string{"Python", "Networking", "Databases"}

	if err := ValidateCategories([]string{"Python"}, known); err != nil {
		t.Fatalf("valid selection rejected: %v", err)
	}
	if err := ValidateCategories([]string{"Python", "Databases"}, known); err != nil {
		t.Fatalf("valid multi selection rejected: %v", err)
	}
	if err := ValidateCategories(nil, known); !errors.Is(err, domain.ErrNoCategories) {
		t.Fatalf("expected ErrNoCategories, got %v", err)
	}
	if err := ValidateCategories([]string{"Python", "Rust"}, known); !errors.Is(err, domain.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestValidateQuestionCount(t *testing.T) {
	cases := []struct {
		name      string
		n         int
		available int
		wantErr   error
	}{
		{"minimum", 1, 10, nil},
		{"exactly available", 10, 10, nil},
		{"zero", 0, 10, domain.ErrQuestionCount},
		{"negative", -3, 10, domain.ErrQuestionCount},
		{"one over available", 11, 10, domain.ErrInsufficientQuestions},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateQuestionCount(tc.n, tc.available)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateTimeLimit(t *testing.T) {
	cases := []struct {
		minutes int
		ok      bool
	}{
		{0, false},
		{1, true},
		{10, true},
		{120, true},
		{121, false},
		{-5, false},
	}
	for _, tc := range cases {
		err := ValidateTimeLimit(tc.minutes, MinTimeLimitMinutes, MaxTimeLimitMinutes)
		if tc.ok && err != nil {
			t.Fatalf("minutes=%d: unexpected error: %v", tc.minutes, err)
		}
		if !tc.ok && !errors.Is(err, domain.ErrTimeLimit) {
			t.Fatalf("minutes=%d: expected ErrTimeLimit, got %v", tc.minutes, err)
		}
	}
}

func TestParseShuffleFlag(t *testing.T) {
	for raw, want := range map[string]bool{"true": true, "TRUE": true, "false": false, "False": false} {
		got, err := ParseShuffleFlag(raw)
		if err != nil || got != want {
			t.Fatalf("ParseShuffleFlag(%q) = %v, %v; want %v", raw, got, err, want)
		}
	}
	for _, raw := range []string{"", "yes", "1", "enabled"} {
		if _, err := ParseShuffleFlag(raw); !errors.Is(err, domain.ErrShuffleFlag) {
			t.Fatalf("ParseShuffleFlag(%q): expected ErrShuffleFlag, got %v", raw, err)
		}
	}
}

func TestValidateAnswerIndex(t *testing.T) {
	if err := ValidateAnswerIndex(nil, 4); err != nil {
		t.Fatalf("skipped answer rejected: %v", err)
	}
	for _, idx := range []int{0, 3} {
		idx := idx
		if err := ValidateAnswerIndex(&idx, 4); err != nil {
			t.Fatalf("index %d rejected: %v", idx, err)
		}
	}
	for _, idx := range []int{-1, 4, 99} {
		idx := idx
		if err := ValidateAnswerIndex(&idx, 4); !errors.Is(err, domain.ErrAnswerIndex) {
			t.Fatalf("index %d: expected ErrAnswerIndex, got %v", idx, err)
		}
	}
}

func TestValidateSession(t *testing.T) {
	now := time.Unix(1700000000, 0)
	good := domain.NewQuizSession([]int{2, 0, 1}, 600, true, now)
	if err := ValidateSession(good, 3); err != nil {
		t.Fatalf("valid session rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*domain.QuizSession)
	}{
		{"no questions", func(s *domain.QuizSession) { s.QuestionIDs = nil }},
		{"pointer negative", func(s *domain.QuizSession) { s.CurrentIndex = -1 }},
		{"pointer past end", func(s *domain.QuizSession) { s.CurrentIndex = 4 }},
		{"no time limit", func(s *domain.QuizSession) { s.TimeLimitSeconds = 0 }},
		{"no start time", func(s *domain.QuizSession) { s.StartedAt = 0 }},
		{"unknown state", func(s *domain.QuizSession) { s.State = "paused" }},
		{"question ref out of bank", func(s *domain.QuizSession) { s.QuestionIDs = []int{0, 7} }},
		{"too many answers", func(s *domain.QuizSession) {
			s.Answers = make([]domain.AnswerRecord, 5)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := domain.NewQuizSession([]int{2, 0, 1}, 600, true, now)
			tc.mutate(&s)
			if err := ValidateSession(s, 3); !errors.Is(err, domain.ErrSessionCorrupt) {
				t.Fatalf("expected ErrSessionCorrupt, got %v", err)
			}
		})
	}
}
