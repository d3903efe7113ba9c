package quiz

import (
	"testing"
	"time"

	"timed-quiz-service/internal/domain"
)

func TestPercentage(t *testing.T) {
	cases := []struct {
		score, total int
		want         float64
	}{
		{0, 0, 0},
		{0, 5, 0},
		{1, 3, 33.33},
		{4, 5, 80},
		{5, 5, 100},
		{3, -1, 0},
	}
	for _, tc := range cases {
		if got := Percentage(tc.score, tc.total); got != tc.want {
			t.Fatalf("Percentage(%d, %d) = %v, want %v", tc.score, tc.total, got, tc.want)
		}
	}
}

func TestBuildReviewOnlyWrongAndSkipped(t *testing.T) {
	bank := testBank()
	now := time.Unix(1700000000, 0)
	session := domain.NewQuizSession([]int{0, 1, 2}, 600, false, now)

	correct := 0
	wrong := 2
	session.Answers = []domain.AnswerRecord{
		{QuestionID: 0, Number: 1, Chosen: &correct},
		{QuestionID: 1, Number: 2, Chosen: &wrong},
		{QuestionID: 2, Number: 3, Chosen: nil},
	}
	session.Score = 1
	session.CurrentIndex = 3
	session.State = domain.StateCompleted

	items := BuildReview(bank, session)
	if len(items) != 2 {
		t.Fatalf("expected 2 review items, got %d", len(items))
	}

	if items[0].QuestionNumber != 2 {
		t.Fatalf("expected question 2 first, got %d", items[0].QuestionNumber)
	}
	if items[0].ChosenOption == nil || *items[0].ChosenOption != "wrong 2" {
		t.Fatalf("expected chosen option 'wrong 2', got %v", items[0].ChosenOption)
	}
	if items[0].CorrectOption != "right Python" {
		t.Fatalf("expected correct option 'right Python', got %q", items[0].CorrectOption)
	}
	if items[0].Explanation != "because" {
		t.Fatalf("missing explanation: %+v", items[0])
	}

	if items[1].QuestionNumber != 3 || items[1].ChosenOption != nil {
		t.Fatalf("expected skipped question 3 with nil choice, got %+v", items[1])
	}
}

func TestBuildReviewIsRestartable(t *testing.T) {
	bank := testBank()
	now := time.Unix(1700000000, 0)
	session := domain.NewQuizSession([]int{4, 5}, 600, false, now)
	session.Answers = []domain.AnswerRecord{
		{QuestionID: 4, Number: 1, Chosen: nil},
		{QuestionID: 5, Number: 2, Chosen: nil},
	}

	first := BuildReview(bank, session)
	second := BuildReview(bank, session)
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 items on both passes, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Text != second[i].Text || first[i].QuestionNumber != second[i].QuestionNumber {
			t.Fatalf("review not stable across calls: %+v vs %+v", first[i], second[i])
		}
	}
}

func TestBuildReviewSkipsMalformedRecords(t *testing.T) {
	bank := testBank()
	now := time.Unix(1700000000, 0)
	session := domain.NewQuizSession([]int{0}, 600, false, now)
	bad := 99
	session.Answers = []domain.AnswerRecord{
		{QuestionID: -1, Number: 1, Chosen: nil},
		{QuestionID: bank.Len() + 3, Number: 2, Chosen: nil},
		{QuestionID: 0, Number: 3, Chosen: &bad},
	}
	if items := BuildReview(bank, session); len(items) != 0 {
		t.Fatalf("expected malformed records skipped, got %d items", len(items))
	}
}

func TestBuildReviewUsesStoredShuffleOrder(t *testing.T) {
	bank := testBank()
	now := time.Unix(1700000000, 0)
	session := domain.NewQuizSession([]int{0}, 600, true, now)
	session.ShuffleMaps[0] = domain.ShuffleMapping{
		Order:   []int{3, 2, 1, 0},
		Inverse: []int{3, 2, 1, 0},
	}
	session.Answers = []domain.AnswerRecord{{QuestionID: 0, Number: 1, Chosen: nil}}

	items := BuildReview(bank, session)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	want := []string{"wrong 3", "wrong 2", "wrong 1", "right Python"}
	for i, opt := range want {
		if items[0].Options[i] != opt {
			t.Fatalf("options not in display order: got %v, want %v", items[0].Options, want)
		}
	}
}
