package app

import (
	"testing"

	"notion-quiz-service/internal/domain"
)

func TestComputeScoreZeroTotal(t *testing.T) {
	score := computeScore(nil, 0)
	if score.Percentage != 0 || score.Correct != 0 {
		t.Fatalf("0 of 0 must be 0%%, got %+v", score)
	}
}

func TestComputeScoreRounds(t *testing.T) {
	answers := map[string]domain.Answer{
		"q1": {QuestionID: "q1", IsCorrect: true},
		"q2": {QuestionID: "q2", IsCorrect: true},
		"q3": {QuestionID: "q3", IsCorrect: true},
		"q4": {QuestionID: "q4", IsCorrect: false},
	}
	score := computeScore(answers, 4)
	if score.Correct != 3 || score.Percentage != 75 {
		t.Fatalf("expected 3 correct 75%%, got %+v", score)
	}

	// 1 of 3 rounds to 33, 2 of 3 rounds to 67.
	one := map[string]domain.Answer{"q1": {IsCorrect: true}}
	if got := computeScore(one, 3).Percentage; got != 33 {
		t.Fatalf("expected 33%%, got %d", got)
	}
	two := map[string]domain.Answer{"q1": {IsCorrect: true}, "q2": {IsCorrect: true}}
	if got := computeScore(two, 3).Percentage; got != 67 {
		t.Fatalf("expected 67%%, got %d", got)
	}
}

func TestSameKeySet(t *testing.T) {
	if !sameKeySet([]string{"B", "A"}, []string{"A", "B"}) {
		t.Fatalf("order must not matter")
	}
	if sameKeySet([]string{"B"}, []string{"A", "B"}) {
		t.Fatalf("partial credit must never be given")
	}
	if sameKeySet(nil, nil) {
		t.Fatalf("two empty sets must not count as correct")
	}
	if sameKeySet([]string{"A"}, []string{"B"}) {
		t.Fatalf("disjoint sets must not match")
	}
}

func TestSplitSelection(t *testing.T) {
	got := splitSelection("B, A ,,B")
	if len(got) != 2 || got[0] != "B" || got[1] != "A" {
		t.Fatalf("expected deduplicated trimmed keys, got %v", got)
	}
	if len(splitSelection(" , ")) != 0 {
		t.Fatalf("expected empty selection")
	}
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	session := newSession("s1")

	gen1 := session.beginLoad("quiz-a")
	gen2 := session.beginLoad("quiz-b")

	// The quiz-a result arrives after quiz-b was selected.
	if session.completeLoad(gen1, []domain.Question{{ID: "stale"}}) {
		t.Fatalf("stale load must not commit")
	}
	if session.completeLoad(gen2, []domain.Question{{ID: "fresh"}}) == false {
		t.Fatalf("current load must commit")
	}
	view := session.view()
	if view.QuizID != "quiz-b" || view.CurrentQuestion.ID != "fresh" {
		t.Fatalf("expected quiz-b result kept, got %+v", view)
	}

	// A stale failure is ignored the same way.
	gen3 := session.beginLoad("quiz-c")
	session.failLoad(gen2, "old error")
	if session.view().Error != "" {
		t.Fatalf("stale failure must not surface")
	}
	session.failLoad(gen3, "load failed")
	if session.view().Error != "load failed" {
		t.Fatalf("current failure must surface")
	}
}
