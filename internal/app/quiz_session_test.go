package app

import (
	"errors"
	"testing"

	"techify-quiz/internal/domain"
)

func TestComputeScore(t *testing.T) {
	questions := []domain.Question{
		{Type: domain.MultipleChoice, Prompt: "2+2?", Options: map[string]string{"A": "3", "B": "4"}, Answer: "B"},
		{Type: domain.TrueFalse, Prompt: "Sky is blue", Options: map[string]string{"A": "True", "B": "False"}, Answer: "True"},
		{Type: domain.FillBlank, Prompt: "Go mascot", Options: map[string]string{}, Answer: "Gopher"},
	}
	session := StartSession(questions)
	questions[0].Answer = "A"

	if err := session.RecordResponse(0, "4"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := session.RecordResponse(2, " gopher "); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := session.RecordResponse(3, "x"); !errors.Is(err, domain.ErrQuestionIndex) {
		t.Fatalf("expected index error, got %v", err)
	}
	if err := session.RecordResponse(-1, "x"); !errors.Is(err, domain.ErrQuestionIndex) {
		t.Fatalf("expected index error, got %v", err)
	}

	score := session.ComputeScore()
	if score.Correct != 2 || score.Total != 3 {
		t.Fatalf("expected 2/3, got %s", score)
	}
	if again := session.ComputeScore(); again != score {
		t.Fatalf("expected repeated score %s, got %s", score, again)
	}

	// Overwriting a response changes the outcome.
	_ = session.RecordResponse(0, "3")
	if got := session.ComputeScore().Correct; got != 1 {
		t.Fatalf("expected 1 after overwrite, got %d", got)
	}
	if v, ok := session.Response(0); !ok || v != "3" {
		t.Fatalf("expected stored response 3, got %q %v", v, ok)
	}
}

func TestComputeScoreEmpty(t *testing.T) {
	score := StartSession(nil).ComputeScore()
	if score.Correct != 0 || score.Total != 0 {
		t.Fatalf("expected 0/0, got %s", score)
	}
}
