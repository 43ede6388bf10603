package memory

import (
	"context"
	"sync"

	"techify-quiz/internal/domain"
)

// QuestionRepository keeps questions in process memory (useful for tests/demos).
type QuestionRepository struct {
	mu        sync.RWMutex
	questions []domain.Question
}

func NewQuestionRepository(seed []domain.Question) *QuestionRepository {
	questions := make([]domain.Question, len(seed))
	copy(questions, seed)
	return &QuestionRepository{questions: questions}
}

func (r *QuestionRepository) Load(_ context.Context) ([]domain.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Question, len(r.questions))
	copy(out, r.questions)
	return out, nil
}

func (r *QuestionRepository) Append(_ context.Context, q domain.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.questions = append(r.questions, q)
	return nil
}
