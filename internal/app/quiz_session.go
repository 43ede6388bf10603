package app

import (
	"fmt"

	"techify-quiz/internal/domain"
)

// QuizSession is one in-progress quiz attempt. The question list is a
// snapshot taken at start; repository appends made afterwards do not show up.
// A QuizSession is not safe for concurrent use; UserSession guards it.
type QuizSession struct {
	questions []domain.Question
	responses map[int]string
}

// StartSession snapshots questions and begins with no responses.
func StartSession(questions []domain.Question) *QuizSession {
	snapshot := make([]domain.Question, len(questions))
	copy(snapshot, questions)
	return &QuizSession{
		questions: snapshot,
		responses: make(map[int]string),
	}
}

// Questions returns the session's question snapshot.
func (s *QuizSession) Questions() []domain.Question {
	out := make([]domain.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Len is the number of questions in the attempt.
func (s *QuizSession) Len() int { return len(s.questions) }

// RecordResponse stores or overwrites the raw response for question index.
func (s *QuizSession) RecordResponse(index int, value string) error {
	if index < 0 || index >= len(s.questions) {
		return fmt.Errorf("%w: %d not in [0,%d)", domain.ErrQuestionIndex, index, len(s.questions))
	}
	s.responses[index] = value
	return nil
}

// Response returns the recorded response for index, if any.
func (s *QuizSession) Response(index int) (string, bool) {
	v, ok := s.responses[index]
	return v, ok
}

// ComputeScore folds Evaluate over every recorded response. Unanswered
// questions are incorrect. It has no side effects.
func (s *QuizSession) ComputeScore() domain.Score {
	score := domain.Score{Total: len(s.questions)}
	for i, q := range s.questions {
		response, ok := s.responses[i]
		if !ok {
			continue
		}
		if domain.Evaluate(q, response) {
			score.Correct++
		}
	}
	return score
}
