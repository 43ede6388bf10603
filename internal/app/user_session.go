package app

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"techify-quiz/internal/domain"
)

// UserSession is the login context held for one user between login and
// logout. It owns at most one active quiz attempt.
type UserSession struct {
	token      string
	identity   domain.Identity
	loggedInAt time.Time
	now        func() time.Time

	mu   sync.Mutex
	quiz *QuizSession
}

// NewUserSession creates a session with a fresh random token.
func NewUserSession(identity domain.Identity) *UserSession {
	return NewUserSessionWithClock(uuid.NewString(), identity, time.Now)
}

// NewUserSessionWithClock is exported for stores that restore sessions and for
// deterministic tests.
func NewUserSessionWithClock(token string, identity domain.Identity, now func() time.Time) *UserSession {
	return &UserSession{
		token:      token,
		identity:   identity,
		loggedInAt: now(),
		now:        now,
	}
}

func (s *UserSession) Token() string { return s.token }
func (s *UserSession) Identity() domain.Identity { return s.identity }
func (s *UserSession) LoggedInAt() time.Time { return s.loggedInAt }

// HasActiveQuiz reports whether an attempt is in progress.
func (s *UserSession) HasActiveQuiz() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quiz != nil
}

// startQuiz replaces any attempt in progress.
func (s *UserSession) startQuiz(questions []domain.Question) *QuizSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quiz = StartSession(questions)
	return s.quiz
}

func (s *UserSession) record(index int, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quiz == nil {
		return domain.ErrNoActiveQuiz
	}
	return s.quiz.RecordResponse(index, value)
}

func (s *UserSession) score() (domain.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quiz == nil {
		return domain.Score{}, domain.ErrNoActiveQuiz
	}
	return s.quiz.ComputeScore(), nil
}

// finishQuiz scores the attempt and hands it to commit. The attempt is
// discarded only when commit succeeds so a failed submission can be retried.
func (s *UserSession) finishQuiz(commit func(domain.Score, time.Time) error) (domain.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quiz == nil {
		return domain.Score{}, domain.ErrNoActiveQuiz
	}
	score := s.quiz.ComputeScore()
	if err := commit(score, s.now()); err != nil {
		return score, err
	}
	s.quiz = nil
	return score, nil
}
