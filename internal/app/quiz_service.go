package app

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"techify-quiz/internal/domain"
)

// SessionRepository abstracts where login sessions live (in-memory, Redis, etc).
type SessionRepository interface {
	Save(session *UserSession)
	Get(token string) (*UserSession, bool)
	Delete(token string)
}

// QuestionRepository loads the ordered question list and accepts newly
// authored questions. A missing source loads as an empty list.
type QuestionRepository interface {
	Load(ctx context.Context) ([]domain.Question, error)
	Append(ctx context.Context, q domain.Question) error
}

// LeaderboardStore is an append-only log of submitted scores, returned in
// storage order.
type LeaderboardStore interface {
	LoadAll(ctx context.Context) ([]domain.LeaderboardEntry, error)
	Append(ctx context.Context, entry domain.LeaderboardEntry) error
}

// Menu lists the actions offered to a logged-in user.
var Menu = []string{"Take Quiz", "Add Question", "Leaderboard", "Logout"}

// QuizService contains the quiz use cases driven by the presentation layer.
type QuizService struct {
	sessions    SessionRepository
	questions   QuestionRepository
	leaderboard LeaderboardStore
	feed        *leaderboardFeed
	now         func() time.Time
}

func NewQuizService(sessions SessionRepository, questions QuestionRepository, leaderboard LeaderboardStore) *QuizService {
	return NewQuizServiceWithClock(sessions, questions, leaderboard, time.Now)
}

// NewQuizServiceWithClock is test-only for deterministic timestamps.
func NewQuizServiceWithClock(sessions SessionRepository, questions QuestionRepository, leaderboard LeaderboardStore, now func() time.Time) *QuizService {
	return &QuizService{
		sessions:    sessions,
		questions:   questions,
		leaderboard: leaderboard,
		feed:        newLeaderboardFeed(),
		now:         now,
	}
}

// Login opens a session for identity. Name and email must be non-empty.
func (s *QuizService) Login(_ context.Context, identity domain.Identity) (*UserSession, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	session := NewUserSessionWithClock(uuid.NewString(), identity, s.now)
	s.sessions.Save(session)
	return session, nil
}

// Logout drops the session and any attempt in progress.
func (s *QuizService) Logout(_ context.Context, token string) {
	s.sessions.Delete(token)
}

// Session resolves a login token.
func (s *QuizService) Session(_ context.Context, token string) (*UserSession, error) {
	session, ok := s.sessions.Get(token)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// StartQuiz snapshots the current question list into a fresh attempt. An
// empty list is not an error; callers show "no questions available".
func (s *QuizService) StartQuiz(ctx context.Context, token string) ([]domain.Question, error) {
	session, err := s.Session(ctx, token)
	if err != nil {
		return nil, err
	}
	questions, err := s.questions.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	return session.startQuiz(questions).Questions(), nil
}

// RecordResponse stores the user's raw answer for question index.
func (s *QuizService) RecordResponse(ctx context.Context, token string, index int, value string) error {
	session, err := s.Session(ctx, token)
	if err != nil {
		return err
	}
	return session.record(index, value)
}

// Score reports the running score of the attempt in progress.
func (s *QuizService) Score(ctx context.Context, token string) (domain.Score, error) {
	session, err := s.Session(ctx, token)
	if err != nil {
		return domain.Score{}, err
	}
	return session.score()
}

// SubmitQuiz scores the attempt, appends it to the leaderboard and discards it.
// If the leaderboard append fails the attempt is kept for a retry.
func (s *QuizService) SubmitQuiz(ctx context.Context, token string) (domain.Score, domain.LeaderboardEntry, error) {
	session, err := s.Session(ctx, token)
	if err != nil {
		return domain.Score{}, domain.LeaderboardEntry{}, err
	}

	var entry domain.LeaderboardEntry
	score, err := session.finishQuiz(func(score domain.Score, at time.Time) error {
		identity := session.Identity()
		entry = domain.LeaderboardEntry{
			Name:      identity.Name,
			Email:     identity.Email,
			Score:     score.Correct,
			Timestamp: at.Truncate(time.Second),
		}
		if err := s.leaderboard.Append(ctx, entry); err != nil {
			return fmt.Errorf("append leaderboard entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return score, domain.LeaderboardEntry{}, err
	}

	if lb, err := s.Leaderboard(ctx); err == nil {
		s.feed.publish(lb)
	} else {
		log.Printf("leaderboard refresh after submit failed: %v", err)
	}
	return score, entry, nil
}

// AddQuestion appends an authored question through the configured repository.
// Attempts already in progress keep their snapshot.
func (s *QuizService) AddQuestion(ctx context.Context, token string, q domain.Question) error {
	if _, err := s.Session(ctx, token); err != nil {
		return err
	}
	if !q.Scoreable() {
		log.Printf("adding unscoreable question %q: answer key %q not among options", q.Prompt, q.Answer)
	}
	return s.questions.Append(ctx, q)
}

// Leaderboard returns all entries sorted by score descending, then earliest
// submission, then name.
func (s *QuizService) Leaderboard(ctx context.Context) (domain.Leaderboard, error) {
	entries, err := s.leaderboard.LoadAll(ctx)
	if err != nil {
		return domain.Leaderboard{}, fmt.Errorf("load leaderboard: %w", err)
	}
	sorted := make([]domain.LeaderboardEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		if !sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		}
		return sorted[i].Name < sorted[j].Name
	})
	return domain.Leaderboard{Entries: sorted, UpdatedAt: s.now()}, nil
}

// SubscribeLeaderboard returns a channel that receives the current leaderboard
// and every update after a submission. The caller must invoke cancel.
func (s *QuizService) SubscribeLeaderboard(ctx context.Context) (<-chan domain.Leaderboard, func(), error) {
	lb, err := s.Leaderboard(ctx)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.feed.subscribe(lb)
	return ch, cancel, nil
}
