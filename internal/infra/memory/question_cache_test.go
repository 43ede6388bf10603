package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"techify-quiz/internal/domain"
)

func TestCachedQuestionRepositoryCaches(t *testing.T) {
	source := &countingRepository{QuestionRepository: NewQuestionRepository(sampleQuestions())}
	repo := NewCachedQuestionRepository(source, time.Minute)

	if _, err := repo.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if source.loads != 1 {
		t.Fatalf("expected source loaded once, got %d", source.loads)
	}

	questions, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load 2: %v", err)
	}
	if source.loads != 1 {
		t.Fatalf("expected cache hit, source loads %d", source.loads)
	}
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
}

func TestCachedQuestionRepositoryAppendInvalidates(t *testing.T) {
	source := &countingRepository{QuestionRepository: NewQuestionRepository(sampleQuestions())}
	repo := NewCachedQuestionRepository(source, time.Minute)
	ctx := context.Background()

	_, _ = repo.Load(ctx)
	q, _ := domain.NewQuestion(domain.FillBlank, "Go mascot?", nil, "gopher")
	if err := repo.Append(ctx, q); err != nil {
		t.Fatalf("append: %v", err)
	}

	questions, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if source.loads != 2 {
		t.Fatalf("expected reload after append, got %d loads", source.loads)
	}
	if len(questions) != 2 || questions[1].Prompt != "Go mascot?" {
		t.Fatalf("expected appended question last, got %+v", questions)
	}
}

func TestCachedQuestionRepositoryExpires(t *testing.T) {
	source := &countingRepository{QuestionRepository: NewQuestionRepository(sampleQuestions())}
	repo := NewCachedQuestionRepository(source, time.Minute)
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	_, _ = repo.Load(context.Background())
	now = now.Add(2 * time.Minute)
	_, _ = repo.Load(context.Background())
	if source.loads != 2 {
		t.Fatalf("expected expired cache to reload, got %d loads", source.loads)
	}
}

func TestCachedQuestionRepositoryAppendDuringLoad(t *testing.T) {
	source := newBlockingRepository(NewQuestionRepository(sampleQuestions()))
	repo := NewCachedQuestionRepository(source, time.Minute)
	ctx := context.Background()

	done := make(chan []domain.Question)
	go func() {
		questions, _ := repo.Load(ctx)
		done <- questions
	}()
	<-source.started

	q, _ := domain.NewQuestion(domain.TrueFalse, "Slices are references", nil, "False")
	if err := repo.Append(ctx, q); err != nil {
		t.Fatalf("append: %v", err)
	}
	close(source.release)
	if stale := <-done; len(stale) != 1 {
		t.Fatalf("expected in-flight load to return the list it read, got %d", len(stale))
	}

	questions, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected appended question visible after the racing load, got %d", len(questions))
	}
}

// blockingRepository holds its first Load, after reading, until release is closed.
type blockingRepository struct {
	*QuestionRepository
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingRepository(inner *QuestionRepository) *blockingRepository {
	return &blockingRepository{QuestionRepository: inner, started: make(chan struct{}), release: make(chan struct{})}
}

func (r *blockingRepository) Load(ctx context.Context) ([]domain.Question, error) {
	questions, err := r.QuestionRepository.Load(ctx)
	r.once.Do(func() {
		close(r.started)
		<-r.release
	})
	return questions, err
}

type countingRepository struct {
	*QuestionRepository
	loads int
}

func (r *countingRepository) Load(ctx context.Context) ([]domain.Question, error) {
	r.loads++
	return r.QuestionRepository.Load(ctx)
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			Type:    domain.MultipleChoice,
			Prompt:  "What is 2 + 2?",
			Options: map[string]string{"A": "3", "B": "4"},
			Answer:  "B",
		},
	}
}
