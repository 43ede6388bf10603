package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"techify-quiz/internal/app"
	"techify-quiz/internal/domain"
)

// SaveQuizPath is the backend route that accepts new questions.
const SaveQuizPath = "/save-quiz"

// maxErrorBody bounds how much of a failure response is surfaced.
const maxErrorBody = 64 << 10

// Row is the wire shape of one question; options is a JSON-encoded string.
type Row struct {
	Type     string `json:"type"`
	Question string `json:"question"`
	Options  string `json:"options"`
	Answer   string `json:"answer"`
}

// RowFromQuestion encodes q for the save-quiz call.
func RowFromQuestion(q domain.Question) (Row, error) {
	options, err := q.EncodedOptions()
	if err != nil {
		return Row{}, err
	}
	return Row{Type: string(q.Type), Question: q.Prompt, Options: options, Answer: q.Answer}, nil
}

// ToQuestion decodes a wire row through the same parse step used for files.
func (r Row) ToQuestion() (domain.Question, error) {
	return domain.ParseRow([]string{r.Type, r.Question, r.Options, r.Answer})
}

// QuestionRepository delegates appends to a remote backend over HTTP and
// serves loads from an in-memory snapshot seeded from source. The snapshot
// only grows after the backend confirms an append.
type QuestionRepository struct {
	baseURL string
	client  *http.Client
	source  app.QuestionRepository

	mu        sync.Mutex
	loaded    bool
	questions []domain.Question
}

// NewQuestionRepository builds a remote repository. A non-positive timeout
// falls back to ten seconds.
func NewQuestionRepository(baseURL string, timeout time.Duration, source app.QuestionRepository) *QuestionRepository {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &QuestionRepository{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		source:  source,
	}
}

func (r *QuestionRepository) Load(ctx context.Context) ([]domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureLoadedLocked(ctx); err != nil {
		return nil, err
	}
	out := make([]domain.Question, len(r.questions))
	copy(out, r.questions)
	return out, nil
}

func (r *QuestionRepository) ensureLoadedLocked(ctx context.Context) error {
	if r.loaded {
		return nil
	}
	questions, err := r.source.Load(ctx)
	if err != nil {
		return err
	}
	r.questions = questions
	r.loaded = true
	return nil
}

// Append posts q as a single-element batch. Any non-2xx status or transport
// failure is returned as a *domain.RemoteError and leaves the snapshot as is.
func (r *QuestionRepository) Append(ctx context.Context, q domain.Question) error {
	r.mu.Lock()
	err := r.ensureLoadedLocked(ctx)
	r.mu.Unlock()
	if err != nil {
		return err
	}

	row, err := RowFromQuestion(q)
	if err != nil {
		return err
	}
	body, err := json.Marshal([]Row{row})
	if err != nil {
		return fmt.Errorf("encode question: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+SaveQuizPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return &domain.RemoteError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &domain.RemoteError{StatusCode: resp.StatusCode, Body: string(text)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	r.mu.Lock()
	r.questions = append(r.questions, q)
	r.mu.Unlock()
	return nil
}
