package csvfile

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"sync"

	"techify-quiz/internal/domain"
)

// QuestionRepository is the local question backend: a CSV file with the
// columns type,question,options,answer where options is a JSON object.
type QuestionRepository struct {
	path string
	mu   sync.Mutex
}

func NewQuestionRepository(path string) *QuestionRepository {
	return &QuestionRepository{path: path}
}

// Load reads every row. Malformed rows are skipped and counted in the log.
func (r *QuestionRepository) Load(_ context.Context) ([]domain.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	questions, skipped, err := r.load()
	if err != nil {
		return nil, err
	}
	r.report(questions, skipped)
	return questions, nil
}

// Append rewrites the whole file with q added as the last row.
func (r *QuestionRepository) Append(_ context.Context, q domain.Question) error {
	row, err := q.Row()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	rows, unreadable, err := readRows(r.path, domain.QuestionHeader)
	if err != nil {
		return err
	}
	if len(unreadable) > 0 {
		log.Printf("questions %s: dropping %d unreadable lines on rewrite", r.path, len(unreadable))
	}
	// Existing rows are carried over verbatim, malformed ones included.
	return writeRows(r.path, domain.QuestionHeader, append(fieldsOf(rows), row))
}

func (r *QuestionRepository) load() ([]domain.Question, []domain.RowError, error) {
	rows, unreadable, err := readRows(r.path, domain.QuestionHeader)
	if err != nil {
		return nil, nil, fmt.Errorf("questions: %w", err)
	}
	questions, skipped := parseQuestionRows(rows)
	return questions, mergeSkipped(unreadable, skipped), nil
}

func (r *QuestionRepository) report(questions []domain.Question, skipped []domain.RowError) {
	if len(skipped) > 0 {
		log.Printf("questions %s: skipped %d malformed rows", r.path, len(skipped))
		for _, rowErr := range skipped {
			log.Printf("questions %s: %v", r.path, &rowErr)
		}
	}
	for i, q := range questions {
		if !q.Scoreable() {
			log.Printf("questions %s: question %d has answer key %q missing from options; it cannot be scored", r.path, i+1, q.Answer)
		}
	}
}

// DecodeQuestions parses a question CSV stream, returning the well-formed
// questions in order and one RowError per skipped row.
func DecodeQuestions(src io.Reader) ([]domain.Question, []domain.RowError, error) {
	rows, unreadable, err := decodeRows(src, domain.QuestionHeader)
	if err != nil {
		return nil, nil, err
	}
	questions, skipped := parseQuestionRows(rows)
	return questions, mergeSkipped(unreadable, skipped), nil
}

func parseQuestionRows(rows []record) ([]domain.Question, []domain.RowError) {
	questions := make([]domain.Question, 0, len(rows))
	var skipped []domain.RowError
	for _, row := range rows {
		q, err := domain.ParseRow(row.fields)
		if err != nil {
			skipped = append(skipped, domain.RowError{Line: row.line, Err: err})
			continue
		}
		questions = append(questions, q)
	}
	return questions, skipped
}

// mergeSkipped orders CSV-level and row-level failures by line.
func mergeSkipped(a, b []domain.RowError) []domain.RowError {
	if len(a) == 0 {
		return b
	}
	out := append(append([]domain.RowError{}, a...), b...)
	sort.Slice(out, func(i, j int) bool { return out[i].Line < out[j].Line })
	return out
}
