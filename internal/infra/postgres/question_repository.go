package postgres

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v4/pgxpool"
	"techify-quiz/internal/domain"
)

// QuestionRepository stores questions in the questions table, ordered by id.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// Load returns every well-formed row; rows that fail to parse are logged and skipped.
func (r *QuestionRepository) Load(ctx context.Context) ([]domain.Question, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, type, question, options::text, answer FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	skipped := 0
	for rows.Next() {
		var (
			id                             int64
			qType, prompt, options, answer string
		)
		if err := rows.Scan(&id, &qType, &prompt, &options, &answer); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q, err := domain.ParseRow([]string{qType, prompt, options, answer})
		if err != nil {
			log.Printf("questions: skipping id %d: %v", id, err)
			skipped++
			continue
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if skipped > 0 {
		log.Printf("questions: skipped %d malformed rows", skipped)
	}
	return questions, nil
}

func (r *QuestionRepository) Append(ctx context.Context, q domain.Question) error {
	options, err := q.EncodedOptions()
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO questions (type, question, options, answer) VALUES ($1, $2, $3::jsonb, $4)`,
		string(q.Type), q.Prompt, options, q.Answer)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}
