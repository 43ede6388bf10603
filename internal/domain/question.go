package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// QuestionType is the exact literal stored in the `type` column of a question row.
type QuestionType string

const (
	MultipleChoice QuestionType = "Multiple Choice"
	TrueFalse      QuestionType = "True or False"
	FillBlank      QuestionType = "Fill in the Blank"
)

// QuestionHeader is the required header row of a question source.
var QuestionHeader = []string{"type", "question", "options", "answer"}

// ParseQuestionType matches raw case-sensitively against the supported literals.
func ParseQuestionType(raw string) (QuestionType, error) {
	switch t := QuestionType(raw); t {
	case MultipleChoice, TrueFalse, FillBlank:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownQuestionType, raw)
}

// trueFalseOptions is the fixed option set for TrueFalse questions.
func trueFalseOptions() map[string]string {
	return map[string]string{"A": "True", "B": "False"}
}

// Question is a single quiz item. Treat it as immutable once constructed.
type Question struct {
	Type    QuestionType      `json:"type"`
	Prompt  string            `json:"question"`
	Options map[string]string `json:"options"`
	Answer  string            `json:"answer"`
}

// NewQuestion builds a Question, forcing the conventional option set for
// TrueFalse and clearing options for FillBlank.
func NewQuestion(t QuestionType, prompt string, options map[string]string, answer string) (Question, error) {
	if _, err := ParseQuestionType(string(t)); err != nil {
		return Question{}, err
	}
	q := Question{Type: t, Prompt: prompt, Answer: answer}
	switch t {
	case TrueFalse:
		q.Options = trueFalseOptions()
	case FillBlank:
		q.Options = map[string]string{}
	default:
		q.Options = make(map[string]string, len(options))
		for k, v := range options {
			q.Options[k] = v
		}
	}
	return q, nil
}

// ParseRow turns a four-field source row into a Question. It never returns a
// partially populated value: any failure yields the zero Question. Answers of
// MultipleChoice and TrueFalse rows are trimmed; FillBlank answers are kept
// as stored since evaluation trims them.
func ParseRow(row []string) (Question, error) {
	if len(row) != len(QuestionHeader) {
		return Question{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRow, len(QuestionHeader), len(row))
	}
	t, err := ParseQuestionType(row[0])
	if err != nil {
		return Question{}, err
	}
	options := map[string]string{}
	if row[2] != "" {
		if err := json.Unmarshal([]byte(row[2]), &options); err != nil {
			return Question{}, fmt.Errorf("%w: options: %v", ErrMalformedRow, err)
		}
	}
	if options == nil {
		options = map[string]string{}
	}
	answer := row[3]
	if t != FillBlank {
		// Keys and True/False literals compare exactly; stray padding never matches.
		answer = strings.TrimSpace(answer)
	}
	return Question{Type: t, Prompt: row[1], Options: options, Answer: answer}, nil
}

// Row encodes q in source-row order with options as a JSON object.
func (q Question) Row() ([]string, error) {
	options, err := q.EncodedOptions()
	if err != nil {
		return nil, err
	}
	return []string{string(q.Type), q.Prompt, options, q.Answer}, nil
}

// EncodedOptions returns the options mapping as JSON, `{}` when empty.
func (q Question) EncodedOptions() (string, error) {
	if len(q.Options) == 0 {
		return "{}", nil
	}
	raw, err := json.Marshal(q.Options)
	if err != nil {
		return "", fmt.Errorf("encode options: %w", err)
	}
	return string(raw), nil
}

// Scoreable reports whether any response can be judged correct. A
// MultipleChoice question whose answer key is missing from its options is not.
func (q Question) Scoreable() bool {
	if q.Type != MultipleChoice {
		return true
	}
	_, ok := q.Options[q.Answer]
	return ok
}

// OptionKeys returns the option keys in display order.
func (q Question) OptionKeys() []string {
	keys := make([]string, 0, len(q.Options))
	for k := range q.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
