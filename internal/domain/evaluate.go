package domain

import "strings"

// Evaluate reports whether response is a correct answer to q.
//
// MultipleChoice compares against the text of the correct option, since users
// pick among option texts rather than keys. An unscoreable MultipleChoice
// question (answer key not among its options) never matches, empty responses
// included.
func Evaluate(q Question, response string) bool {
	switch q.Type {
	case MultipleChoice:
		correct, ok := q.Options[q.Answer]
		if !ok {
			return false
		}
		return response == correct
	case TrueFalse:
		return strings.EqualFold(response, q.Answer)
	case FillBlank:
		return strings.EqualFold(strings.TrimSpace(response), strings.TrimSpace(q.Answer))
	}
	return false
}
