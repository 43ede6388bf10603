package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when a login session token is unknown or expired.
	ErrSessionNotFound = errors.New("session not found")
	// ErrNoActiveQuiz is returned when a user records or submits answers before starting a quiz.
	ErrNoActiveQuiz = errors.New("no quiz in progress")
	// ErrMissingIdentity is returned when login is attempted without a name or email.
	ErrMissingIdentity = errors.New("name and email are required")
	// ErrQuestionIndex indicates a response was recorded for a question that does not exist.
	ErrQuestionIndex = errors.New("question index out of range")
	// ErrUnknownQuestionType indicates a row carries a type outside the supported set.
	ErrUnknownQuestionType = errors.New("unknown question type")
	// ErrMalformedRow indicates a source row could not be parsed.
	ErrMalformedRow = errors.New("malformed row")
	// ErrRemoteAppend indicates the remote question backend rejected or never received a question.
	ErrRemoteAppend = errors.New("remote append failed")
)

// RowError records why a single source row was skipped.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// RemoteError carries the status and verbatim body returned by the remote backend.
// StatusCode is zero when the request never got a response.
type RemoteError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("remote backend unreachable: %v", e.Err)
	}
	return fmt.Sprintf("remote backend returned %d: %s", e.StatusCode, e.Body)
}

func (e *RemoteError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrRemoteAppend, e.Err}
	}
	return []error{ErrRemoteAppend}
}
