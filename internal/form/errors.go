package form

import (
	"errors"
	"fmt"
)

var (
	ErrNotRendered   = errors.New("question is not rendered")
	ErrWrongType     = errors.New("event does not apply to this question type")
	ErrUnknownOption = errors.New("unknown option")
	ErrInvalidOrder  = errors.New("order is not a permutation of the options")
	ErrUnknownEvent  = errors.New("unknown event type")
)

// ErrorKind distinguishes missing answers from malformed ones
type ErrorKind string

const (
	KindRequired ErrorKind = "required"
	KindFormat   ErrorKind = "format" // email/phone pattern mismatch
)

// ValidationError is a field-scoped, recoverable validation failure
type ValidationError struct {
	QuestionID string    `json:"questionId"`
	Kind       ErrorKind `json:"kind"`
	Message    string    `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.QuestionID, e.Message)
}

// IsFormat reports whether the error is an email/phone format error
func (e *ValidationError) IsFormat() bool {
	return e.Kind == KindFormat
}

// SubmissionTransportError is a network failure or non-2xx reply from the
// storage collaborator. The form state is kept so the user can retry.
type SubmissionTransportError struct {
	StatusCode int // 0 for network failures
	Message    string
	Err        error
}

func (e *SubmissionTransportError) Error() string {
	switch {
	case e.Err != nil:
		return "submission failed: " + e.Err.Error()
	case e.Message != "":
		return fmt.Sprintf("submission failed: status %d: %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("submission failed: status %d", e.StatusCode)
	}
}

func (e *SubmissionTransportError) Unwrap() error {
	return e.Err
}
