package form

import "context"

// SubmitResult is the storage collaborator's answer to a submission
type SubmitResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// Submitter hands a payload to the storage collaborator. A transport
// failure or rejection is reported as *SubmissionTransportError.
type Submitter interface {
	Submit(ctx context.Context, payload Payload) (SubmitResult, error)
}

// SubmitterFunc adapts a function to Submitter
type SubmitterFunc func(ctx context.Context, payload Payload) (SubmitResult, error)

func (fn SubmitterFunc) Submit(ctx context.Context, payload Payload) (SubmitResult, error) {
	return fn(ctx, payload)
}
