package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"surveyengine/internal/form"
	"surveyengine/internal/model"
	"surveyengine/internal/repository"
)

// Storage replies
const (
	MsgResponseSaved  = "Survey response saved to database!"
	MsgResponseFailed = "Failed to save response"
)

// ResponseService is the storage collaborator: it persists submitted
// payloads with a server-assigned id and timestamp.
type ResponseService struct {
	repo   repository.ResponseRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewResponseService(repo repository.ResponseRepository, logger *slog.Logger) *ResponseService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResponseService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Save stores data as a new response. An empty payload is a valid
// submission of a form whose questions were all optional and unanswered.
func (s *ResponseService) Save(ctx context.Context, data map[string]any) (*model.Response, error) {
	if data == nil {
		data = map[string]any{}
	}
	resp := &model.Response{
		ID:          uuid.NewString(),
		SubmittedAt: s.now().UTC(),
		Data:        data,
	}
	if err := s.repo.Create(ctx, resp); err != nil {
		s.logger.Error("store response", "error", err)
		return nil, fmt.Errorf("store response: %w", err)
	}
	s.logger.Info("response stored", "id", resp.ID, "fields", len(data))
	return resp, nil
}

// List returns stored responses newest first
func (s *ResponseService) List(ctx context.Context) ([]*model.Response, error) {
	return s.repo.List(ctx)
}

// Submitter hands payloads straight to the store, for deployments without
// a remote collaborator. Store failures surface as transport errors, the same
// as a 500 from the HTTP endpoint would.
func (s *ResponseService) Submitter() form.Submitter {
	return form.SubmitterFunc(func(ctx context.Context, payload form.Payload) (form.SubmitResult, error) {
		if _, err := s.Save(ctx, payload); err != nil {
			return form.SubmitResult{}, &form.SubmissionTransportError{
				StatusCode: 500,
				Message:    MsgResponseFailed,
				Err:        err,
			}
		}
		return form.SubmitResult{OK: true, Message: MsgResponseSaved}, nil
	})
}
