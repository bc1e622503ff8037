package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"surveyengine/internal/model"
)

var ErrInvalidResponse = errors.New("response needs an id and a submission time")

// ResponseRepository persists submitted survey payloads.
// List returns responses newest first.
type ResponseRepository interface {
	Create(ctx context.Context, resp *model.Response) error
	List(ctx context.Context) ([]*model.Response, error)
}

func checkResponse(resp *model.Response) error {
	if resp == nil || resp.ID == "" || resp.SubmittedAt.IsZero() {
		return ErrInvalidResponse
	}
	return nil
}

// sortNewestFirst orders by submission time, ties by id descending
func sortNewestFirst(list []*model.Response) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.SubmittedAt.Equal(b.SubmittedAt) {
			return a.SubmittedAt.After(b.SubmittedAt)
		}
		return a.ID > b.ID
	})
}

type memoryResponseRepository struct {
	mu        sync.RWMutex
	responses []*model.Response
}

func NewMemoryResponseRepository() ResponseRepository {
	return &memoryResponseRepository{}
}

func (r *memoryResponseRepository) Create(_ context.Context, resp *model.Response) error {
	if err := checkResponse(resp); err != nil {
		return err
	}
	cp := *resp
	r.mu.Lock()
	r.responses = append(r.responses, &cp)
	r.mu.Unlock()
	return nil
}

func (r *memoryResponseRepository) List(_ context.Context) ([]*model.Response, error) {
	r.mu.RLock()
	list := make([]*model.Response, 0, len(r.responses))
	for _, resp := range r.responses {
		cp := *resp
		list = append(list, &cp)
	}
	r.mu.RUnlock()

	sortNewestFirst(list)
	return list, nil
}
