package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"surveyengine/internal/form"
)

// SubmitClient posts payloads to a remote storage collaborator.
// Any 2xx reply is a success; everything else is a *form.SubmissionTransportError.
type SubmitClient struct {
	url        string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	logger     *slog.Logger
}

var _ form.Submitter = (*SubmitClient)(nil)

func NewSubmitClient(url string, logger *slog.Logger) *SubmitClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubmitClient{
		url: url,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		maxRetries: 3,
		backoff:    time.Second,
		logger:     logger,
	}
}

// Submit sends payload as JSON. Only 429 replies are retried since the
// collaborator has not stored anything in that case.
func (c *SubmitClient) Submit(ctx context.Context, payload form.Payload) (form.SubmitResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return form.SubmitResult{}, fmt.Errorf("marshal payload: %w", err)
	}

	var lastErr *form.SubmissionTransportError
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return form.SubmitResult{}, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("submit request failed", "url", c.url, "attempt", attempt+1, "error", err)
			return form.SubmitResult{}, &form.SubmissionTransportError{Err: err}
		}
		respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		resp.Body.Close()
		if err != nil {
			return form.SubmitResult{}, &form.SubmissionTransportError{StatusCode: resp.StatusCode, Err: err}
		}

		var reply struct {
			Message string `json:"message"`
		}
		// the reply body is optional
		_ = json.Unmarshal(respBody, &reply)

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return form.SubmitResult{OK: true, Message: reply.Message}, nil
		}

		lastErr = &form.SubmissionTransportError{StatusCode: resp.StatusCode, Message: reply.Message}
		if resp.StatusCode != http.StatusTooManyRequests || attempt == c.maxRetries-1 {
			break
		}

		wait := retryAfter(resp.Header.Get("Retry-After"), c.backoff*time.Duration(math.Pow(2, float64(attempt))))
		c.logger.Info("submit rate limited", "attempt", attempt+1, "wait", wait)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return form.SubmitResult{}, &form.SubmissionTransportError{StatusCode: resp.StatusCode, Err: ctx.Err()}
		}
	}

	c.logger.Warn("submit rejected", "url", c.url, "status", lastErr.StatusCode, "message", lastErr.Message)
	return form.SubmitResult{}, lastErr
}

func retryAfter(header string, fallback time.Duration) time.Duration {
	if secs, err := strconv.Atoi(header); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
