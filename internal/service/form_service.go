package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"surveyengine/internal/cache"
	"surveyengine/internal/form"
	"surveyengine/internal/i18n"
	"surveyengine/internal/metrics"
	"surveyengine/internal/model"
	"surveyengine/internal/schema"
)

var (
	ErrSessionNotFound = errors.New("form session not found")
	ErrSubmitInFlight  = errors.New("a submission for this form is already in flight")
)

// SubmitOutcome is what the page shows after a submit attempt
type SubmitOutcome struct {
	OK      bool              `json:"ok"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
	View    form.View         `json:"view"`
}

type formSession struct {
	mu   sync.Mutex // one event handler at a time
	form *form.Form
	info model.SessionInfo
}

// FormService owns the live form instances, one per session
type FormService struct {
	schema      *schema.Schema
	resolver    *i18n.Resolver
	submitter   form.Submitter
	locker      cache.Locker
	cache       cache.SessionCache
	metrics     *metrics.Collector
	broadcaster Broadcaster
	logger      *slog.Logger

	ttl           time.Duration
	submitTimeout time.Duration
	formOpts      []form.Option
	now           func() time.Time

	mu       sync.RWMutex
	sessions map[string]*formSession
}

type FormServiceConfig struct {
	Schema     *schema.Schema
	Resolver   *i18n.Resolver
	Submitter  form.Submitter
	Locker     cache.Locker       // defaults to an in-process lock
	Cache      cache.SessionCache // defaults to an in-process map
	Metrics    *metrics.Collector // defaults to an unexported registry
	Logger     *slog.Logger
	SessionTTL time.Duration
	FormOpts   []form.Option // extra options for every new form
}

func NewFormService(cfg FormServiceConfig) *FormService {
	s := &FormService{
		schema:        cfg.Schema,
		resolver:      cfg.Resolver,
		submitter:     cfg.Submitter,
		locker:        cfg.Locker,
		cache:         cfg.Cache,
		metrics:       cfg.Metrics,
		broadcaster:   nopBroadcaster{},
		logger:        cfg.Logger,
		ttl:           cfg.SessionTTL,
		submitTimeout: 30 * time.Second,
		formOpts:      cfg.FormOpts,
		now:           time.Now,
		sessions:      make(map[string]*formSession),
	}
	if s.resolver == nil {
		s.resolver = i18n.NewResolver(i18n.DefaultLocale)
	}
	if s.locker == nil {
		s.locker = cache.NewMemoryLocker()
	}
	if s.cache == nil {
		s.cache = cache.NewMemorySessionCache()
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.ttl <= 0 {
		s.ttl = 2 * time.Hour
	}
	return s
}

// SetBroadcaster sets the WebSocket broadcaster
func (s *FormService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Start creates a form instance for the requested locale. Randomized
// blocks are shuffled here, once for the lifetime of the session.
func (s *FormService) Start(ctx context.Context, rawLocale string) (*model.SessionInfo, form.View, error) {
	locale := i18n.ParseLocale(rawLocale, s.resolver.Default())
	id := uuid.NewString()
	logger := s.logger.With("session", id)

	opts := []form.Option{
		form.WithResolver(s.resolver),
		form.WithLogger(logger),
		form.WithObserver(s.metrics),
	}
	opts = append(opts, s.formOpts...)

	now := s.now()
	info := model.SessionInfo{
		ID:           id,
		Locale:       locale,
		Status:       model.SessionActive,
		StartedAt:    now,
		LastActiveAt: now,
	}
	sess := &formSession{
		form: form.New(s.schema, locale, opts...),
		info: info,
	}
	view := sess.form.View()

	s.mu.Lock()
	s.sessions[id] = sess
	s.metrics.SessionsActive.Set(float64(len(s.sessions)))
	s.mu.Unlock()
	s.metrics.SessionsStarted.Inc()

	// once in the map the session belongs to its lock; only copies leave here
	s.publish(ctx, info)
	logger.Info("form session started", "locale", locale)
	return &info, view, nil
}

func (s *FormService) get(id string) (*formSession, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// publish mirrors session metadata; failures only cost visibility
func (s *FormService) publish(ctx context.Context, info model.SessionInfo) {
	if err := s.cache.Set(ctx, &info, s.ttl); err != nil {
		s.logger.Warn("mirror session", "session", info.ID, "error", err)
	}
}

// touch must be called with sess.mu held
func (s *FormService) touch(sess *formSession) {
	sess.info.LastActiveAt = s.now()
}

// Info returns the session metadata
func (s *FormService) Info(id string) (*model.SessionInfo, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	info := sess.info
	sess.mu.Unlock()
	return &info, nil
}

// View returns the current state of the form
func (s *FormService) View(_ context.Context, id string) (form.View, error) {
	sess, err := s.get(id)
	if err != nil {
		return form.View{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.touch(sess)
	return sess.form.View(), nil
}

// Apply feeds one interaction event into the form and returns the new view.
// Edits are refused while a submission is in flight, since the reset that
// follows a successful submit would discard them.
func (s *FormService) Apply(_ context.Context, id string, ev form.Event) (form.View, error) {
	sess, err := s.get(id)
	if err != nil {
		return form.View{}, err
	}

	sess.mu.Lock()
	if sess.info.Status == model.SessionSubmitting {
		sess.mu.Unlock()
		s.metrics.EventsApplied.WithLabelValues(string(ev.Type), "in_flight").Inc()
		return form.View{}, ErrSubmitInFlight
	}
	err = sess.form.Apply(ev)
	s.touch(sess)
	view := sess.form.View()
	sess.mu.Unlock()

	if err != nil {
		s.metrics.EventsApplied.WithLabelValues(string(ev.Type), "error").Inc()
		return form.View{}, err
	}
	s.metrics.EventsApplied.WithLabelValues(string(ev.Type), "ok").Inc()
	s.broadcaster.BroadcastView(id, view)
	return view, nil
}

// Reset clears every answer, keeping the randomized order
func (s *FormService) Reset(_ context.Context, id string) (form.View, error) {
	sess, err := s.get(id)
	if err != nil {
		return form.View{}, err
	}

	sess.mu.Lock()
	if sess.info.Status == model.SessionSubmitting {
		sess.mu.Unlock()
		return form.View{}, ErrSubmitInFlight
	}
	sess.form.Reset()
	s.touch(sess)
	view := sess.form.View()
	sess.mu.Unlock()

	s.broadcaster.BroadcastView(id, view)
	return view, nil
}

// Submit validates the form and, when valid, hands the payload to the
// storage collaborator. Validation and transport failures are reported in
// the outcome with the form state preserved; on success the form resets.
// The collaborator call runs outside the session lock so the page stays
// responsive, guarded by the submit lock against a second concurrent submit.
func (s *FormService) Submit(ctx context.Context, id string) (*SubmitOutcome, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.info.Status == model.SessionSubmitting {
		sess.mu.Unlock()
		s.metrics.Submissions.WithLabelValues(metrics.OutcomeInFlight).Inc()
		return nil, ErrSubmitInFlight
	}
	s.touch(sess)
	payload, result := sess.form.Prepare()
	if !result.Valid() {
		out := &SubmitOutcome{
			Message: form.BannerInvalid,
			Errors:  result.Messages(),
			View:    sess.form.View(),
		}
		sess.mu.Unlock()
		s.metrics.Submissions.WithLabelValues(metrics.OutcomeInvalid).Inc()
		s.broadcaster.BroadcastView(id, out.View)
		return out, nil
	}

	release, ok, err := s.locker.TryAcquire(ctx, cache.SubmitLockKey(id), s.submitTimeout)
	if err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	if !ok {
		sess.mu.Unlock()
		s.metrics.Submissions.WithLabelValues(metrics.OutcomeInFlight).Inc()
		return nil, ErrSubmitInFlight
	}
	defer release()
	sess.info.Status = model.SessionSubmitting
	sess.mu.Unlock()

	subCtx, cancel := context.WithTimeout(ctx, s.submitTimeout)
	res, subErr := s.submitter.Submit(subCtx, payload)
	cancel()

	sess.mu.Lock()
	defer sess.mu.Unlock()

	out := &SubmitOutcome{}
	var transportErr *form.SubmissionTransportError
	switch {
	case subErr == nil && res.OK:
		sess.form.Reset()
		sess.info.Status = model.SessionSubmitted
		out.OK = true
		out.Message = res.Message
		s.metrics.Submissions.WithLabelValues(metrics.OutcomeOK).Inc()
		s.logger.Info("form submitted", "session", id, "fields", len(payload))
	case subErr == nil, errors.As(subErr, &transportErr):
		sess.info.Status = model.SessionActive
		out.Message = form.BannerInvalid
		s.metrics.Submissions.WithLabelValues(metrics.OutcomeTransport).Inc()
		s.logger.Warn("submission failed", "session", id, "error", subErr)
	default:
		sess.info.Status = model.SessionActive
		return nil, subErr
	}
	out.View = sess.form.View()
	s.publish(ctx, sess.info)
	s.broadcaster.BroadcastView(id, out.View)
	return out, nil
}

// End drops a session
func (s *FormService) End(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.metrics.SessionsActive.Set(float64(len(s.sessions)))
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.broadcaster.DisconnectSession(id)
	if err := s.cache.Delete(ctx, id); err != nil {
		s.logger.Warn("drop mirrored session", "session", id, "error", err)
	}
	return nil
}

// Sweep drops sessions idle for longer than the TTL and returns how many
func (s *FormService) Sweep(ctx context.Context) int {
	cutoff := s.now().Add(-s.ttl)

	var expired []string
	s.mu.RLock()
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.info.Status != model.SessionSubmitting && sess.info.LastActiveAt.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			expired = append(expired, id)
		}
	}
	s.mu.RUnlock()

	for _, id := range expired {
		if err := s.End(ctx, id); err == nil {
			s.metrics.SessionsExpired.Inc()
			s.logger.Info("form session expired", "session", id)
		}
	}
	return len(expired)
}

// RunSweeper sweeps idle sessions every interval until ctx is done
func (s *FormService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}
