package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"surveyengine/internal/form"
	"surveyengine/internal/model"
)

const namespace = "survey"

// Submission outcomes
const (
	OutcomeOK        = "ok"
	OutcomeInvalid   = "invalid"
	OutcomeTransport = "transport_error"
	OutcomeInFlight  = "in_flight"
)

// Collector holds the engine metrics on its own registry.
// It implements form.Observer.
type Collector struct {
	registry *prometheus.Registry

	SessionsStarted   prometheus.Counter
	SessionsActive    prometheus.Gauge
	SessionsExpired   prometheus.Counter
	EventsApplied     *prometheus.CounterVec
	BranchTransitions *prometheus.CounterVec
	BranchMisses      prometheus.Counter
	ValidationErrors  *prometheus.CounterVec
	Submissions       *prometheus.CounterVec
	ResponsesStored   *prometheus.CounterVec
}

var _ form.Observer = (*Collector)(nil)

func New() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Form sessions created",
		}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Form sessions currently held in memory",
		}),
		SessionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_expired_total",
			Help:      "Idle form sessions swept",
		}),
		EventsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_applied_total",
			Help:      "Interaction events applied to forms",
		}, []string{"type", "status"}),
		BranchTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "branch_transitions_total",
			Help:      "Conditional questions rendered or torn down",
		}, []string{"direction"}),
		BranchMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "branch_missing_target_total",
			Help:      "Matched branches whose goto question does not exist",
		}),
		ValidationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Failed field validations",
		}, []string{"question_type", "kind"}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Form submit attempts by outcome",
		}, []string{"outcome"}),
		ResponsesStored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_stored_total",
			Help:      "Payloads received by the storage endpoint",
		}, []string{"status"}),
	}

	reg.MustRegister(
		c.SessionsStarted,
		c.SessionsActive,
		c.SessionsExpired,
		c.EventsApplied,
		c.BranchTransitions,
		c.BranchMisses,
		c.ValidationErrors,
		c.Submissions,
		c.ResponsesStored,
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) BranchChanged(_, _ string, active bool) {
	dir := "collapse"
	if active {
		dir = "activate"
	}
	c.BranchTransitions.WithLabelValues(dir).Inc()
}

func (c *Collector) BranchMissing(_, _ string) {
	c.BranchMisses.Inc()
}

func (c *Collector) ValidationFailed(qt model.QuestionType, kind form.ErrorKind) {
	c.ValidationErrors.WithLabelValues(string(qt), string(kind)).Inc()
}
