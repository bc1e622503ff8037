package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyengine/internal/form"
	"surveyengine/internal/model"
)

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestObserverCounters(t *testing.T) {
	c := New()

	c.BranchChanged("q_pref", "q_detail", true)
	c.BranchChanged("q_pref", "q_detail", false)
	c.BranchChanged("q_pref", "q_detail", true)
	c.BranchMissing("q_pref", "nowhere")
	c.ValidationFailed(model.QuestionTypeEmail, form.KindFormat)

	body := scrape(t, c)
	assert.Contains(t, body, `survey_branch_transitions_total{direction="activate"} 2`)
	assert.Contains(t, body, `survey_branch_transitions_total{direction="collapse"} 1`)
	assert.Contains(t, body, "survey_branch_missing_target_total 1")
	assert.Contains(t, body, `survey_validation_errors_total{kind="format",question_type="email"} 1`)
}

func TestHandler(t *testing.T) {
	c := New()
	c.SessionsStarted.Inc()
	c.Submissions.WithLabelValues(OutcomeOK).Inc()

	body := scrape(t, c)
	assert.Contains(t, body, "survey_sessions_started_total 1")
	assert.Contains(t, body, `survey_submissions_total{outcome="ok"} 1`)
}
