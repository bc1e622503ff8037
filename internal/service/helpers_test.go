package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"surveyengine/internal/form"
	"surveyengine/internal/schema"
)

const testSurvey = `{
  "blocks": [
    {
      "title": "About you",
      "questions": [
        {
          "id": "q_pref",
          "type": "single",
          "required": true,
          "label": {"en": "Do you shop online?", "es": "¿Compra en línea?"},
          "options": [
            {"value": "yes", "label": {"en": "Yes", "es": "Sí"}},
            {"value": "no", "label": {"en": "No", "es": "No"}}
          ],
          "branches": [{"when": {"equals": "yes"}, "goto": "q_detail"}]
        },
        {"id": "q_detail", "type": "text", "required": true, "label": {"en": "Where?", "es": "¿Dónde?"}},
        {"id": "q_mail", "type": "email", "required": true, "label": {"en": "Email"}},
        {"id": "q_agree", "type": "consent", "label": {"en": "I agree"}}
      ]
    }
  ]
}`

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.Parse([]byte(testSurvey))
	require.NoError(t, err)
	return s
}

// recordingSubmitter captures payloads and answers with a fixed result
type recordingSubmitter struct {
	mu       sync.Mutex
	payloads []form.Payload
	result   form.SubmitResult
	err      error
}

func (r *recordingSubmitter) Submit(_ context.Context, p form.Payload) (form.SubmitResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads = append(r.payloads, p)
	return r.result, r.err
}

func findQuestion(v form.View, id string) (form.QuestionView, bool) {
	for _, b := range v.Blocks {
		for _, q := range b.Questions {
			if q.ID == id {
				return q, true
			}
		}
	}
	return form.QuestionView{}, false
}

func fillValid(t *testing.T, svc *FormService, id string) {
	t.Helper()
	ctx := context.Background()
	for _, ev := range []form.Event{
		{Type: form.EventSelect, Question: "q_pref", Value: "yes"},
		{Type: form.EventInput, Question: "q_detail", Value: " market "},
		{Type: form.EventInput, Question: "q_mail", Value: "ana@example.com"},
		{Type: form.EventConsent, Question: "q_agree", Checked: true},
	} {
		_, err := svc.Apply(ctx, id, ev)
		require.NoError(t, err)
	}
}
