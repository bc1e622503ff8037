package form

import (
	"testing"

	"github.com/stretchr/testify/require"

	"surveyengine/internal/model"
	"surveyengine/internal/schema"
)

const branchSurvey = `{
  "blocks": [
    {
      "title": "Preferences",
      "questions": [
        {
          "id": "q_pref",
          "type": "single",
          "required": true,
          "label": {"en": "Do you like it?", "es": "¿Le gusta?"},
          "options": [
            {"value": "yes", "label": {"en": "Yes", "es": "Sí"}},
            {"value": "no", "label": {"en": "No", "es": "No"}}
          ],
          "branches": [{"when": {"equals": "yes"}, "goto": "q_detail"}]
        },
        {"id": "q_after", "type": "text", "label": {"en": "After"}},
        {"id": "q_detail", "type": "text", "required": true, "label": {"en": "Tell us more", "es": "Cuéntenos más"}}
      ]
    }
  ]
}`

const allTypesSurvey = `{
  "blocks": [
    {
      "title": "All",
      "questions": [
        {"id": "single", "type": "single", "required": true, "label": {"en": "S"},
         "options": [{"value": "a", "label": {"en": "A"}}, {"value": "b", "label": {"en": "B"}}]},
        {"id": "multi", "type": "multiple", "required": true, "label": {"en": "M"},
         "options": [{"value": "a", "label": {"en": "A"}}, {"value": "b", "label": {"en": "B"}}, {"value": "c", "label": {"en": "C"}}]},
        {"id": "grid", "type": "matrix", "required": true, "label": {"en": "G"},
         "rows": [{"value": "r1", "label": {"en": "R1"}}, {"value": "r2", "label": {"en": "R2"}}],
         "columns": [{"value": "c1", "label": {"en": "C1"}}, {"value": "c2", "label": {"en": "C2"}}]},
        {"id": "rank", "type": "ranked", "required": true, "label": {"en": "R"},
         "options": [{"value": "x", "label": {"en": "X"}}, {"value": "y", "label": {"en": "Y"}}, {"value": "z", "label": {"en": "Z"}}]},
        {"id": "mail", "type": "email", "required": true, "label": {"en": "E"}},
        {"id": "tel", "type": "phone", "required": true, "label": {"en": "P"}},
        {"id": "agree", "type": "consent", "label": {"en": "I agree"}},
        {"id": "note", "type": "text", "required": true, "label": {"en": "N"}}
      ]
    }
  ]
}`

func mustSchema(t *testing.T, doc string) *schema.Schema {
	t.Helper()
	s, err := schema.Parse([]byte(doc))
	require.NoError(t, err)
	return s
}

func renderedIDs(f *Form) []string {
	var ids []string
	for _, rq := range f.Rendered() {
		ids = append(ids, rq.ID)
	}
	return ids
}

type branchChange struct {
	trigger, target string
	active          bool
}

type recordingObserver struct {
	changes []branchChange
	missing []string
	failed  map[model.QuestionType]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{failed: make(map[model.QuestionType]int)}
}

func (o *recordingObserver) BranchChanged(trigger, target string, active bool) {
	o.changes = append(o.changes, branchChange{trigger, target, active})
}

func (o *recordingObserver) BranchMissing(trigger, target string) {
	o.missing = append(o.missing, target)
}

func (o *recordingObserver) ValidationFailed(qt model.QuestionType, _ ErrorKind) {
	o.failed[qt]++
}
