package form

import (
	"fmt"

	"surveyengine/internal/i18n"
	"surveyengine/internal/model"
)

// RankedInstruction is shown above ranked questions
const RankedInstruction = "Drag and drop to reorder from most important (top) to least important (bottom)"

// RenderContext gives the renderer the active locale and schema lookups
type RenderContext struct {
	Locale       string
	Resolver     *i18n.Resolver
	FindQuestion func(id string) *model.Question
}

func (c RenderContext) resolve(label model.LocalizedString) string {
	if c.Resolver == nil {
		return i18n.NewResolver("").Resolve(label, c.Locale)
	}
	return c.Resolver.Resolve(label, c.Locale)
}

// RenderedOption is an option with its label resolved for the active locale
type RenderedOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// RenderedQuestion is one live question instance
type RenderedQuestion struct {
	ID       string
	Type     model.QuestionType
	Label    string
	Required bool // read by the validator instead of the schema
	Block    int
	Options  []RenderedOption
	Rows     []RenderedOption
	Columns  []RenderedOption
	// BranchOrigin is the trigger question id when this question was
	// inserted by a branch, "" for top-level questions.
	BranchOrigin string
	Widget       Widget

	question *model.Question
}

// Question returns the schema question this instance was rendered from
func (rq *RenderedQuestion) Question() *model.Question {
	return rq.question
}

// IsBranchRender reports whether the question was inserted by a branch
func (rq *RenderedQuestion) IsBranchRender() bool {
	return rq.BranchOrigin != ""
}

// Render builds the widget for one question
func Render(q *model.Question, ctx RenderContext) (*RenderedQuestion, error) {
	rq := &RenderedQuestion{
		ID:       q.ID,
		Type:     q.Type,
		Label:    ctx.resolve(q.Label),
		Required: q.Required,
		question: q,
	}

	switch q.Type {
	case model.QuestionTypeSingle:
		rq.Options = resolveOptions(ctx, q.Options)
		rq.Widget = newSingleWidget(q.ID, optionValues(q.Options))
	case model.QuestionTypeMultiple:
		rq.Options = resolveOptions(ctx, q.Options)
		rq.Widget = newMultipleWidget(q.ID, optionValues(q.Options))
	case model.QuestionTypeMatrix:
		rq.Rows = resolveOptions(ctx, q.Rows)
		rq.Columns = resolveOptions(ctx, q.Columns)
		rq.Widget = newMatrixWidget(q.ID, optionValues(q.Rows), optionValues(q.Columns))
	case model.QuestionTypeRanked:
		rq.Options = resolveOptions(ctx, q.Options)
		rq.Widget = newRankedWidget(q.ID, optionValues(q.Options))
	case model.QuestionTypeEmail:
		rq.Widget = &EmailWidget{textField{id: q.ID}}
	case model.QuestionTypePhone:
		rq.Widget = &PhoneWidget{textField{id: q.ID}}
	case model.QuestionTypeText:
		rq.Widget = &TextWidget{textField{id: q.ID}}
	case model.QuestionTypeConsent:
		// consent must always be affirmed, whatever the schema says
		rq.Required = true
		rq.Widget = &ConsentWidget{id: q.ID}
	default:
		return nil, fmt.Errorf("render %q: unsupported question type %q", q.ID, q.Type)
	}
	return rq, nil
}

func resolveOptions(ctx RenderContext, opts []model.Option) []RenderedOption {
	out := make([]RenderedOption, len(opts))
	for i, o := range opts {
		out[i] = RenderedOption{Value: o.Value, Label: ctx.resolve(o.Label)}
	}
	return out
}

func optionValues(opts []model.Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Value
	}
	return out
}
