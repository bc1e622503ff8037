package form

import (
	"log/slog"
	"math/rand/v2"

	"surveyengine/internal/i18n"
	"surveyengine/internal/schema"
)

// Form is one rendered instance of a survey
type Form struct {
	schema   *schema.Schema
	locale   string
	ctx      RenderContext
	intN     func(n int) int
	logger   *slog.Logger
	observer Observer

	// top-level render order per block, fixed at construction
	blockOrder [][]string

	reg      *registry
	branches *branchEngine
	errors   map[string]*ValidationError
}

// Option configures a Form
type Option func(*Form)

// WithRand makes randomization reproducible
func WithRand(r *rand.Rand) Option {
	return func(f *Form) { f.intN = r.IntN }
}

// WithResolver sets the localization resolver
func WithResolver(r *i18n.Resolver) Option {
	return func(f *Form) { f.ctx.Resolver = r }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(f *Form) { f.logger = l }
}

// WithObserver sets the engine event observer
func WithObserver(o Observer) Option {
	return func(f *Form) { f.observer = o }
}

// New runs the render pass: shuffles flagged blocks once, renders every
// top-level question and wires the branch triggers.
func New(s *schema.Schema, locale string, opts ...Option) *Form {
	f := &Form{
		schema:   s,
		locale:   locale,
		intN:     rand.IntN,
		logger:   slog.Default(),
		observer: nopObserver{},
	}
	f.ctx = RenderContext{
		Locale:       locale,
		Resolver:     i18n.NewResolver(""),
		FindQuestion: s.FindQuestion,
	}
	for _, opt := range opts {
		opt(f)
	}

	for _, b := range s.Blocks() {
		ids := make([]string, 0, len(b.Questions))
		for _, q := range b.Questions {
			if s.IsBranchTarget(q.ID) {
				continue
			}
			ids = append(ids, q.ID)
		}
		if b.RandomizeQuestions {
			shuffle(ids, f.intN)
		}
		f.blockOrder = append(f.blockOrder, ids)
	}

	f.renderTopLevel()
	return f
}

func (f *Form) renderTopLevel() {
	f.reg = newRegistry()
	f.branches = newBranchEngine(f)
	f.errors = make(map[string]*ValidationError)

	for bi, ids := range f.blockOrder {
		for _, id := range ids {
			q := f.schema.FindQuestion(id)
			rq, err := Render(q, f.ctx)
			if err != nil {
				f.logger.Error("render question", "question", id, "error", err)
				continue
			}
			rq.Block = bi
			f.reg.add(rq)
			f.branches.wire(rq)
		}
	}
}

// Reset discards every answer and branch, keeping the randomized order
func (f *Form) Reset() {
	f.reg.detachAll()
	f.renderTopLevel()
}

// Locale returns the locale the form was rendered for
func (f *Form) Locale() string {
	return f.locale
}

// Schema returns the schema the form was rendered from
func (f *Form) Schema() *schema.Schema {
	return f.schema
}

// Rendered returns the live questions in document order
func (f *Form) Rendered() []*RenderedQuestion {
	return f.reg.list()
}

// Lookup returns the live instance of question id
func (f *Form) Lookup(id string) (*RenderedQuestion, bool) {
	return f.reg.get(id)
}

// BranchTarget returns the live branch target of trigger ("" when
// collapsed) and whether trigger is a rendered branch trigger.
func (f *Form) BranchTarget(trigger string) (string, bool) {
	return f.branches.state(trigger)
}

// Errors returns the current per-field messages: the last validation pass
// plus live email/phone checks since then.
func (f *Form) Errors() map[string]string {
	out := make(map[string]string, len(f.errors))
	for id, e := range f.errors {
		out[id] = e.Message
	}
	return out
}
