package schema

import (
	"surveyengine/internal/model"
)

func validate(def *model.SurveySchema) error {
	if len(def.Blocks) == 0 {
		return loadErr("schema has no blocks")
	}

	seen := make(map[string]struct{})
	for bi, b := range def.Blocks {
		if b.Title == "" {
			return loadErr("block %d: missing title", bi)
		}
		if len(b.Questions) == 0 {
			return loadErr("block %q: no questions", b.Title)
		}
		for qi := range b.Questions {
			q := &b.Questions[qi]
			if q.ID == "" {
				return loadErr("block %q question %d: missing id", b.Title, qi)
			}
			if _, dup := seen[q.ID]; dup {
				return loadErr("duplicate question id %q", q.ID)
			}
			seen[q.ID] = struct{}{}
			if err := validateQuestion(q); err != nil {
				return err
			}
		}
	}

	return checkBranchCycles(def)
}

func validateQuestion(q *model.Question) error {
	if !q.Type.Valid() {
		return loadErr("question %q: unknown type %q", q.ID, q.Type)
	}
	if len(q.Label) == 0 {
		return loadErr("question %q: missing label", q.ID)
	}

	switch q.Type {
	case model.QuestionTypeSingle, model.QuestionTypeMultiple, model.QuestionTypeRanked:
		if len(q.Options) == 0 {
			return loadErr("question %q: %s question needs options", q.ID, q.Type)
		}
		if err := validateOptions(q.ID, "option", q.Options); err != nil {
			return err
		}
	case model.QuestionTypeMatrix:
		if len(q.Rows) == 0 || len(q.Columns) == 0 {
			return loadErr("question %q: matrix question needs rows and columns", q.ID)
		}
		if err := validateOptions(q.ID, "row", q.Rows); err != nil {
			return err
		}
		if err := validateOptions(q.ID, "column", q.Columns); err != nil {
			return err
		}
	}

	if len(q.Branches) > 0 && q.Type != model.QuestionTypeSingle {
		return loadErr("question %q: only single questions may branch", q.ID)
	}
	conds := make(map[string]struct{}, len(q.Branches))
	for i, br := range q.Branches {
		if br.Goto == "" {
			return loadErr("question %q branch %d: missing goto", q.ID, i)
		}
		if br.Goto == q.ID {
			return loadErr("question %q branch %d: branch to itself", q.ID, i)
		}
		// Two branches on one answer would make the active branch ambiguous.
		if _, dup := conds[br.When.Equals]; dup {
			return loadErr("question %q: more than one branch when equals %q", q.ID, br.When.Equals)
		}
		conds[br.When.Equals] = struct{}{}
	}
	return nil
}

func validateOptions(qid, kind string, opts []model.Option) error {
	values := make(map[string]struct{}, len(opts))
	for i, o := range opts {
		if o.Value == "" {
			return loadErr("question %q %s %d: missing value", qid, kind, i)
		}
		if _, dup := values[o.Value]; dup {
			return loadErr("question %q: duplicate %s value %q", qid, kind, o.Value)
		}
		values[o.Value] = struct{}{}
	}
	return nil
}

// checkBranchCycles rejects schemas where a branch target can (transitively)
// branch back to one of its triggers.
func checkBranchCycles(def *model.SurveySchema) error {
	edges := make(map[string][]string)
	for _, b := range def.Blocks {
		for _, q := range b.Questions {
			for _, br := range q.Branches {
				edges[q.ID] = append(edges[q.ID], br.Goto)
			}
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int)
	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case visiting:
			return loadErr("branch cycle through question %q", id)
		case done:
			return nil
		}
		state[id] = visiting
		for _, next := range edges[id] {
			if err := visit(next); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}

	for id := range edges {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}
