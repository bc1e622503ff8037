package form

// branchEngine runs one state machine per branching single question.
// A trigger is either collapsed (active == "") or branch-active(goto).
type branchEngine struct {
	f      *Form
	active map[string]string // trigger id -> live target id
	owner  map[string]string // live target id -> trigger id
}

func newBranchEngine(f *Form) *branchEngine {
	return &branchEngine{
		f:      f,
		active: make(map[string]string),
		owner:  make(map[string]string),
	}
}

// wire subscribes to answer changes of rq when it owns branches
func (e *branchEngine) wire(rq *RenderedQuestion) {
	w, ok := rq.Widget.(*SingleWidget)
	if !ok || len(rq.question.Branches) == 0 {
		return
	}
	trigger := rq.ID
	e.active[trigger] = ""
	w.OnAnswerChanged(func(value string) {
		e.onAnswerChanged(trigger, value)
	})
}

func (e *branchEngine) onAnswerChanged(trigger, value string) {
	rq, ok := e.f.reg.get(trigger)
	if !ok {
		return
	}

	target := ""
	matches := 0
	for _, br := range rq.question.Branches {
		if br.When.Equals == value {
			target = br.Goto
			matches++
		}
	}

	// Re-answering always discards the previous target, even when the new
	// answer resolves to the same branch.
	e.collapse(trigger)
	if matches != 1 {
		return
	}

	q := e.f.ctx.FindQuestion(target)
	if q == nil {
		e.f.logger.Warn("branch target not found", "trigger", trigger, "goto", target)
		e.f.observer.BranchMissing(trigger, target)
		return
	}

	// A target lives under one trigger at a time; the latest activation wins.
	if other, live := e.owner[target]; live {
		e.collapse(other)
	}

	next, err := Render(q, e.f.ctx)
	if err != nil {
		e.f.logger.Error("render branch target", "trigger", trigger, "goto", target, "error", err)
		return
	}
	next.BranchOrigin = trigger
	next.Block = rq.Block

	e.f.reg.insertAfter(trigger, next)
	e.active[trigger] = target
	e.owner[target] = trigger
	e.wire(next)

	e.f.logger.Debug("branch activated", "trigger", trigger, "goto", target)
	e.f.observer.BranchChanged(trigger, target, true)
}

// collapse tears down the live target of trigger, if any
func (e *branchEngine) collapse(trigger string) {
	target := e.active[trigger]
	if target == "" {
		return
	}
	e.teardown(target)
	e.active[trigger] = ""
	e.f.observer.BranchChanged(trigger, target, false)
}

// teardown removes a branch target, cascading into branches it owns
func (e *branchEngine) teardown(id string) {
	if _, isTrigger := e.active[id]; isTrigger {
		e.collapse(id)
		delete(e.active, id)
	}
	e.f.reg.remove(id)
	delete(e.owner, id)
	delete(e.f.errors, id)
}

// state returns the live target of trigger and whether trigger is wired
func (e *branchEngine) state(trigger string) (string, bool) {
	target, ok := e.active[trigger]
	return target, ok
}
