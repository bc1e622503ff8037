package form

import "slices"

// registry maps question id to its live instance and keeps document order
type registry struct {
	order []string
	byID  map[string]*RenderedQuestion
}

func newRegistry() *registry {
	return &registry{byID: make(map[string]*RenderedQuestion)}
}

func (r *registry) get(id string) (*RenderedQuestion, bool) {
	rq, ok := r.byID[id]
	return rq, ok
}

func (r *registry) add(rq *RenderedQuestion) {
	r.order = append(r.order, rq.ID)
	r.byID[rq.ID] = rq
}

// insertAfter places rq right after the question afterID
func (r *registry) insertAfter(afterID string, rq *RenderedQuestion) {
	idx := slices.Index(r.order, afterID)
	if idx < 0 {
		r.add(rq)
		return
	}
	r.order = slices.Insert(r.order, idx+1, rq.ID)
	r.byID[rq.ID] = rq
}

// remove drops the instance and its state, detaching its listeners
func (r *registry) remove(id string) *RenderedQuestion {
	rq, ok := r.byID[id]
	if !ok {
		return nil
	}
	rq.Widget.detach()
	delete(r.byID, id)
	if idx := slices.Index(r.order, id); idx >= 0 {
		r.order = slices.Delete(r.order, idx, idx+1)
	}
	return rq
}

func (r *registry) list() []*RenderedQuestion {
	out := make([]*RenderedQuestion, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

func (r *registry) detachAll() {
	for _, rq := range r.byID {
		rq.Widget.detach()
	}
}
