package form

// Payload is the flat submission map sent to the storage collaborator
type Payload map[string]any

// ConsentKey is the payload key of a consent question
func ConsentKey(questionID string) string {
	return questionID + "_consent"
}

// Payload flattens the live questions. Branch targets that were torn down
// contribute nothing.
//
//	single   -> {qid: value}            (absent when unanswered)
//	matrix   -> {qid_row: column}       (per answered row)
//	multiple -> {qid_option: [option]}  or {qid_option: []} when unchecked
//	ranked   -> {qid_option: rank}
//	text, email, phone -> {qid: trimmed value}
//	consent  -> {qid_consent: bool}
func (f *Form) Payload() Payload {
	p := make(Payload)
	for _, rq := range f.reg.list() {
		switch w := rq.Widget.(type) {
		case *SingleWidget:
			if v := w.Selected(); v != "" {
				p[rq.ID] = v
			}
		case *MultipleWidget:
			for _, o := range w.options {
				values := []string{}
				if w.IsChecked(o) {
					values = append(values, o)
				}
				p[rq.ID+"_"+o] = values
			}
		case *MatrixWidget:
			for _, row := range w.rows {
				if col, ok := w.Selection(row); ok {
					p[w.GroupName(row)] = col
				}
			}
		case *RankedWidget:
			for v, rank := range w.Ranks() {
				p[rq.ID+"_"+v] = rank
			}
		case *EmailWidget:
			p[rq.ID] = w.Trimmed()
		case *PhoneWidget:
			p[rq.ID] = w.Trimmed()
		case *TextWidget:
			p[rq.ID] = w.Trimmed()
		case *ConsentWidget:
			p[ConsentKey(rq.ID)] = w.Checked()
		}
	}
	return p
}

// Prepare validates the form and, when valid, returns the payload to submit
func (f *Form) Prepare() (Payload, ValidationResult) {
	res := f.Validate()
	if !res.Valid() {
		return nil, res
	}
	return f.Payload(), res
}
