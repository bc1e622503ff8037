package form

// View is a JSON snapshot of the rendered form for UI adapters
type View struct {
	Locale string      `json:"locale"`
	Blocks []BlockView `json:"blocks"`
}

type BlockView struct {
	Title     string         `json:"title"`
	Questions []QuestionView `json:"questions"`
}

type QuestionView struct {
	ID           string       `json:"id"`
	Type         string       `json:"type"`
	Label        string       `json:"label"`
	Required     bool         `json:"required"`
	BranchOrigin string       `json:"branchOrigin,omitempty"`
	Instruction  string       `json:"instruction,omitempty"`
	Options      []OptionView `json:"options,omitempty"`
	Rows         []RowView    `json:"rows,omitempty"`
	Columns      []OptionView `json:"columns,omitempty"`
	Value        string       `json:"value,omitempty"`
	Checked      bool         `json:"checked,omitempty"`
	Error        string       `json:"error,omitempty"`
}

type OptionView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
	Rank     int    `json:"rank,omitempty"` // ranked questions only
}

type RowView struct {
	Name     string `json:"name"` // radio group key, questionId_rowValue
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected string `json:"selected,omitempty"`
}

// View snapshots the live questions grouped by block
func (f *Form) View() View {
	blocks := f.schema.Blocks()
	v := View{Locale: f.locale, Blocks: make([]BlockView, len(blocks))}
	for i, b := range blocks {
		v.Blocks[i] = BlockView{Title: b.Title, Questions: []QuestionView{}}
	}

	for _, rq := range f.reg.list() {
		qv := QuestionView{
			ID:           rq.ID,
			Type:         string(rq.Type),
			Label:        rq.Label,
			Required:     rq.Required,
			BranchOrigin: rq.BranchOrigin,
		}
		if e, ok := f.errors[rq.ID]; ok {
			qv.Error = e.Message
		}

		switch w := rq.Widget.(type) {
		case *SingleWidget:
			qv.Options = optionViews(rq.Options, func(val string) bool { return val == w.Selected() })
		case *MultipleWidget:
			qv.Options = optionViews(rq.Options, w.IsChecked)
		case *MatrixWidget:
			qv.Columns = optionViews(rq.Columns, nil)
			for _, r := range rq.Rows {
				col, _ := w.Selection(r.Value)
				qv.Rows = append(qv.Rows, RowView{Name: w.GroupName(r.Value), Value: r.Value, Label: r.Label, Selected: col})
			}
		case *RankedWidget:
			qv.Instruction = RankedInstruction
			labels := make(map[string]string, len(rq.Options))
			for _, o := range rq.Options {
				labels[o.Value] = o.Label
			}
			for i, val := range w.Order() {
				qv.Options = append(qv.Options, OptionView{Value: val, Label: labels[val], Rank: i + 1})
			}
		case *EmailWidget:
			qv.Value = w.Value()
		case *PhoneWidget:
			qv.Value = w.Value()
		case *TextWidget:
			qv.Value = w.Value()
		case *ConsentWidget:
			qv.Checked = w.Checked()
		}

		bv := &v.Blocks[rq.Block]
		bv.Questions = append(bv.Questions, qv)
	}
	return v
}

func optionViews(opts []RenderedOption, selected func(string) bool) []OptionView {
	out := make([]OptionView, len(opts))
	for i, o := range opts {
		out[i] = OptionView{Value: o.Value, Label: o.Label}
		if selected != nil {
			out[i].Selected = selected(o.Value)
		}
	}
	return out
}
