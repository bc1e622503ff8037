package form

import (
	"slices"
	"strings"
)

// Widget is the live answer state of one rendered question.
//
// The implementations are closed: SingleWidget, MultipleWidget, MatrixWidget,
// RankedWidget, EmailWidget, PhoneWidget, TextWidget and ConsentWidget.
type Widget interface {
	QuestionID() string
	detach()
}

// SingleWidget is a radio group
type SingleWidget struct {
	id        string
	options   []string
	selected  string
	listeners []func(value string)
}

func newSingleWidget(id string, options []string) *SingleWidget {
	return &SingleWidget{id: id, options: options}
}

func (w *SingleWidget) QuestionID() string { return w.id }

// Selected returns the selected option value or ""
func (w *SingleWidget) Selected() string { return w.selected }

// Select picks an option. Listeners fire once per change; picking the
// already selected option is not a change.
func (w *SingleWidget) Select(value string) error {
	if !slices.Contains(w.options, value) {
		return ErrUnknownOption
	}
	if value == w.selected {
		return nil
	}
	w.selected = value
	for _, fn := range slices.Clone(w.listeners) {
		fn(value)
	}
	return nil
}

// OnAnswerChanged registers fn to run after every selection change
func (w *SingleWidget) OnAnswerChanged(fn func(value string)) {
	w.listeners = append(w.listeners, fn)
}

func (w *SingleWidget) detach() { w.listeners = nil }

// MultipleWidget is a set of independent checkboxes
type MultipleWidget struct {
	id      string
	options []string
	checked map[string]bool
}

func newMultipleWidget(id string, options []string) *MultipleWidget {
	return &MultipleWidget{id: id, options: options, checked: make(map[string]bool)}
}

func (w *MultipleWidget) QuestionID() string { return w.id }

// Toggle sets one option's checkbox
func (w *MultipleWidget) Toggle(value string, checked bool) error {
	if !slices.Contains(w.options, value) {
		return ErrUnknownOption
	}
	if checked {
		w.checked[value] = true
	} else {
		delete(w.checked, value)
	}
	return nil
}

// IsChecked reports whether value is checked
func (w *MultipleWidget) IsChecked(value string) bool { return w.checked[value] }

// Checked returns the checked values in option order
func (w *MultipleWidget) Checked() []string {
	out := make([]string, 0, len(w.checked))
	for _, o := range w.options {
		if w.checked[o] {
			out = append(out, o)
		}
	}
	return out
}

func (w *MultipleWidget) detach() {}

// MatrixWidget holds one exclusive column choice per row
type MatrixWidget struct {
	id       string
	rows     []string
	columns  []string
	selected map[string]string
}

func newMatrixWidget(id string, rows, columns []string) *MatrixWidget {
	return &MatrixWidget{id: id, rows: rows, columns: columns, selected: make(map[string]string)}
}

func (w *MatrixWidget) QuestionID() string { return w.id }

// GroupName is the radio group key of a row: questionId_rowValue
func (w *MatrixWidget) GroupName(row string) string { return w.id + "_" + row }

// Select picks column for row, replacing any earlier choice in that row
func (w *MatrixWidget) Select(row, column string) error {
	if !slices.Contains(w.rows, row) || !slices.Contains(w.columns, column) {
		return ErrUnknownOption
	}
	w.selected[row] = column
	return nil
}

// Selection returns the column chosen for row
func (w *MatrixWidget) Selection(row string) (string, bool) {
	col, ok := w.selected[row]
	return col, ok
}

// Complete reports whether every row has a selection
func (w *MatrixWidget) Complete() bool {
	for _, r := range w.rows {
		if _, ok := w.selected[r]; !ok {
			return false
		}
	}
	return true
}

func (w *MatrixWidget) detach() {}

// RankedWidget is a reorderable list; position i has rank i+1
type RankedWidget struct {
	id    string
	order []string
}

func newRankedWidget(id string, options []string) *RankedWidget {
	return &RankedWidget{id: id, order: slices.Clone(options)}
}

func (w *RankedWidget) QuestionID() string { return w.id }

// Order returns the option values from rank 1 to rank N
func (w *RankedWidget) Order() []string { return slices.Clone(w.order) }

// Ranks maps every option value to its rank. Ranks are always 1..N.
func (w *RankedWidget) Ranks() map[string]int {
	ranks := make(map[string]int, len(w.order))
	for i, v := range w.order {
		ranks[v] = i + 1
	}
	return ranks
}

// Move drags the item at index from to index to
func (w *RankedWidget) Move(from, to int) error {
	n := len(w.order)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrInvalidOrder
	}
	item := w.order[from]
	w.order = slices.Delete(w.order, from, from+1)
	w.order = slices.Insert(w.order, to, item)
	return nil
}

// MoveValue drags the item holding value to index to
func (w *RankedWidget) MoveValue(value string, to int) error {
	from := slices.Index(w.order, value)
	if from < 0 {
		return ErrUnknownOption
	}
	return w.Move(from, to)
}

// SetOrder replaces the whole order; it must be a permutation of the options
func (w *RankedWidget) SetOrder(order []string) error {
	if len(order) != len(w.order) {
		return ErrInvalidOrder
	}
	want := slices.Sorted(slices.Values(w.order))
	got := slices.Sorted(slices.Values(order))
	if !slices.Equal(want, got) {
		return ErrInvalidOrder
	}
	w.order = slices.Clone(order)
	return nil
}

func (w *RankedWidget) fullyRanked() bool {
	return len(w.order) > 0 && len(w.Ranks()) == len(w.order)
}

func (w *RankedWidget) detach() {}

// textField is the shared state of the free-entry widgets
type textField struct {
	id      string
	value   string
	touched bool // blurred at least once; edits re-check the format from then on
}

func (t *textField) QuestionID() string { return t.id }

// Value returns the raw input
func (t *textField) Value() string { return t.value }

// Trimmed returns the input without surrounding whitespace
func (t *textField) Trimmed() string { return strings.TrimSpace(t.value) }

// Touched reports whether the field has been blurred
func (t *textField) Touched() bool { return t.touched }

func (t *textField) detach() {}

// TextWidget is a free text answer
type TextWidget struct{ textField }

// SetValue replaces the input
func (w *TextWidget) SetValue(v string) { w.value = v }

// EmailWidget is an email input, format-checked on blur and while typing
// after the first blur
type EmailWidget struct{ textField }

// SetValue replaces the input
func (w *EmailWidget) SetValue(v string) { w.value = v }

// PhoneWidget is a 9-digit phone input
type PhoneWidget struct{ textField }

// PhoneMaxLength is the input limit of phone widgets
const PhoneMaxLength = 9

// SetValue replaces the input, keeping digits only and at most PhoneMaxLength
func (w *PhoneWidget) SetValue(v string) {
	var b strings.Builder
	for _, r := range v {
		if r >= '0' && r <= '9' {
			if b.Len() == PhoneMaxLength {
				break
			}
			b.WriteRune(r)
		}
	}
	w.value = b.String()
}

// ConsentWidget is a single checkbox
type ConsentWidget struct {
	id      string
	checked bool
}

func (w *ConsentWidget) QuestionID() string { return w.id }

// Checked reports whether consent was given
func (w *ConsentWidget) Checked() bool { return w.checked }

// SetChecked sets the checkbox
func (w *ConsentWidget) SetChecked(v bool) { w.checked = v }

func (w *ConsentWidget) detach() {}
