package form

import "fmt"

// EventType names a raw interaction forwarded by a UI adapter
type EventType string

const (
	EventSelect  EventType = "select"  // single: Value
	EventToggle  EventType = "toggle"  // multiple: Value, Checked
	EventCell    EventType = "cell"    // matrix: Row, Column
	EventMove    EventType = "move"    // ranked: From, To
	EventReorder EventType = "reorder" // ranked: Order
	EventInput   EventType = "input"   // text, email, phone: Value
	EventBlur    EventType = "blur"    // text, email, phone
	EventConsent EventType = "consent" // consent: Checked
)

// Event is one user interaction on a rendered question
type Event struct {
	Type     EventType `json:"type"`
	Question string    `json:"question"`
	Value    string    `json:"value,omitempty"`
	Checked  bool      `json:"checked,omitempty"`
	Row      string    `json:"row,omitempty"`
	Column   string    `json:"column,omitempty"`
	From     int       `json:"from,omitempty"`
	To       int       `json:"to,omitempty"`
	Order    []string  `json:"order,omitempty"`
}

// Apply dispatches ev to the matching operation
func (f *Form) Apply(ev Event) error {
	var err error
	switch ev.Type {
	case EventSelect:
		err = f.Select(ev.Question, ev.Value)
	case EventToggle:
		err = f.Toggle(ev.Question, ev.Value, ev.Checked)
	case EventCell:
		err = f.SelectCell(ev.Question, ev.Row, ev.Column)
	case EventMove:
		err = f.Move(ev.Question, ev.From, ev.To)
	case EventReorder:
		err = f.Reorder(ev.Question, ev.Order)
	case EventInput:
		err = f.Input(ev.Question, ev.Value)
	case EventBlur:
		err = f.Blur(ev.Question)
	case EventConsent:
		err = f.SetConsent(ev.Question, ev.Checked)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", ev.Type, ev.Question, err)
	}
	return nil
}

func widgetOf[W Widget](f *Form, id string) (W, error) {
	var zero W
	rq, ok := f.reg.get(id)
	if !ok {
		return zero, ErrNotRendered
	}
	w, ok := rq.Widget.(W)
	if !ok {
		return zero, ErrWrongType
	}
	return w, nil
}

// Select answers a single question, driving its branches
func (f *Form) Select(id, value string) error {
	w, err := widgetOf[*SingleWidget](f, id)
	if err != nil {
		return err
	}
	return w.Select(value)
}

// Toggle checks or unchecks one option of a multiple question
func (f *Form) Toggle(id, value string, checked bool) error {
	w, err := widgetOf[*MultipleWidget](f, id)
	if err != nil {
		return err
	}
	return w.Toggle(value, checked)
}

// SelectCell answers one row of a matrix question
func (f *Form) SelectCell(id, row, column string) error {
	w, err := widgetOf[*MatrixWidget](f, id)
	if err != nil {
		return err
	}
	return w.Select(row, column)
}

// Move drags a ranked item from one position to another
func (f *Form) Move(id string, from, to int) error {
	w, err := widgetOf[*RankedWidget](f, id)
	if err != nil {
		return err
	}
	return w.Move(from, to)
}

// Reorder replaces the order of a ranked question
func (f *Form) Reorder(id string, order []string) error {
	w, err := widgetOf[*RankedWidget](f, id)
	if err != nil {
		return err
	}
	return w.SetOrder(order)
}

// Input replaces the value of a free-entry field. Email and phone fields
// are re-checked on every edit once they have been blurred.
func (f *Form) Input(id, value string) error {
	rq, ok := f.reg.get(id)
	if !ok {
		return ErrNotRendered
	}
	switch w := rq.Widget.(type) {
	case *TextWidget:
		w.SetValue(value)
	case *EmailWidget:
		w.SetValue(value)
		if w.Touched() {
			f.liveCheck(rq)
		}
	case *PhoneWidget:
		w.SetValue(value)
		if w.Touched() {
			f.liveCheck(rq)
		}
	default:
		return ErrWrongType
	}
	return nil
}

// Blur marks a free-entry field as left; email and phone are format-checked
func (f *Form) Blur(id string) error {
	rq, ok := f.reg.get(id)
	if !ok {
		return ErrNotRendered
	}
	switch w := rq.Widget.(type) {
	case *TextWidget:
		w.touched = true
	case *EmailWidget:
		w.touched = true
		f.liveCheck(rq)
	case *PhoneWidget:
		w.touched = true
		f.liveCheck(rq)
	default:
		return ErrWrongType
	}
	return nil
}

// SetConsent checks or unchecks a consent question
func (f *Form) SetConsent(id string, checked bool) error {
	w, err := widgetOf[*ConsentWidget](f, id)
	if err != nil {
		return err
	}
	w.SetChecked(checked)
	return nil
}
