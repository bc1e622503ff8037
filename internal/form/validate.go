package form

import (
	"regexp"
	"strings"
)

// Messages shown to the respondent
const (
	MsgRequired        = "This field is required."
	MsgSelectOne       = "Please select at least one option."
	MsgAnswerAllRows   = "Please answer all rows."
	MsgRankAll         = "Please rank all options."
	MsgConsent         = "You must consent to continue."
	MsgEmailRequired   = "Email address is required."
	MsgEmailInvalid    = "Please enter a valid email address."
	MsgPhoneRequired   = "Phone number is required."
	MsgPhoneFirstDigit = "The first digit must be 9."
	MsgPhoneInvalid    = "Please enter a valid 9-digit phone number."

	// BannerInvalid is the global message for a rejected or failed submit
	BannerInvalid = "There are errors in the form. Please fix them before submitting."
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[0-9]{9}$`)
)

// ValidationResult holds one message per failing question
type ValidationResult struct {
	errs  map[string]*ValidationError
	order []string
}

// Valid reports whether no question failed
func (r ValidationResult) Valid() bool {
	return len(r.errs) == 0
}

// Error returns the failure for question id, or nil
func (r ValidationResult) Error(id string) *ValidationError {
	return r.errs[id]
}

// Errors returns the failures in document order
func (r ValidationResult) Errors() []*ValidationError {
	out := make([]*ValidationError, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.errs[id])
	}
	return out
}

// Messages returns question id -> message
func (r ValidationResult) Messages() map[string]string {
	out := make(map[string]string, len(r.errs))
	for id, e := range r.errs {
		out[id] = e.Message
	}
	return out
}

// Validate checks every rendered question from a clean slate
func (f *Form) Validate() ValidationResult {
	res := ValidationResult{errs: make(map[string]*ValidationError)}
	for _, rq := range f.reg.list() {
		verr := validateQuestion(rq)
		if verr == nil {
			continue
		}
		res.errs[rq.ID] = verr
		res.order = append(res.order, rq.ID)
		f.observer.ValidationFailed(rq.Type, verr.Kind)
	}

	f.errors = make(map[string]*ValidationError, len(res.errs))
	for id, e := range res.errs {
		f.errors[id] = e
	}
	return res
}

// validateQuestion applies the required rule for the widget type, then the
// email/phone format rule, which runs whether or not the field is required.
func validateQuestion(rq *RenderedQuestion) *ValidationError {
	if rq.Required {
		if msg := requiredMessage(rq.Widget); msg != "" {
			return &ValidationError{QuestionID: rq.ID, Kind: KindRequired, Message: msg}
		}
	}
	return checkFormat(rq)
}

func requiredMessage(w Widget) string {
	switch w := w.(type) {
	case *SingleWidget:
		if w.Selected() == "" {
			return MsgRequired
		}
	case *MultipleWidget:
		if len(w.Checked()) == 0 {
			return MsgSelectOne
		}
	case *MatrixWidget:
		if !w.Complete() {
			return MsgAnswerAllRows
		}
	case *RankedWidget:
		if !w.fullyRanked() {
			return MsgRankAll
		}
	case *ConsentWidget:
		if !w.Checked() {
			return MsgConsent
		}
	case *TextWidget:
		if w.Trimmed() == "" {
			return MsgRequired
		}
	case *EmailWidget, *PhoneWidget:
		// an empty value fails the format rule with its own message
	}
	return ""
}

func checkFormat(rq *RenderedQuestion) *ValidationError {
	var msg string
	switch w := rq.Widget.(type) {
	case *EmailWidget:
		msg = EmailMessage(w.Value())
	case *PhoneWidget:
		msg = PhoneMessage(w.Value())
	}
	if msg == "" {
		return nil
	}
	return &ValidationError{QuestionID: rq.ID, Kind: KindFormat, Message: msg}
}

// EmailMessage returns the problem with an email value, or ""
func EmailMessage(value string) string {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return MsgEmailRequired
	case !emailPattern.MatchString(value):
		return MsgEmailInvalid
	}
	return ""
}

// PhoneMessage returns the problem with a phone value, or ""
func PhoneMessage(value string) string {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return MsgPhoneRequired
	case !strings.HasPrefix(value, "9"):
		return MsgPhoneFirstDigit
	case !phonePattern.MatchString(value):
		return MsgPhoneInvalid
	}
	return ""
}

// liveCheck refreshes the format message of an email/phone field
func (f *Form) liveCheck(rq *RenderedQuestion) {
	if verr := checkFormat(rq); verr != nil {
		f.errors[rq.ID] = verr
		return
	}
	delete(f.errors, rq.ID)
}
