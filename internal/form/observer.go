package form

import "surveyengine/internal/model"

// Observer receives engine events, typically to record metrics
type Observer interface {
	BranchChanged(trigger, target string, active bool)
	BranchMissing(trigger, target string)
	ValidationFailed(questionType model.QuestionType, kind ErrorKind)
}

type nopObserver struct{}

func (nopObserver) BranchChanged(string, string, bool) {}

func (nopObserver) BranchMissing(string, string) {}

func (nopObserver) ValidationFailed(model.QuestionType, ErrorKind) {}
