package model

// SurveySchema is the root of a survey definition. It is immutable after load.
type SurveySchema struct {
	Blocks []Block `json:"blocks" yaml:"blocks" bson:"blocks"`
}

// Block groups questions under a title
type Block struct {
	Title              string     `json:"title" yaml:"title" bson:"title"`
	RandomizeQuestions bool       `json:"randomizeQuestions,omitempty" yaml:"randomizeQuestions,omitempty" bson:"randomizeQuestions,omitempty"` // shuffle top-level questions once per form
	Questions          []Question `json:"questions" yaml:"questions" bson:"questions"`
}
