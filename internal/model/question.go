package model

// QuestionType defines the type of question
type QuestionType string

const (
	QuestionTypeSingle   QuestionType = "single"   // Radio group, may own branches
	QuestionTypeMultiple QuestionType = "multiple" // Independent checkboxes
	QuestionTypeMatrix   QuestionType = "matrix"   // Rows x columns, one column per row
	QuestionTypeRanked   QuestionType = "ranked"   // Drag to reorder options
	QuestionTypeEmail    QuestionType = "email"
	QuestionTypePhone    QuestionType = "phone"
	QuestionTypeConsent  QuestionType = "consent" // Single checkbox, always required
	QuestionTypeText     QuestionType = "text"
)

// QuestionTypes lists every supported type
var QuestionTypes = []QuestionType{
	QuestionTypeSingle,
	QuestionTypeMultiple,
	QuestionTypeMatrix,
	QuestionTypeRanked,
	QuestionTypeEmail,
	QuestionTypePhone,
	QuestionTypeConsent,
	QuestionTypeText,
}

// Valid reports whether t is a known question type
func (t QuestionType) Valid() bool {
	for _, known := range QuestionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// LocalizedString maps a locale code ("en", "es", "pt") to display text
type LocalizedString map[string]string

// Question is a question template in a survey block
type Question struct {
	ID       string          `json:"id" yaml:"id" bson:"id"` // unique across the whole schema
	Type     QuestionType    `json:"type" yaml:"type" bson:"type"`
	Label    LocalizedString `json:"label" yaml:"label" bson:"label"`
	Required bool            `json:"required,omitempty" yaml:"required,omitempty" bson:"required,omitempty"`
	Options  []Option        `json:"options,omitempty" yaml:"options,omitempty" bson:"options,omitempty"` // single, multiple, ranked
	// For matrix type
	Rows     []Option `json:"rows,omitempty" yaml:"rows,omitempty" bson:"rows,omitempty"`
	Columns  []Option `json:"columns,omitempty" yaml:"columns,omitempty" bson:"columns,omitempty"`
	Branches []Branch `json:"branches,omitempty" yaml:"branches,omitempty" bson:"branches,omitempty"` // single only
}

// Option is a selectable value with a localized label
type Option struct {
	Value string          `json:"value" yaml:"value" bson:"value"`
	Label LocalizedString `json:"label" yaml:"label" bson:"label"`
}

// BranchCondition matches the owning question's answer
type BranchCondition struct {
	Equals string `json:"equals" yaml:"equals" bson:"equals"`
}

// Branch inserts the Goto question right after its trigger when When matches
type Branch struct {
	When BranchCondition `json:"when" yaml:"when" bson:"when"`
	Goto string          `json:"goto" yaml:"goto" bson:"goto"`
}
