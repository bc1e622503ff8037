// Package schema loads survey definitions and indexes them for the form engine.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"surveyengine/internal/model"
)

// SchemaLoadError reports a malformed or unreadable schema document.
// It is fatal: no form is rendered from a schema that failed to load.
type SchemaLoadError struct {
	Reason string
	Err    error
}

func (e *SchemaLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("schema load: %s: %v", e.Reason, e.Err)
	}
	return "schema load: " + e.Reason
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Err
}

func loadErr(format string, args ...any) error {
	return &SchemaLoadError{Reason: fmt.Sprintf(format, args...)}
}

// Schema is a validated, read-only survey definition
type Schema struct {
	def     *model.SurveySchema
	targets map[string]struct{}
}

// New validates def and returns the indexed schema
func New(def *model.SurveySchema) (*Schema, error) {
	if def == nil {
		return nil, loadErr("empty document")
	}
	if err := validate(def); err != nil {
		return nil, err
	}

	targets := make(map[string]struct{})
	for _, b := range def.Blocks {
		for _, q := range b.Questions {
			for _, br := range q.Branches {
				targets[br.Goto] = struct{}{}
			}
		}
	}

	return &Schema{def: def, targets: targets}, nil
}

// Parse decodes a JSON schema document
func Parse(data []byte) (*Schema, error) {
	var def model.SurveySchema
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, &SchemaLoadError{Reason: "invalid JSON", Err: err}
	}
	if def.Blocks == nil {
		return nil, loadErr("missing blocks")
	}
	return New(&def)
}

// ParseYAML decodes a YAML schema document with the same shape as the JSON one
func ParseYAML(data []byte) (*Schema, error) {
	var def model.SurveySchema
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, &SchemaLoadError{Reason: "invalid YAML", Err: err}
	}
	if def.Blocks == nil {
		return nil, loadErr("missing blocks")
	}
	return New(&def)
}

// Load reads a JSON schema document from r
func Load(r io.Reader) (*Schema, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, &SchemaLoadError{Reason: "read failed", Err: err}
	}
	return Parse(buf.Bytes())
}

// LoadFile reads a schema file, picking the decoder from its extension
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SchemaLoadError{Reason: "read " + path, Err: err}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return Parse(data)
	}
}

// Definition returns the underlying definition. Callers must not modify it.
func (s *Schema) Definition() *model.SurveySchema {
	return s.def
}

// Blocks returns the schema blocks in display order
func (s *Schema) Blocks() []model.Block {
	return s.def.Blocks
}

// FindQuestion scans all blocks and returns the first question with id, or nil
func (s *Schema) FindQuestion(id string) *model.Question {
	for bi := range s.def.Blocks {
		qs := s.def.Blocks[bi].Questions
		for qi := range qs {
			if qs[qi].ID == id {
				return &qs[qi]
			}
		}
	}
	return nil
}

// BlockOf returns the index of the block declaring question id, or -1
func (s *Schema) BlockOf(id string) int {
	for bi, b := range s.def.Blocks {
		for _, q := range b.Questions {
			if q.ID == id {
				return bi
			}
		}
	}
	return -1
}

// AllBranchTargets returns the union of every branch goto in the schema
func (s *Schema) AllBranchTargets() map[string]struct{} {
	out := make(map[string]struct{}, len(s.targets))
	for id := range s.targets {
		out[id] = struct{}{}
	}
	return out
}

// IsBranchTarget reports whether id is only reachable through a branch
func (s *Schema) IsBranchTarget(id string) bool {
	_, ok := s.targets[id]
	return ok
}

// QuestionCount returns the number of questions declared in the schema
func (s *Schema) QuestionCount() int {
	n := 0
	for _, b := range s.def.Blocks {
		n += len(b.Questions)
	}
	return n
}
