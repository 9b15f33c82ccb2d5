// Package document defines the template document graph (sections, questions,
// conditional rules), the authoring mutations over it, and the JSON contract
// used to persist it as two encoded strings.
package document

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// QuestionType is the closed set of question kinds a template may contain.
type QuestionType string

const (
	TypeShortText      QuestionType = "short-text"
	TypeLongText       QuestionType = "long-text"
	TypeNumeric        QuestionType = "numeric"
	TypeSingleChoice   QuestionType = "single-choice"
	TypeMultipleChoice QuestionType = "multiple-choice"
	TypeDropdown       QuestionType = "dropdown"
	TypeDateTime       QuestionType = "date-time"
	TypeFileUpload     QuestionType = "file-upload"
	TypeBarcode        QuestionType = "barcode"
	TypeSignature      QuestionType = "signature"
	TypeGPSLocation    QuestionType = "gps-location"
)

// Operator is a conditional rule comparison operator.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpIsEmpty     Operator = "is_empty"
	OpIsNotEmpty  Operator = "is_not_empty"
)

// Action is what a matched rule does to its target.
// Skip is only legal at question scope.
type Action string

const (
	ActionShow Action = "show"
	ActionHide Action = "hide"
	ActionSkip Action = "skip"
)

type (
	// Rule is a single conditional-logic rule. A rule with an empty
	// TargetQuestionIDs governs the section that owns it; a rule with
	// target ids governs those questions inside the owning section.
	Rule struct {
		ID                string   `json:"id"`
		SourceQuestionID  string   `json:"sourceQuestionId"`
		Condition         Operator `json:"condition"`
		Value             any      `json:"value,omitempty"`
		Action            Action   `json:"action"`
		TargetQuestionIDs []string `json:"targetQuestionIds,omitempty"`
	}

	// Question is a single prompt within a section. Options are meaningful
	// only for choice-like types; MinValue/MaxValue bound the answer length
	// for short-text and the numeric range for numeric questions.
	Question struct {
		ID          string       `json:"id"`
		Title       string       `json:"title"`
		Description string       `json:"description,omitempty"`
		Type        QuestionType `json:"type"`
		Required    bool         `json:"required"`
		Options     []string     `json:"options,omitempty"`
		MinValue    *float64     `json:"minValue,omitempty"`
		MaxValue    *float64     `json:"maxValue,omitempty"`
		Scoring     float64      `json:"scoring"`
	}

	// Section is an ordered group of questions plus the conditional rules
	// attached to it. Question order defines the default display order.
	// Visible is derived state, recomputed by the resolver; it is persisted
	// only as a hint and never trusted on load.
	Section struct {
		ID               string     `json:"id"`
		Title            string     `json:"title"`
		Description      string     `json:"description,omitempty"`
		Questions        []Question `json:"questions"`
		ConditionalLogic []Rule     `json:"conditionalLogic,omitempty"`
		Visible          bool       `json:"isVisible"`
	}

	// Document is the full in-memory template graph, the unit the builder
	// edits and the runtime renders.
	Document struct {
		Name        string    `json:"name"`
		Description string    `json:"description,omitempty"`
		Category    string    `json:"category,omitempty"`
		Sections    []Section `json:"sections"`
	}
)

// NewID returns a collision-resistant opaque identifier for a new
// section, question or rule.
func NewID() string {
	return uuid.NewString()
}

// New creates an empty document ready for authoring.
func New(name, description, category string) *Document {
	return &Document{
		Name:        name,
		Description: description,
		Category:    category,
		Sections:    []Section{},
	}
}

// IsChoice reports whether the type carries an option list.
func (t QuestionType) IsChoice() bool {
	switch t {
	case TypeSingleChoice, TypeMultipleChoice, TypeDropdown:
		return true
	}
	return false
}

// IsTextLike reports whether answers of this type are comparable as text,
// which is what contains/not_contains require of a source question.
func (t QuestionType) IsTextLike() bool {
	switch t {
	case TypeShortText, TypeLongText, TypeDropdown, TypeSingleChoice, TypeBarcode, TypeDateTime:
		return true
	}
	return false
}

// IsOpaque reports whether answers of this type are opaque blobs that no
// comparison operator can inspect.
func (t QuestionType) IsOpaque() bool {
	switch t {
	case TypeFileUpload, TypeSignature, TypeGPSLocation:
		return true
	}
	return false
}

func validType(t QuestionType) bool {
	switch t {
	case TypeShortText, TypeLongText, TypeNumeric, TypeSingleChoice,
		TypeMultipleChoice, TypeDropdown, TypeDateTime, TypeFileUpload,
		TypeBarcode, TypeSignature, TypeGPSLocation:
		return true
	}
	return false
}

// Validate checks the question's internal invariants: a known type, options
// present exactly for choice-like types, bounds only where they mean
// something, and a non-negative scoring weight.
func (q *Question) Validate() error {
	if q.ID == "" {
		return errors.New("question id can not be empty")
	}
	if q.Title == "" {
		return errors.New("question title can not be empty")
	}
	if !validType(q.Type) {
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	if q.Type.IsChoice() {
		if len(q.Options) == 0 {
			return fmt.Errorf("question %s: type %s requires options", q.ID, q.Type)
		}
	} else if len(q.Options) > 0 {
		return fmt.Errorf("question %s: type %s does not take options", q.ID, q.Type)
	}
	if (q.MinValue != nil || q.MaxValue != nil) &&
		q.Type != TypeShortText && q.Type != TypeNumeric {
		return fmt.Errorf("question %s: bounds are only valid for short-text and numeric", q.ID)
	}
	if q.MinValue != nil && q.MaxValue != nil && *q.MinValue > *q.MaxValue {
		return fmt.Errorf("question %s: minValue exceeds maxValue", q.ID)
	}
	if q.Scoring < 0 {
		return fmt.Errorf("question %s: scoring weight can not be negative", q.ID)
	}
	return nil
}

// QuestionIDs returns the ids of the section's questions in display order.
func (s *Section) QuestionIDs() []string {
	ids := make([]string, len(s.Questions))
	for i := range s.Questions {
		ids[i] = s.Questions[i].ID
	}
	return ids
}

// HasQuestion reports whether the section owns the given question id.
func (s *Section) HasQuestion(id string) bool {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return true
		}
	}
	return false
}

// FindSection returns the section with the given id, or nil.
func (d *Document) FindSection(id string) *Section {
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			return &d.Sections[i]
		}
	}
	return nil
}

// FindQuestion returns the question with the given id wherever it lives in
// the document, or nil.
func (d *Document) FindQuestion(id string) *Question {
	for i := range d.Sections {
		for j := range d.Sections[i].Questions {
			if d.Sections[i].Questions[j].ID == id {
				return &d.Sections[i].Questions[j]
			}
		}
	}
	return nil
}

// Validate checks document-wide invariants: unique section and question ids
// and per-question validity. Rule targets are checked at creation time, not
// here, because dangling sources are legal at rest.
func (d *Document) Validate() error {
	sections := make(map[string]struct{}, len(d.Sections))
	questions := make(map[string]struct{})

	for i := range d.Sections {
		sec := &d.Sections[i]
		if sec.ID == "" {
			return errors.New("section id can not be empty")
		}
		if _, ok := sections[sec.ID]; ok {
			return fmt.Errorf("duplicate section id %s", sec.ID)
		}
		sections[sec.ID] = struct{}{}

		for j := range sec.Questions {
			q := &sec.Questions[j]
			if err := q.Validate(); err != nil {
				return err
			}
			if _, ok := questions[q.ID]; ok {
				return fmt.Errorf("duplicate question id %s", q.ID)
			}
			questions[q.ID] = struct{}{}
		}
	}
	return nil
}
