package document

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// The persisted representation is two JSON strings: one for the section
// structure plus conditional logic, one for the scoring rules. The stored
// question field is named "text" while the in-memory field is "title"; the
// rename happens here and only here. Section ids are not persisted (nothing
// on the wire refers to them), so decode assigns fresh ones.

// MalformedTemplateError reports a JSON string that failed to decode.
// Callers are expected to fall back to an empty document rather than fail.
type MalformedTemplateError struct {
	Field string
	Err   error
}

func (e *MalformedTemplateError) Error() string {
	return fmt.Sprintf("malformed template %s payload: %v", e.Field, e.Err)
}

func (e *MalformedTemplateError) Unwrap() error {
	return e.Err
}

type (
	storedQuestion struct {
		ID          string       `json:"id"`
		Text        string       `json:"text"`
		Description string       `json:"description,omitempty"`
		Type        QuestionType `json:"type"`
		Required    bool         `json:"required"`
		Options     []string     `json:"options,omitempty"`
		MinValue    *float64     `json:"minValue,omitempty"`
		MaxValue    *float64     `json:"maxValue,omitempty"`
	}

	storedSection struct {
		Title            string           `json:"title"`
		Description      string           `json:"description,omitempty"`
		Questions        []storedQuestion `json:"questions"`
		ConditionalLogic []Rule           `json:"conditionalLogic,omitempty"`
		IsVisible        *bool            `json:"isVisible,omitempty"`
	}

	storedStructure struct {
		Sections []storedSection `json:"sections"`
	}

	// ScoringRules is the second persisted payload: normalized per-question
	// point values against a fixed 100-point scale.
	ScoringRules struct {
		MaxScore       int            `json:"maxScore"`
		PassThreshold  int            `json:"passThreshold"`
		QuestionScores map[string]int `json:"questionScores"`
	}
)

const (
	defaultMaxScore      = 100
	defaultPassThreshold = 70
)

// Encode serializes the document into its two persisted JSON strings.
// Scoring weights are normalized to the 100-point scale on the way out.
func Encode(d *Document) (structure string, scoring string, err error) {
	stored := storedStructure{Sections: make([]storedSection, len(d.Sections))}

	for i := range d.Sections {
		sec := &d.Sections[i]
		visible := sec.Visible

		out := storedSection{
			Title:            sec.Title,
			Description:      sec.Description,
			Questions:        make([]storedQuestion, len(sec.Questions)),
			ConditionalLogic: sec.ConditionalLogic,
			IsVisible:        &visible,
		}
		for j := range sec.Questions {
			q := &sec.Questions[j]
			out.Questions[j] = storedQuestion{
				ID:          q.ID,
				Text:        q.Title,
				Description: q.Description,
				Type:        q.Type,
				Required:    q.Required,
				Options:     q.Options,
				MinValue:    q.MinValue,
				MaxValue:    q.MaxValue,
			}
		}
		stored.Sections[i] = out
	}

	structureBytes, err := sonic.Marshal(&stored)
	if err != nil {
		return "", "", fmt.Errorf("encode template structure: %w", err)
	}

	rules := ScoringRules{
		MaxScore:       defaultMaxScore,
		PassThreshold:  defaultPassThreshold,
		QuestionScores: NormalizeScores(d),
	}
	scoringBytes, err := sonic.Marshal(&rules)
	if err != nil {
		return "", "", fmt.Errorf("encode scoring rules: %w", err)
	}

	return string(structureBytes), string(scoringBytes), nil
}

// Decode parses the two persisted JSON strings back into a document graph.
// Absent conditionalLogic decodes as an empty rule list, absent isVisible as
// visible, and a question missing from questionScores gets weight 1. Either
// payload failing to parse yields a MalformedTemplateError; name, description
// and category are not part of the payloads and stay zero.
func Decode(structure, scoring string) (*Document, error) {
	var stored storedStructure
	if err := sonic.Unmarshal([]byte(structure), &stored); err != nil {
		return nil, &MalformedTemplateError{Field: "questions", Err: err}
	}

	var rules ScoringRules
	if scoring != "" {
		if err := sonic.Unmarshal([]byte(scoring), &rules); err != nil {
			return nil, &MalformedTemplateError{Field: "scoringRules", Err: err}
		}
	}

	doc := &Document{Sections: make([]Section, len(stored.Sections))}
	for i := range stored.Sections {
		in := &stored.Sections[i]

		sec := Section{
			ID:               NewID(),
			Title:            in.Title,
			Description:      in.Description,
			Questions:        make([]Question, len(in.Questions)),
			ConditionalLogic: in.ConditionalLogic,
			Visible:          true,
		}
		if sec.ConditionalLogic == nil {
			sec.ConditionalLogic = []Rule{}
		}
		if in.IsVisible != nil {
			sec.Visible = *in.IsVisible
		}

		for j := range in.Questions {
			q := &in.Questions[j]
			weight := float64(1)
			if score, ok := rules.QuestionScores[q.ID]; ok {
				weight = float64(score)
			}
			sec.Questions[j] = Question{
				ID:          q.ID,
				Title:       q.Text,
				Description: q.Description,
				Type:        q.Type,
				Required:    q.Required,
				Options:     q.Options,
				MinValue:    q.MinValue,
				MaxValue:    q.MaxValue,
				Scoring:     weight,
			}
		}
		doc.Sections[i] = sec
	}

	return doc, nil
}
