package document

import (
	"errors"
	"fmt"
)

// Authoring mutations. These are the only way rules enter a document, so all
// referential guards (self-reference, operator legality) live here; the
// resolver stays tolerant of whatever it is handed.

var (
	ErrSectionNotFound  = errors.New("section not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrRuleNotFound     = errors.New("rule not found")
	ErrSelfReference    = errors.New("rule can not reference its own owner")
)

// AddSection appends a new section and returns its generated id.
func (d *Document) AddSection(title, description string) string {
	sec := Section{
		ID:          NewID(),
		Title:       title,
		Description: description,
		Questions:   []Question{},
		Visible:     true,
	}
	d.Sections = append(d.Sections, sec)
	return sec.ID
}

// AddQuestion validates and appends a question to the given section,
// assigning it a fresh id. A zero scoring weight is defaulted to 1.
func (d *Document) AddQuestion(sectionID string, q Question) (string, error) {
	sec := d.FindSection(sectionID)
	if sec == nil {
		return "", fmt.Errorf("%w: %s", ErrSectionNotFound, sectionID)
	}

	q.ID = NewID()
	if q.Scoring == 0 {
		q.Scoring = 1
	}
	if err := q.Validate(); err != nil {
		return "", err
	}

	sec.Questions = append(sec.Questions, q)
	return q.ID, nil
}

// AddSectionRule attaches a section-scoped rule (actions show/hide) to the
// given section. The rule's source must be an existing question outside the
// section itself.
func (d *Document) AddSectionRule(sectionID string, r Rule) (string, error) {
	sec := d.FindSection(sectionID)
	if sec == nil {
		return "", fmt.Errorf("%w: %s", ErrSectionNotFound, sectionID)
	}
	if r.Action != ActionShow && r.Action != ActionHide {
		return "", fmt.Errorf("action %q is not valid at section scope", r.Action)
	}
	if sec.HasQuestion(r.SourceQuestionID) {
		return "", fmt.Errorf("%w: question %s belongs to section %s",
			ErrSelfReference, r.SourceQuestionID, sectionID)
	}
	if err := d.checkRuleSource(&r); err != nil {
		return "", err
	}

	r.ID = NewID()
	r.TargetQuestionIDs = nil
	sec.ConditionalLogic = append(sec.ConditionalLogic, r)
	return r.ID, nil
}

// AddQuestionRule attaches a question-scoped rule (actions show/hide/skip)
// targeting the given question. The source must be a different question.
func (d *Document) AddQuestionRule(sectionID, questionID string, r Rule) (string, error) {
	sec := d.FindSection(sectionID)
	if sec == nil {
		return "", fmt.Errorf("%w: %s", ErrSectionNotFound, sectionID)
	}
	if !sec.HasQuestion(questionID) {
		return "", fmt.Errorf("%w: %s in section %s", ErrQuestionNotFound, questionID, sectionID)
	}
	if r.Action != ActionShow && r.Action != ActionHide && r.Action != ActionSkip {
		return "", fmt.Errorf("action %q is not valid at question scope", r.Action)
	}
	if r.SourceQuestionID == questionID {
		return "", fmt.Errorf("%w: %s", ErrSelfReference, questionID)
	}
	if err := d.checkRuleSource(&r); err != nil {
		return "", err
	}

	r.ID = NewID()
	r.TargetQuestionIDs = []string{questionID}
	sec.ConditionalLogic = append(sec.ConditionalLogic, r)
	return r.ID, nil
}

// checkRuleSource verifies the source question exists and that the operator
// is legal for the source question's type.
func (d *Document) checkRuleSource(r *Rule) error {
	src := d.FindQuestion(r.SourceQuestionID)
	if src == nil {
		return fmt.Errorf("%w: source %s", ErrQuestionNotFound, r.SourceQuestionID)
	}

	switch r.Condition {
	case OpContains, OpNotContains:
		if !src.Type.IsTextLike() {
			return fmt.Errorf("operator %s requires a text-like source, got %s", r.Condition, src.Type)
		}
	case OpGreaterThan, OpLessThan:
		if src.Type != TypeNumeric {
			return fmt.Errorf("operator %s requires a numeric source, got %s", r.Condition, src.Type)
		}
	case OpEquals, OpNotEquals, OpIsEmpty, OpIsNotEmpty:
		if src.Type.IsOpaque() {
			return fmt.Errorf("operator %s is not defined for %s answers", r.Condition, src.Type)
		}
	default:
		return fmt.Errorf("unknown operator %q", r.Condition)
	}
	return nil
}

// UpdateRule replaces the condition, value and action of an existing rule.
// Scope and target are fixed at creation and can not be changed here.
func (d *Document) UpdateRule(ruleID string, condition Operator, value any, action Action) error {
	for i := range d.Sections {
		sec := &d.Sections[i]
		for j := range sec.ConditionalLogic {
			r := &sec.ConditionalLogic[j]
			if r.ID != ruleID {
				continue
			}

			updated := *r
			updated.Condition = condition
			updated.Value = value
			updated.Action = action
			if len(updated.TargetQuestionIDs) == 0 && action == ActionSkip {
				return fmt.Errorf("action %q is not valid at section scope", action)
			}
			if err := d.checkRuleSource(&updated); err != nil {
				return err
			}

			*r = updated
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrRuleNotFound, ruleID)
}

// RemoveRule deletes a rule wherever it lives.
func (d *Document) RemoveRule(ruleID string) error {
	for i := range d.Sections {
		sec := &d.Sections[i]
		for j := range sec.ConditionalLogic {
			if sec.ConditionalLogic[j].ID == ruleID {
				sec.ConditionalLogic = append(sec.ConditionalLogic[:j], sec.ConditionalLogic[j+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %s", ErrRuleNotFound, ruleID)
}

// RemoveQuestion deletes a question and every rule targeting it. Rules whose
// source was the removed question are kept; they simply never match anymore.
func (d *Document) RemoveQuestion(questionID string) error {
	for i := range d.Sections {
		sec := &d.Sections[i]
		for j := range sec.Questions {
			if sec.Questions[j].ID != questionID {
				continue
			}
			sec.Questions = append(sec.Questions[:j], sec.Questions[j+1:]...)

			kept := sec.ConditionalLogic[:0]
			for _, r := range sec.ConditionalLogic {
				if len(r.TargetQuestionIDs) == 1 && r.TargetQuestionIDs[0] == questionID {
					continue
				}
				kept = append(kept, r)
			}
			sec.ConditionalLogic = kept
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrQuestionNotFound, questionID)
}

// RemoveSection deletes a section together with its questions and rules.
func (d *Document) RemoveSection(sectionID string) error {
	for i := range d.Sections {
		if d.Sections[i].ID == sectionID {
			d.Sections = append(d.Sections[:i], d.Sections[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrSectionNotFound, sectionID)
}

// MoveSection reorders a section from one index to another, shifting the
// sections in between.
func (d *Document) MoveSection(from, to int) error {
	if from < 0 || from >= len(d.Sections) || to < 0 || to >= len(d.Sections) {
		return fmt.Errorf("move out of range: %d -> %d with %d sections", from, to, len(d.Sections))
	}
	if from == to {
		return nil
	}

	sec := d.Sections[from]
	d.Sections = append(d.Sections[:from], d.Sections[from+1:]...)
	d.Sections = append(d.Sections[:to], append([]Section{sec}, d.Sections[to:]...)...)
	return nil
}

// MoveQuestion reorders a question within its section.
func (d *Document) MoveQuestion(sectionID string, from, to int) error {
	sec := d.FindSection(sectionID)
	if sec == nil {
		return fmt.Errorf("%w: %s", ErrSectionNotFound, sectionID)
	}
	if from < 0 || from >= len(sec.Questions) || to < 0 || to >= len(sec.Questions) {
		return fmt.Errorf("move out of range: %d -> %d with %d questions", from, to, len(sec.Questions))
	}
	if from == to {
		return nil
	}

	q := sec.Questions[from]
	sec.Questions = append(sec.Questions[:from], sec.Questions[from+1:]...)
	sec.Questions = append(sec.Questions[:to], append([]Question{q}, sec.Questions[to:]...)...)
	return nil
}
