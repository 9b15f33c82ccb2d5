// Package runtime drives a respondent session over a template document: a
// sequential section-by-section flow whose visible path is recomputed from
// the live answers on every change.
package runtime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Koyo-os/template-service/internal/document"
	"github.com/Koyo-os/template-service/internal/logic"
)

var (
	// ErrNoVisibleSections is the degenerate terminal state: every section
	// resolved hidden, there is nothing to present.
	ErrNoVisibleSections = errors.New("no sections available")
	// ErrAlreadySubmitted is returned by any transition after Submit.
	ErrAlreadySubmitted = errors.New("session already submitted")
	// ErrNotLastSection is returned by Submit before the last visible section.
	ErrNotLastSection = errors.New("submit is only allowed on the last section")
)

// ValidationError describes one required-question or bound violation found
// while validating a section.
type ValidationError struct {
	QuestionID string
	Reason     string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("question %s: %s", e.QuestionID, e.Reason)
}

// ValidationErrors aggregates the violations of a single section so the UI
// can annotate every offending question at once.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	reasons := make([]string, len(e))
	for i, v := range e {
		reasons[i] = v.Error()
	}
	return "validation failed: " + strings.Join(reasons, "; ")
}

// Session is the runtime navigation state machine. The current position is
// an index into the currently visible section list, which is recomputed from
// the answer map on every mutation; the stored section id is used to re-clamp
// the index when an answer change shrinks or grows that list.
type Session struct {
	doc       *document.Document
	answers   logic.AnswerMap
	res       logic.Resolution
	currentID string
	submitted bool
}

// NewSession starts a fresh session over the document with an empty answer
// map, positioned on the first visible section if any.
func NewSession(doc *document.Document) *Session {
	s := &Session{
		doc:     doc,
		answers: make(logic.AnswerMap),
	}
	s.recompute()
	return s
}

// recompute re-resolves visibility and re-clamps the current position. If
// the previously current section is no longer visible, the session falls
// back to the nearest earlier visible section in document order, or to the
// first visible section.
func (s *Session) recompute() {
	s.res = logic.Resolve(s.doc, s.answers)
	visible := s.res.VisibleSectionIDs

	if len(visible) == 0 {
		s.currentID = ""
		return
	}
	if s.currentID == "" {
		s.currentID = visible[0]
		return
	}
	if s.res.SectionVisible(s.currentID) {
		return
	}

	// Walk document order up to the vanished section, remembering the last
	// visible section passed on the way.
	fallback := visible[0]
	for i := range s.doc.Sections {
		id := s.doc.Sections[i].ID
		if id == s.currentID {
			break
		}
		if s.res.SectionVisible(id) {
			fallback = id
		}
	}
	s.currentID = fallback
}

func (s *Session) currentIndex() int {
	for i, id := range s.res.VisibleSectionIDs {
		if id == s.currentID {
			return i
		}
	}
	return -1
}

// SetAnswer records an answer and recomputes the visible path.
func (s *Session) SetAnswer(questionID string, a logic.Answer) error {
	if s.submitted {
		return ErrAlreadySubmitted
	}
	s.answers[questionID] = a
	s.recompute()
	return nil
}

// ClearAnswer removes an answer and recomputes the visible path.
func (s *Session) ClearAnswer(questionID string) {
	delete(s.answers, questionID)
	s.recompute()
}

// Current returns the section the respondent is on. ok is false in the
// degenerate no-visible-sections state and after submission.
func (s *Session) Current() (sec *document.Section, ok bool) {
	if s.submitted || s.currentID == "" {
		return nil, false
	}
	return s.doc.FindSection(s.currentID), true
}

// Resolution exposes the latest derived visibility state, which is what the
// rendering layer reads to decide which questions to present.
func (s *Session) Resolution() logic.Resolution {
	return s.res
}

// Submitted reports whether the session reached its terminal state.
func (s *Session) Submitted() bool {
	return s.submitted
}

// Progress reports completed visible sections as a fraction in [0, 1].
func (s *Session) Progress() float64 {
	total := len(s.res.VisibleSectionIDs)
	if total == 0 {
		return 0
	}
	if s.submitted {
		return 1
	}
	return float64(s.currentIndex()) / float64(total)
}

// Next advances to the following visible section. It refuses to move while
// the current section fails required-question validation.
func (s *Session) Next() error {
	if s.submitted {
		return ErrAlreadySubmitted
	}
	idx := s.currentIndex()
	if idx < 0 {
		return ErrNoVisibleSections
	}
	if err := s.validateSection(s.currentID); err != nil {
		return err
	}
	if idx+1 >= len(s.res.VisibleSectionIDs) {
		return errors.New("already on the last section")
	}
	s.currentID = s.res.VisibleSectionIDs[idx+1]
	return nil
}

// Previous steps back one visible section. No validation applies.
func (s *Session) Previous() error {
	if s.submitted {
		return ErrAlreadySubmitted
	}
	idx := s.currentIndex()
	if idx < 0 {
		return ErrNoVisibleSections
	}
	if idx > 0 {
		s.currentID = s.res.VisibleSectionIDs[idx-1]
	}
	return nil
}

// Submit finishes the session. It is only legal on the last visible section
// and only once that section validates; on success it returns the full
// answer map for the submission boundary and the session becomes terminal.
func (s *Session) Submit() (logic.AnswerMap, error) {
	if s.submitted {
		return nil, ErrAlreadySubmitted
	}
	idx := s.currentIndex()
	if idx < 0 {
		return nil, ErrNoVisibleSections
	}
	if idx != len(s.res.VisibleSectionIDs)-1 {
		return nil, ErrNotLastSection
	}
	if err := s.validateSection(s.currentID); err != nil {
		return nil, err
	}

	s.submitted = true
	out := make(logic.AnswerMap, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out, nil
}

// validateSection checks every presented question of the section: required
// questions must have a non-empty answer, and answered questions must sit
// inside their type-specific bounds. Hidden and skipped questions are exempt.
func (s *Session) validateSection(sectionID string) error {
	sec := s.doc.FindSection(sectionID)
	if sec == nil {
		return fmt.Errorf("section %s not found", sectionID)
	}

	var errs ValidationErrors
	for i := range sec.Questions {
		q := &sec.Questions[i]
		if effect, ok := s.res.QuestionEffects[q.ID]; ok && !effect.Presented() {
			continue
		}

		answer := s.answers[q.ID]
		if answer.IsEmpty() {
			if q.Required {
				errs = append(errs, ValidationError{QuestionID: q.ID, Reason: "answer is required"})
			}
			continue
		}
		if err := validateBounds(q, answer); err != nil {
			errs = append(errs, ValidationError{QuestionID: q.ID, Reason: err.Error()})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateBounds(q *document.Question, a logic.Answer) error {
	switch q.Type {
	case document.TypeShortText:
		length := float64(len([]rune(a.Text)))
		if q.MinValue != nil && length < *q.MinValue {
			return fmt.Errorf("answer shorter than %v characters", *q.MinValue)
		}
		if q.MaxValue != nil && length > *q.MaxValue {
			return fmt.Errorf("answer longer than %v characters", *q.MaxValue)
		}
	case document.TypeNumeric:
		var n float64
		switch a.Kind {
		case logic.AnswerNumber:
			n = a.Number
		case logic.AnswerText:
			parsed, err := parseNumeric(a.Text)
			if err != nil {
				return err
			}
			n = parsed
		default:
			return errors.New("numeric answer expected")
		}
		if q.MinValue != nil && n < *q.MinValue {
			return fmt.Errorf("value below minimum %v", *q.MinValue)
		}
		if q.MaxValue != nil && n > *q.MaxValue {
			return fmt.Errorf("value above maximum %v", *q.MaxValue)
		}
	}
	return nil
}

func parseNumeric(s string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.New("answer is not a number")
	}
	return n, nil
}
