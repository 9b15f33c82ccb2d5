package logic

import (
	"github.com/Koyo-os/template-service/internal/document"
)

// Effect is the resolved presentation state of a question inside a visible
// section. Hide and skip are both rendered as "not presented"; the resolver
// keeps them distinct so consumers that need the difference can read it.
type Effect string

const (
	EffectShow Effect = "show"
	EffectHide Effect = "hide"
	EffectSkip Effect = "skip"
)

// Presented reports whether the question should be shown to the respondent.
func (e Effect) Presented() bool {
	return e == EffectShow
}

// Resolution is the derived visibility state for one document against one
// answer map. VisibleSectionIDs preserves document order. QuestionEffects
// only carries questions of visible sections; questions of hidden sections
// are moot and absent.
type Resolution struct {
	VisibleSectionIDs []string
	QuestionEffects   map[string]Effect
}

// SectionVisible reports whether the section id resolved visible.
func (r *Resolution) SectionVisible(id string) bool {
	for _, v := range r.VisibleSectionIDs {
		if v == id {
			return true
		}
	}
	return false
}

// Resolve computes the full derived visibility state. It runs from scratch on
// every answer mutation; documents are tens of questions, so recomputing
// beats caching here.
//
// Section pass: rules are evaluated in declaration order, first match wins.
// A matching show rule makes the section visible, a matching hide rule makes
// it invisible, and a section with no matching rule (or no rules at all)
// defaults to visible. Question-scoped rules are ignored by this pass.
//
// Question pass: within visible sections only, the same first-match-wins walk
// runs per target question, defaulting to show.
func Resolve(d *document.Document, answers AnswerMap) Resolution {
	res := Resolution{
		VisibleSectionIDs: make([]string, 0, len(d.Sections)),
		QuestionEffects:   make(map[string]Effect),
	}

	for i := range d.Sections {
		sec := &d.Sections[i]
		if !sectionVisible(sec, answers) {
			continue
		}
		res.VisibleSectionIDs = append(res.VisibleSectionIDs, sec.ID)

		for j := range sec.Questions {
			res.QuestionEffects[sec.Questions[j].ID] = EffectShow
		}
		decided := make(map[string]bool, len(sec.Questions))
		for _, r := range sec.ConditionalLogic {
			if len(r.TargetQuestionIDs) == 0 {
				continue
			}
			for _, target := range r.TargetQuestionIDs {
				if decided[target] || !sec.HasQuestion(target) {
					continue
				}
				if Evaluate(r, answers) {
					res.QuestionEffects[target] = Effect(r.Action)
					decided[target] = true
				}
			}
		}
	}

	return res
}

func sectionVisible(sec *document.Section, answers AnswerMap) bool {
	for _, r := range sec.ConditionalLogic {
		if len(r.TargetQuestionIDs) > 0 {
			continue
		}
		if Evaluate(r, answers) {
			return r.Action == document.ActionShow
		}
	}
	return true
}

// Apply writes the resolved section visibility back onto the document's
// derived flags, which is what the builder's live preview badges read.
func (r *Resolution) Apply(d *document.Document) {
	for i := range d.Sections {
		d.Sections[i].Visible = r.SectionVisible(d.Sections[i].ID)
	}
}
