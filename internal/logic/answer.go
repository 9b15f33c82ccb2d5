// Package logic implements the conditional-rule evaluator and the visibility
// resolver that runs over a template document and the respondent's current
// answers.
package logic

// AnswerKind tags the runtime shape of an answer value.
type AnswerKind uint8

const (
	// AnswerNone is the zero value: the question has not been answered.
	AnswerNone AnswerKind = iota
	// AnswerText covers text, date, dropdown, single-choice, barcode and
	// numeric-entered-as-text answers.
	AnswerText
	// AnswerNumber is a parsed numeric answer.
	AnswerNumber
	// AnswerChoices is a multiple-choice selection.
	AnswerChoices
)

// Answer is a tagged union over the value shapes a question can produce.
// Exactly one of Text, Number or Choices is meaningful, selected by Kind.
type Answer struct {
	Kind    AnswerKind
	Text    string
	Number  float64
	Choices []string
}

// AnswerMap holds the respondent's answers keyed by question id. It is
// runtime-only state, never persisted with the template.
type AnswerMap map[string]Answer

func TextAnswer(s string) Answer {
	return Answer{Kind: AnswerText, Text: s}
}

func NumberAnswer(n float64) Answer {
	return Answer{Kind: AnswerNumber, Number: n}
}

func ChoicesAnswer(choices ...string) Answer {
	return Answer{Kind: AnswerChoices, Choices: choices}
}

// IsEmpty reports whether the answer counts as "no answer yet": absent,
// an empty string, or an empty selection.
func (a Answer) IsEmpty() bool {
	switch a.Kind {
	case AnswerText:
		return a.Text == ""
	case AnswerNumber:
		return false
	case AnswerChoices:
		return len(a.Choices) == 0
	default:
		return true
	}
}
