package logic

import (
	"math"
	"strconv"
	"strings"

	"github.com/Koyo-os/template-service/internal/document"
)

// Evaluate runs a single conditional rule against the current answers and
// reports whether its condition holds. It is a pure function and is total: a
// missing source answer behaves as "no answer yet", an unknown operator is
// false, and nothing here can panic. This is what lets the resolver re-run on
// every answer change, before the respondent ever reaches the source
// question, and what makes dangling source references harmless.
func Evaluate(r document.Rule, answers AnswerMap) bool {
	source := answers[r.SourceQuestionID]

	switch r.Condition {
	case document.OpEquals:
		return equals(source, r.Value)

	case document.OpNotEquals:
		return !equals(source, r.Value)

	case document.OpContains:
		return containsFold(source, r.Value)

	case document.OpNotContains:
		return !containsFold(source, r.Value)

	case document.OpGreaterThan:
		a, b := toNumber(source), valueToNumber(r.Value)
		return !math.IsNaN(a) && !math.IsNaN(b) && a > b

	case document.OpLessThan:
		a, b := toNumber(source), valueToNumber(r.Value)
		return !math.IsNaN(a) && !math.IsNaN(b) && a < b

	case document.OpIsEmpty:
		return source.IsEmpty()

	case document.OpIsNotEmpty:
		return !source.IsEmpty()

	default:
		return false
	}
}

// equals implements strict comparison: no cross-type coercion, and a
// multiple-choice selection never equals a scalar comparison value.
func equals(source Answer, value any) bool {
	switch source.Kind {
	case AnswerText:
		s, ok := value.(string)
		return ok && source.Text == s
	case AnswerNumber:
		n, ok := valueFloat(value)
		return ok && source.Number == n
	default:
		return false
	}
}

// containsFold is the case-insensitive substring test. It is only defined
// for text answers; anything else, including an absent answer, is false.
func containsFold(source Answer, value any) bool {
	if source.Kind != AnswerText || source.Text == "" {
		return false
	}
	needle := valueToString(value)
	return strings.Contains(strings.ToLower(source.Text), strings.ToLower(needle))
}

// toNumber coerces an answer for ordered comparison. Non-numeric text and
// every non-scalar shape come back NaN, which the caller treats as false.
func toNumber(a Answer) float64 {
	switch a.Kind {
	case AnswerNumber:
		return a.Number
	case AnswerText:
		n, err := strconv.ParseFloat(strings.TrimSpace(a.Text), 64)
		if err != nil {
			return math.NaN()
		}
		return n
	default:
		return math.NaN()
	}
}

func valueToNumber(value any) float64 {
	if n, ok := valueFloat(value); ok {
		return n
	}
	if s, ok := value.(string); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil {
			return n
		}
	}
	if b, ok := value.(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	return math.NaN()
}

// valueFloat normalizes the numeric shapes a rule value can arrive in:
// float64 from JSON, int from in-process authoring.
func valueFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func valueToString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
