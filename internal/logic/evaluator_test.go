package logic

import (
	"testing"

	"github.com/Koyo-os/template-service/internal/document"
	"github.com/stretchr/testify/assert"
)

func rule(source string, op document.Operator, value any) document.Rule {
	return document.Rule{
		ID:               document.NewID(),
		SourceQuestionID: source,
		Condition:        op,
		Value:            value,
		Action:           document.ActionHide,
	}
}

func TestEvaluate_Equals(t *testing.T) {
	answers := AnswerMap{
		"q1": TextAnswer("Yes"),
		"q2": NumberAnswer(5),
		"q3": ChoicesAnswer("a", "b"),
	}

	assert.True(t, Evaluate(rule("q1", document.OpEquals, "Yes"), answers))
	assert.False(t, Evaluate(rule("q1", document.OpEquals, "yes"), answers), "equals is strict, no case folding")
	assert.True(t, Evaluate(rule("q2", document.OpEquals, float64(5)), answers))
	assert.True(t, Evaluate(rule("q2", document.OpEquals, 5), answers))
	assert.False(t, Evaluate(rule("q1", document.OpEquals, 5), answers), "no cross-type coercion")
	assert.False(t, Evaluate(rule("q3", document.OpEquals, "a"), answers), "selections never equal scalars")
	assert.False(t, Evaluate(rule("missing", document.OpEquals, "Yes"), answers))
}

func TestEvaluate_NotEquals(t *testing.T) {
	answers := AnswerMap{"q1": TextAnswer("Yes")}

	assert.False(t, Evaluate(rule("q1", document.OpNotEquals, "Yes"), answers))
	assert.True(t, Evaluate(rule("q1", document.OpNotEquals, "No"), answers))
	assert.True(t, Evaluate(rule("missing", document.OpNotEquals, "Yes"), answers))
}

func TestEvaluate_Contains_AbsentSource(t *testing.T) {
	// A contains rule over an unanswered question is false, and its negation
	// is true; the resolver relies on this before the respondent reaches the
	// source question.
	answers := AnswerMap{}

	assert.False(t, Evaluate(rule("q1", document.OpContains, "damage"), answers))
	assert.True(t, Evaluate(rule("q1", document.OpNotContains, "damage"), answers))
}

func TestEvaluate_Contains_CaseInsensitive(t *testing.T) {
	answers := AnswerMap{"q1": TextAnswer("Severe DAMAGE on shelf 3")}

	assert.True(t, Evaluate(rule("q1", document.OpContains, "damage"), answers))
	assert.True(t, Evaluate(rule("q1", document.OpContains, "Shelf 3"), answers))
	assert.False(t, Evaluate(rule("q1", document.OpContains, "flood"), answers))
	assert.False(t, Evaluate(rule("q1", document.OpNotContains, "damage"), answers))
}

func TestEvaluate_Contains_NonTextSource(t *testing.T) {
	answers := AnswerMap{
		"num":   NumberAnswer(42),
		"multi": ChoicesAnswer("a"),
	}

	assert.False(t, Evaluate(rule("num", document.OpContains, "4"), answers))
	assert.False(t, Evaluate(rule("multi", document.OpContains, "a"), answers))
	assert.True(t, Evaluate(rule("multi", document.OpNotContains, "a"), answers))
}

func TestEvaluate_NumericComparisons(t *testing.T) {
	answers := AnswerMap{
		"count": NumberAnswer(10),
		"text":  TextAnswer("7.5"),
		"junk":  TextAnswer("not a number"),
	}

	assert.True(t, Evaluate(rule("count", document.OpGreaterThan, 5), answers))
	assert.False(t, Evaluate(rule("count", document.OpGreaterThan, 10), answers))
	assert.True(t, Evaluate(rule("count", document.OpLessThan, 11), answers))

	// Text answers coerce numerically.
	assert.True(t, Evaluate(rule("text", document.OpGreaterThan, 7), answers))
	assert.True(t, Evaluate(rule("text", document.OpLessThan, "8"), answers))

	// NaN on either side is false, never a panic.
	assert.False(t, Evaluate(rule("junk", document.OpGreaterThan, 5), answers))
	assert.False(t, Evaluate(rule("junk", document.OpLessThan, 5), answers))
	assert.False(t, Evaluate(rule("count", document.OpGreaterThan, "garbage"), answers))
	assert.False(t, Evaluate(rule("missing", document.OpLessThan, 5), answers))
}

func TestEvaluate_Empty(t *testing.T) {
	answers := AnswerMap{
		"filled": TextAnswer("x"),
		"blank":  TextAnswer(""),
		"none":   ChoicesAnswer(),
		"some":   ChoicesAnswer("a"),
		"zero":   NumberAnswer(0),
	}

	assert.False(t, Evaluate(rule("filled", document.OpIsEmpty, nil), answers))
	assert.True(t, Evaluate(rule("blank", document.OpIsEmpty, nil), answers))
	assert.True(t, Evaluate(rule("none", document.OpIsEmpty, nil), answers))
	assert.False(t, Evaluate(rule("some", document.OpIsEmpty, nil), answers))
	assert.False(t, Evaluate(rule("zero", document.OpIsEmpty, nil), answers), "zero is an answer")
	assert.True(t, Evaluate(rule("missing", document.OpIsEmpty, nil), answers))

	assert.True(t, Evaluate(rule("filled", document.OpIsNotEmpty, nil), answers))
	assert.False(t, Evaluate(rule("missing", document.OpIsNotEmpty, nil), answers))
}

func TestEvaluate_Totality(t *testing.T) {
	// Every operator against every answer shape returns without panicking.
	operators := []document.Operator{
		document.OpEquals, document.OpNotEquals,
		document.OpContains, document.OpNotContains,
		document.OpGreaterThan, document.OpLessThan,
		document.OpIsEmpty, document.OpIsNotEmpty,
		document.Operator("bogus"),
	}
	values := []any{nil, "x", float64(1), 1, true, []string{"a"}}
	answers := AnswerMap{
		"text":   TextAnswer("hello"),
		"number": NumberAnswer(3),
		"multi":  ChoicesAnswer("a", "b"),
		"empty":  {},
	}

	for _, op := range operators {
		for _, value := range values {
			for _, source := range []string{"text", "number", "multi", "empty", "missing"} {
				assert.NotPanics(t, func() {
					Evaluate(rule(source, op, value), answers)
				})
			}
		}
	}
}
