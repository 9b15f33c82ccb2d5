package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDoc(t *testing.T) (*Document, string, string, string, string) {
	t.Helper()

	doc := New("Audit", "desc", "retail")
	s1 := doc.AddSection("Entrance", "")
	s2 := doc.AddSection("Interior", "")

	q1, err := doc.AddQuestion(s1, Question{
		Title:    "Store open?",
		Type:     TypeSingleChoice,
		Options:  []string{"Yes", "No"},
		Required: true,
	})
	require.NoError(t, err)

	q2, err := doc.AddQuestion(s2, Question{
		Title: "Shelf count",
		Type:  TypeNumeric,
	})
	require.NoError(t, err)

	return doc, s1, s2, q1, q2
}

func TestBuilder_AddQuestionDefaultsScoring(t *testing.T) {
	doc, _, _, q1, _ := buildDoc(t)

	assert.Equal(t, float64(1), doc.FindQuestion(q1).Scoring)
}

func TestBuilder_AddQuestionValidation(t *testing.T) {
	doc, s1, _, _, _ := buildDoc(t)

	_, err := doc.AddQuestion(s1, Question{Title: "Pick", Type: TypeDropdown})
	assert.Error(t, err, "choice types need options")

	_, err = doc.AddQuestion(s1, Question{Title: "Free", Type: TypeLongText, Options: []string{"a"}})
	assert.Error(t, err, "non-choice types refuse options")

	_, err = doc.AddQuestion("missing", Question{Title: "x", Type: TypeShortText})
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestBuilder_SectionRule(t *testing.T) {
	doc, _, s2, q1, _ := buildDoc(t)

	ruleID, err := doc.AddSectionRule(s2, Rule{
		SourceQuestionID: q1,
		Condition:        OpEquals,
		Value:            "No",
		Action:           ActionHide,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, ruleID)

	sec := doc.FindSection(s2)
	require.Len(t, sec.ConditionalLogic, 1)
	assert.Empty(t, sec.ConditionalLogic[0].TargetQuestionIDs)
}

func TestBuilder_SectionRule_RejectsSelfReference(t *testing.T) {
	doc, _, s2, _, q2 := buildDoc(t)

	// q2 lives inside s2; a rule on s2 must not source from it.
	_, err := doc.AddSectionRule(s2, Rule{
		SourceQuestionID: q2,
		Condition:        OpIsNotEmpty,
		Action:           ActionHide,
	})
	assert.ErrorIs(t, err, ErrSelfReference)
}

func TestBuilder_SectionRule_RejectsSkip(t *testing.T) {
	doc, _, s2, q1, _ := buildDoc(t)

	_, err := doc.AddSectionRule(s2, Rule{
		SourceQuestionID: q1,
		Condition:        OpIsNotEmpty,
		Action:           ActionSkip,
	})
	assert.Error(t, err)
}

func TestBuilder_QuestionRule(t *testing.T) {
	doc, _, s2, q1, q2 := buildDoc(t)

	_, err := doc.AddQuestionRule(s2, q2, Rule{
		SourceQuestionID: q1,
		Condition:        OpEquals,
		Value:            "No",
		Action:           ActionSkip,
	})
	require.NoError(t, err)

	sec := doc.FindSection(s2)
	require.Len(t, sec.ConditionalLogic, 1)
	assert.Equal(t, []string{q2}, sec.ConditionalLogic[0].TargetQuestionIDs)
}

func TestBuilder_QuestionRule_RejectsSelfReference(t *testing.T) {
	doc, _, s2, _, q2 := buildDoc(t)

	_, err := doc.AddQuestionRule(s2, q2, Rule{
		SourceQuestionID: q2,
		Condition:        OpIsNotEmpty,
		Action:           ActionHide,
	})
	assert.ErrorIs(t, err, ErrSelfReference)
}

func TestBuilder_OperatorTypeLegality(t *testing.T) {
	doc, s1, s2, q1, q2 := buildDoc(t)

	// contains over a numeric source is illegal.
	_, err := doc.AddSectionRule(s1, Rule{
		SourceQuestionID: q2,
		Condition:        OpContains,
		Value:            "4",
		Action:           ActionHide,
	})
	assert.Error(t, err)

	// greater_than over a single-choice source is illegal.
	_, err = doc.AddSectionRule(s2, Rule{
		SourceQuestionID: q1,
		Condition:        OpGreaterThan,
		Value:            3,
		Action:           ActionHide,
	})
	assert.Error(t, err)

	// Rules can not source from a question that does not exist.
	_, err = doc.AddSectionRule(s2, Rule{
		SourceQuestionID: "ghost",
		Condition:        OpIsEmpty,
		Action:           ActionHide,
	})
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestBuilder_UpdateRule(t *testing.T) {
	doc, _, s2, q1, _ := buildDoc(t)

	ruleID, err := doc.AddSectionRule(s2, Rule{
		SourceQuestionID: q1,
		Condition:        OpEquals,
		Value:            "No",
		Action:           ActionHide,
	})
	require.NoError(t, err)

	require.NoError(t, doc.UpdateRule(ruleID, OpNotEquals, "Yes", ActionShow))

	r := doc.FindSection(s2).ConditionalLogic[0]
	assert.Equal(t, OpNotEquals, r.Condition)
	assert.Equal(t, "Yes", r.Value)
	assert.Equal(t, ActionShow, r.Action)

	assert.Error(t, doc.UpdateRule(ruleID, OpEquals, "x", ActionSkip), "skip stays illegal at section scope")
	assert.ErrorIs(t, doc.UpdateRule("missing", OpEquals, "x", ActionShow), ErrRuleNotFound)
}

func TestBuilder_RemoveRule(t *testing.T) {
	doc, _, s2, q1, _ := buildDoc(t)

	ruleID, err := doc.AddSectionRule(s2, Rule{
		SourceQuestionID: q1,
		Condition:        OpIsEmpty,
		Action:           ActionHide,
	})
	require.NoError(t, err)

	require.NoError(t, doc.RemoveRule(ruleID))
	assert.Empty(t, doc.FindSection(s2).ConditionalLogic)
	assert.ErrorIs(t, doc.RemoveRule(ruleID), ErrRuleNotFound)
}

func TestBuilder_RemoveQuestionDropsTargetingRules(t *testing.T) {
	doc, _, s2, q1, q2 := buildDoc(t)

	_, err := doc.AddQuestionRule(s2, q2, Rule{
		SourceQuestionID: q1,
		Condition:        OpIsNotEmpty,
		Action:           ActionHide,
	})
	require.NoError(t, err)

	require.NoError(t, doc.RemoveQuestion(q2))
	assert.Nil(t, doc.FindQuestion(q2))
	assert.Empty(t, doc.FindSection(s2).ConditionalLogic, "rules targeting the removed question go with it")
}

func TestBuilder_RemoveSection(t *testing.T) {
	doc, s1, _, q1, _ := buildDoc(t)

	require.NoError(t, doc.RemoveSection(s1))
	assert.Nil(t, doc.FindSection(s1))
	assert.Nil(t, doc.FindQuestion(q1), "questions die with their section")
}

func TestBuilder_MoveSection(t *testing.T) {
	doc, s1, s2, _, _ := buildDoc(t)
	s3 := doc.AddSection("Back room", "")

	require.NoError(t, doc.MoveSection(2, 0))
	assert.Equal(t, []string{s3, s1, s2}, []string{doc.Sections[0].ID, doc.Sections[1].ID, doc.Sections[2].ID})

	require.NoError(t, doc.MoveSection(0, 2))
	assert.Equal(t, []string{s1, s2, s3}, []string{doc.Sections[0].ID, doc.Sections[1].ID, doc.Sections[2].ID})

	assert.Error(t, doc.MoveSection(0, 5))
	assert.Error(t, doc.MoveSection(-1, 0))
}

func TestBuilder_MoveQuestion(t *testing.T) {
	doc, s1, _, q1, _ := buildDoc(t)
	q3, err := doc.AddQuestion(s1, Question{Title: "Second", Type: TypeShortText})
	require.NoError(t, err)

	require.NoError(t, doc.MoveQuestion(s1, 1, 0))
	sec := doc.FindSection(s1)
	assert.Equal(t, q3, sec.Questions[0].ID)
	assert.Equal(t, q1, sec.Questions[1].ID)
}

func TestDocument_Validate(t *testing.T) {
	doc, _, _, _, _ := buildDoc(t)
	assert.NoError(t, doc.Validate())

	doc.Sections[1].Questions[0].ID = doc.Sections[0].Questions[0].ID
	assert.Error(t, doc.Validate(), "duplicate question ids rejected")
}
