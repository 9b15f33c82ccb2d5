package runtime

import (
	"testing"

	"github.com/Koyo-os/template-service/internal/document"
	"github.com/Koyo-os/template-service/internal/logic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// auditDoc builds: S1 with required choice Q1, S2 (hidden when Q1 == "No")
// with required numeric Q2, S3 with optional text Q3.
func auditDoc() *document.Document {
	return &document.Document{
		Name: "walkthrough",
		Sections: []document.Section{
			{
				ID:    "s1",
				Title: "Entrance",
				Questions: []document.Question{{
					ID:       "q1",
					Title:    "Store open?",
					Type:     document.TypeSingleChoice,
					Options:  []string{"Yes", "No"},
					Required: true,
					Scoring:  1,
				}},
				Visible: true,
			},
			{
				ID:    "s2",
				Title: "Interior",
				Questions: []document.Question{{
					ID:       "q2",
					Title:    "Shelf count",
					Type:     document.TypeNumeric,
					Required: true,
					Scoring:  1,
				}},
				ConditionalLogic: []document.Rule{{
					ID:               "r1",
					SourceQuestionID: "q1",
					Condition:        document.OpEquals,
					Value:            "No",
					Action:           document.ActionHide,
				}},
				Visible: true,
			},
			{
				ID:    "s3",
				Title: "Wrap up",
				Questions: []document.Question{{
					ID:      "q3",
					Title:   "Notes",
					Type:    document.TypeLongText,
					Scoring: 1,
				}},
				Visible: true,
			},
		},
	}
}

func TestSession_StartsOnFirstVisibleSection(t *testing.T) {
	s := NewSession(auditDoc())

	sec, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "s1", sec.ID)
	assert.Equal(t, float64(0), s.Progress())
}

func TestSession_NextBlockedByRequiredQuestion(t *testing.T) {
	s := NewSession(auditDoc())

	err := s.Next()
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "q1", verrs[0].QuestionID)

	sec, _ := s.Current()
	assert.Equal(t, "s1", sec.ID, "failed validation does not move")
}

func TestSession_FullWalkthrough(t *testing.T) {
	s := NewSession(auditDoc())

	require.NoError(t, s.SetAnswer("q1", logic.TextAnswer("Yes")))
	require.NoError(t, s.Next())

	sec, _ := s.Current()
	assert.Equal(t, "s2", sec.ID)

	require.NoError(t, s.SetAnswer("q2", logic.NumberAnswer(12)))
	require.NoError(t, s.Next())

	sec, _ = s.Current()
	assert.Equal(t, "s3", sec.ID)

	answers, err := s.Submit()
	require.NoError(t, err)
	assert.True(t, s.Submitted())
	assert.Len(t, answers, 2)
	assert.Equal(t, float64(1), s.Progress())

	_, ok := s.Current()
	assert.False(t, ok, "submitted sessions present nothing")
}

func TestSession_AnswerSkipsHiddenSection(t *testing.T) {
	s := NewSession(auditDoc())

	require.NoError(t, s.SetAnswer("q1", logic.TextAnswer("No")))
	require.NoError(t, s.Next())

	sec, _ := s.Current()
	assert.Equal(t, "s3", sec.ID, "s2 resolved hidden, next goes straight to s3")
}

func TestSession_ReclampWhenCurrentSectionVanishes(t *testing.T) {
	s := NewSession(auditDoc())

	require.NoError(t, s.SetAnswer("q1", logic.TextAnswer("Yes")))
	require.NoError(t, s.Next())
	sec, _ := s.Current()
	require.Equal(t, "s2", sec.ID)

	// Going back and flipping q1 hides s2 while it is no longer current;
	// flipping it while on s2 must re-clamp to the nearest earlier visible.
	require.NoError(t, s.SetAnswer("q1", logic.TextAnswer("No")))

	sec, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "s1", sec.ID)
}

func TestSession_Previous(t *testing.T) {
	s := NewSession(auditDoc())

	require.NoError(t, s.SetAnswer("q1", logic.TextAnswer("Yes")))
	require.NoError(t, s.Next())
	require.NoError(t, s.Previous())

	sec, _ := s.Current()
	assert.Equal(t, "s1", sec.ID)

	// Previous on the first section stays put and never validates.
	require.NoError(t, s.Previous())
	sec, _ = s.Current()
	assert.Equal(t, "s1", sec.ID)
}

func TestSession_SubmitOnlyOnLastSection(t *testing.T) {
	s := NewSession(auditDoc())

	require.NoError(t, s.SetAnswer("q1", logic.TextAnswer("Yes")))

	_, err := s.Submit()
	assert.ErrorIs(t, err, ErrNotLastSection)
}

func TestSession_NoVisibleSections(t *testing.T) {
	doc := auditDoc()
	for i := range doc.Sections {
		doc.Sections[i].ConditionalLogic = []document.Rule{{
			ID:               document.NewID(),
			SourceQuestionID: "ghost",
			Condition:        document.OpIsEmpty,
			Action:           document.ActionHide,
		}}
	}

	s := NewSession(doc)

	_, ok := s.Current()
	assert.False(t, ok)
	assert.ErrorIs(t, s.Next(), ErrNoVisibleSections)
	_, err := s.Submit()
	assert.ErrorIs(t, err, ErrNoVisibleSections)
}

func TestSession_HiddenQuestionExemptFromValidation(t *testing.T) {
	doc := auditDoc()
	// Skip q2 whenever q1 is answered at all.
	doc.Sections[1].ConditionalLogic = append(doc.Sections[1].ConditionalLogic, document.Rule{
		ID:                document.NewID(),
		SourceQuestionID:  "q1",
		Condition:         document.OpIsNotEmpty,
		Action:            document.ActionSkip,
		TargetQuestionIDs: []string{"q2"},
	})

	s := NewSession(doc)
	require.NoError(t, s.SetAnswer("q1", logic.TextAnswer("Yes")))
	require.NoError(t, s.Next())

	sec, _ := s.Current()
	require.Equal(t, "s2", sec.ID)

	// q2 is required but skipped, so the section validates empty.
	require.NoError(t, s.Next())
	sec, _ = s.Current()
	assert.Equal(t, "s3", sec.ID)
}

func TestSession_BoundsValidation(t *testing.T) {
	minVal, maxVal := float64(1), float64(50)
	doc := auditDoc()
	doc.Sections[1].Questions[0].MinValue = &minVal
	doc.Sections[1].Questions[0].MaxValue = &maxVal

	s := NewSession(doc)
	require.NoError(t, s.SetAnswer("q1", logic.TextAnswer("Yes")))
	require.NoError(t, s.Next())

	require.NoError(t, s.SetAnswer("q2", logic.NumberAnswer(99)))
	err := s.Next()
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "q2", verrs[0].QuestionID)

	require.NoError(t, s.SetAnswer("q2", logic.TextAnswer("12")))
	assert.NoError(t, s.Next(), "numeric answers may arrive as text")
}

func TestSession_ShortTextLengthBounds(t *testing.T) {
	minLen, maxLen := float64(3), float64(10)
	doc := &document.Document{
		Sections: []document.Section{{
			ID:    "s1",
			Title: "Only",
			Questions: []document.Question{{
				ID:       "q1",
				Title:    "Code",
				Type:     document.TypeShortText,
				Required: true,
				MinValue: &minLen,
				MaxValue: &maxLen,
				Scoring:  1,
			}},
			Visible: true,
		}},
	}

	s := NewSession(doc)

	require.NoError(t, s.SetAnswer("q1", logic.TextAnswer("ab")))
	_, err := s.Submit()
	assert.Error(t, err, "below minimum length")

	require.NoError(t, s.SetAnswer("q1", logic.TextAnswer("abcd")))
	_, err = s.Submit()
	assert.NoError(t, err)
}

func TestSession_TransitionsAfterSubmit(t *testing.T) {
	doc := auditDoc()
	s := NewSession(doc)

	require.NoError(t, s.SetAnswer("q1", logic.TextAnswer("No")))
	require.NoError(t, s.Next())
	_, err := s.Submit()
	require.NoError(t, err)

	assert.ErrorIs(t, s.Next(), ErrAlreadySubmitted)
	assert.ErrorIs(t, s.Previous(), ErrAlreadySubmitted)
	assert.ErrorIs(t, s.SetAnswer("q1", logic.TextAnswer("Yes")), ErrAlreadySubmitted)
	_, err = s.Submit()
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}
