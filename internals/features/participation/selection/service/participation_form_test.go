package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hierarchyModel "github.com/tuomas2/serviceform/internals/features/forms/hierarchy/model"
	hierarchyService "github.com/tuomas2/serviceform/internals/features/forms/hierarchy/service"
	participationModel "github.com/tuomas2/serviceform/internals/features/participation/participation/model"
)

// Two activities under one category: 10 without choices, 20 with two
// choices (201, 202) and multiple choices allowed unless overridden.
func testTree(multipleAllowed bool) *hierarchyService.FormTree {
	return &hierarchyService.FormTree{
		Categories: []hierarchyModel.Level1Category{
			{
				Level1CategoryID: 1,
				Categories: []hierarchyModel.Level2Category{
					{
						Level2CategoryID: 2,
						Activities: []hierarchyModel.Activity{
							{ActivityID: 10},
							{
								ActivityID:                     20,
								ActivityMultipleChoicesAllowed: multipleAllowed,
								Choices: []hierarchyModel.ActivityChoice{
									{ActivityChoiceID: 201, ActivityID: 20},
									{ActivityChoiceID: 202, ActivityID: 20},
								},
							},
						},
					},
				},
			},
		},
	}
}

func newForm(multipleAllowed bool) *ParticipationForm {
	tree := testTree(multipleAllowed)
	return NewParticipationForm(tree, nil, &participationModel.Participation{ParticipationID: 1})
}

func TestCleanCheckboxSelection(t *testing.T) {
	f := newForm(true)
	err := f.Clean(map[string]string{
		"SRV_ACTIVITY_10":       "on",
		"SRV_ACTIVITY_EXTRA_10": "weekends only",
		"SRV_CHOICE_201":        "on",
		"SRV_CHOICE_EXTRA_201":  "evenings",
	})
	require.NoError(t, err)
	assert.True(t, f.IsValid())
	assert.True(t, f.Selected(10))
	assert.True(t, f.ChoiceSelected(201))
	assert.False(t, f.ChoiceSelected(202))
	assert.Equal(t, "weekends only", f.ActivityExtra(10))
	assert.Equal(t, "evenings", f.ChoiceExtra(201))
}

func TestCleanRadioSelection(t *testing.T) {
	f := newForm(false)
	err := f.Clean(map[string]string{
		"SRV_ACTIVITYCHOICE_20": "202",
	})
	require.NoError(t, err)
	assert.True(t, f.ChoiceSelected(202))
	assert.False(t, f.ChoiceSelected(201))
}

func TestCleanRadioOnMultichoiceFails(t *testing.T) {
	f := newForm(true)
	err := f.Clean(map[string]string{
		"SRV_ACTIVITYCHOICE_20": "201",
	})
	assert.ErrorIs(t, err, ErrRadioMultchoice)
}

func TestCleanUnknownIDsFail(t *testing.T) {
	f := newForm(true)
	assert.ErrorIs(t, f.Clean(map[string]string{"SRV_ACTIVITY_99": "on"}), ErrInvalidActivity)

	f = newForm(true)
	assert.ErrorIs(t, f.Clean(map[string]string{"SRV_CHOICE_999": "on"}), ErrInvalidChoice)

	f = newForm(false)
	assert.ErrorIs(t, f.Clean(map[string]string{"SRV_ACTIVITYCHOICE_20": "999"}), ErrInvalidChoice)
}

func TestCleanMalformedKeysFail(t *testing.T) {
	f := newForm(true)
	assert.ErrorIs(t, f.Clean(map[string]string{"SRV_ACTIVITY_x": "on"}), ErrInvalidKey)

	f = newForm(true)
	assert.ErrorIs(t, f.Clean(map[string]string{"SRV_BOGUS_10": "on"}), ErrInvalidKey)

	f = newForm(true)
	require.NoError(t, f.Clean(map[string]string{"unrelated_field": "ignored"}))
}

func TestCleanChoicesRequired(t *testing.T) {
	f := newForm(true)
	err := f.Clean(map[string]string{
		"SRV_ACTIVITY_20": "on",
	})
	require.NoError(t, err)
	assert.False(t, f.IsValid())
	assert.Contains(t, f.ActivityErrors, int64(20))

	// Selecting any choice satisfies the rule.
	f = newForm(true)
	err = f.Clean(map[string]string{
		"SRV_ACTIVITY_20": "on",
		"SRV_CHOICE_202":  "on",
	})
	require.NoError(t, err)
	assert.True(t, f.IsValid())
}

func TestCategoryScopeExcludesOtherNodes(t *testing.T) {
	tree := testTree(true)
	other := &hierarchyModel.Level1Category{
		Level1CategoryID: 5,
		Categories: []hierarchyModel.Level2Category{
			{
				Level2CategoryID: 6,
				Activities:       []hierarchyModel.Activity{{ActivityID: 60}},
			},
		},
	}
	tree.Categories = append(tree.Categories, *other)

	f := NewParticipationForm(tree, other, &participationModel.Participation{ParticipationID: 1})
	require.NoError(t, f.Clean(map[string]string{"SRV_ACTIVITY_60": "on"}))
	assert.True(t, f.Selected(60))

	f = NewParticipationForm(tree, other, &participationModel.Participation{ParticipationID: 1})
	assert.ErrorIs(t, f.Clean(map[string]string{"SRV_ACTIVITY_10": "on"}), ErrInvalidActivity)
}

func TestQuestionFormClean(t *testing.T) {
	questions := []hierarchyModel.Question{
		{QuestionID: 1, QuestionRequired: true},
		{QuestionID: 2},
	}
	p := &participationModel.Participation{ParticipationID: 1}

	f := NewQuestionForm(questions, p)
	require.NoError(t, f.Clean(map[string]string{
		"SRV_QUESTION_1": "yes",
		"SRV_QUESTION_2": "maybe",
	}))
	assert.True(t, f.IsValid())
	assert.Equal(t, "yes", f.Answer(1))

	// Required question left empty.
	f = NewQuestionForm(questions, p)
	require.NoError(t, f.Clean(map[string]string{"SRV_QUESTION_2": "maybe"}))
	assert.False(t, f.IsValid())
	assert.Contains(t, f.QuestionErrors, int64(1))

	// Questions missing from the post are cleared.
	f = NewQuestionForm(questions, p)
	f.answers[2] = "stale"
	require.NoError(t, f.Clean(map[string]string{"SRV_QUESTION_1": "yes"}))
	assert.Equal(t, "", f.Answer(2))

	f = NewQuestionForm(questions, p)
	assert.ErrorIs(t, f.Clean(map[string]string{"SRV_QUESTION_99": "x"}), ErrInvalidQuestion)
}
