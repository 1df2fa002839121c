package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	formModel "github.com/tuomas2/serviceform/internals/features/forms/form/model"
	"github.com/tuomas2/serviceform/internals/features/forms/hierarchy/model"
	memberModel "github.com/tuomas2/serviceform/internals/features/people/member/model"
)

func member(id int64, email string) memberModel.Member {
	return memberModel.Member{MemberID: id, MemberEmail: email}
}

// aggTree builds a small in-memory hierarchy:
//
//	cat1 (resp 1)
//	  cat2 (resp 2)
//	    activity 10 (resp 3)         -> choices 101, 102 (102 skip-numbered)
//	    activity 11 (skip-numbered)  -> no choices
//	cat1b (no responsibles)
//	  cat2b
//	    activity 12 (resp 3)
func aggTree() *FormTree {
	return &FormTree{
		Form: &formModel.ServiceForm{FormID: 1},
		Categories: []model.Level1Category{
			{
				Level1CategoryID: 1,
				Responsibles:     []memberModel.Member{member(1, "a@x.fi")},
				Categories: []model.Level2Category{
					{
						Level2CategoryID: 2,
						Responsibles:     []memberModel.Member{member(2, "b@x.fi")},
						Activities: []model.Activity{
							{
								ActivityID:   10,
								Responsibles: []memberModel.Member{member(3, "c@x.fi")},
								Choices: []model.ActivityChoice{
									{ActivityChoiceID: 101},
									{ActivityChoiceID: 102, ActivityChoiceSkipNumbering: true},
								},
							},
							{ActivityID: 11, ActivitySkipNumbering: true},
						},
					},
				},
			},
			{
				Level1CategoryID: 3,
				Categories: []model.Level2Category{
					{
						Level2CategoryID: 4,
						Activities: []model.Activity{
							{ActivityID: 12, Responsibles: []memberModel.Member{member(3, "c@x.fi")}},
						},
					},
				},
			},
		},
		Questions: []model.Question{
			{QuestionID: 50, Responsibles: []memberModel.Member{member(4, "d@x.fi")}},
		},
	}
}

func TestAggregateCounters(t *testing.T) {
	agg := aggTree().Aggregate(false)

	assert.Equal(t, 0, agg.Level1[1].Counter)
	assert.Equal(t, 1, agg.Level1[3].Counter)
	assert.Equal(t, 0, agg.Level2[2].Counter)

	// Activity numbering runs over the whole form, skip-numbered ones
	// keep the previous number.
	assert.Equal(t, "1", agg.Activities[10].IDDisplay(false))
	assert.Equal(t, "1+", agg.Activities[11].IDDisplay(true))
	assert.Equal(t, "2", agg.Activities[12].IDDisplay(false))

	// Choice letters reset per activity.
	assert.Equal(t, "a", agg.Choices[101].LetterDisplay(false))
	assert.Equal(t, "a+", agg.Choices[102].LetterDisplay(true))
}

func TestAggregateResponsibleInheritance(t *testing.T) {
	direct := aggTree().Aggregate(false)
	assert.Len(t, direct.Activities[10].Responsibles, 1)
	assert.Contains(t, direct.Activities[10].Responsibles, int64(3))
	assert.Empty(t, direct.Activities[11].Responsibles)

	inherited := aggTree().Aggregate(true)
	eff := inherited.Activities[10].Responsibles
	assert.Len(t, eff, 3)
	assert.Contains(t, eff, int64(1))
	assert.Contains(t, eff, int64(2))
	assert.Contains(t, eff, int64(3))

	choice := inherited.Choices[101].Responsibles
	assert.Len(t, choice, 3)

	// No responsibles anywhere in the ancestry stays empty.
	assert.Empty(t, inherited.Level2[4].Responsibles)
	assert.Len(t, inherited.Activities[12].Responsibles, 1)
}

func TestAggregateResponsibleCounts(t *testing.T) {
	agg := aggTree().Aggregate(false)

	// Member 3 is directly responsible for two activities, questions
	// count too.
	assert.Equal(t, 2, agg.ResponsibleCounts[3])
	assert.Equal(t, 1, agg.ResponsibleCounts[1])
	assert.Equal(t, 1, agg.ResponsibleCounts[4])
}

func TestAggregateIdempotent(t *testing.T) {
	tree := aggTree()
	first := tree.Aggregate(false)
	second := tree.Aggregate(true)
	assert.Same(t, first, second)
	assert.Equal(t, 2, first.ResponsibleCounts[3])
}

func TestAllResponsiblesDedup(t *testing.T) {
	all := aggTree().AllResponsibles()
	assert.Len(t, all, 4)
	seen := map[int64]bool{}
	for _, m := range all {
		seen[m.MemberID] = true
	}
	assert.True(t, seen[1] && seen[2] && seen[3] && seen[4])
}
