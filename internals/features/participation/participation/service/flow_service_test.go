package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tuomas2/serviceform/internals/constants"
	formModel "github.com/tuomas2/serviceform/internals/features/forms/form/model"
	"github.com/tuomas2/serviceform/internals/features/participation/participation/model"
	memberModel "github.com/tuomas2/serviceform/internals/features/people/member/model"
)

func publishedForm(requireVerification bool) *formModel.ServiceForm {
	now := time.Now()
	return &formModel.ServiceForm{
		FormID:                       1,
		FormRequireEmailVerification: requireVerification,
		CurrentRevision: &formModel.FormRevision{
			FormRevisionValidFrom: now.Add(-24 * time.Hour),
			FormRevisionValidTo:   now.Add(24 * time.Hour),
		},
	}
}

func TestFlowFull(t *testing.T) {
	form := publishedForm(true)
	member := &memberModel.Member{MemberEmail: "a@example.com"}

	flow := Flow(form, member, true, time.Now())
	assert.Equal(t, []string{
		constants.StepContactDetails,
		constants.StepEmailVerification,
		constants.StepParticipation,
		constants.StepQuestions,
		constants.StepPreview,
		constants.StepSubmitted,
	}, flow)
}

func TestFlowSkipsVerificationWhenVerified(t *testing.T) {
	form := publishedForm(true)
	member := &memberModel.Member{MemberEmail: "a@example.com", MemberEmailVerified: true}

	flow := Flow(form, member, false, time.Now())
	assert.NotContains(t, flow, constants.StepEmailVerification)
	assert.NotContains(t, flow, constants.StepQuestions)
}

func TestFlowSkipsVerificationWithoutEmail(t *testing.T) {
	form := publishedForm(true)
	member := &memberModel.Member{}

	flow := Flow(form, member, false, time.Now())
	assert.NotContains(t, flow, constants.StepEmailVerification)
}

func TestFlowUnpublishedCollapses(t *testing.T) {
	form := publishedForm(false)
	form.CurrentRevision.FormRevisionValidTo = time.Now().Add(-time.Hour)

	flow := Flow(form, &memberModel.Member{}, true, time.Now())
	assert.Equal(t, []string{constants.StepContactDetails, constants.StepSubmitted}, flow)
}

func TestCanAccessOneStepAhead(t *testing.T) {
	form := publishedForm(false)
	flow := Flow(form, &memberModel.Member{}, false, time.Now())
	// contact_details, participation, preview, submitted
	p := &model.Participation{ParticipationLastFinishedStep: constants.StepContactDetails}

	assert.True(t, CanAccess(p, form, flow, constants.StepContactDetails, false))
	assert.True(t, CanAccess(p, form, flow, constants.StepParticipation, false))
	assert.False(t, CanAccess(p, form, flow, constants.StepPreview, false))
}

func TestCanAccessFreshParticipant(t *testing.T) {
	form := publishedForm(false)
	flow := Flow(form, &memberModel.Member{}, false, time.Now())
	p := &model.Participation{}

	assert.True(t, CanAccess(p, form, flow, constants.StepContactDetails, false))
	assert.False(t, CanAccess(p, form, flow, constants.StepParticipation, false))
}

func TestCanAccessSubmittedRequiresAuth(t *testing.T) {
	form := publishedForm(false)
	flow := Flow(form, &memberModel.Member{}, false, time.Now())
	p := &model.Participation{ParticipationLastFinishedStep: constants.StepPreview}

	assert.False(t, CanAccess(p, form, flow, constants.StepSubmitted, false))
	assert.True(t, CanAccess(p, form, flow, constants.StepSubmitted, true))
}

func TestCanAccessCategorySkipLookahead(t *testing.T) {
	form := publishedForm(false)
	form.FormFlowByCategories = true
	form.FormAllowSkippingCategories = true
	flow := Flow(form, &memberModel.Member{}, false, time.Now())
	// contact_details, participation, preview, submitted
	p := &model.Participation{ParticipationLastFinishedStep: constants.StepContactDetails}

	assert.True(t, CanAccess(p, form, flow, constants.StepPreview, false))

	p.ParticipationLastFinishedStep = constants.StepParticipation
	assert.False(t, CanAccess(p, form, flow, constants.StepSubmitted, false))
}

func TestCanAccessCategorySkipAfterVerification(t *testing.T) {
	form := publishedForm(true)
	form.FormFlowByCategories = true
	form.FormAllowSkippingCategories = true
	member := &memberModel.Member{MemberEmail: "a@example.com"}
	flow := Flow(form, member, false, time.Now())
	// contact_details, email_verification, participation, preview, submitted
	p := &model.Participation{ParticipationLastFinishedStep: constants.StepEmailVerification}

	assert.True(t, CanAccess(p, form, flow, constants.StepPreview, false))

	// Only the verification step unlocks the lookahead on this form.
	p.ParticipationLastFinishedStep = constants.StepContactDetails
	assert.False(t, CanAccess(p, form, flow, constants.StepPreview, false))
}

func TestNextStep(t *testing.T) {
	flow := []string{constants.StepContactDetails, constants.StepParticipation, constants.StepPreview, constants.StepSubmitted}

	assert.Equal(t, constants.StepParticipation, NextStep(flow, constants.StepContactDetails))
	assert.Equal(t, constants.StepSubmitted, NextStep(flow, constants.StepSubmitted))
	assert.Equal(t, constants.StepSubmitted, NextStep(flow, "bogus"))
}

func TestResumeStep(t *testing.T) {
	flow := []string{constants.StepContactDetails, constants.StepParticipation, constants.StepPreview, constants.StepSubmitted}

	fresh := &model.Participation{}
	assert.Equal(t, constants.StepContactDetails, ResumeStep(flow, fresh))

	mid := &model.Participation{ParticipationLastFinishedStep: constants.StepParticipation}
	assert.Equal(t, constants.StepPreview, ResumeStep(flow, mid))

	done := &model.Participation{ParticipationLastFinishedStep: constants.StepSubmitted}
	assert.Equal(t, constants.StepSubmitted, ResumeStep(flow, done))
}
