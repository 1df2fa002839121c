package service

import (
	"time"

	"gorm.io/gorm"

	"github.com/tuomas2/serviceform/internals/constants"
	formModel "github.com/tuomas2/serviceform/internals/features/forms/form/model"
	"github.com/tuomas2/serviceform/internals/features/participation/participation/model"
	memberModel "github.com/tuomas2/serviceform/internals/features/people/member/model"
)

// Flow builds the ordered step list for one participant on one form. Pure
// function of the form configuration and the member's verification state:
//   - email_verification only when the form requires it, the member's
//     email is present and not yet verified
//   - questions only when the form has at least one question
//   - an unpublished form collapses to [contact_details, submitted] so a
//     returning participant can still fix contact details
func Flow(form *formModel.ServiceForm, member *memberModel.Member, hasQuestions bool, now time.Time) []string {
	if !form.IsPublished(now) {
		return []string{constants.StepContactDetails, constants.StepSubmitted}
	}

	flow := make([]string, 0, len(constants.FullFlow))
	for _, step := range constants.FullFlow {
		switch step {
		case constants.StepEmailVerification:
			if !form.FormRequireEmailVerification {
				continue
			}
			if member != nil && (member.MemberEmailVerified || member.MemberEmail == "") {
				continue
			}
		case constants.StepQuestions:
			if !hasQuestions {
				continue
			}
		}
		flow = append(flow, step)
	}
	return flow
}

func stepIndex(flow []string, step string) int {
	for i, s := range flow {
		if s == step {
			return i
		}
	}
	return -1
}

// CanAccess implements the one-step-at-a-time gate: access is granted iff
// the requested step is at most one past the last finished step.
//
// auth distinguishes a genuine step-completion call from a raw
// authentication check; submitted is only reachable for the former, so a
// merely re-authenticating participant never lands on the "ready" page.
//
// When per-category flow allows jumping between categories, a participant
// past the entry steps gets one extra step of lookahead; in-category
// navigation is handled by the more permissive max-category mechanism.
func CanAccess(p *model.Participation, form *formModel.ServiceForm, flow []string, step string, auth bool) bool {
	if step == constants.StepSubmitted && !auth {
		return false
	}
	last := stepIndex(flow, p.ParticipationLastFinishedStep)
	cur := stepIndex(flow, step)
	if cur == -1 {
		cur = last + 2
	}
	if form.FormFlowByCategories && form.FormAllowSkippingCategories {
		if form.FormRequireEmailVerification {
			if p.ParticipationLastFinishedStep == constants.StepEmailVerification {
				last++
			}
		} else if p.ParticipationLastFinishedStep == constants.StepContactDetails {
			last++
		}
	}
	return cur <= last+1
}

// ProceedTo records progress implied by a redirect: when the participant
// cannot yet access the next step, the step just before it becomes the
// last finished one. Progress is inferred from navigation, never moved
// backwards.
func ProceedTo(db *gorm.DB, p *model.Participation, form *formModel.ServiceForm, flow []string, next string) error {
	if CanAccess(p, form, flow, next, false) {
		return nil
	}
	idx := stepIndex(flow, next)
	if idx <= 0 {
		return nil
	}
	p.ParticipationLastFinishedStep = flow[idx-1]
	return db.Model(p).
		Update("participation_last_finished_step", p.ParticipationLastFinishedStep).Error
}

// NextStep returns the step after current in the flow, or submitted when
// current is last or unknown.
func NextStep(flow []string, current string) string {
	idx := stepIndex(flow, current)
	if idx == -1 || idx+1 >= len(flow) {
		return constants.StepSubmitted
	}
	return flow[idx+1]
}

// ResumeStep is where a returning participant lands: the step after the
// last finished one.
func ResumeStep(flow []string, p *model.Participation) string {
	last := stepIndex(flow, p.ParticipationLastFinishedStep)
	if last+1 >= len(flow) {
		return flow[len(flow)-1]
	}
	return flow[last+1]
}

// BeginUpdate reopens a participation when an authenticated member
// returns after finishing. A revision change since the last walk resets
// flow progress, forcing a full re-walk under the new revision, and the
// participation is re-pointed at the current revision.
func BeginUpdate(db *gorm.DB, p *model.Participation, form *formModel.ServiceForm) error {
	switch p.ParticipationStatus {
	case constants.StatusFinished:
		p.ParticipationStatus = constants.StatusUpdating
	case constants.StatusInvited:
		p.ParticipationStatus = constants.StatusOngoing
	}
	if form.CurrentRevisionID != nil && p.FormRevisionID != *form.CurrentRevisionID {
		p.ParticipationLastFinishedStep = ""
		p.FormRevisionID = *form.CurrentRevisionID
	}
	return db.Model(p).Updates(map[string]interface{}{
		"participation_status":             p.ParticipationStatus,
		"participation_last_finished_step": p.ParticipationLastFinishedStep,
		"form_revision_id":                 p.FormRevisionID,
	}).Error
}
