package service

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/tuomas2/serviceform/internals/configs"
	"github.com/tuomas2/serviceform/internals/features/emails/emails/model"
	formModel "github.com/tuomas2/serviceform/internals/features/forms/form/model"
	hierarchyModel "github.com/tuomas2/serviceform/internals/features/forms/hierarchy/model"
	hierarchyService "github.com/tuomas2/serviceform/internals/features/forms/hierarchy/service"
	participationModel "github.com/tuomas2/serviceform/internals/features/participation/participation/model"
	selectionModel "github.com/tuomas2/serviceform/internals/features/participation/selection/model"
	memberModel "github.com/tuomas2/serviceform/internals/features/people/member/model"
	memberService "github.com/tuomas2/serviceform/internals/features/people/member/service"
)

// Event selects which participant-facing template to use.
type Event int

const (
	EventOnFinish Event = iota
	EventOnUpdate
	EventNewFormRevision
	EventResend
	EventInvite
	EventEmailVerification
)

// sendAlways lists events delivered even when the member has opted out of
// participation email: they are direct responses to the member's own
// actions.
var sendAlways = map[Event]bool{
	EventResend:            true,
	EventEmailVerification: true,
	EventOnFinish:          true,
	EventOnUpdate:          true,
}

func loadTemplate(db *gorm.DB, id *int64) (*model.EmailTemplate, error) {
	if id == nil {
		return nil, gorm.ErrRecordNotFound
	}
	var t model.EmailTemplate
	if err := db.First(&t, "email_template_id = ?", *id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func verificationURL(db *gorm.DB, p *participationModel.Participation, m *memberModel.Member) (string, error) {
	password, err := memberService.MakeNewPassword(db, m)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/participation/%d/verify/%s", configs.ServerURL, p.ParticipationID, password), nil
}

// SendParticipantEmail queues a participant-facing message for the given
// event. Missing templates are bootstrapped first. Returns the queued
// message, or nil when the member's preferences suppressed the send.
func SendParticipantEmail(db *gorm.DB, form *formModel.ServiceForm, p *participationModel.Participation,
	m *memberModel.Member, event Event, extraContext map[string]string) (*model.EmailMessage, error) {

	if m.MemberEmail == "" {
		return nil, nil
	}
	if !m.MemberAllowParticipationEmail && !sendAlways[event] {
		return nil, nil
	}
	if err := CreateEmailTemplates(db, form); err != nil {
		return nil, err
	}

	templateIDs := map[Event]*int64{
		EventOnFinish:          form.EmailToParticipantID,
		EventOnUpdate:          form.EmailToParticipantOnUpdateID,
		EventNewFormRevision:   form.EmailToFormerParticipantsID,
		EventResend:            form.ResendEmailToParticipantID,
		EventInvite:            form.EmailToInvitedUsersID,
		EventEmailVerification: form.VerificationEmailToParticipantID,
	}
	template, err := loadTemplate(db, templateIDs[event])
	if err != nil {
		return nil, err
	}

	var url string
	if event == EventEmailVerification {
		url, err = verificationURL(db, p, m)
	} else {
		url, err = memberService.MakeAuthURL(db, m)
	}
	if err != nil {
		return nil, err
	}

	context := map[string]string{
		"participant":      m.DisplayName(),
		"contact":          formContactDisplay(db, form),
		"form":             form.FormName,
		"url":              url,
		"last_modified":    p.UpdatedAt.Format("02.01.2006 15:04"),
		"list_unsubscribe": memberService.UnsubscribeURL(m),
	}
	for k, v := range extraContext {
		context[k] = v
	}
	return MakeMessage(db, template, context, m.MemberEmail)
}

// ResendAuthLink queues a fresh personal link to the participant.
func ResendAuthLink(db *gorm.DB, form *formModel.ServiceForm, p *participationModel.Participation,
	m *memberModel.Member) (*model.EmailMessage, error) {
	return SendParticipantEmail(db, form, p, m, EventResend, nil)
}

// SendResponsibilityEmail notifies one responsible of a new participation.
func SendResponsibilityEmail(db *gorm.DB, form *formModel.ServiceForm, r *memberModel.Member,
	participantName string) error {

	if !r.MemberAllowResponsibleEmail || r.MemberEmail == "" {
		return nil
	}
	template, err := loadTemplate(db, form.EmailToResponsiblesID)
	if err != nil {
		return err
	}
	url, err := memberService.MakeAuthURL(db, r)
	if err != nil {
		return err
	}
	context := map[string]string{
		"responsible":      r.DisplayName(),
		"participant":      participantName,
		"form":             form.FormName,
		"url":              url + "?next=/report/" + form.FormSlug,
		"contact":          formContactDisplay(db, form),
		"list_unsubscribe": memberService.ResponsibleUnsubscribeURL(r),
	}
	_, err = MakeMessage(db, template, context, r.MemberEmail)
	return err
}

// SendBulkMail sends the report-available announcement to one responsible.
func SendBulkMail(db *gorm.DB, form *formModel.ServiceForm, r *memberModel.Member) error {
	if !r.MemberAllowResponsibleEmail || r.MemberEmail == "" {
		return nil
	}
	template, err := loadTemplate(db, form.BulkEmailToResponsiblesID)
	if err != nil {
		return err
	}
	url, err := memberService.MakeAuthURL(db, r)
	if err != nil {
		return err
	}
	context := map[string]string{
		"responsible":      r.DisplayName(),
		"form":             form.FormName,
		"url":              url,
		"contact":          formContactDisplay(db, form),
		"list_unsubscribe": memberService.ResponsibleUnsubscribeURL(r),
	}
	_, err = MakeMessage(db, template, context, r.MemberEmail)
	return err
}

// SendResponsibleAuthLink queues a report link requested by a responsible
// themselves.
func SendResponsibleAuthLink(db *gorm.DB, form *formModel.ServiceForm, r *memberModel.Member) error {
	if r.MemberEmail == "" {
		return nil
	}
	if err := CreateEmailTemplates(db, form); err != nil {
		return err
	}
	template, err := loadTemplate(db, form.EmailToResponsibleAuthLinkID)
	if err != nil {
		return err
	}
	url, err := memberService.MakeAuthURL(db, r)
	if err != nil {
		return err
	}
	context := map[string]string{
		"responsible":      r.DisplayName(),
		"url":              url,
		"contact":          formContactDisplay(db, form),
		"list_unsubscribe": memberService.ResponsibleUnsubscribeURL(r),
	}
	_, err = MakeMessage(db, template, context, r.MemberEmail)
	return err
}

// SendMemberAuthLink queues the organization-level access link.
func SendMemberAuthLink(db *gorm.DB, org *memberModel.Organization, m *memberModel.Member) error {
	if m.MemberEmail == "" {
		return nil
	}
	if err := CreateOrganizationTemplates(db, org); err != nil {
		return err
	}
	template, err := loadTemplate(db, org.EmailToMemberAuthLinkID)
	if err != nil {
		return err
	}
	url, err := memberService.MakeAuthURL(db, m)
	if err != nil {
		return err
	}
	context := map[string]string{
		"member":           m.DisplayName(),
		"organization":     org.OrganizationName,
		"url":              url,
		"list_unsubscribe": memberService.UnsubscribeURL(m),
	}
	_, err = MakeMessage(db, template, context, m.MemberEmail)
	return err
}

// NotifyResponsibles emails everyone responsible for an item the
// participant added or changed since their previous finish. The effective
// responsible set of an activity includes its category ancestors; choices
// and questions notify their directly assigned members. Each responsible
// gets at most one message per finish.
func NotifyResponsibles(db *gorm.DB, tree *hierarchyService.FormTree,
	p *participationModel.Participation, m *memberModel.Member) error {

	changedSince := func(createdAt time.Time) bool {
		return p.ParticipationLastFinished == nil || createdAt.After(*p.ParticipationLastFinished)
	}

	// Activity id to the union of its own and its category ancestors'
	// responsibles; choice id to the choice's direct responsibles.
	activityResponsibles := map[int64][]memberModel.Member{}
	choiceResponsibles := map[int64][]memberModel.Member{}
	for i := range tree.Categories {
		cat1 := &tree.Categories[i]
		for j := range cat1.Categories {
			cat2 := &cat1.Categories[j]
			for k := range cat2.Activities {
				activity := &cat2.Activities[k]
				combined := make([]memberModel.Member, 0,
					len(activity.Responsibles)+len(cat2.Responsibles)+len(cat1.Responsibles))
				combined = append(combined, activity.Responsibles...)
				combined = append(combined, cat2.Responsibles...)
				combined = append(combined, cat1.Responsibles...)
				activityResponsibles[activity.ActivityID] = combined
				for l := range activity.Choices {
					choice := &activity.Choices[l]
					choiceResponsibles[choice.ActivityChoiceID] = choice.Responsibles
				}
			}
		}
	}

	recipients := map[int64]memberModel.Member{}
	collectDirect := func(members []memberModel.Member) {
		for _, r := range members {
			recipients[r.MemberID] = r
		}
	}

	var pacts []selectionModel.ParticipationActivity
	err := db.Preload("Choices").
		Where("participation_id = ?", p.ParticipationID).
		Find(&pacts).Error
	if err != nil {
		return err
	}
	for i := range pacts {
		pact := &pacts[i]
		if changedSince(pact.CreatedAt) {
			collectDirect(activityResponsibles[pact.ActivityID])
		}
		for j := range pact.Choices {
			pchoice := &pact.Choices[j]
			if changedSince(pchoice.CreatedAt) {
				collectDirect(choiceResponsibles[pchoice.ActivityChoiceID])
			}
		}
	}

	var answers []selectionModel.QuestionAnswer
	err = db.Where("participation_id = ?", p.ParticipationID).Find(&answers).Error
	if err != nil {
		return err
	}
	questions := map[int64]*hierarchyModel.Question{}
	for i := range tree.Questions {
		questions[tree.Questions[i].QuestionID] = &tree.Questions[i]
	}
	for i := range answers {
		if !changedSince(answers[i].CreatedAt) {
			continue
		}
		if q, ok := questions[answers[i].QuestionID]; ok {
			collectDirect(q.Responsibles)
		}
	}

	name := m.DisplayName()
	for _, r := range recipients {
		r := r
		if err := SendResponsibilityEmail(db, tree.Form, &r, name); err != nil {
			log.Printf("[WARN] responsible notification to %s failed: %v", r.MemberEmail, err)
		}
	}
	return nil
}

func formContactDisplay(db *gorm.DB, form *formModel.ServiceForm) string {
	if form.ResponsibleID == nil {
		return ""
	}
	var r memberModel.Member
	if err := db.First(&r, "member_id = ?", *form.ResponsibleID).Error; err != nil {
		return ""
	}
	return r.ContactDisplay()
}
