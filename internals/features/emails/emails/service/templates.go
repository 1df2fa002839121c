package service

import (
	"log"

	"gorm.io/gorm"

	"github.com/tuomas2/serviceform/internals/features/emails/emails/model"
	formModel "github.com/tuomas2/serviceform/internals/features/forms/form/model"
	memberModel "github.com/tuomas2/serviceform/internals/features/people/member/model"
)

const bulkEmailToResponsibles = `Dear {{responsible}},

Participation results for {{form}} are now available for you to view.
You can see all participants for the activities you are responsible of in the following URL:
{{url}}
From now on, you will also receive a notification message, if a new participation submitted to
the areas you are responsible of.You can also adjust your contact details and email notification
preferences from previously given URL.

Best regards,
Service form system administrators

Contact person:
{{contact}}`

const invite = `Dear {{participant}},

You are invited to participate in "{{ form }}".
You can fill in your participation details at {{ url }}.

Best regards,
Service form system administrators

Contact person:
{{contact}}`

const messageToResponsibles = `Dear {{responsible}},

New participation from {{participant}} has just been submitted to {{form}}.
You can see all participants for the activities you are responsible of in the following URL:
{{url}}
You can also adjust your contact details and email notification preferences from that URL.

Best regards,
Service form system administrators

Contact person:
{{contact}}`

const participantNewFormRevision = `Dear {{participant}},

New form revision to "{{ form }}" has been published.
Please update your participation information at {{ url }}.

Best regards,
Service form system administrators

Contact person:
{{contact}}`

const participantOnFinish = `Dear {{participant}},

You submitted form "{{ form }}" on {{ last_modified }}.
If you wish to change any of the details you gave, you can go to {{ url }}.

Best regards,
Service form system administrators

Contact person:
{{contact}}`

const resendEmailToParticipants = `Dear {{participant}},

You submitted form "{{ form }}" on {{ last_modified }}.
If you wish to change any of the details you gave, you can go to {{ url }}.

Best regards,
Service form system administrators

Contact person:
{{contact}}`

const participantOnUpdate = `Dear {{participant}},

You submitted update to your data on form "{{ form }}" on {{ last_modified }}.
If you wish to change any of the details you gave, you can go to {{ url }}.

Best regards,
Service form system administrators

Contact person:
{{contact}}`

const requestResponsibleAuthLink = `Dear {{responsible}},

You can see all participants for the activities you are responsible of in the following URL:
{{url}}

Best regards,
Service form system administrators

Contact person:
{{contact}}`

const verificationEmailToParticipant = `Dear {{participant}},

Your email address needs to be verified. Please do so by clicking link below. Then you can
continue filling the form.

{{url}}

Best regards,
Service form system administrators

Contact person:
{{contact}}`

const emailToMemberAuthLink = `Dear {{member}},

Here is your link to access your data in {{organization}}:
{{url}}

Best regards,
Service form system administrators

Contact person:
{{contact}}`

func makeTemplate(db *gorm.DB, name string, formID *int64, content, subject string) (*model.EmailTemplate, error) {
	t := &model.EmailTemplate{
		EmailTemplateName:    name,
		EmailTemplateSubject: subject,
		EmailTemplateContent: content,
		FormID:               formID,
	}
	if err := db.Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// CreateEmailTemplates fills in default templates for every template
// slot the form leaves empty. Idempotent: existing assignments are kept.
func CreateEmailTemplates(db *gorm.DB, form *formModel.ServiceForm) error {
	if form.FormID == 0 {
		log.Println("[ERROR] cannot create email templates for unsaved form")
		return nil
	}

	updates := map[string]interface{}{}

	ensure := func(slot **int64, column, name, content, subject string) error {
		if *slot != nil {
			return nil
		}
		t, err := makeTemplate(db, name, &form.FormID, content, subject)
		if err != nil {
			return err
		}
		*slot = &t.EmailTemplateID
		updates[column] = t.EmailTemplateID
		return nil
	}

	steps := []func() error{
		func() error {
			return ensure(&form.BulkEmailToResponsiblesID, "bulk_email_to_responsibles_id",
				"Default bulk email to responsibles", bulkEmailToResponsibles,
				"Participations can be now viewed for form {{form}}")
		},
		func() error {
			return ensure(&form.EmailToResponsiblesID, "email_to_responsibles_id",
				"Default email to responsibles", messageToResponsibles,
				"New participation arrived for form {{form}}")
		},
		func() error {
			return ensure(&form.EmailToParticipantID, "email_to_participant_id",
				"Default email to participant, on finish", participantOnFinish,
				"Your update to form {{form}}")
		},
		func() error {
			return ensure(&form.EmailToParticipantOnUpdateID, "email_to_participant_on_update_id",
				"Default email to participant, on update", participantOnUpdate,
				"Your updated participation to form {{form}}")
		},
		func() error {
			return ensure(&form.EmailToFormerParticipantsID, "email_to_former_participants_id",
				"Default email to former participants", participantNewFormRevision,
				"New form revision to form {{form}} has been published")
		},
		func() error {
			return ensure(&form.ResendEmailToParticipantID, "resend_email_to_participant_id",
				"Default resend email to participant", resendEmailToParticipants,
				"Your participation to form {{form}}")
		},
		func() error {
			return ensure(&form.EmailToInvitedUsersID, "email_to_invited_users_id",
				"Default invite email to participants", invite,
				"Invitation to fill participation in {{form}}")
		},
		func() error {
			return ensure(&form.EmailToResponsibleAuthLinkID, "email_to_responsible_auth_link_id",
				"Default request responsible auth link email", requestResponsibleAuthLink,
				"Your report in {{form}}")
		},
		func() error {
			return ensure(&form.VerificationEmailToParticipantID, "verification_email_to_participant_id",
				"Default verification email to participant", verificationEmailToParticipant,
				"Please verify your email in {{form}}")
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	if len(updates) == 0 {
		return nil
	}
	return db.Model(&formModel.ServiceForm{}).
		Where("form_id = ?", form.FormID).
		Updates(updates).Error
}

// CreateOrganizationTemplates bootstraps the organization-level auth link
// template.
func CreateOrganizationTemplates(db *gorm.DB, org *memberModel.Organization) error {
	if org.EmailToMemberAuthLinkID != nil {
		return nil
	}
	t, err := makeTemplate(db, "Default auth link to member email", nil, emailToMemberAuthLink,
		"Your authentication link to access your data in {{organization}}")
	if err != nil {
		return err
	}
	org.EmailToMemberAuthLinkID = &t.EmailTemplateID
	return db.Model(&memberModel.Organization{}).
		Where("organization_id = ?", org.OrganizationID).
		Update("email_to_member_auth_link_id", t.EmailTemplateID).Error
}
