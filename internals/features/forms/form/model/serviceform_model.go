package model

import (
	"time"

	"gorm.io/gorm"

	memberModel "github.com/tuomas2/serviceform/internals/features/people/member/model"
)

// FormRevision is a named, time-boxed snapshot of a form's publication
// schedule. Participations reference exactly one revision.
type FormRevision struct {
	FormRevisionID int64 `gorm:"column:form_revision_id;primaryKey;autoIncrement" json:"form_revision_id"`

	FormRevisionName string `gorm:"column:form_revision_name;type:varchar(32);not null;uniqueIndex:uq_form_revision_name" json:"form_revision_name"`
	FormID           int64  `gorm:"column:form_id;not null;uniqueIndex:uq_form_revision_name;index" json:"form_id"`

	FormRevisionValidFrom time.Time `gorm:"column:form_revision_valid_from;not null" json:"form_revision_valid_from"`
	FormRevisionValidTo   time.Time `gorm:"column:form_revision_valid_to;not null" json:"form_revision_valid_to"`

	// Bulk email to responsibles starts at this time; after it, every new
	// finished participation also notifies responsibles individually.
	FormRevisionSendEmailsAfter time.Time `gorm:"column:form_revision_send_emails_after;not null" json:"form_revision_send_emails_after"`

	FormRevisionSendBulkEmailToParticipants bool `gorm:"column:form_revision_send_bulk_email_to_participants;default:true" json:"form_revision_send_bulk_email_to_participants"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (FormRevision) TableName() string {
	return "form_revisions"
}

type ServiceForm struct {
	FormID int64 `gorm:"column:form_id;primaryKey;autoIncrement" json:"form_id"`

	FormName        string `gorm:"column:form_name;type:varchar(256);not null" json:"form_name"`
	FormSlug        string `gorm:"column:form_slug;type:varchar(64);not null;unique;index" json:"form_slug"`
	FormDescription string `gorm:"column:form_description;type:text" json:"form_description"`

	OrganizationID int64  `gorm:"column:organization_id;not null;index" json:"organization_id"`
	ResponsibleID  *int64 `gorm:"column:responsible_id" json:"responsible_id,omitempty"`

	// At most one current revision at a time; revisions themselves are
	// immutable snapshots of the schedule window.
	CurrentRevisionID *int64        `gorm:"column:current_revision_id" json:"current_revision_id,omitempty"`
	CurrentRevision   *FormRevision `gorm:"foreignKey:CurrentRevisionID;references:FormRevisionID" json:"current_revision,omitempty"`

	// Optional password gate, compared verbatim.
	FormPassword string `gorm:"column:form_password;type:varchar(32);default:''" json:"-"`

	FormRequireEmailVerification bool `gorm:"column:form_require_email_verification;default:true" json:"form_require_email_verification"`

	// Flow mode: linear over the whole hierarchy, or one step per level 1
	// category, optionally with free jumping between categories.
	FormFlowByCategories       bool `gorm:"column:form_flow_by_categories;default:false" json:"form_flow_by_categories"`
	FormAllowSkippingCategories bool `gorm:"column:form_allow_skipping_categories;default:false" json:"form_allow_skipping_categories"`

	FormHideContactDetails bool `gorm:"column:form_hide_contact_details;default:false" json:"form_hide_contact_details"`

	FormRequiredYearOfBirth   bool `gorm:"column:form_required_year_of_birth;default:false" json:"form_required_year_of_birth"`
	FormRequiredStreetAddress bool `gorm:"column:form_required_street_address;default:true" json:"form_required_street_address"`
	FormRequiredPhoneNumber   bool `gorm:"column:form_required_phone_number;default:true" json:"form_required_phone_number"`

	FormVisibleYearOfBirth   bool `gorm:"column:form_visible_year_of_birth;default:true" json:"form_visible_year_of_birth"`
	FormVisibleStreetAddress bool `gorm:"column:form_visible_street_address;default:true" json:"form_visible_street_address"`
	FormVisiblePhoneNumber   bool `gorm:"column:form_visible_phone_number;default:true" json:"form_visible_phone_number"`

	// Default email template ids, bootstrapped on first use.
	EmailToResponsiblesID          *int64 `gorm:"column:email_to_responsibles_id" json:"-"`
	BulkEmailToResponsiblesID      *int64 `gorm:"column:bulk_email_to_responsibles_id" json:"-"`
	EmailToParticipantID           *int64 `gorm:"column:email_to_participant_id" json:"-"`
	EmailToParticipantOnUpdateID   *int64 `gorm:"column:email_to_participant_on_update_id" json:"-"`
	EmailToFormerParticipantsID    *int64 `gorm:"column:email_to_former_participants_id" json:"-"`
	ResendEmailToParticipantID     *int64 `gorm:"column:resend_email_to_participant_id" json:"-"`
	EmailToInvitedUsersID          *int64 `gorm:"column:email_to_invited_users_id" json:"-"`
	EmailToResponsibleAuthLinkID   *int64 `gorm:"column:email_to_responsible_auth_link_id" json:"-"`
	VerificationEmailToParticipantID *int64 `gorm:"column:verification_email_to_participant_id" json:"-"`

	FormDirectResponsibles []memberModel.Member `gorm:"many2many:form_responsibles;joinForeignKey:FormID;joinReferences:MemberID" json:"-"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (ServiceForm) TableName() string {
	return "service_forms"
}

// IsPublished reports whether the form's current revision window contains
// the given instant.
func (f *ServiceForm) IsPublished(now time.Time) bool {
	if f.CurrentRevision == nil {
		return false
	}
	return !now.Before(f.CurrentRevision.FormRevisionValidFrom) &&
		!now.After(f.CurrentRevision.FormRevisionValidTo)
}
