package model

import (
	"time"

	"gorm.io/datatypes"
)

// EmailTemplate holds subject/content with {{placeholder}} variables.
// Recognized placeholders: {{responsible}}, {{participant}},
// {{last_modified}}, {{form}}, {{url}}, {{contact}}, {{list_unsubscribe}},
// {{member}}, {{organization}}.
type EmailTemplate struct {
	EmailTemplateID int64 `gorm:"column:email_template_id;primaryKey;autoIncrement" json:"email_template_id"`

	EmailTemplateName    string `gorm:"column:email_template_name;type:varchar(256);not null" json:"email_template_name"`
	EmailTemplateSubject string `gorm:"column:email_template_subject;type:varchar(256);not null" json:"email_template_subject"`
	EmailTemplateContent string `gorm:"column:email_template_content;type:text;not null" json:"email_template_content"`

	// Template owner: form templates carry the form id, organization
	// templates leave it empty. Plain id to keep model packages acyclic.
	FormID *int64 `gorm:"column:form_id;index" json:"form_id,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (EmailTemplate) TableName() string {
	return "email_templates"
}

// EmailMessage is an immutable record of one rendered-and-queued outbound
// message. SentAt doubles as the send-idempotency marker: the sender sweep
// only picks up rows where it is NULL.
type EmailMessage struct {
	EmailMessageID int64 `gorm:"column:email_message_id;primaryKey;autoIncrement" json:"email_message_id"`

	EmailTemplateID *int64 `gorm:"column:email_template_id" json:"email_template_id,omitempty"`

	EmailMessageFromAddress string `gorm:"column:email_message_from_address;type:varchar(256);not null" json:"email_message_from_address"`
	EmailMessageToAddress   string `gorm:"column:email_message_to_address;type:varchar(256);not null" json:"email_message_to_address"`
	EmailMessageSubject     string `gorm:"column:email_message_subject;type:varchar(256);not null" json:"email_message_subject"`
	EmailMessageContent     string `gorm:"column:email_message_content;type:text;not null" json:"email_message_content"`

	// Rendering context, kept for audit/resend. The url entry is scrubbed
	// after a successful send because it contains a one-time password.
	EmailMessageContext datatypes.JSON `gorm:"column:email_message_context;type:jsonb;default:'{}'" json:"email_message_context"`

	EmailMessageSentAt *time.Time `gorm:"column:email_message_sent_at;index" json:"email_message_sent_at,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (EmailMessage) TableName() string {
	return "email_messages"
}
