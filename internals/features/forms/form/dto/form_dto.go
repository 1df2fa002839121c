package dto

type PasswordLoginRequest struct {
	Password string `json:"password" validate:"required,max=32"`
}

type SendAuthLinkRequest struct {
	Email string `json:"email" validate:"required,email,max=128"`
}

// InviteRequest carries a batch of addresses to invite. OldParticipants
// re-invites people who participated in earlier revisions but not yet the
// current one.
type InviteRequest struct {
	EmailAddresses  []string `json:"email_addresses" validate:"required,min=1,dive,email"`
	OldParticipants bool     `json:"old_participants"`
}

type InviteResultResponse struct {
	Email  string `json:"email"`
	Result string `json:"result"`
}

// NewRevisionRequest opens a new schedule window for a form. With Publish
// set the revision becomes current immediately.
type NewRevisionRequest struct {
	Name                   string `json:"name" validate:"required,max=32"`
	ValidFrom              string `json:"valid_from" validate:"required"`
	ValidTo                string `json:"valid_to" validate:"required"`
	SendEmailsAfter        string `json:"send_emails_after" validate:"required"`
	SendBulkToParticipants bool   `json:"send_bulk_to_participants"`
	Publish                bool   `json:"publish"`
}
