package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Organization struct {
	OrganizationID   int64  `gorm:"column:organization_id;primaryKey;autoIncrement" json:"organization_id"`
	OrganizationName string `gorm:"column:organization_name;type:varchar(64);not null" json:"organization_name"`

	// Template sent to a member requesting an auth link. Bootstrapped
	// lazily by the emails service.
	EmailToMemberAuthLinkID *int64 `gorm:"column:email_to_member_auth_link_id" json:"email_to_member_auth_link_id,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (Organization) TableName() string {
	return "organizations"
}

const (
	MemberExternal = "external"
	MemberNormal   = "normal"
	MemberStaff    = "staff"
)

// Member is any person known to an organization: participants and
// responsible persons alike. Uniqueness of email per organization is a
// soft invariant enforced by lookups, not by a DB constraint (the legacy
// data contains duplicates).
type Member struct {
	MemberID int64 `gorm:"column:member_id;primaryKey;autoIncrement" json:"member_id"`

	MemberForenames     string `gorm:"column:member_forenames;type:varchar(64);not null" json:"member_forenames"`
	MemberSurname       string `gorm:"column:member_surname;type:varchar(64);not null" json:"member_surname"`
	MemberStreetAddress string `gorm:"column:member_street_address;type:varchar(128)" json:"member_street_address"`
	MemberPostalCode    string `gorm:"column:member_postal_code;type:varchar(32)" json:"member_postal_code"`
	MemberCity          string `gorm:"column:member_city;type:varchar(32)" json:"member_city"`
	MemberYearOfBirth   *int   `gorm:"column:member_year_of_birth" json:"member_year_of_birth,omitempty"`

	MemberEmail         string `gorm:"column:member_email;type:varchar(128);index" json:"member_email"`
	MemberEmailVerified bool   `gorm:"column:member_email_verified;default:false" json:"member_email_verified"`
	MemberPhoneNumber   string `gorm:"column:member_phone_number;type:varchar(32)" json:"member_phone_number"`

	MemberMembershipType string `gorm:"column:member_membership_type;type:varchar(8);default:'external'" json:"member_membership_type"`

	OrganizationID int64 `gorm:"column:organization_id;not null;index" json:"organization_id"`

	// List of {hash, expire} pairs for emailed auth links, most recent
	// last. Capped at configs.AuthStoreKeys entries.
	MemberAuthKeysHashStorage datatypes.JSON `gorm:"column:member_auth_keys_hash_storage;type:jsonb;default:'[]'" json:"-"`

	MemberAllowResponsibleEmail   bool `gorm:"column:member_allow_responsible_email;default:true" json:"member_allow_responsible_email"`
	MemberAllowParticipationEmail bool `gorm:"column:member_allow_participation_email;default:true" json:"member_allow_participation_email"`

	MemberHideContactDetails bool `gorm:"column:member_hide_contact_details;default:false" json:"member_hide_contact_details"`
	MemberShowFullReport     bool `gorm:"column:member_show_full_report;default:false" json:"member_show_full_report"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (Member) TableName() string {
	return "members"
}

func (m *Member) DisplayName() string {
	if m.MemberForenames != "" || m.MemberSurname != "" {
		return strings.TrimSpace(m.MemberForenames + " " + m.MemberSurname)
	}
	return m.MemberEmail
}

func (m *Member) Address() string {
	return strings.TrimSpace(m.MemberStreetAddress + "\n" + m.MemberPostalCode + " " + m.MemberCity)
}

// ContactDisplay renders the contact block embedded into emails.
func (m *Member) ContactDisplay() string {
	lines := []string{"Name: " + m.DisplayName()}
	if m.MemberEmail != "" {
		lines = append(lines, "Email: "+m.MemberEmail)
	}
	if m.MemberPhoneNumber != "" {
		lines = append(lines, "Phone number: "+m.MemberPhoneNumber)
	}
	if addr := m.Address(); addr != "" {
		lines = append(lines, "Address: \n"+addr)
	}
	return strings.Join(lines, "\n")
}
