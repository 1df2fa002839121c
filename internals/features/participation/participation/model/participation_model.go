package model

import (
	"time"

	formModel "github.com/tuomas2/serviceform/internals/features/forms/form/model"
	selectionModel "github.com/tuomas2/serviceform/internals/features/participation/selection/model"
	memberModel "github.com/tuomas2/serviceform/internals/features/people/member/model"
)

// Participation binds a member to one form revision. One participation
// per (member, form) is a soft invariant, enforced by lookup before
// create. LastFinishedStep drives the flow state machine; LastFinished
// timestamps the previous submit and is the "changed since" watermark for
// responsible notifications.
type Participation struct {
	ParticipationID int64 `gorm:"column:participation_id;primaryKey;autoIncrement" json:"participation_id"`

	MemberID int64               `gorm:"column:member_id;not null;index" json:"member_id"`
	Member   *memberModel.Member `json:"member,omitempty"`

	FormRevisionID int64                   `gorm:"column:form_revision_id;not null;index" json:"form_revision_id"`
	FormRevision   *formModel.FormRevision `json:"form_revision,omitempty"`

	ParticipationStatus string `gorm:"column:participation_status;type:varchar(16);default:'ongoing'" json:"participation_status"`

	// Name of the last flow step the participant completed; empty for a
	// fresh participant. Last-writer-wins, no optimistic locking.
	ParticipationLastFinishedStep string `gorm:"column:participation_last_finished_step;type:varchar(32);default:''" json:"participation_last_finished_step"`

	ParticipationLastFinished *time.Time `gorm:"column:participation_last_finished" json:"participation_last_finished,omitempty"`

	// Selection rows die with the participation (abandoned cleanup, admin
	// delete), cascading down to activity choices.
	Activities []selectionModel.ParticipationActivity `gorm:"foreignKey:ParticipationID;constraint:OnDelete:CASCADE" json:"-"`
	Answers    []selectionModel.QuestionAnswer        `gorm:"foreignKey:ParticipationID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Participation) TableName() string {
	return "participations"
}
