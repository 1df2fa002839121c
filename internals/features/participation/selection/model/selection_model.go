package model

import "time"

// Selection rows store what a participation picked. CreatedAt is compared
// with strict greater-than against the participation's last finish time to
// decide which items are new for notification purposes, so it is bumped on
// re-creation but never on a plain extra-text update.

type ParticipationActivity struct {
	ParticipationActivityID int64 `gorm:"column:participation_activity_id;primaryKey;autoIncrement" json:"participation_activity_id"`

	ParticipationID int64 `gorm:"column:participation_id;not null;uniqueIndex:uq_participation_activity" json:"participation_id"`
	ActivityID      int64 `gorm:"column:activity_id;not null;uniqueIndex:uq_participation_activity" json:"activity_id"`

	ParticipationActivityAdditionalInfo string `gorm:"column:participation_activity_additional_info;type:varchar(1024)" json:"participation_activity_additional_info"`

	Choices []ParticipationActivityChoice `gorm:"foreignKey:ParticipationActivityID;constraint:OnDelete:CASCADE" json:"choices,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ParticipationActivity) TableName() string {
	return "participation_activities"
}

type ParticipationActivityChoice struct {
	ParticipationActivityChoiceID int64 `gorm:"column:participation_activity_choice_id;primaryKey;autoIncrement" json:"participation_activity_choice_id"`

	ParticipationActivityID int64 `gorm:"column:participation_activity_id;not null;uniqueIndex:uq_participation_activity_choice" json:"participation_activity_id"`
	ActivityChoiceID        int64 `gorm:"column:activity_choice_id;not null;uniqueIndex:uq_participation_activity_choice" json:"activity_choice_id"`

	ParticipationActivityChoiceAdditionalInfo string `gorm:"column:participation_activity_choice_additional_info;type:varchar(1024)" json:"participation_activity_choice_additional_info"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ParticipationActivityChoice) TableName() string {
	return "participation_activity_choices"
}

type QuestionAnswer struct {
	QuestionAnswerID int64 `gorm:"column:question_answer_id;primaryKey;autoIncrement" json:"question_answer_id"`

	ParticipationID int64 `gorm:"column:participation_id;not null;uniqueIndex:uq_question_answer" json:"participation_id"`
	QuestionID      int64 `gorm:"column:question_id;not null;uniqueIndex:uq_question_answer" json:"question_id"`

	QuestionAnswerText string `gorm:"column:question_answer_text;type:text" json:"question_answer_text"`

	// Bumped whenever the answer text changes, so changed answers count as
	// new when notifying responsibles.
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (QuestionAnswer) TableName() string {
	return "question_answers"
}
