package model

import (
	"time"

	memberModel "github.com/tuomas2/serviceform/internals/features/people/member/model"
)

// The hierarchy is a fixed 4-level chain under a form:
// Level1Category -> Level2Category -> Activity -> ActivityChoice.
// Questions are siblings attached directly to the form.
//
// Every node carries an order (stable sort within its parent), a
// skip-numbering flag (exclude from human-facing counters) and a set of
// directly assigned responsible members.

type Level1Category struct {
	Level1CategoryID int64 `gorm:"column:level1_category_id;primaryKey;autoIncrement" json:"level1_category_id"`

	FormID int64 `gorm:"column:form_id;not null;index" json:"form_id"`

	Level1CategoryName        string `gorm:"column:level1_category_name;type:varchar(256);not null" json:"level1_category_name"`
	Level1CategoryDescription string `gorm:"column:level1_category_description;type:text" json:"level1_category_description"`

	Level1CategoryOrder         int  `gorm:"column:level1_category_order;default:0;index" json:"level1_category_order"`
	Level1CategorySkipNumbering bool `gorm:"column:level1_category_skip_numbering;default:false" json:"level1_category_skip_numbering"`

	Responsibles []memberModel.Member `gorm:"many2many:level1_category_responsibles;joinForeignKey:Level1CategoryID;joinReferences:MemberID" json:"responsibles,omitempty"`

	Categories []Level2Category `gorm:"foreignKey:Level1CategoryID" json:"categories,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Level1Category) TableName() string {
	return "level1_categories"
}

type Level2Category struct {
	Level2CategoryID int64 `gorm:"column:level2_category_id;primaryKey;autoIncrement" json:"level2_category_id"`

	Level1CategoryID int64 `gorm:"column:level1_category_id;not null;index" json:"level1_category_id"`

	Level2CategoryName        string `gorm:"column:level2_category_name;type:varchar(256);not null" json:"level2_category_name"`
	Level2CategoryDescription string `gorm:"column:level2_category_description;type:text" json:"level2_category_description"`

	Level2CategoryOrder         int  `gorm:"column:level2_category_order;default:0;index" json:"level2_category_order"`
	Level2CategorySkipNumbering bool `gorm:"column:level2_category_skip_numbering;default:false" json:"level2_category_skip_numbering"`

	Responsibles []memberModel.Member `gorm:"many2many:level2_category_responsibles;joinForeignKey:Level2CategoryID;joinReferences:MemberID" json:"responsibles,omitempty"`

	Activities []Activity `gorm:"foreignKey:Level2CategoryID" json:"activities,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Level2Category) TableName() string {
	return "level2_categories"
}

type Activity struct {
	ActivityID int64 `gorm:"column:activity_id;primaryKey;autoIncrement" json:"activity_id"`

	Level2CategoryID int64 `gorm:"column:level2_category_id;not null;index" json:"level2_category_id"`

	ActivityName        string `gorm:"column:activity_name;type:varchar(256);not null" json:"activity_name"`
	ActivityDescription string `gorm:"column:activity_description;type:text" json:"activity_description"`

	ActivityOrder         int  `gorm:"column:activity_order;default:0;index" json:"activity_order"`
	ActivitySkipNumbering bool `gorm:"column:activity_skip_numbering;default:false" json:"activity_skip_numbering"`

	// When false the activity's choices render as radio buttons and the
	// wire format uses SRV_ACTIVITYCHOICE_<activity>=<choice>.
	ActivityMultipleChoicesAllowed bool `gorm:"column:activity_multiple_choices_allowed;default:true" json:"activity_multiple_choices_allowed"`
	ActivityPeopleNeeded           int  `gorm:"column:activity_people_needed;default:0" json:"activity_people_needed"`

	Responsibles []memberModel.Member `gorm:"many2many:activity_responsibles;joinForeignKey:ActivityID;joinReferences:MemberID" json:"responsibles,omitempty"`

	Choices []ActivityChoice `gorm:"foreignKey:ActivityID" json:"choices,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Activity) TableName() string {
	return "activities"
}

func (a *Activity) HasChoices() bool {
	return len(a.Choices) > 0
}

type ActivityChoice struct {
	ActivityChoiceID int64 `gorm:"column:activity_choice_id;primaryKey;autoIncrement" json:"activity_choice_id"`

	ActivityID int64 `gorm:"column:activity_id;not null;index" json:"activity_id"`

	ActivityChoiceName        string `gorm:"column:activity_choice_name;type:varchar(256);not null" json:"activity_choice_name"`
	ActivityChoiceDescription string `gorm:"column:activity_choice_description;type:text" json:"activity_choice_description"`

	ActivityChoiceOrder         int  `gorm:"column:activity_choice_order;default:0;index" json:"activity_choice_order"`
	ActivityChoiceSkipNumbering bool `gorm:"column:activity_choice_skip_numbering;default:false" json:"activity_choice_skip_numbering"`

	ActivityChoicePeopleNeeded int `gorm:"column:activity_choice_people_needed;default:0" json:"activity_choice_people_needed"`

	Responsibles []memberModel.Member `gorm:"many2many:activity_choice_responsibles;joinForeignKey:ActivityChoiceID;joinReferences:MemberID" json:"responsibles,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ActivityChoice) TableName() string {
	return "activity_choices"
}

const (
	AnswerInt       = "integer"
	AnswerShortText = "short_text"
	AnswerLongText  = "long_text"
	AnswerBool      = "boolean"
	AnswerDate      = "date"
)

type Question struct {
	QuestionID int64 `gorm:"column:question_id;primaryKey;autoIncrement" json:"question_id"`

	FormID int64 `gorm:"column:form_id;not null;index" json:"form_id"`

	QuestionText       string `gorm:"column:question_text;type:varchar(1024);not null" json:"question_text"`
	QuestionAnswerType string `gorm:"column:question_answer_type;type:varchar(16);default:'short_text'" json:"question_answer_type"`
	QuestionRequired   bool   `gorm:"column:question_required;default:false" json:"question_required"`

	QuestionOrder         int  `gorm:"column:question_order;default:0;index" json:"question_order"`
	QuestionSkipNumbering bool `gorm:"column:question_skip_numbering;default:false" json:"question_skip_numbering"`

	Responsibles []memberModel.Member `gorm:"many2many:question_responsibles;joinForeignKey:QuestionID;joinReferences:MemberID" json:"responsibles,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}
