package model

import "time"

const (
	TaskRequested = "requested"
	TaskDone      = "done"
	TaskError     = "error"
	TaskCanceled  = "canceled"
)

// Task kinds executed by the processor loop.
const (
	KindBulkEmailResponsibles       = "bulk_email_responsibles"
	KindBulkEmailFormerParticipants = "bulk_email_former_participants"
)

// Task is a deferred, fire-once unit of work targeting a form. Bulk email
// rescheduling deletes any not-yet-fired future task for the same form
// before creating new ones, which debounces repeated form saves.
type Task struct {
	TaskID int64 `gorm:"column:task_id;primaryKey;autoIncrement" json:"task_id"`

	TaskKind string `gorm:"column:task_kind;type:varchar(64);not null" json:"task_kind"`
	FormID   int64  `gorm:"column:form_id;not null;index" json:"form_id"`

	TaskScheduledTime time.Time `gorm:"column:task_scheduled_time;not null;index" json:"task_scheduled_time"`
	TaskStatus        string    `gorm:"column:task_status;type:varchar(16);default:'requested';index" json:"task_status"`
	TaskResult        string    `gorm:"column:task_result;type:text" json:"task_result"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Task) TableName() string {
	return "tasks"
}
