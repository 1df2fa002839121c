package service

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	emailService "github.com/tuomas2/serviceform/internals/features/emails/emails/service"
	"github.com/tuomas2/serviceform/internals/features/forms/form/model"
	taskService "github.com/tuomas2/serviceform/internals/features/tasks/tasks/service"
)

var ErrRevisionWindow = errors.New("form: revision valid_to before valid_from")

// CreateRevision stores a new schedule snapshot for the form. Revisions
// are immutable once participations point at them.
func CreateRevision(db *gorm.DB, form *model.ServiceForm, name string,
	validFrom, validTo, sendEmailsAfter time.Time, sendBulkToParticipants bool) (*model.FormRevision, error) {

	if validTo.Before(validFrom) {
		return nil, ErrRevisionWindow
	}
	revision := model.FormRevision{
		FormRevisionName:                        name,
		FormID:                                  form.FormID,
		FormRevisionValidFrom:                   validFrom,
		FormRevisionValidTo:                     validTo,
		FormRevisionSendEmailsAfter:             sendEmailsAfter,
		FormRevisionSendBulkEmailToParticipants: sendBulkToParticipants,
	}
	if err := db.Create(&revision).Error; err != nil {
		return nil, err
	}
	return &revision, nil
}

// Publish makes the revision current. Default email templates are
// bootstrapped and the deferred bulk email tasks are rescheduled against
// the new window.
func Publish(db *gorm.DB, form *model.ServiceForm, revision *model.FormRevision) error {
	if revision.FormID != form.FormID {
		return errors.New("form: revision belongs to another form")
	}
	err := db.Model(&model.ServiceForm{}).
		Where("form_id = ?", form.FormID).
		Update("current_revision_id", revision.FormRevisionID).Error
	if err != nil {
		return err
	}
	form.CurrentRevisionID = &revision.FormRevisionID
	form.CurrentRevision = revision

	if err := emailService.CreateEmailTemplates(db, form); err != nil {
		return err
	}
	if err := taskService.RescheduleBulkEmails(db, form); err != nil {
		return err
	}
	log.Printf("[INFO] form %s published revision %s", form.FormSlug, revision.FormRevisionName)
	return nil
}
