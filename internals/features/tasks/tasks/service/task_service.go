package service

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/tuomas2/serviceform/internals/constants"
	emailService "github.com/tuomas2/serviceform/internals/features/emails/emails/service"
	formModel "github.com/tuomas2/serviceform/internals/features/forms/form/model"
	hierarchyService "github.com/tuomas2/serviceform/internals/features/forms/hierarchy/service"
	participationModel "github.com/tuomas2/serviceform/internals/features/participation/participation/model"
	participationService "github.com/tuomas2/serviceform/internals/features/participation/participation/service"
	memberModel "github.com/tuomas2/serviceform/internals/features/people/member/model"
	"github.com/tuomas2/serviceform/internals/features/tasks/tasks/model"
)

// RescheduleBulkEmails debounces form schedule edits: every future
// still-requested task for the form is dropped, then fresh tasks are
// created from the current revision's schedule. Calling this repeatedly,
// for example on every form save, leaves exactly one pending task per
// fan-out.
func RescheduleBulkEmails(db *gorm.DB, form *formModel.ServiceForm) error {
	now := time.Now()
	err := db.Where("form_id = ?", form.FormID).
		Where("task_scheduled_time > ?", now).
		Where("task_status = ?", model.TaskRequested).
		Delete(&model.Task{}).Error
	if err != nil {
		return err
	}

	if form.CurrentRevisionID == nil {
		return nil
	}
	var revision formModel.FormRevision
	err = db.First(&revision, "form_revision_id = ?", *form.CurrentRevisionID).Error
	if err != nil {
		return err
	}

	if revision.FormRevisionSendEmailsAfter.After(now) {
		task := model.Task{
			TaskKind:          model.KindBulkEmailResponsibles,
			FormID:            form.FormID,
			TaskScheduledTime: revision.FormRevisionSendEmailsAfter,
		}
		if err := db.Create(&task).Error; err != nil {
			return err
		}
	}
	if revision.FormRevisionValidFrom.After(now) {
		task := model.Task{
			TaskKind:          model.KindBulkEmailFormerParticipants,
			FormID:            form.FormID,
			TaskScheduledTime: revision.FormRevisionValidFrom,
		}
		if err := db.Create(&task).Error; err != nil {
			return err
		}
	}
	return nil
}

// BulkEmailResponsibles announces open reports to every responsible
// assigned anywhere in the form.
func BulkEmailResponsibles(db *gorm.DB, form *formModel.ServiceForm) error {
	log.Printf("[INFO] Bulk email responsibles for form %d", form.FormID)
	tree, err := hierarchyService.LoadTree(db, form)
	if err != nil {
		return err
	}
	for _, r := range tree.AllResponsibles() {
		r := r
		if err := emailService.SendBulkMail(db, form, &r); err != nil {
			log.Printf("[WARN] bulk mail to %s failed: %v", r.MemberEmail, err)
		}
	}
	return nil
}

// BulkEmailFormerParticipants notifies participants of expired revisions
// that a new revision is open.
func BulkEmailFormerParticipants(db *gorm.DB, form *formModel.ServiceForm) error {
	log.Printf("[INFO] Bulk email former participants for form %d", form.FormID)

	var participations []participationModel.Participation
	err := db.Preload("Member").
		Joins("JOIN form_revisions ON form_revisions.form_revision_id = participations.form_revision_id").
		Where("form_revisions.form_id = ?", form.FormID).
		Where("form_revisions.form_revision_valid_to < ?", time.Now()).
		Where("form_revisions.form_revision_send_bulk_email_to_participants").
		Find(&participations).Error
	if err != nil {
		return err
	}

	// One email per member even when they participated in several old
	// revisions.
	seen := map[int64]bool{}
	for i := range participations {
		p := &participations[i]
		if p.Member == nil || seen[p.MemberID] || !p.Member.MemberAllowParticipationEmail {
			continue
		}
		seen[p.MemberID] = true
		_, err := emailService.SendParticipantEmail(db, form, p, p.Member, emailService.EventNewFormRevision, nil)
		if err != nil {
			log.Printf("[WARN] new revision mail to %s failed: %v", p.Member.MemberEmail, err)
		}
	}
	return nil
}

func executeTask(db *gorm.DB, task *model.Task) {
	var form formModel.ServiceForm
	err := db.Preload("CurrentRevision").First(&form, "form_id = ?", task.FormID).Error
	if err == nil {
		switch task.TaskKind {
		case model.KindBulkEmailResponsibles:
			err = BulkEmailResponsibles(db, &form)
		case model.KindBulkEmailFormerParticipants:
			err = BulkEmailFormerParticipants(db, &form)
		default:
			log.Printf("[ERROR] unknown task kind %q", task.TaskKind)
		}
	}

	status := model.TaskDone
	result := "ok"
	if err != nil {
		log.Printf("[ERROR] task %d failed: %v", task.TaskID, err)
		status = model.TaskError
		result = err.Error()
	}
	err = db.Model(&model.Task{}).
		Where("task_id = ?", task.TaskID).
		Updates(map[string]interface{}{"task_status": status, "task_result": result}).Error
	if err != nil {
		log.Printf("[ERROR] task %d status update failed: %v", task.TaskID, err)
	}
}

// StartTaskProcessor executes due tasks in the background once a minute.
func StartTaskProcessor(db *gorm.DB) {
	go func() {
		for {
			var tasks []model.Task
			err := db.Where("task_status = ?", model.TaskRequested).
				Where("task_scheduled_time <= ?", time.Now()).
				Order("task_scheduled_time").
				Find(&tasks).Error
			if err != nil {
				log.Printf("[ERROR] task sweep failed: %v", err)
			}
			for i := range tasks {
				executeTask(db, &tasks[i])
			}
			time.Sleep(time.Minute)
		}
	}()
}

// StartParticipationCleanupScheduler removes day-old abandoned walks and
// quietly closes day-old abandoned updates, since those still carry the
// previously finished data.
func StartParticipationCleanupScheduler(db *gorm.DB) {
	go func() {
		for {
			cutoff := time.Now().Add(-24 * time.Hour)

			err := db.Where("participation_status = ?", constants.StatusOngoing).
				Where("updated_at < ?", cutoff).
				Delete(&participationModel.Participation{}).Error
			if err != nil {
				log.Printf("[ERROR] abandoned participation cleanup failed: %v", err)
			}

			var updating []participationModel.Participation
			err = db.Preload("Member").
				Where("participation_status = ?", constants.StatusUpdating).
				Where("updated_at < ?", cutoff).
				Find(&updating).Error
			if err != nil {
				log.Printf("[ERROR] abandoned update sweep failed: %v", err)
			}
			for i := range updating {
				p := &updating[i]
				log.Printf("[INFO] Finishing abandoned updating participation %d", p.ParticipationID)
				if err := finishAbandoned(db, p); err != nil {
					log.Printf("[ERROR] finishing participation %d failed: %v", p.ParticipationID, err)
				}
			}

			time.Sleep(time.Hour)
		}
	}()
}

func finishAbandoned(db *gorm.DB, p *participationModel.Participation) error {
	var revision formModel.FormRevision
	err := db.First(&revision, "form_revision_id = ?", p.FormRevisionID).Error
	if err != nil {
		return err
	}
	var form formModel.ServiceForm
	err = db.Preload("CurrentRevision").First(&form, "form_id = ?", revision.FormID).Error
	if err != nil {
		return err
	}
	tree, err := hierarchyService.LoadTree(db, &form)
	if err != nil {
		return err
	}
	m := p.Member
	if m == nil {
		m = &memberModel.Member{}
	}
	return participationService.Finish(db, tree, p, m, false)
}
