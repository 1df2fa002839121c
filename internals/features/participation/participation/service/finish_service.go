package service

import (
	"time"

	"gorm.io/gorm"

	"github.com/tuomas2/serviceform/internals/constants"
	emailService "github.com/tuomas2/serviceform/internals/features/emails/emails/service"
	formModel "github.com/tuomas2/serviceform/internals/features/forms/form/model"
	hierarchyService "github.com/tuomas2/serviceform/internals/features/forms/hierarchy/service"
	"github.com/tuomas2/serviceform/internals/features/participation/participation/model"
	memberModel "github.com/tuomas2/serviceform/internals/features/people/member/model"
)

// Finish closes one walk through the form. Responsibles are notified only
// once the revision's send-emails-after moment has passed; before that the
// scheduled bulk task covers them. The participant confirmation reflects
// whether this was a first submit or an update.
func Finish(db *gorm.DB, tree *hierarchyService.FormTree, p *model.Participation,
	m *memberModel.Member, emailParticipant bool) error {

	updating := p.ParticipationStatus == constants.StatusUpdating
	p.ParticipationStatus = constants.StatusFinished

	var revision formModel.FormRevision
	err := db.First(&revision, "form_revision_id = ?", p.FormRevisionID).Error
	if err != nil {
		return err
	}
	if time.Now().After(revision.FormRevisionSendEmailsAfter) {
		if err := emailService.NotifyResponsibles(db, tree, p, m); err != nil {
			return err
		}
	}
	if emailParticipant {
		event := emailService.EventOnFinish
		if updating {
			event = emailService.EventOnUpdate
		}
		if _, err := emailService.SendParticipantEmail(db, tree.Form, p, m, event, nil); err != nil {
			return err
		}
	}

	now := time.Now()
	p.ParticipationLastFinished = &now
	return db.Model(&model.Participation{}).
		Where("participation_id = ?", p.ParticipationID).
		Updates(map[string]interface{}{
			"participation_status":        p.ParticipationStatus,
			"participation_last_finished": now,
		}).Error
}
