package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tuomas2/serviceform/internals/constants"
	formModel "github.com/tuomas2/serviceform/internals/features/forms/form/model"
	"github.com/tuomas2/serviceform/internals/features/participation/participation/model"
	selectionModel "github.com/tuomas2/serviceform/internals/features/participation/selection/model"
	memberModel "github.com/tuomas2/serviceform/internals/features/people/member/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&memberModel.Organization{},
		&memberModel.Member{},
		&formModel.ServiceForm{},
		&formModel.FormRevision{},
		&model.Participation{},
		&selectionModel.ParticipationActivity{},
		&selectionModel.ParticipationActivityChoice{},
		&selectionModel.QuestionAnswer{},
	))
	return db
}

func seedParticipation(t *testing.T, db *gorm.DB, lastFinishedStep string) *model.Participation {
	t.Helper()
	org := memberModel.Organization{OrganizationName: "Demo"}
	require.NoError(t, db.Create(&org).Error)
	m := memberModel.Member{
		MemberForenames: "Test",
		MemberSurname:   "Person",
		OrganizationID:  org.OrganizationID,
	}
	require.NoError(t, db.Create(&m).Error)
	form := formModel.ServiceForm{
		FormName:       "Test form",
		FormSlug:       "test-form",
		OrganizationID: org.OrganizationID,
	}
	require.NoError(t, db.Create(&form).Error)
	now := time.Now()
	rev := formModel.FormRevision{
		FormRevisionName:            "initial",
		FormID:                      form.FormID,
		FormRevisionValidFrom:       now.Add(-time.Hour),
		FormRevisionValidTo:         now.Add(time.Hour),
		FormRevisionSendEmailsAfter: now,
	}
	require.NoError(t, db.Create(&rev).Error)
	p := model.Participation{
		MemberID:                      m.MemberID,
		FormRevisionID:                rev.FormRevisionID,
		ParticipationLastFinishedStep: lastFinishedStep,
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func TestProceedToRecordsForwardProgress(t *testing.T) {
	db := openTestDB(t)
	p := seedParticipation(t, db, "")
	form := publishedForm(false)
	flow := Flow(form, nil, true, time.Now())

	// Landing on preview without having walked the flow marks everything
	// before it as finished.
	require.NoError(t, ProceedTo(db, p, form, flow, constants.StepPreview))

	var got model.Participation
	require.NoError(t, db.First(&got, "participation_id = ?", p.ParticipationID).Error)
	assert.Equal(t, constants.StepQuestions, got.ParticipationLastFinishedStep)
}

func TestProceedToNeverMovesBackwards(t *testing.T) {
	db := openTestDB(t)
	p := seedParticipation(t, db, constants.StepPreview)
	form := publishedForm(false)
	flow := Flow(form, nil, true, time.Now())

	// Navigating back to an earlier step leaves recorded progress alone.
	require.NoError(t, ProceedTo(db, p, form, flow, constants.StepParticipation))
	require.NoError(t, ProceedTo(db, p, form, flow, constants.StepContactDetails))

	var got model.Participation
	require.NoError(t, db.First(&got, "participation_id = ?", p.ParticipationID).Error)
	assert.Equal(t, constants.StepPreview, got.ParticipationLastFinishedStep)
}
