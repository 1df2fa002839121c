package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	formModel "github.com/tuomas2/serviceform/internals/features/forms/form/model"
	participationModel "github.com/tuomas2/serviceform/internals/features/participation/participation/model"
	"github.com/tuomas2/serviceform/internals/features/participation/selection/model"
	memberModel "github.com/tuomas2/serviceform/internals/features/people/member/model"
)

// In-memory database per test, with foreign keys enforced so delete
// ordering mistakes fail here instead of in production.
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
		&participationModel.Participation{},
		&model.ParticipationActivity{},
		&model.ParticipationActivityChoice{},
		&model.QuestionAnswer{},
	))
	return db
}

func seedParticipation(t *testing.T, db *gorm.DB) *participationModel.Participation {
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
	p := participationModel.Participation{
		MemberID:       m.MemberID,
		FormRevisionID: rev.FormRevisionID,
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func TestSaveLoadRoundTrip(t *testing.T) {
	db := openTestDB(t)
	p := seedParticipation(t, db)
	tree := testTree(true)

	f := NewParticipationForm(tree, nil, p)
	require.NoError(t, f.Clean(map[string]string{
		"SRV_ACTIVITY_10":       "on",
		"SRV_ACTIVITY_EXTRA_10": "weekends only",
		"SRV_CHOICE_201":        "on",
	}))
	require.True(t, f.IsValid())
	require.NoError(t, f.Save(db))

	f = NewParticipationForm(tree, nil, p)
	require.NoError(t, f.Load(db))
	assert.True(t, f.Selected(10))
	// Selecting a choice implied selecting its activity.
	assert.True(t, f.Selected(20))
	assert.True(t, f.ChoiceSelected(201))
	assert.False(t, f.ChoiceSelected(202))
	assert.Equal(t, "weekends only", f.ActivityExtra(10))
}

func TestSaveDeselectingActivityClearsItsChoices(t *testing.T) {
	db := openTestDB(t)
	p := seedParticipation(t, db)
	tree := testTree(true)

	f := NewParticipationForm(tree, nil, p)
	require.NoError(t, f.Clean(map[string]string{
		"SRV_ACTIVITY_20": "on",
		"SRV_CHOICE_201":  "on",
	}))
	require.NoError(t, f.Save(db))

	// Submitting the step with nothing selected removes the activity row
	// together with its choice rows.
	f = NewParticipationForm(tree, nil, p)
	require.NoError(t, f.Clean(map[string]string{}))
	require.NoError(t, f.Save(db))

	var pacts, pchoices int64
	require.NoError(t, db.Model(&model.ParticipationActivity{}).
		Where("participation_id = ?", p.ParticipationID).Count(&pacts).Error)
	require.NoError(t, db.Model(&model.ParticipationActivityChoice{}).Count(&pchoices).Error)
	assert.Zero(t, pacts)
	assert.Zero(t, pchoices)
}

func TestParticipationDeleteCascadesToSelections(t *testing.T) {
	db := openTestDB(t)
	p := seedParticipation(t, db)
	tree := testTree(true)

	f := NewParticipationForm(tree, nil, p)
	require.NoError(t, f.Clean(map[string]string{
		"SRV_ACTIVITY_20": "on",
		"SRV_CHOICE_202":  "on",
	}))
	require.NoError(t, f.Save(db))
	require.NoError(t, db.Create(&model.QuestionAnswer{
		ParticipationID:    p.ParticipationID,
		QuestionID:         1,
		QuestionAnswerText: "yes",
	}).Error)

	require.NoError(t, db.Delete(&participationModel.Participation{},
		"participation_id = ?", p.ParticipationID).Error)

	var pacts, pchoices, answers int64
	require.NoError(t, db.Model(&model.ParticipationActivity{}).Count(&pacts).Error)
	require.NoError(t, db.Model(&model.ParticipationActivityChoice{}).Count(&pchoices).Error)
	require.NoError(t, db.Model(&model.QuestionAnswer{}).Count(&answers).Error)
	assert.Zero(t, pacts)
	assert.Zero(t, pchoices)
	assert.Zero(t, answers)
}
