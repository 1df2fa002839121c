package service

import (
	"time"

	"gorm.io/gorm"

	"github.com/tuomas2/serviceform/internals/constants"
	hierarchyModel "github.com/tuomas2/serviceform/internals/features/forms/hierarchy/model"
	hierarchyService "github.com/tuomas2/serviceform/internals/features/forms/hierarchy/service"
	participationModel "github.com/tuomas2/serviceform/internals/features/participation/participation/model"
	"github.com/tuomas2/serviceform/internals/features/participation/selection/model"
)

// ParticipationForm validates and persists one selection step. Its scope
// is either one level 1 category (per-category flow) or the whole tree;
// Save only ever touches rows whose activity or choice belongs to the
// scope, so category steps cannot clobber each other.
type ParticipationForm struct {
	participation *participationModel.Participation

	activities map[int64]*hierarchyModel.Activity
	choices    map[int64]*hierarchyModel.ActivityChoice

	selectedActivities map[int64]bool
	selectedChoices    map[int64]bool
	activityExtras     map[int64]string
	choiceExtras       map[int64]string

	// Activities whose choices-required rule failed, keyed by activity id.
	ActivityErrors map[int64]string
}

// NewParticipationForm scopes a form over the whole tree, or over a
// single level 1 category when category is non-nil.
func NewParticipationForm(tree *hierarchyService.FormTree, category *hierarchyModel.Level1Category,
	p *participationModel.Participation) *ParticipationForm {

	f := &ParticipationForm{
		participation:      p,
		activities:         map[int64]*hierarchyModel.Activity{},
		choices:            map[int64]*hierarchyModel.ActivityChoice{},
		selectedActivities: map[int64]bool{},
		selectedChoices:    map[int64]bool{},
		activityExtras:     map[int64]string{},
		choiceExtras:       map[int64]string{},
		ActivityErrors:     map[int64]string{},
	}

	scope := tree.Categories
	if category != nil {
		scope = []hierarchyModel.Level1Category{*category}
	}
	for i := range scope {
		cat1 := &scope[i]
		for j := range cat1.Categories {
			cat2 := &cat1.Categories[j]
			for k := range cat2.Activities {
				activity := &cat2.Activities[k]
				f.activities[activity.ActivityID] = activity
				for l := range activity.Choices {
					choice := &activity.Choices[l]
					f.choices[choice.ActivityChoiceID] = choice
				}
			}
		}
	}
	return f
}

// Load fills the form from previously saved selections. Rows referencing
// out-of-scope nodes are ignored.
func (f *ParticipationForm) Load(db *gorm.DB) error {
	var pacts []model.ParticipationActivity
	err := db.Preload("Choices").
		Where("participation_id = ?", f.participation.ParticipationID).
		Find(&pacts).Error
	if err != nil {
		return err
	}
	for i := range pacts {
		pact := &pacts[i]
		if _, ok := f.activities[pact.ActivityID]; !ok {
			continue
		}
		f.selectedActivities[pact.ActivityID] = true
		f.activityExtras[pact.ActivityID] = pact.ParticipationActivityAdditionalInfo
		for j := range pact.Choices {
			pchoice := &pact.Choices[j]
			if _, ok := f.choices[pchoice.ActivityChoiceID]; !ok {
				continue
			}
			f.selectedChoices[pchoice.ActivityChoiceID] = true
			f.choiceExtras[pchoice.ActivityChoiceID] = pchoice.ParticipationActivityChoiceAdditionalInfo
		}
	}
	return nil
}

// Clean parses and validates posted selection fields. Malformed keys and
// references outside the scope fail the whole request; the
// choices-required rule only marks the offending activity and lets the
// participant fix it in place.
func (f *ParticipationForm) Clean(values map[string]string) error {
	for key, value := range values {
		if !isSrvKey(key) {
			continue
		}
		k, err := parseSrvKey(key)
		if err != nil {
			return err
		}

		switch k.Type {
		case constants.SrvTypeActivity:
			if _, ok := f.activities[k.PK]; !ok {
				return ErrInvalidActivity
			}
			if k.Extra {
				f.activityExtras[k.PK] = value
			} else {
				f.selectedActivities[k.PK] = true
			}

		case constants.SrvTypeActivityChoice:
			// Radio group: the key carries the activity, the value the
			// chosen choice.
			activity, ok := f.activities[k.PK]
			if !ok {
				return ErrInvalidActivity
			}
			if activity.ActivityMultipleChoicesAllowed {
				return ErrRadioMultchoice
			}
			choicePK, err := parseWireInt(value)
			if err != nil {
				return ErrInvalidChoice
			}
			if _, ok := f.choices[choicePK]; !ok {
				return ErrInvalidChoice
			}
			if !k.Extra {
				f.selectedChoices[choicePK] = true
			}

		case constants.SrvTypeChoice:
			if _, ok := f.choices[k.PK]; !ok {
				return ErrInvalidChoice
			}
			if k.Extra {
				f.choiceExtras[k.PK] = value
			} else {
				f.selectedChoices[k.PK] = true
			}

		default:
			return ErrInvalidKey
		}
	}

	for id := range f.selectedActivities {
		activity := f.activities[id]
		if !activity.HasChoices() {
			continue
		}
		any := false
		for i := range activity.Choices {
			if f.selectedChoices[activity.Choices[i].ActivityChoiceID] {
				any = true
				break
			}
		}
		if !any {
			f.ActivityErrors[id] = "No choices selected!"
		}
	}
	return nil
}

func (f *ParticipationForm) IsValid() bool {
	return len(f.ActivityErrors) == 0
}

// Selected reports whether the activity is currently picked.
func (f *ParticipationForm) Selected(activityID int64) bool {
	return f.selectedActivities[activityID]
}

func (f *ParticipationForm) ChoiceSelected(choiceID int64) bool {
	return f.selectedChoices[choiceID]
}

func (f *ParticipationForm) ActivityExtra(activityID int64) string {
	return f.activityExtras[activityID]
}

func (f *ParticipationForm) ChoiceExtra(choiceID int64) string {
	return f.choiceExtras[choiceID]
}

// Save writes the delta inside one transaction: in-scope rows no longer
// selected are deleted, selected ones are created if missing, and extra
// texts are always overwritten. Selecting a choice implies selecting its
// activity.
func (f *ParticipationForm) Save(db *gorm.DB) error {
	for id := range f.selectedChoices {
		f.selectedActivities[f.choices[id].ActivityID] = true
	}

	scopeActivityIDs := make([]int64, 0, len(f.activities))
	for id := range f.activities {
		scopeActivityIDs = append(scopeActivityIDs, id)
	}
	scopeChoiceIDs := make([]int64, 0, len(f.choices))
	for id := range f.choices {
		scopeChoiceIDs = append(scopeChoiceIDs, id)
	}
	selectedActivityIDs := make([]int64, 0, len(f.selectedActivities))
	for id := range f.selectedActivities {
		selectedActivityIDs = append(selectedActivityIDs, id)
	}
	selectedChoiceIDs := make([]int64, 0, len(f.selectedChoices))
	for id := range f.selectedChoices {
		selectedChoiceIDs = append(selectedChoiceIDs, id)
	}

	pid := f.participation.ParticipationID

	return db.Transaction(func(tx *gorm.DB) error {
		// Choice rows go first so the activity deletes below never hit a
		// row that still has children.
		own := tx.Model(&model.ParticipationActivity{}).
			Select("participation_activity_id").
			Where("participation_id = ?", pid)
		qc := tx.Where("participation_activity_id IN (?)", own).
			Where("activity_choice_id IN ?", scopeChoiceIDs)
		if len(selectedChoiceIDs) > 0 {
			qc = qc.Where("activity_choice_id NOT IN ?", selectedChoiceIDs)
		}
		if err := qc.Delete(&model.ParticipationActivityChoice{}).Error; err != nil {
			return err
		}

		q := tx.Where("participation_id = ?", pid).
			Where("activity_id IN ?", scopeActivityIDs)
		if len(selectedActivityIDs) > 0 {
			q = q.Where("activity_id NOT IN ?", selectedActivityIDs)
		}
		if err := q.Delete(&model.ParticipationActivity{}).Error; err != nil {
			return err
		}

		pactIDs := map[int64]int64{}
		for _, id := range selectedActivityIDs {
			pact := model.ParticipationActivity{
				ParticipationID: pid,
				ActivityID:      id,
				CreatedAt:       time.Now(),
			}
			err := tx.Where("participation_id = ? AND activity_id = ?", pid, id).
				FirstOrCreate(&pact).Error
			if err != nil {
				return err
			}
			err = tx.Model(&model.ParticipationActivity{}).
				Where("participation_activity_id = ?", pact.ParticipationActivityID).
				Update("participation_activity_additional_info", f.activityExtras[id]).Error
			if err != nil {
				return err
			}
			pactIDs[id] = pact.ParticipationActivityID
		}

		for _, id := range selectedChoiceIDs {
			pactID := pactIDs[f.choices[id].ActivityID]
			pchoice := model.ParticipationActivityChoice{
				ParticipationActivityID: pactID,
				ActivityChoiceID:        id,
				CreatedAt:               time.Now(),
			}
			err := tx.Where("participation_activity_id = ? AND activity_choice_id = ?", pactID, id).
				FirstOrCreate(&pchoice).Error
			if err != nil {
				return err
			}
			err = tx.Model(&model.ParticipationActivityChoice{}).
				Where("participation_activity_choice_id = ?", pchoice.ParticipationActivityChoiceID).
				Update("participation_activity_choice_additional_info", f.choiceExtras[id]).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
