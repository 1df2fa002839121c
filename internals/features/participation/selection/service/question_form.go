package service

import (
	"time"

	"gorm.io/gorm"

	"github.com/tuomas2/serviceform/internals/constants"
	hierarchyModel "github.com/tuomas2/serviceform/internals/features/forms/hierarchy/model"
	participationModel "github.com/tuomas2/serviceform/internals/features/participation/participation/model"
	"github.com/tuomas2/serviceform/internals/features/participation/selection/model"
)

// QuestionForm validates and persists the questions step. A question left
// out of the post is treated as cleared, so unchecking every field and
// submitting removes old answers.
type QuestionForm struct {
	participation *participationModel.Participation

	questions map[int64]*hierarchyModel.Question
	answers   map[int64]string

	// Required questions missing an answer, keyed by question id.
	QuestionErrors map[int64]string
}

func NewQuestionForm(questions []hierarchyModel.Question,
	p *participationModel.Participation) *QuestionForm {

	f := &QuestionForm{
		participation:  p,
		questions:      map[int64]*hierarchyModel.Question{},
		answers:        map[int64]string{},
		QuestionErrors: map[int64]string{},
	}
	for i := range questions {
		f.questions[questions[i].QuestionID] = &questions[i]
	}
	return f
}

func (f *QuestionForm) Load(db *gorm.DB) error {
	var rows []model.QuestionAnswer
	err := db.Where("participation_id = ?", f.participation.ParticipationID).
		Find(&rows).Error
	if err != nil {
		return err
	}
	for i := range rows {
		if _, ok := f.questions[rows[i].QuestionID]; !ok {
			continue
		}
		f.answers[rows[i].QuestionID] = rows[i].QuestionAnswerText
	}
	return nil
}

func (f *QuestionForm) Clean(values map[string]string) error {
	posted := map[int64]bool{}
	for key, value := range values {
		if !isSrvKey(key) {
			continue
		}
		k, err := parseSrvKey(key)
		if err != nil {
			return err
		}
		if k.Type != constants.SrvTypeQuestion || k.Extra {
			return ErrInvalidKey
		}
		if _, ok := f.questions[k.PK]; !ok {
			return ErrInvalidQuestion
		}
		f.answers[k.PK] = value
		posted[k.PK] = true
	}

	for id, q := range f.questions {
		if !posted[id] {
			f.answers[id] = ""
		}
		if q.QuestionRequired && f.answers[id] == "" {
			f.QuestionErrors[id] = "Answer required"
		}
	}
	return nil
}

func (f *QuestionForm) IsValid() bool {
	return len(f.QuestionErrors) == 0
}

func (f *QuestionForm) Answer(questionID int64) string {
	return f.answers[questionID]
}

// Save deletes answers that were cleared and upserts the rest. CreatedAt
// is bumped only when the answer text actually changed so untouched
// answers do not look new to the notifier.
func (f *QuestionForm) Save(db *gorm.DB) error {
	pid := f.participation.ParticipationID

	withAnswer := make([]int64, 0, len(f.answers))
	for id, answer := range f.answers {
		if answer != "" {
			withAnswer = append(withAnswer, id)
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		q := tx.Where("participation_id = ?", pid)
		if len(withAnswer) > 0 {
			q = q.Where("question_id NOT IN ?", withAnswer)
		}
		if err := q.Delete(&model.QuestionAnswer{}).Error; err != nil {
			return err
		}

		for _, id := range withAnswer {
			row := model.QuestionAnswer{
				ParticipationID: pid,
				QuestionID:      id,
				CreatedAt:       time.Now(),
			}
			err := tx.Where("participation_id = ? AND question_id = ?", pid, id).
				FirstOrCreate(&row).Error
			if err != nil {
				return err
			}
			if row.QuestionAnswerText == f.answers[id] {
				continue
			}
			err = tx.Model(&model.QuestionAnswer{}).
				Where("question_answer_id = ?", row.QuestionAnswerID).
				Updates(map[string]interface{}{
					"question_answer_text": f.answers[id],
					"created_at":           time.Now(),
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
