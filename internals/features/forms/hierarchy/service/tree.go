package service

import (
	"errors"

	"gorm.io/gorm"

	formModel "github.com/tuomas2/serviceform/internals/features/forms/form/model"
	"github.com/tuomas2/serviceform/internals/features/forms/hierarchy/model"
)

// FormTree is one form's full hierarchy, loaded once per request or report
// cycle and treated as read-only afterwards. Children are ordered by their
// order column, ties broken by primary key.
type FormTree struct {
	Form       *formModel.ServiceForm
	Categories []model.Level1Category
	Questions  []model.Question

	agg *Aggregation
}

func LoadTreeBySlug(db *gorm.DB, slug string) (*FormTree, error) {
	var form formModel.ServiceForm
	err := db.Preload("CurrentRevision").
		Where("form_slug = ?", slug).
		First(&form).Error
	if err != nil {
		return nil, err
	}
	return LoadTree(db, &form)
}

func LoadTree(db *gorm.DB, form *formModel.ServiceForm) (*FormTree, error) {
	if form == nil {
		return nil, errors.New("hierarchy: nil form")
	}
	tree := &FormTree{Form: form}

	err := db.
		Preload("Responsibles").
		Preload("Categories", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("level2_category_order, level2_category_id")
		}).
		Preload("Categories.Responsibles").
		Preload("Categories.Activities", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("activity_order, activity_id")
		}).
		Preload("Categories.Activities.Responsibles").
		Preload("Categories.Activities.Choices", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("activity_choice_order, activity_choice_id")
		}).
		Preload("Categories.Activities.Choices.Responsibles").
		Where("form_id = ?", form.FormID).
		Order("level1_category_order, level1_category_id").
		Find(&tree.Categories).Error
	if err != nil {
		return nil, err
	}

	err = db.Preload("Responsibles").
		Where("form_id = ?", form.FormID).
		Order("question_order, question_id").
		Find(&tree.Questions).Error
	if err != nil {
		return nil, err
	}

	return tree, nil
}

// Activities flattens the tree in walking order.
func (t *FormTree) Activities() []*model.Activity {
	var out []*model.Activity
	for i := range t.Categories {
		cat1 := &t.Categories[i]
		for j := range cat1.Categories {
			cat2 := &cat1.Categories[j]
			for k := range cat2.Activities {
				out = append(out, &cat2.Activities[k])
			}
		}
	}
	return out
}

// Category returns the level 1 category at the given walking-order index.
func (t *FormTree) Category(idx int) *model.Level1Category {
	if idx < 0 || idx >= len(t.Categories) {
		return nil
	}
	return &t.Categories[idx]
}

func (t *FormTree) HasQuestions() bool {
	return len(t.Questions) > 0
}
