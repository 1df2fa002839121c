package forms

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"gorm.io/gorm"

	formModel "github.com/tuomas2/serviceform/internals/features/forms/form/model"
	hierarchyModel "github.com/tuomas2/serviceform/internals/features/forms/hierarchy/model"
	memberModel "github.com/tuomas2/serviceform/internals/features/people/member/model"
)

type ChoiceSeed struct {
	Name string `json:"name"`
}

type ActivitySeed struct {
	Name                   string       `json:"name"`
	Description            string       `json:"description"`
	MultipleChoicesAllowed bool         `json:"multiple_choices_allowed"`
	Choices                []ChoiceSeed `json:"choices"`
}

type Level2Seed struct {
	Name       string         `json:"name"`
	Activities []ActivitySeed `json:"activities"`
}

type Level1Seed struct {
	Name       string       `json:"name"`
	Categories []Level2Seed `json:"categories"`
}

type QuestionSeed struct {
	Text     string `json:"text"`
	Required bool   `json:"required"`
}

type FormSeed struct {
	OrganizationName string         `json:"organization_name"`
	FormName         string         `json:"form_name"`
	FormSlug         string         `json:"form_slug"`
	FormDescription  string         `json:"form_description"`
	FlowByCategories bool           `json:"flow_by_categories"`
	Categories       []Level1Seed   `json:"categories"`
	Questions        []QuestionSeed `json:"questions"`
}

// SeedDemoFormsFromJSON loads demo forms for development environments.
// Existing slugs are skipped, so the seeder is safe to re-run.
func SeedDemoFormsFromJSON(db *gorm.DB, filePath string) {
	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Printf("[WARN] seed file %s not readable: %v", filePath, err)
		return
	}
	var seeds []FormSeed
	if err := json.Unmarshal(file, &seeds); err != nil {
		log.Printf("[ERROR] seed file %s: %v", filePath, err)
		return
	}

	for _, seed := range seeds {
		var existing formModel.ServiceForm
		if err := db.Where("form_slug = ?", seed.FormSlug).First(&existing).Error; err == nil {
			log.Printf("[INFO] form %s already seeded, skipping", seed.FormSlug)
			continue
		}
		if err := seedForm(db, seed); err != nil {
			log.Printf("[ERROR] seeding form %s: %v", seed.FormSlug, err)
			continue
		}
		log.Printf("[INFO] seeded form %s", seed.FormSlug)
	}
}

func seedForm(db *gorm.DB, seed FormSeed) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var org memberModel.Organization
		err := tx.Where("organization_name = ?", seed.OrganizationName).
			FirstOrCreate(&org, memberModel.Organization{OrganizationName: seed.OrganizationName}).Error
		if err != nil {
			return err
		}

		form := formModel.ServiceForm{
			FormName:             seed.FormName,
			FormSlug:             seed.FormSlug,
			FormDescription:      seed.FormDescription,
			OrganizationID:       org.OrganizationID,
			FormFlowByCategories: seed.FlowByCategories,
		}
		if err := tx.Create(&form).Error; err != nil {
			return err
		}

		now := time.Now()
		revision := formModel.FormRevision{
			FormRevisionName:            "initial",
			FormID:                      form.FormID,
			FormRevisionValidFrom:       now,
			FormRevisionValidTo:         now.AddDate(1, 0, 0),
			FormRevisionSendEmailsAfter: now,
		}
		if err := tx.Create(&revision).Error; err != nil {
			return err
		}
		err = tx.Model(&formModel.ServiceForm{}).
			Where("form_id = ?", form.FormID).
			Update("current_revision_id", revision.FormRevisionID).Error
		if err != nil {
			return err
		}

		for i, cat1Seed := range seed.Categories {
			cat1 := hierarchyModel.Level1Category{
				FormID:              form.FormID,
				Level1CategoryName:  cat1Seed.Name,
				Level1CategoryOrder: i,
			}
			if err := tx.Create(&cat1).Error; err != nil {
				return err
			}
			for j, cat2Seed := range cat1Seed.Categories {
				cat2 := hierarchyModel.Level2Category{
					Level1CategoryID:    cat1.Level1CategoryID,
					Level2CategoryName:  cat2Seed.Name,
					Level2CategoryOrder: j,
				}
				if err := tx.Create(&cat2).Error; err != nil {
					return err
				}
				for k, actSeed := range cat2Seed.Activities {
					activity := hierarchyModel.Activity{
						Level2CategoryID:               cat2.Level2CategoryID,
						ActivityName:                   actSeed.Name,
						ActivityDescription:            actSeed.Description,
						ActivityOrder:                  k,
						ActivityMultipleChoicesAllowed: actSeed.MultipleChoicesAllowed,
					}
					if err := tx.Create(&activity).Error; err != nil {
						return err
					}
					for l, choiceSeed := range actSeed.Choices {
						choice := hierarchyModel.ActivityChoice{
							ActivityID:          activity.ActivityID,
							ActivityChoiceName:  choiceSeed.Name,
							ActivityChoiceOrder: l,
						}
						if err := tx.Create(&choice).Error; err != nil {
							return err
						}
					}
				}
			}
		}

		for i, qSeed := range seed.Questions {
			question := hierarchyModel.Question{
				FormID:           form.FormID,
				QuestionText:     qSeed.Text,
				QuestionRequired: qSeed.Required,
				QuestionOrder:    i,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
