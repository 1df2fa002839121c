package seeds

import (
	"gorm.io/gorm"

	forms "github.com/tuomas2/serviceform/internals/seeds/forms"
)

func RunAllSeeds(db *gorm.DB) {
	forms.SeedDemoFormsFromJSON(db, "internals/seeds/forms/data_demo_form.json")
}
