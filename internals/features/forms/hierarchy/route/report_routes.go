package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	reportController "github.com/tuomas2/serviceform/internals/features/forms/hierarchy/controller"
	"github.com/tuomas2/serviceform/internals/middlewares/auth"
)

// ReportRoutes mounts the responsible's personalized report.
func ReportRoutes(app fiber.Router, db *gorm.DB) {
	ctrl := reportController.NewReportController(db)

	app.Get("/report/:slug", auth.RequireMember(), ctrl.GetResponsibleReport)
}
