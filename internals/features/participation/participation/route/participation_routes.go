package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	participationController "github.com/tuomas2/serviceform/internals/features/participation/participation/controller"
)

// ParticipationRoutes mounts the participant flow. Step access control
// lives in the flow service, so ordering rules are enforced per handler,
// not per route.
func ParticipationRoutes(app fiber.Router, db *gorm.DB) {
	ctrl := participationController.NewParticipationController(db)

	app.Get("/form/:slug/contact_details", ctrl.GetContactDetails)
	app.Post("/form/:slug/contact_details", ctrl.PostContactDetails)

	app.Get("/form/:slug/email_verification", ctrl.GetEmailVerification)

	app.Get("/form/:slug/participation", ctrl.GetParticipation)
	app.Post("/form/:slug/participation", ctrl.PostParticipation)

	app.Get("/form/:slug/questions", ctrl.GetQuestions)
	app.Post("/form/:slug/questions", ctrl.PostQuestions)

	app.Get("/form/:slug/preview", ctrl.GetPreview)
	app.Post("/form/:slug/preview", ctrl.PostPreview)

	app.Get("/form/:slug/submitted", ctrl.GetSubmitted)

	app.Post("/form/:slug/update", ctrl.PostUpdate)
	app.Post("/form/:slug/delete", ctrl.PostDelete)

	// Verification links arrive by email, outside any session.
	app.Get("/participation/:id/verify/:password", ctrl.VerifyEmail)
}
