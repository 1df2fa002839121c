package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	formController "github.com/tuomas2/serviceform/internals/features/forms/form/controller"
	"github.com/tuomas2/serviceform/internals/middlewares"
	"github.com/tuomas2/serviceform/internals/middlewares/auth"
)

// FormRoutes exposes the public form surface: info, the password gate and
// the emailed auth links.
func FormRoutes(app fiber.Router, db *gorm.DB) {
	ctrl := formController.NewFormController(db)

	app.Get("/form/:slug", ctrl.GetForm)
	app.Post("/form/:slug/password_login", middlewares.LoginRateLimiter(), ctrl.PostPasswordLogin)
	app.Post("/form/:slug/send_auth_link", middlewares.AuthLinkRateLimiter(), ctrl.PostSendAuthLink)
	app.Post("/form/:slug/send_responsible_auth_link", middlewares.AuthLinkRateLimiter(), ctrl.PostResponsibleAuthLink)
	app.Post("/form/:slug/invite", auth.RequireMember(), ctrl.PostInvite)
	app.Post("/form/:slug/revisions", auth.RequireMember(), ctrl.PostNewRevision)
}
