package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	memberController "github.com/tuomas2/serviceform/internals/features/people/member/controller"
	"github.com/tuomas2/serviceform/internals/middlewares"
	"github.com/tuomas2/serviceform/internals/middlewares/auth"
)

// MemberRoutes covers auth links, unsubscribe links and the member's own
// profile. Auth and unsubscribe URLs are clicked straight from emails.
func MemberRoutes(app fiber.Router, db *gorm.DB) {
	ctrl := memberController.NewMemberController(db)

	app.Get("/member/:id/authenticate/:password", middlewares.LoginRateLimiter(), ctrl.Authenticate)
	app.Post("/member/send_auth_link", middlewares.AuthLinkRateLimiter(), ctrl.PostSendAuthLink)

	app.Get("/member/:secret/unsubscribe", ctrl.Unsubscribe)
	app.Get("/member/:secret/unsubscribe_responsible", ctrl.UnsubscribeResponsible)

	app.Get("/member/profile", auth.RequireMember(), ctrl.GetProfile)
	app.Post("/member/preferences", auth.RequireMember(), ctrl.PostPreferences)
}
