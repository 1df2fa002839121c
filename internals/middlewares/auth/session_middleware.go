package auth

import (
	"github.com/gofiber/fiber/v2"

	helper "github.com/tuomas2/serviceform/internals/helpers"
)

// RequireMember guards routes that need an authenticated member (report,
// profile, preferences). The member authenticates through an emailed auth
// link, never a password form.
func RequireMember() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := helper.GetSession(c)
		if claims.MemberID == 0 {
			return fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
		}
		return c.Next()
	}
}

// RequireParticipation guards the flow step routes: a participation must
// already be open in the visitor's session.
func RequireParticipation() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := helper.GetSession(c)
		if claims.ParticipationID == 0 {
			return fiber.NewError(fiber.StatusUnauthorized, "No active participation")
		}
		return c.Next()
	}
}
