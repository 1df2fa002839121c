package helper

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/tuomas2/serviceform/internals/configs"
)

const SessionCookie = "serviceform_session"

// SessionClaims replaces the original server-side session dict. It tracks
// which form the visitor has passed the password gate for, which member is
// authenticated, which participation is active, the highest category the
// participant has reached in per-category flow, and the address a
// verification email was last sent to.
type SessionClaims struct {
	FormID           int64  `json:"form_id,omitempty"`
	MemberID         int64  `json:"member_id,omitempty"`
	ParticipationID  int64  `json:"participation_id,omitempty"`
	MaxCategory      int    `json:"max_category,omitempty"`
	VerificationSent string `json:"verification_sent,omitempty"`
	jwt.RegisteredClaims
}

func MakeSessionToken(claims *SessionClaims) (string, error) {
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(14 * 24 * time.Hour))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(configs.JWTSecret))
}

func ParseSessionToken(raw string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(configs.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// GetSession returns the request's session claims, or empty claims when
// no valid cookie is present.
func GetSession(c *fiber.Ctx) *SessionClaims {
	if claims, ok := c.Locals("session").(*SessionClaims); ok {
		return claims
	}
	raw := strings.TrimSpace(c.Cookies(SessionCookie))
	if raw == "" {
		return &SessionClaims{}
	}
	claims, err := ParseSessionToken(raw)
	if err != nil {
		return &SessionClaims{}
	}
	c.Locals("session", claims)
	return claims
}

// SaveSession signs the claims and re-sets the session cookie.
func SaveSession(c *fiber.Ctx, claims *SessionClaims) error {
	raw, err := MakeSessionToken(claims)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    raw,
		HTTPOnly: true,
		SameSite: "Lax",
		Expires:  time.Now().Add(14 * 24 * time.Hour),
	})
	c.Locals("session", claims)
	return nil
}

// ClearSession drops everything stored in the visitor's session.
func ClearSession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		HTTPOnly: true,
		SameSite: "Lax",
		Expires:  time.Now().Add(-time.Hour),
	})
	c.Locals("session", &SessionClaims{})
}
