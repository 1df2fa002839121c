package controller

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	emailService "github.com/tuomas2/serviceform/internals/features/emails/emails/service"
	hierarchyService "github.com/tuomas2/serviceform/internals/features/forms/hierarchy/service"
	participationModel "github.com/tuomas2/serviceform/internals/features/participation/participation/model"
	"github.com/tuomas2/serviceform/internals/features/people/member/model"
	"github.com/tuomas2/serviceform/internals/features/people/member/service"
	helper "github.com/tuomas2/serviceform/internals/helpers"
)

type MemberController struct {
	DB *gorm.DB
}

func NewMemberController(db *gorm.DB) *MemberController {
	return &MemberController{DB: db}
}

// Authenticate is the landing endpoint of every emailed auth link. On
// success the member is signed into the session; with a ?form=<slug>
// query their participation on that form is activated too.
func (ctrl *MemberController) Authenticate(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Member not found")
	}
	var m model.Member
	if err := ctrl.DB.First(&m, "member_id = ?", id).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Member not found")
	}

	switch service.CheckAuthKey(&m, c.Params("password")) {
	case service.PasswordNOK:
		return helper.Error(c, fiber.StatusForbidden,
			"Given URL might be expired. Please give your email address and we'll send you a new link")
	case service.PasswordExpired:
		// Old link: expire it and mail a fresh one right away.
		var org model.Organization
		if err := ctrl.DB.First(&org, "organization_id = ?", m.OrganizationID).Error; err == nil {
			if err := emailService.SendMemberAuthLink(ctrl.DB, &org, &m); err != nil {
				log.Printf("[WARN] replacement auth link to %s failed: %v", m.MemberEmail, err)
			}
		}
		return helper.Error(c, fiber.StatusForbidden,
			"Your link was expired. A new link has been sent to your email address.")
	}

	if !m.MemberEmailVerified && m.MemberEmail != "" {
		err := ctrl.DB.Model(&model.Member{}).
			Where("member_id = ?", m.MemberID).
			Update("member_email_verified", true).Error
		if err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Could not verify email")
		}
	}

	claims := helper.GetSession(c)
	claims.MemberID = m.MemberID
	claims.ParticipationID = 0
	claims.MaxCategory = 0

	if slug := c.Query("form"); slug != "" {
		tree, err := hierarchyService.LoadTreeBySlug(ctrl.DB, slug)
		if err == nil {
			var p participationModel.Participation
			err = ctrl.DB.
				Joins("JOIN form_revisions ON form_revisions.form_revision_id = participations.form_revision_id").
				Where("participations.member_id = ?", m.MemberID).
				Where("form_revisions.form_id = ?", tree.Form.FormID).
				Order("participations.participation_id DESC").
				First(&p).Error
			if err == nil {
				claims.FormID = tree.Form.FormID
				claims.ParticipationID = p.ParticipationID
				if err := helper.SaveSession(c, claims); err != nil {
					return helper.Error(c, fiber.StatusInternalServerError, "Could not store session")
				}
				return helper.Redirect(c, "/form/"+slug+"/update")
			}
		}
	}

	if err := helper.SaveSession(c, claims); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not store session")
	}
	if next := c.Query("next"); next != "" {
		return helper.Redirect(c, next)
	}
	return helper.Success(c, "Authenticated", fiber.Map{"member": m})
}

// PostSendAuthLink emails an organization-level access link to the given
// address.
func (ctrl *MemberController) PostSendAuthLink(c *fiber.Ctx) error {
	var body struct {
		Email string `json:"email" validate:"required,email,max=128"`
	}
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request")
	}
	if err := helper.ValidateStruct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	var m model.Member
	err := ctrl.DB.First(&m, "member_email = ?", body.Email).Error
	if err == nil {
		var org model.Organization
		if err := ctrl.DB.First(&org, "organization_id = ?", m.OrganizationID).Error; err == nil {
			if err := emailService.SendMemberAuthLink(ctrl.DB, &org, &m); err != nil {
				log.Printf("[WARN] member auth link to %s failed: %v", body.Email, err)
			}
		}
	}
	return helper.Success(c, "Authentication link was sent to email address "+body.Email, nil)
}

// Unsubscribe is the one-click opt-out of participation email, reached
// from the List-Unsubscribe header via the obfuscated member id.
func (ctrl *MemberController) Unsubscribe(c *fiber.Ctx) error {
	m, err := service.FindBySecretID(ctrl.DB, c.Params("secret"))
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Not found")
	}
	err = ctrl.DB.Model(&model.Member{}).
		Where("member_id = ?", m.MemberID).
		Update("member_allow_participation_email", false).Error
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not unsubscribe")
	}
	return helper.Success(c, "You have been unsubscribed from participation emails", nil)
}

// UnsubscribeResponsible opts a responsible person out of notification
// email.
func (ctrl *MemberController) UnsubscribeResponsible(c *fiber.Ctx) error {
	m, err := service.FindBySecretID(ctrl.DB, c.Params("secret"))
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Not found")
	}
	err = ctrl.DB.Model(&model.Member{}).
		Where("member_id = ?", m.MemberID).
		Update("member_allow_responsible_email", false).Error
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not unsubscribe")
	}
	return helper.Success(c, "You have been unsubscribed from responsibility emails", nil)
}

// GetProfile returns the signed-in member's own data and email
// preferences.
func (ctrl *MemberController) GetProfile(c *fiber.Ctx) error {
	claims := helper.GetSession(c)
	if claims.MemberID == 0 {
		return helper.Error(c, fiber.StatusUnauthorized, "Not authenticated")
	}
	var m model.Member
	if err := ctrl.DB.First(&m, "member_id = ?", claims.MemberID).Error; err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Not authenticated")
	}
	return helper.Success(c, "Profile", fiber.Map{"member": m})
}

// PostPreferences updates the signed-in member's email preference flags.
func (ctrl *MemberController) PostPreferences(c *fiber.Ctx) error {
	claims := helper.GetSession(c)
	if claims.MemberID == 0 {
		return helper.Error(c, fiber.StatusUnauthorized, "Not authenticated")
	}
	var body struct {
		AllowResponsibleEmail   *bool `json:"allow_responsible_email"`
		AllowParticipationEmail *bool `json:"allow_participation_email"`
		HideContactDetails      *bool `json:"hide_contact_details"`
	}
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request")
	}
	updates := map[string]interface{}{}
	if body.AllowResponsibleEmail != nil {
		updates["member_allow_responsible_email"] = *body.AllowResponsibleEmail
	}
	if body.AllowParticipationEmail != nil {
		updates["member_allow_participation_email"] = *body.AllowParticipationEmail
	}
	if body.HideContactDetails != nil {
		updates["member_hide_contact_details"] = *body.HideContactDetails
	}
	if len(updates) == 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Nothing to update")
	}
	updates["updated_at"] = time.Now()
	err := ctrl.DB.Model(&model.Member{}).
		Where("member_id = ?", claims.MemberID).
		Updates(updates).Error
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not save preferences")
	}
	return helper.Success(c, "Preferences saved", nil)
}
