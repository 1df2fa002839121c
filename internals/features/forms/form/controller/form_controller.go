package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/tuomas2/serviceform/internals/constants"
	emailService "github.com/tuomas2/serviceform/internals/features/emails/emails/service"
	"github.com/tuomas2/serviceform/internals/features/forms/form/dto"
	"github.com/tuomas2/serviceform/internals/features/forms/form/model"
	formService "github.com/tuomas2/serviceform/internals/features/forms/form/service"
	hierarchyService "github.com/tuomas2/serviceform/internals/features/forms/hierarchy/service"
	participationModel "github.com/tuomas2/serviceform/internals/features/participation/participation/model"
	memberModel "github.com/tuomas2/serviceform/internals/features/people/member/model"
	helper "github.com/tuomas2/serviceform/internals/helpers"
)

type FormController struct {
	DB *gorm.DB
}

func NewFormController(db *gorm.DB) *FormController {
	return &FormController{DB: db}
}

func (ctrl *FormController) findForm(c *fiber.Ctx) (*model.ServiceForm, error) {
	var form model.ServiceForm
	err := ctrl.DB.Preload("CurrentRevision").
		First(&form, "form_slug = ?", c.Params("slug")).Error
	if err != nil {
		return nil, helper.Error(c, fiber.StatusNotFound, "Form not found")
	}
	return &form, nil
}

// GetForm is the public entry point: basic form info plus whether the
// visitor still needs the form password.
func (ctrl *FormController) GetForm(c *fiber.Ctx) error {
	form, err := ctrl.findForm(c)
	if form == nil {
		return err
	}
	claims := helper.GetSession(c)
	return helper.Success(c, "Form", fiber.Map{
		"form_slug":         form.FormSlug,
		"form_name":         form.FormName,
		"form_description":  form.FormDescription,
		"is_published":      form.IsPublished(time.Now()),
		"password_required": form.FormPassword != "" && claims.FormID != form.FormID,
		"has_participation": claims.ParticipationID != 0 && claims.FormID == form.FormID,
	})
}

// PostPasswordLogin opens the password gate for this form in the
// visitor's session.
func (ctrl *FormController) PostPasswordLogin(c *fiber.Ctx) error {
	form, err := ctrl.findForm(c)
	if form == nil {
		return err
	}
	var body dto.PasswordLoginRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request")
	}
	if form.FormPassword == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Form has no password")
	}
	if body.Password != form.FormPassword {
		return helper.Error(c, fiber.StatusForbidden, "Wrong password")
	}
	claims := helper.GetSession(c)
	claims.FormID = form.FormID
	if err := helper.SaveSession(c, claims); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not store session")
	}
	return helper.Redirect(c, "/form/"+form.FormSlug+"/"+constants.StepContactDetails)
}

// PostSendAuthLink emails a fresh personal link to an existing
// participant identified by address.
func (ctrl *FormController) PostSendAuthLink(c *fiber.Ctx) error {
	form, err := ctrl.findForm(c)
	if form == nil {
		return err
	}
	var body dto.SendAuthLinkRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request")
	}
	if err := helper.ValidateStruct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	var p participationModel.Participation
	err = ctrl.DB.Preload("Member").
		Joins("JOIN members ON members.member_id = participations.member_id").
		Joins("JOIN form_revisions ON form_revisions.form_revision_id = participations.form_revision_id").
		Where("members.member_email = ?", body.Email).
		Where("form_revisions.form_id = ?", form.FormID).
		First(&p).Error
	if err == nil && p.Member != nil {
		_, err = emailService.ResendAuthLink(ctrl.DB, form, &p, p.Member)
		if err != nil {
			log.Printf("[WARN] auth link to %s failed: %v", body.Email, err)
		}
	}
	// Same reply either way, so addresses cannot be probed.
	return helper.Success(c, "Authentication link was sent to email address "+body.Email, nil)
}

// PostResponsibleAuthLink emails a report access link to a responsible
// person identified by address.
func (ctrl *FormController) PostResponsibleAuthLink(c *fiber.Ctx) error {
	form, err := ctrl.findForm(c)
	if form == nil {
		return err
	}
	var body dto.SendAuthLinkRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request")
	}
	if err := helper.ValidateStruct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	tree, err := hierarchyService.LoadTree(ctrl.DB, form)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not load form")
	}
	for _, r := range tree.AllResponsibles() {
		if r.MemberEmail == body.Email {
			r := r
			if err := emailService.SendResponsibleAuthLink(ctrl.DB, form, &r); err != nil {
				log.Printf("[WARN] responsible link to %s failed: %v", body.Email, err)
			}
			break
		}
	}
	return helper.Success(c, "Authentication link was sent to email address "+body.Email, nil)
}

// PostInvite creates invited participations and sends invite emails. The
// route sits behind the member auth middleware.
func (ctrl *FormController) PostInvite(c *fiber.Ctx) error {
	form, err := ctrl.findForm(c)
	if form == nil {
		return err
	}
	if !form.IsPublished(time.Now()) {
		return helper.Error(c, fiber.StatusBadRequest, "Form is not yet published, emails can't be sent")
	}
	var body dto.InviteRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request")
	}
	if err := helper.ValidateStruct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	results := make([]dto.InviteResultResponse, 0, len(body.EmailAddresses))
	for _, email := range body.EmailAddresses {
		result := ctrl.inviteUser(form, email, body.OldParticipants)
		results = append(results, dto.InviteResultResponse{Email: email, Result: result})
	}
	return helper.Success(c, "Invites processed", results)
}

// PostNewRevision creates a revision and optionally publishes it right
// away. Publishing bootstraps email templates and reschedules the bulk
// email tasks.
func (ctrl *FormController) PostNewRevision(c *fiber.Ctx) error {
	form, err := ctrl.findForm(c)
	if form == nil {
		return err
	}
	var body dto.NewRevisionRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request")
	}
	if err := helper.ValidateStruct(body); err != nil {
		return helper.ValidationError(c, err)
	}
	validFrom, err := time.Parse(time.RFC3339, body.ValidFrom)
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "valid_from must be RFC 3339")
	}
	validTo, err := time.Parse(time.RFC3339, body.ValidTo)
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "valid_to must be RFC 3339")
	}
	sendAfter, err := time.Parse(time.RFC3339, body.SendEmailsAfter)
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "send_emails_after must be RFC 3339")
	}

	revision, err := formService.CreateRevision(ctrl.DB, form, body.Name,
		validFrom, validTo, sendAfter, body.SendBulkToParticipants)
	if err != nil {
		if errors.Is(err, formService.ErrRevisionWindow) {
			return helper.Error(c, fiber.StatusBadRequest, "valid_to must not be before valid_from")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Could not create revision")
	}
	if body.Publish {
		if err := formService.Publish(ctrl.DB, form, revision); err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Could not publish revision")
		}
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Revision created", revision)
}

func (ctrl *FormController) inviteUser(form *model.ServiceForm, email string, oldParticipants bool) string {
	log.Printf("[INFO] Invite user %s to form %d", email, form.FormID)

	var existing participationModel.Participation
	err := ctrl.DB.Preload("Member").
		Joins("JOIN members ON members.member_id = participations.member_id").
		Joins("JOIN form_revisions ON form_revisions.form_revision_id = participations.form_revision_id").
		Where("members.member_email = ?", email).
		Where("form_revisions.form_id = ?", form.FormID).
		First(&existing).Error
	if err == nil {
		if oldParticipants && form.CurrentRevisionID != nil &&
			existing.FormRevisionID != *form.CurrentRevisionID {
			msg, err := emailService.SendParticipantEmail(ctrl.DB, form, &existing, existing.Member,
				emailService.EventInvite, nil)
			if err != nil {
				log.Printf("[WARN] invite to %s failed: %v", email, err)
				return "error"
			}
			if msg == nil {
				return "user_denied_email"
			}
			return "email_sent"
		}
		return "user_exists"
	}

	var m memberModel.Member
	err = ctrl.DB.Where("organization_id = ? AND member_email = ?", form.OrganizationID, email).
		FirstOrCreate(&m, memberModel.Member{
			OrganizationID: form.OrganizationID,
			MemberEmail:    email,
		}).Error
	if err != nil {
		return "error"
	}
	p := participationModel.Participation{
		MemberID:            m.MemberID,
		FormRevisionID:      *form.CurrentRevisionID,
		ParticipationStatus: constants.StatusInvited,
	}
	if err := ctrl.DB.Create(&p).Error; err != nil {
		return "error"
	}
	if _, err := emailService.SendParticipantEmail(ctrl.DB, form, &p, &m,
		emailService.EventInvite, nil); err != nil {
		log.Printf("[WARN] invite to %s failed: %v", email, err)
		return "error"
	}
	return "email_sent"
}
