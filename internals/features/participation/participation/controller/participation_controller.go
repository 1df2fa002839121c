package controller

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/tuomas2/serviceform/internals/constants"
	emailService "github.com/tuomas2/serviceform/internals/features/emails/emails/service"
	hierarchyModel "github.com/tuomas2/serviceform/internals/features/forms/hierarchy/model"
	hierarchyService "github.com/tuomas2/serviceform/internals/features/forms/hierarchy/service"
	"github.com/tuomas2/serviceform/internals/features/participation/participation/dto"
	"github.com/tuomas2/serviceform/internals/features/participation/participation/model"
	participationService "github.com/tuomas2/serviceform/internals/features/participation/participation/service"
	selectionService "github.com/tuomas2/serviceform/internals/features/participation/selection/service"
	memberModel "github.com/tuomas2/serviceform/internals/features/people/member/model"
	memberService "github.com/tuomas2/serviceform/internals/features/people/member/service"
	helper "github.com/tuomas2/serviceform/internals/helpers"
)

type ParticipationController struct {
	DB *gorm.DB
}

func NewParticipationController(db *gorm.DB) *ParticipationController {
	return &ParticipationController{DB: db}
}

func stepURL(slug, step string) string {
	return "/form/" + slug + "/" + step
}

// stepContext is everything a flow step handler needs: the loaded form
// tree, the visitor's session, their member row and active participation,
// and the flow computed for them.
type stepContext struct {
	tree          *hierarchyService.FormTree
	claims        *helper.SessionClaims
	member        *memberModel.Member
	participation *model.Participation
	flow          []string
}

func (sc *stepContext) slug() string {
	return sc.tree.Form.FormSlug
}

// loadForm resolves the slug and enforces the form password gate.
func (ctrl *ParticipationController) loadForm(c *fiber.Ctx) (*hierarchyService.FormTree, *helper.SessionClaims, error) {
	tree, err := hierarchyService.LoadTreeBySlug(ctrl.DB, c.Params("slug"))
	if err != nil {
		return nil, nil, helper.Error(c, fiber.StatusNotFound, "Form not found")
	}
	claims := helper.GetSession(c)
	if tree.Form.FormPassword != "" && claims.FormID != tree.Form.FormID {
		return nil, nil, helper.Error(c, fiber.StatusUnauthorized, "Form password required")
	}
	return tree, claims, nil
}

// stepContext additionally requires an authenticated, editable
// participation, and when step is non-empty gates it by the flow rules.
// On a blocked step the caller gets nil plus the already written redirect.
func (ctrl *ParticipationController) stepContext(c *fiber.Ctx, step string) (*stepContext, error) {
	tree, claims, err := ctrl.loadForm(c)
	if tree == nil {
		return nil, err
	}
	if claims.ParticipationID == 0 {
		return nil, helper.Error(c, fiber.StatusForbidden, "No active participation")
	}

	var p model.Participation
	err = ctrl.DB.
		Where("participation_id = ?", claims.ParticipationID).
		Where("participation_status IN ?", constants.EditStatuses).
		First(&p).Error
	if err != nil {
		return nil, helper.Error(c, fiber.StatusForbidden, "No active participation")
	}
	var m memberModel.Member
	if err := ctrl.DB.First(&m, "member_id = ?", p.MemberID).Error; err != nil {
		return nil, helper.Error(c, fiber.StatusForbidden, "No active participation")
	}

	sc := &stepContext{
		tree:          tree,
		claims:        claims,
		member:        &m,
		participation: &p,
		flow:          participationService.Flow(tree.Form, &m, tree.HasQuestions(), time.Now()),
	}
	if step != "" && !participationService.CanAccess(&p, tree.Form, sc.flow, step, true) {
		return nil, helper.Redirect(c, stepURL(sc.slug(), participationService.ResumeStep(sc.flow, &p)))
	}
	return sc, nil
}

// redirectNext records flow progress and points the client at the step
// after current.
func (ctrl *ParticipationController) redirectNext(c *fiber.Ctx, sc *stepContext, current string) error {
	next := participationService.NextStep(sc.flow, current)
	err := participationService.ProceedTo(ctrl.DB, sc.participation, sc.tree.Form, sc.flow, next)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not store progress")
	}
	return helper.Redirect(c, stepURL(sc.slug(), next))
}

// selectionFields collects SRV_ fields from either a JSON body or a
// classic form post.
func selectionFields(c *fiber.Ctx) map[string]string {
	var body dto.SelectionRequest
	if err := c.BodyParser(&body); err == nil && len(body.Fields) > 0 {
		return body.Fields
	}
	fields := map[string]string{}
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		fields[string(key)] = string(value)
	})
	return fields
}

// ===== Contact details =====

func (ctrl *ParticipationController) GetContactDetails(c *fiber.Ctx) error {
	tree, claims, err := ctrl.loadForm(c)
	if tree == nil {
		return err
	}
	if claims.MemberID == 0 {
		return helper.Success(c, "New participation", fiber.Map{
			"form":   tree.Form,
			"member": nil,
		})
	}
	sc, err := ctrl.stepContext(c, constants.StepContactDetails)
	if sc == nil {
		return err
	}
	if sc.participation.ParticipationStatus == constants.StatusFinished {
		return helper.Redirect(c, stepURL(sc.slug(), constants.StepSubmitted))
	}
	return helper.Success(c, "Contact details", fiber.Map{
		"form":   sc.tree.Form,
		"member": sc.member,
	})
}

func (ctrl *ParticipationController) PostContactDetails(c *fiber.Ctx) error {
	tree, claims, err := ctrl.loadForm(c)
	if tree == nil {
		return err
	}

	var body dto.ContactDetailsRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request")
	}
	if err := helper.ValidateStruct(body); err != nil {
		return helper.ValidationError(c, err)
	}
	if fieldErrors := ctrl.validateContactRules(tree, &body); len(fieldErrors) > 0 {
		return helper.ErrorWithDetails(c, fiber.StatusBadRequest, "Validation failed", fieldErrors)
	}

	if claims.MemberID == 0 {
		return ctrl.createParticipation(c, tree, claims, &body)
	}
	return ctrl.modifyContactDetails(c, claims, &body)
}

// validateContactRules applies the form's required-field flags on top of
// the baseline DTO validation.
func (ctrl *ParticipationController) validateContactRules(tree *hierarchyService.FormTree,
	body *dto.ContactDetailsRequest) map[string]string {

	form := tree.Form
	fieldErrors := map[string]string{}
	if form.FormRequiredStreetAddress && form.FormVisibleStreetAddress {
		if body.StreetAddress == "" {
			fieldErrors["street_address"] = "required"
		}
		if body.PostalCode == "" {
			fieldErrors["postal_code"] = "required"
		}
		if body.City == "" {
			fieldErrors["city"] = "required"
		}
	}
	if form.FormRequiredPhoneNumber && form.FormVisiblePhoneNumber && body.PhoneNumber == "" {
		fieldErrors["phone_number"] = "required"
	}
	if form.FormVisibleYearOfBirth {
		if form.FormRequiredYearOfBirth && body.YearOfBirth == nil {
			fieldErrors["year_of_birth"] = "required"
		}
		if body.YearOfBirth != nil {
			year := *body.YearOfBirth
			if year < 1900 {
				fieldErrors["year_of_birth"] = "Invalid year of birth"
			} else if year > time.Now().Year()-10 {
				fieldErrors["year_of_birth"] = "You must be at least 10 years old"
			}
		}
	}
	if body.AllowParticipationEmail && body.Email == "" {
		fieldErrors["email"] = "If sending email is allowed email address need to be given"
	}
	return fieldErrors
}

// duplicateEmail reports whether another member of the organization with
// a participation on this form already uses the address.
func (ctrl *ParticipationController) duplicateEmail(tree *hierarchyService.FormTree,
	email string, excludeMemberID int64) bool {

	if email == "" {
		return false
	}
	var count int64
	ctrl.DB.Model(&model.Participation{}).
		Joins("JOIN members ON members.member_id = participations.member_id").
		Joins("JOIN form_revisions ON form_revisions.form_revision_id = participations.form_revision_id").
		Where("members.member_email = ?", email).
		Where("members.member_id <> ?", excludeMemberID).
		Where("form_revisions.form_id = ?", tree.Form.FormID).
		Count(&count)
	return count > 0
}

func applyContactDetails(m *memberModel.Member, body *dto.ContactDetailsRequest) {
	if m.MemberEmail != body.Email {
		m.MemberEmailVerified = false
	}
	m.MemberForenames = body.Forenames
	m.MemberSurname = body.Surname
	m.MemberYearOfBirth = body.YearOfBirth
	m.MemberStreetAddress = body.StreetAddress
	m.MemberPostalCode = body.PostalCode
	m.MemberCity = body.City
	m.MemberEmail = body.Email
	m.MemberPhoneNumber = body.PhoneNumber
	m.MemberAllowParticipationEmail = body.AllowParticipationEmail
}

func (ctrl *ParticipationController) createParticipation(c *fiber.Ctx, tree *hierarchyService.FormTree,
	claims *helper.SessionClaims, body *dto.ContactDetailsRequest) error {

	form := tree.Form
	if !form.IsPublished(time.Now()) {
		return helper.Error(c, fiber.StatusForbidden, "Form is not published")
	}
	if ctrl.duplicateEmail(tree, body.Email, 0) {
		return helper.ErrorWithDetails(c, fiber.StatusBadRequest, "Validation failed", fiber.Map{
			"email": "There is already participation with this email address. " +
				"To edit earlier participation, request a new auth link to your email.",
		})
	}

	m := memberModel.Member{OrganizationID: form.OrganizationID}
	applyContactDetails(&m, body)
	if err := ctrl.DB.Create(&m).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not save contact details")
	}

	p := model.Participation{
		MemberID:                      m.MemberID,
		FormRevisionID:                *form.CurrentRevisionID,
		ParticipationStatus:           constants.StatusOngoing,
		ParticipationLastFinishedStep: constants.StepContactDetails,
	}
	if err := ctrl.DB.Create(&p).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not create participation")
	}

	claims.FormID = form.FormID
	claims.MemberID = m.MemberID
	claims.ParticipationID = p.ParticipationID
	claims.MaxCategory = 0
	if err := helper.SaveSession(c, claims); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not store session")
	}

	flow := participationService.Flow(form, &m, tree.HasQuestions(), time.Now())
	return helper.Redirect(c, stepURL(form.FormSlug, participationService.NextStep(flow, constants.StepContactDetails)))
}

func (ctrl *ParticipationController) modifyContactDetails(c *fiber.Ctx,
	claims *helper.SessionClaims, body *dto.ContactDetailsRequest) error {

	sc, err := ctrl.stepContext(c, constants.StepContactDetails)
	if sc == nil {
		return err
	}
	if ctrl.duplicateEmail(sc.tree, body.Email, sc.member.MemberID) {
		return helper.ErrorWithDetails(c, fiber.StatusBadRequest, "Validation failed", fiber.Map{
			"email": "There is already participation with this email address. " +
				"To edit earlier participation, request a new auth link to your email.",
		})
	}

	applyContactDetails(sc.member, body)
	if err := ctrl.DB.Save(sc.member).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not save contact details")
	}

	if !sc.tree.Form.IsPublished(time.Now()) {
		// Closed form: contact details may still be fixed, nothing else.
		err := ctrl.DB.Model(sc.participation).
			Update("participation_status", constants.StatusFinished).Error
		if err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Could not save participation")
		}
		return helper.Redirect(c, stepURL(sc.slug(), constants.StepSubmitted))
	}
	return ctrl.redirectNext(c, sc, constants.StepContactDetails)
}

// ===== Email verification =====

func (ctrl *ParticipationController) GetEmailVerification(c *fiber.Ctx) error {
	sc, err := ctrl.stepContext(c, constants.StepEmailVerification)
	if sc == nil {
		return err
	}
	if sc.claims.VerificationSent == sc.member.MemberEmail {
		return helper.Success(c, "Verification email already sent to "+sc.member.MemberEmail+
			", not sending again.", nil)
	}
	_, err = emailService.SendParticipantEmail(ctrl.DB, sc.tree.Form, sc.participation, sc.member,
		emailService.EventEmailVerification, nil)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not send verification email")
	}
	sc.claims.VerificationSent = sc.member.MemberEmail
	if err := helper.SaveSession(c, sc.claims); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not store session")
	}
	return helper.Success(c, "Verification email sent to "+sc.member.MemberEmail, nil)
}

// VerifyEmail is the public landing endpoint of the verification email.
func (ctrl *ParticipationController) VerifyEmail(c *fiber.Ctx) error {
	pid, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Participation not found")
	}
	var p model.Participation
	if err := ctrl.DB.Preload("FormRevision").First(&p, "participation_id = ?", pid).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Participation not found")
	}
	var m memberModel.Member
	if err := ctrl.DB.First(&m, "member_id = ?", p.MemberID).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Participation not found")
	}
	var form formForRevision
	if err := ctrl.DB.Raw(
		"SELECT form_slug, form_id FROM service_forms WHERE form_id = ?",
		p.FormRevision.FormID).Scan(&form).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Form not found")
	}

	switch memberService.CheckAuthKey(&m, c.Params("password")) {
	case memberService.PasswordNOK:
		return helper.Error(c, fiber.StatusForbidden,
			"Given URL might be expired. Please request a new verification email.")
	case memberService.PasswordExpired:
		return helper.Error(c, fiber.StatusForbidden, "Verification link has expired")
	}

	if !m.MemberEmailVerified {
		err := ctrl.DB.Model(&memberModel.Member{}).
			Where("member_id = ?", m.MemberID).
			Update("member_email_verified", true).Error
		if err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Could not verify email")
		}
		m.MemberEmailVerified = true
	}

	claims := helper.GetSession(c)
	claims.FormID = form.FormID
	claims.MemberID = m.MemberID
	claims.ParticipationID = p.ParticipationID
	if err := helper.SaveSession(c, claims); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not store session")
	}

	tree, err := hierarchyService.LoadTreeBySlug(ctrl.DB, form.FormSlug)
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Form not found")
	}
	flow := participationService.Flow(tree.Form, &m, tree.HasQuestions(), time.Now())
	next := participationService.NextStep(flow, constants.StepContactDetails)
	err = participationService.ProceedTo(ctrl.DB, &p, tree.Form, flow, next)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not store progress")
	}
	return helper.Redirect(c, stepURL(form.FormSlug, next))
}

type formForRevision struct {
	FormSlug string `gorm:"column:form_slug"`
	FormID   int64  `gorm:"column:form_id"`
}

// ===== Participation (selections) =====

// catScope is the category window of one participation step request. Nil
// means the response was already written (bad index or forced redirect).
type catScope struct {
	category      *hierarchyModel.Level1Category
	catNum        int
	numCategories int
}

func (ctrl *ParticipationController) participationCategory(c *fiber.Ctx,
	sc *stepContext) (*catScope, error) {

	catNum := c.QueryInt("category", 0)
	var category *hierarchyModel.Level1Category
	numCategories := 0
	if sc.tree.Form.FormFlowByCategories {
		category = sc.tree.Category(catNum)
		if category == nil {
			return nil, helper.Error(c, fiber.StatusNotFound, "Category not found")
		}
		numCategories = len(sc.tree.Categories)
	}

	maxCat := sc.claims.MaxCategory
	afterParticipation := participationService.NextStep(sc.flow, constants.StepParticipation)
	if participationService.CanAccess(sc.participation, sc.tree.Form, sc.flow, afterParticipation, false) ||
		sc.tree.Form.FormAllowSkippingCategories {
		maxCat = numCategories
	}
	if catNum > maxCat {
		return nil, helper.Redirect(c,
			stepURL(sc.slug(), constants.StepParticipation)+"?category="+strconv.Itoa(maxCat))
	}
	return &catScope{category: category, catNum: catNum, numCategories: numCategories}, nil
}

func (ctrl *ParticipationController) GetParticipation(c *fiber.Ctx) error {
	sc, err := ctrl.stepContext(c, constants.StepParticipation)
	if sc == nil {
		return err
	}
	scope, err := ctrl.participationCategory(c, sc)
	if scope == nil {
		return err
	}

	form := selectionService.NewParticipationForm(sc.tree, scope.category, sc.participation)
	if err := form.Load(ctrl.DB); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not load selections")
	}

	sc.tree.Aggregate(false)
	return helper.Success(c, "Participation", fiber.Map{
		"category":  scope.catNum,
		"selection": selectionSnapshot(sc.tree, scope.category, form),
	})
}

func (ctrl *ParticipationController) PostParticipation(c *fiber.Ctx) error {
	sc, err := ctrl.stepContext(c, constants.StepParticipation)
	if sc == nil {
		return err
	}
	scope, err := ctrl.participationCategory(c, sc)
	if scope == nil {
		return err
	}

	form := selectionService.NewParticipationForm(sc.tree, scope.category, sc.participation)
	if err := form.Clean(selectionFields(c)); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}
	if !form.IsValid() {
		var details []dto.ActivityErrorResponse
		for id, msg := range form.ActivityErrors {
			details = append(details, dto.ActivityErrorResponse{ActivityID: id, Message: msg})
		}
		return helper.ErrorWithDetails(c, fiber.StatusBadRequest, "Validation failed", details)
	}
	if err := form.Save(ctrl.DB); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not save selections")
	}

	catNum := scope.catNum + 1
	if catNum > sc.claims.MaxCategory {
		sc.claims.MaxCategory = catNum
		if err := helper.SaveSession(c, sc.claims); err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Could not store session")
		}
	}
	if catNum >= scope.numCategories {
		return ctrl.redirectNext(c, sc, constants.StepParticipation)
	}
	return helper.Redirect(c,
		stepURL(sc.slug(), constants.StepParticipation)+"?category="+strconv.Itoa(catNum))
}

// selectionSnapshot renders the scope's activities with display ids and
// the participant's current picks.
func selectionSnapshot(tree *hierarchyService.FormTree, category *hierarchyModel.Level1Category,
	form *selectionService.ParticipationForm) []fiber.Map {

	scope := tree.Categories
	if category != nil {
		scope = []hierarchyModel.Level1Category{*category}
	}
	var out []fiber.Map
	for i := range scope {
		cat1 := &scope[i]
		for j := range cat1.Categories {
			cat2 := &cat1.Categories[j]
			for k := range cat2.Activities {
				activity := &cat2.Activities[k]
				choices := make([]fiber.Map, 0, len(activity.Choices))
				for l := range activity.Choices {
					choice := &activity.Choices[l]
					choices = append(choices, fiber.Map{
						"activity_choice_id": choice.ActivityChoiceID,
						"name":               choice.ActivityChoiceName,
						"selected":           form.ChoiceSelected(choice.ActivityChoiceID),
						"extra":              form.ChoiceExtra(choice.ActivityChoiceID),
					})
				}
				out = append(out, fiber.Map{
					"activity_id":              activity.ActivityID,
					"name":                     activity.ActivityName,
					"multiple_choices_allowed": activity.ActivityMultipleChoicesAllowed,
					"selected":                 form.Selected(activity.ActivityID),
					"extra":                    form.ActivityExtra(activity.ActivityID),
					"choices":                  choices,
				})
			}
		}
	}
	return out
}

// ===== Questions =====

func (ctrl *ParticipationController) GetQuestions(c *fiber.Ctx) error {
	sc, err := ctrl.stepContext(c, constants.StepQuestions)
	if sc == nil {
		return err
	}
	if !sc.tree.HasQuestions() {
		return ctrl.redirectNext(c, sc, constants.StepQuestions)
	}
	form := selectionService.NewQuestionForm(sc.tree.Questions, sc.participation)
	if err := form.Load(ctrl.DB); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not load answers")
	}
	questions := make([]fiber.Map, 0, len(sc.tree.Questions))
	for i := range sc.tree.Questions {
		q := &sc.tree.Questions[i]
		questions = append(questions, fiber.Map{
			"question_id": q.QuestionID,
			"text":        q.QuestionText,
			"answer_type": q.QuestionAnswerType,
			"required":    q.QuestionRequired,
			"answer":      form.Answer(q.QuestionID),
		})
	}
	return helper.Success(c, "Questions", fiber.Map{"questions": questions})
}

func (ctrl *ParticipationController) PostQuestions(c *fiber.Ctx) error {
	sc, err := ctrl.stepContext(c, constants.StepQuestions)
	if sc == nil {
		return err
	}
	form := selectionService.NewQuestionForm(sc.tree.Questions, sc.participation)
	if err := form.Clean(selectionFields(c)); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}
	if !form.IsValid() {
		var details []dto.QuestionErrorResponse
		for id, msg := range form.QuestionErrors {
			details = append(details, dto.QuestionErrorResponse{QuestionID: id, Message: msg})
		}
		return helper.ErrorWithDetails(c, fiber.StatusBadRequest, "Validation failed", details)
	}
	if err := form.Save(ctrl.DB); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not save answers")
	}
	return ctrl.redirectNext(c, sc, constants.StepQuestions)
}

// ===== Preview and submit =====

func (ctrl *ParticipationController) GetPreview(c *fiber.Ctx) error {
	sc, err := ctrl.stepContext(c, constants.StepPreview)
	if sc == nil {
		return err
	}
	form := selectionService.NewParticipationForm(sc.tree, nil, sc.participation)
	if err := form.Load(ctrl.DB); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not load selections")
	}
	sc.tree.Aggregate(false)
	return helper.Success(c, "Preview", fiber.Map{
		"member":    sc.member,
		"selection": selectionSnapshot(sc.tree, nil, form),
	})
}

func (ctrl *ParticipationController) PostPreview(c *fiber.Ctx) error {
	sc, err := ctrl.stepContext(c, constants.StepPreview)
	if sc == nil {
		return err
	}
	return ctrl.redirectNext(c, sc, constants.StepPreview)
}

func (ctrl *ParticipationController) GetSubmitted(c *fiber.Ctx) error {
	sc, err := ctrl.stepContext(c, constants.StepSubmitted)
	if sc == nil {
		return err
	}
	err = participationService.Finish(ctrl.DB, sc.tree, sc.participation, sc.member, true)
	if err != nil {
		log.Printf("[ERROR] finishing participation %d failed: %v",
			sc.participation.ParticipationID, err)
		return helper.Error(c, fiber.StatusInternalServerError, "Could not finish participation")
	}

	sc.claims.MaxCategory = 0
	sc.claims.VerificationSent = ""
	if err := helper.SaveSession(c, sc.claims); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not store session")
	}
	return helper.Success(c, "Participation submitted", dto.ParticipationStateResponse{
		ParticipationID: sc.participation.ParticipationID,
		Status:          sc.participation.ParticipationStatus,
		Flow:            sc.flow,
		CurrentStep:     constants.StepSubmitted,
		MaxCategory:     0,
	})
}

// ===== Update, delete, unsubscribe =====

// PostUpdate reopens a finished participation for the authenticated
// member and sends them back to the start of the flow.
func (ctrl *ParticipationController) PostUpdate(c *fiber.Ctx) error {
	tree, claims, err := ctrl.loadForm(c)
	if tree == nil {
		return err
	}
	if claims.ParticipationID == 0 {
		return helper.Error(c, fiber.StatusForbidden, "No active participation")
	}
	var p model.Participation
	if err := ctrl.DB.First(&p, "participation_id = ?", claims.ParticipationID).Error; err != nil {
		return helper.Error(c, fiber.StatusForbidden, "No active participation")
	}
	if err := participationService.BeginUpdate(ctrl.DB, &p, tree.Form); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not reopen participation")
	}
	return helper.Redirect(c, stepURL(tree.Form.FormSlug, constants.StepContactDetails))
}

func (ctrl *ParticipationController) PostDelete(c *fiber.Ctx) error {
	tree, claims, err := ctrl.loadForm(c)
	if tree == nil {
		return err
	}
	if claims.ParticipationID == 0 {
		return helper.Error(c, fiber.StatusForbidden, "No active participation")
	}
	log.Printf("[INFO] Deleting participation %d, per request", claims.ParticipationID)
	err = ctrl.DB.Delete(&model.Participation{}, "participation_id = ?", claims.ParticipationID).Error
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Could not delete participation")
	}
	helper.ClearSession(c)
	return helper.Success(c, "Your participation was deleted", nil)
}
