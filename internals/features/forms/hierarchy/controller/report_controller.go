package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/tuomas2/serviceform/internals/constants"
	"github.com/tuomas2/serviceform/internals/features/forms/hierarchy/dto"
	hierarchyService "github.com/tuomas2/serviceform/internals/features/forms/hierarchy/service"
	participationModel "github.com/tuomas2/serviceform/internals/features/participation/participation/model"
	selectionModel "github.com/tuomas2/serviceform/internals/features/participation/selection/model"
	memberModel "github.com/tuomas2/serviceform/internals/features/people/member/model"
	helper "github.com/tuomas2/serviceform/internals/helpers"
)

type ReportController struct {
	DB *gorm.DB
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db}
}

// reportData is everything one report render reads from the store:
// ready participations of the form (any revision) plus their selections.
type reportData struct {
	participants map[int64]*participationModel.Participation
	pactsByAct   map[int64][]selectionModel.ParticipationActivity
	choicesByCh  map[int64][]selectionModel.ParticipationActivityChoice
	pactOwner    map[int64]int64
	answersByQ   map[int64][]selectionModel.QuestionAnswer
}

func (ctrl *ReportController) loadReportData(formID int64) (*reportData, error) {
	data := &reportData{
		participants: map[int64]*participationModel.Participation{},
		pactsByAct:   map[int64][]selectionModel.ParticipationActivity{},
		choicesByCh:  map[int64][]selectionModel.ParticipationActivityChoice{},
		pactOwner:    map[int64]int64{},
		answersByQ:   map[int64][]selectionModel.QuestionAnswer{},
	}

	var participations []participationModel.Participation
	err := ctrl.DB.Preload("Member").
		Joins("JOIN form_revisions ON form_revisions.form_revision_id = participations.form_revision_id").
		Where("form_revisions.form_id = ? AND participations.participation_status IN ?",
			formID, constants.ReadyStatuses).
		Find(&participations).Error
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(participations))
	for i := range participations {
		p := &participations[i]
		data.participants[p.ParticipationID] = p
		ids = append(ids, p.ParticipationID)
	}
	if len(ids) == 0 {
		return data, nil
	}

	var pacts []selectionModel.ParticipationActivity
	if err := ctrl.DB.Where("participation_id IN ?", ids).Find(&pacts).Error; err != nil {
		return nil, err
	}
	pactIDs := make([]int64, 0, len(pacts))
	for _, pa := range pacts {
		data.pactsByAct[pa.ActivityID] = append(data.pactsByAct[pa.ActivityID], pa)
		data.pactOwner[pa.ParticipationActivityID] = pa.ParticipationID
		pactIDs = append(pactIDs, pa.ParticipationActivityID)
	}

	if len(pactIDs) > 0 {
		var pchoices []selectionModel.ParticipationActivityChoice
		if err := ctrl.DB.Where("participation_activity_id IN ?", pactIDs).Find(&pchoices).Error; err != nil {
			return nil, err
		}
		for _, pc := range pchoices {
			data.choicesByCh[pc.ActivityChoiceID] = append(data.choicesByCh[pc.ActivityChoiceID], pc)
		}
	}

	var answers []selectionModel.QuestionAnswer
	if err := ctrl.DB.Where("participation_id IN ?", ids).Find(&answers).Error; err != nil {
		return nil, err
	}
	for _, a := range answers {
		data.answersByQ[a.QuestionID] = append(data.answersByQ[a.QuestionID], a)
	}
	return data, nil
}

func (data *reportData) entry(participationID int64, info string) (dto.ParticipantEntry, bool) {
	p, ok := data.participants[participationID]
	if !ok || p.Member == nil {
		return dto.ParticipantEntry{}, false
	}
	return dto.ParticipantEntry{
		ParticipationID: p.ParticipationID,
		Name:            p.Member.DisplayName(),
		Email:           p.Member.MemberEmail,
		AdditionalInfo:  info,
	}, true
}

// GetResponsibleReport renders the personalized report: every hierarchy
// item the authenticated member is responsible for, directly or through
// an ancestor, with the participants who picked it. Members flagged for
// the full report see every item instead.
func (ctrl *ReportController) GetResponsibleReport(c *fiber.Ctx) error {
	claims := helper.GetSession(c)
	if claims.MemberID == 0 {
		return helper.Error(c, fiber.StatusUnauthorized, "Authentication required")
	}
	var responsible memberModel.Member
	if err := ctrl.DB.First(&responsible, claims.MemberID).Error; err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Authentication required")
	}

	tree, err := hierarchyService.LoadTreeBySlug(ctrl.DB, c.Params("slug"))
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Form not found")
	}
	agg := tree.Aggregate(true)
	if agg.ResponsibleCounts[responsible.MemberID] == 0 && !responsible.MemberShowFullReport {
		return helper.Error(c, fiber.StatusForbidden, "No responsibilities on this form")
	}

	data, err := ctrl.loadReportData(tree.Form.FormID)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load report data")
	}

	mine := func(an *hierarchyService.NodeAnnotation) bool {
		if responsible.MemberShowFullReport {
			return true
		}
		_, ok := an.Responsibles[responsible.MemberID]
		return ok
	}

	resp := dto.ResponsibleReportResponse{
		FormSlug:   tree.Form.FormSlug,
		FormName:   tree.Form.FormName,
		FullReport: responsible.MemberShowFullReport,
		ItemCount:  agg.ResponsibleCounts[responsible.MemberID],
		Activities: []dto.ActivityReport{},
		Questions:  []dto.QuestionReport{},
	}

	for _, activity := range tree.Activities() {
		an := agg.Activities[activity.ActivityID]
		if an == nil || !mine(an) {
			continue
		}
		report := dto.ActivityReport{
			ActivityID:   activity.ActivityID,
			IDDisplay:    an.IDDisplay(activity.ActivitySkipNumbering),
			Name:         activity.ActivityName,
			Participants: []dto.ParticipantEntry{},
		}
		for _, pa := range data.pactsByAct[activity.ActivityID] {
			if e, ok := data.entry(pa.ParticipationID, pa.ParticipationActivityAdditionalInfo); ok {
				report.Participants = append(report.Participants, e)
			}
		}
		for i := range activity.Choices {
			choice := &activity.Choices[i]
			anCh := agg.Choices[choice.ActivityChoiceID]
			if anCh == nil {
				continue
			}
			chReport := dto.ChoiceReport{
				ActivityChoiceID: choice.ActivityChoiceID,
				IDDisplay:        anCh.LetterDisplay(choice.ActivityChoiceSkipNumbering),
				Name:             choice.ActivityChoiceName,
				Participants:     []dto.ParticipantEntry{},
			}
			for _, pc := range data.choicesByCh[choice.ActivityChoiceID] {
				owner := data.pactOwner[pc.ParticipationActivityID]
				if e, ok := data.entry(owner, pc.ParticipationActivityChoiceAdditionalInfo); ok {
					chReport.Participants = append(chReport.Participants, e)
				}
			}
			report.Choices = append(report.Choices, chReport)
		}
		resp.Activities = append(resp.Activities, report)
	}

	for i := range tree.Questions {
		question := &tree.Questions[i]
		direct := false
		for _, m := range question.Responsibles {
			if m.MemberID == responsible.MemberID {
				direct = true
				break
			}
		}
		if !direct && !responsible.MemberShowFullReport {
			continue
		}
		qReport := dto.QuestionReport{
			QuestionID: question.QuestionID,
			Text:       question.QuestionText,
			Answers:    []dto.AnswerEntry{},
		}
		for _, a := range data.answersByQ[question.QuestionID] {
			if e, ok := data.entry(a.ParticipationID, ""); ok {
				qReport.Answers = append(qReport.Answers, dto.AnswerEntry{
					ParticipationID: e.ParticipationID,
					Name:            e.Name,
					Answer:          a.QuestionAnswerText,
				})
			}
		}
		resp.Questions = append(resp.Questions, qReport)
	}

	return helper.Success(c, "Responsible report", resp)
}
