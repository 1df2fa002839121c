package constants

// Flow step names. The order here is the canonical full flow; the flow
// service selects a subsequence per form configuration.
const (
	StepContactDetails    = "contact_details"
	StepEmailVerification = "email_verification"
	StepParticipation     = "participation"
	StepQuestions         = "questions"
	StepPreview           = "preview"
	StepSubmitted         = "submitted"
)

// FullFlow lists every flow step in walking order.
var FullFlow = []string{
	StepContactDetails,
	StepEmailVerification,
	StepParticipation,
	StepQuestions,
	StepPreview,
	StepSubmitted,
}

// Participation lifecycle statuses.
const (
	StatusInvited  = "invited"
	StatusOngoing  = "ongoing"
	StatusUpdating = "updating"
	StatusFinished = "finished"
)

// ReadyStatuses are statuses whose selections appear in reports.
var ReadyStatuses = []string{StatusUpdating, StatusFinished}

// EditStatuses are statuses in which the participant may modify the form.
var EditStatuses = []string{StatusUpdating, StatusOngoing}
