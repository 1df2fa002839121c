package dto

// ContactDetailsRequest carries the first flow step. Which optional
// fields are actually enforced depends on the form's required/visible
// flags, checked in the controller on top of these baseline rules.
type ContactDetailsRequest struct {
	Forenames     string `json:"forenames" validate:"required,max=64"`
	Surname       string `json:"surname" validate:"required,max=64"`
	YearOfBirth   *int   `json:"year_of_birth" validate:"omitempty"`
	StreetAddress string `json:"street_address" validate:"max=128"`
	PostalCode    string `json:"postal_code" validate:"max=32"`
	City          string `json:"city" validate:"max=32"`
	Email         string `json:"email" validate:"omitempty,email,max=128"`
	PhoneNumber   string `json:"phone_number" validate:"max=32"`

	AllowParticipationEmail bool `json:"allow_participation_email"`
}

// SelectionRequest wraps the raw selection fields of a participation or
// questions POST, keyed by their wire names (SRV_ACTIVITY_12 and so on).
type SelectionRequest struct {
	Fields map[string]string `json:"fields"`
}

type ParticipationStateResponse struct {
	ParticipationID int64    `json:"participation_id"`
	Status          string   `json:"status"`
	Flow            []string `json:"flow"`
	CurrentStep     string   `json:"current_step"`
	MaxCategory     int      `json:"max_category"`
}

type ActivityErrorResponse struct {
	ActivityID int64  `json:"activity_id"`
	Message    string `json:"message"`
}

type QuestionErrorResponse struct {
	QuestionID int64  `json:"question_id"`
	Message    string `json:"message"`
}
