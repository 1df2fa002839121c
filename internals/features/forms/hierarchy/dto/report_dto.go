package dto

// ParticipantEntry is one participant row inside a report item.
type ParticipantEntry struct {
	ParticipationID int64  `json:"participation_id"`
	Name            string `json:"name"`
	Email           string `json:"email,omitempty"`
	AdditionalInfo  string `json:"additional_info,omitempty"`
}

type ChoiceReport struct {
	ActivityChoiceID int64              `json:"activity_choice_id"`
	IDDisplay        string             `json:"id_display"`
	Name             string             `json:"name"`
	Participants     []ParticipantEntry `json:"participants"`
}

type ActivityReport struct {
	ActivityID   int64              `json:"activity_id"`
	IDDisplay    string             `json:"id_display"`
	Name         string             `json:"name"`
	Participants []ParticipantEntry `json:"participants"`
	Choices      []ChoiceReport     `json:"choices,omitempty"`
}

type AnswerEntry struct {
	ParticipationID int64  `json:"participation_id"`
	Name            string `json:"name"`
	Answer          string `json:"answer"`
}

type QuestionReport struct {
	QuestionID int64         `json:"question_id"`
	Text       string        `json:"text"`
	Answers    []AnswerEntry `json:"answers"`
}

// ResponsibleReportResponse is the personalized report: the items the
// authenticated responsible is in charge of, with who signed up.
type ResponsibleReportResponse struct {
	FormSlug   string           `json:"form_slug"`
	FormName   string           `json:"form_name"`
	FullReport bool             `json:"full_report"`
	ItemCount  int              `json:"item_count"`
	Activities []ActivityReport `json:"activities"`
	Questions  []QuestionReport `json:"questions"`
}
