package constants

// Wire tokens of the selection POST encoding. Field keys have the literal
// forms SRV_ACTIVITY_<int>, SRV_ACTIVITYCHOICE_<int>, SRV_CHOICE_<int>,
// SRV_QUESTION_<int>, plus SRV_<TYPE>_EXTRA_<int> for free-text fields.
// These must stay bit-exact for client compatibility.
const (
	SrvPrefix = "SRV"

	SrvTypeActivity       = "ACTIVITY"
	SrvTypeActivityChoice = "ACTIVITYCHOICE"
	SrvTypeChoice         = "CHOICE"
	SrvTypeQuestion       = "QUESTION"

	SrvExtra = "EXTRA"
)
