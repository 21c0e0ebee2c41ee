package db

// Participant is a row in the participant table
type Participant struct {
	ID                 string `ssql_header:"participant_id" ssql_type:"text"`
	DisplayName        string `ssql_header:"display_name" ssql_type:"text"`
	Gender             string `ssql_header:"gender" ssql_type:"text"`
	Disabled           bool   `ssql_header:"is_disabled" ssql_type:"bool"`
	Timezone           string `ssql_header:"timezone" ssql_type:"text"`
	JoinedOn           string `ssql_header:"joined_on" ssql_type:"date"`
	LastPunishedOn     string `ssql_header:"last_punished_on" ssql_type:"date"`
	LastCongratsOn     string `ssql_header:"last_congrats_on" ssql_type:"date"`
	DefaultChallengeID string `ssql_header:"default_challenge_id" ssql_type:"text"`
}

// Challenge is a row in the challenge table
type Challenge struct {
	ID            string `ssql_header:"challenge_id" ssql_type:"uuid"`
	ParticipantID string `ssql_header:"participant_id" ssql_type:"text"`
	Type          string `ssql_header:"challenge_type" ssql_type:"text"`
	DailyTarget   int    `ssql_header:"daily_target" ssql_type:"int"`
	Unit          string `ssql_header:"unit" ssql_type:"text"`
	Active        bool   `ssql_header:"is_active" ssql_type:"bool"`
	CreatedAt     string `ssql_header:"created_at" ssql_type:"timestamp"`
}

// DailyLog is a row in the daily_log table.
// Amount and Bonus are kept as text because the sheet is hand-edited;
// callers treat unparseable values as zero.
type DailyLog struct {
	Date          string `ssql_header:"date" ssql_type:"date"`
	ParticipantID string `ssql_header:"participant_id" ssql_type:"text"`
	Amount        string `ssql_header:"amount" ssql_type:"int"`
	Bonus         string `ssql_header:"bonus" ssql_type:"int"`
	Penalized     bool   `ssql_header:"penalized" ssql_type:"bool"`
	Notes         string `ssql_header:"notes" ssql_type:"text"`
	LoggedAt      string `ssql_header:"logged_at" ssql_type:"timestamp"`
	ChallengeID   string `ssql_header:"challenge_id" ssql_type:"text"`
}

// Setting is a row in the setting table
type Setting struct {
	Key       string `ssql_header:"key" ssql_type:"text"`
	Value     string `ssql_header:"value" ssql_type:"text"`
	UpdatedAt string `ssql_header:"updated_at" ssql_type:"timestamp"`
}

// DayOffVote is one participant's ballot on one day-off request
type DayOffVote struct {
	RequestID     string `ssql_header:"request_id" ssql_type:"text"`
	TargetDay     string `ssql_header:"target_day" ssql_type:"date"`
	RequestDate   string `ssql_header:"request_date" ssql_type:"date"`
	RequestedBy   string `ssql_header:"requested_by" ssql_type:"text"`
	Deadline      string `ssql_header:"deadline" ssql_type:"timestamp"`
	ParticipantID string `ssql_header:"participant_id" ssql_type:"text"`
	Vote          string `ssql_header:"vote" ssql_type:"text"`
	VotedAt       string `ssql_header:"voted_at" ssql_type:"timestamp"`
	Reason        string `ssql_header:"reason" ssql_type:"text"`
}

// Models lists every table model, in schema order
func Models() []interface{} {
	return []interface{}{
		Participant{},
		Challenge{},
		DailyLog{},
		Setting{},
		DayOffVote{},
	}
}
