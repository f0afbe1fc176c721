package model

// Team is a contest team. Everything except deletion is owned by the backend.
type Team struct {
	ID                ID        `json:"id"`
	TeamName          string    `json:"team_name"`
	EventName         string    `json:"event_name"`
	IsJunior          bool      `json:"is_junior"`
	Score             int       `json:"score"`
	CorrectSubmission int       `json:"correct_submission"`
	WrongSubmission   int       `json:"wrong_submission"`
	FirstSolveTime    Timestamp `json:"first_solve_time"`
	Users             []User    `json:"Users,omitempty"`
}

func (t Team) Key() ID {
	return t.ID
}

// Category reports the junior/senior bracket.
func (t Team) Category() string {
	if t.IsJunior {
		return "junior"
	}
	return "senior"
}
