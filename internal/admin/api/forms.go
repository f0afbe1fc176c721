package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ojadmin/internal/admin/model"
	pkgerrors "ojadmin/pkg/errors"
)

const (
	DefaultTimeLimit       = "1000"
	DefaultMemoryLimit     = "256"
	DefaultDurationMinutes = "60"

	isoMillis = "2006-01-02T15:04:05.000Z"
)

// Form inputs arrive as text. Every mutating endpoint has one Normalize
// step that turns them into the typed wire payload.

// ParseInt parses a trimmed base-10 integer.
func ParseInt(field, value string) (int, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 32)
	if err != nil {
		return 0, pkgerrors.ValidationError(field, "must be an integer").
			WithMessagef("invalid %s: %q is not an integer", field, value)
	}
	return int(n), nil
}

// ParseFlag parses selector values into a boolean.
func ParseFlag(field, value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "y", "on":
		return true, nil
	case "false", "0", "no", "n", "off", "":
		return false, nil
	}
	return false, pkgerrors.ValidationError(field, "must be true or false").
		WithMessagef("invalid %s: %q is not a boolean", field, value)
}

func requireText(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", pkgerrors.New(pkgerrors.RequiredFieldEmpty).
			WithMessagef("%s is required", field).
			WithDetail("field", field)
	}
	return value, nil
}

// Credentials is the login body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AdminRegistration is the register-admin body.
type AdminRegistration struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// ProblemForm holds the problem editor inputs.
type ProblemForm struct {
	Title        string
	Description  string
	Score        string
	InputFormat  string
	OutputFormat string
	Constraints  string
	IsJunior     string
	EventName    string
	TimeLimit    string
	MemoryLimit  string
	Samples      []model.Sample
}

// NewProblemForm returns the blank editor state.
func NewProblemForm() ProblemForm {
	return ProblemForm{
		Score:       "0",
		IsJunior:    "false",
		TimeLimit:   DefaultTimeLimit,
		MemoryLimit: DefaultMemoryLimit,
		Samples:     []model.Sample{{}},
	}
}

// ProblemFormFrom pre-fills the editor from a fetched record.
func ProblemFormFrom(p model.Problem) ProblemForm {
	samples := p.Samples
	if len(samples) == 0 {
		samples = []model.Sample{{}}
	}
	return ProblemForm{
		Title:        p.Title,
		Description:  p.Description,
		Score:        strconv.Itoa(p.Score),
		InputFormat:  p.InputFormat,
		OutputFormat: p.OutputFormat,
		Constraints:  p.Constraints,
		IsJunior:     strconv.FormatBool(p.IsJunior),
		EventName:    p.EventName,
		TimeLimit:    strconv.Itoa(p.TimeLimit),
		MemoryLimit:  strconv.Itoa(p.MemoryLimit),
		Samples:      append([]model.Sample(nil), samples...),
	}
}

// ProblemPayload is the typed create/update body.
type ProblemPayload struct {
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Score        int            `json:"score"`
	InputFormat  string         `json:"input_format"`
	OutputFormat string         `json:"output_format"`
	Constraints  string         `json:"constraints"`
	IsJunior     bool           `json:"is_junior"`
	EventName    string         `json:"event_name"`
	TimeLimit    int            `json:"time_limit"`
	MemoryLimit  int            `json:"memory_limit"`
	Samples      []model.Sample `json:"samples"`
}

func (f ProblemForm) Normalize() (ProblemPayload, error) {
	var (
		p   ProblemPayload
		err error
	)
	if p.Title, err = requireText("title", f.Title); err != nil {
		return ProblemPayload{}, err
	}
	if p.Score, err = ParseInt("score", defaultText(f.Score, "0")); err != nil {
		return ProblemPayload{}, err
	}
	if p.TimeLimit, err = ParseInt("time_limit", defaultText(f.TimeLimit, DefaultTimeLimit)); err != nil {
		return ProblemPayload{}, err
	}
	if p.MemoryLimit, err = ParseInt("memory_limit", defaultText(f.MemoryLimit, DefaultMemoryLimit)); err != nil {
		return ProblemPayload{}, err
	}
	if p.IsJunior, err = ParseFlag("is_junior", f.IsJunior); err != nil {
		return ProblemPayload{}, err
	}
	if p.Score < 0 {
		return ProblemPayload{}, pkgerrors.ValidationError("score", "must not be negative").WithMessage("score must not be negative")
	}
	if p.TimeLimit <= 0 || p.MemoryLimit <= 0 {
		return ProblemPayload{}, pkgerrors.ValidationError("limits", "must be positive").WithMessage("time_limit and memory_limit must be positive")
	}
	p.Description = f.Description
	p.InputFormat = f.InputFormat
	p.OutputFormat = f.OutputFormat
	p.Constraints = f.Constraints
	p.EventName = strings.TrimSpace(f.EventName)
	p.Samples = make([]model.Sample, 0, len(f.Samples))
	for _, s := range f.Samples {
		p.Samples = append(p.Samples, model.Sample{Input: s.Input, Output: s.Output, Explanation: s.Explanation})
	}
	return p, nil
}

// EventForm holds the create-event input.
type EventForm struct {
	Name string
}

type EventPayload struct {
	Name string `json:"name"`
}

func (f EventForm) Normalize() (EventPayload, error) {
	name, err := requireText("name", f.Name)
	if err != nil {
		return EventPayload{}, err
	}
	return EventPayload{Name: name}, nil
}

// StartEventForm holds the start-event inputs. StartTime is read in
// Location (local time when nil) unless it carries its own offset.
type StartEventForm struct {
	EventID         model.ID
	StartTime       string
	DurationMinutes string
	Location        *time.Location
}

type StartEventPayload struct {
	EventID         model.ID `json:"eventId"`
	StartTime       string   `json:"start_time"`
	DurationMinutes int      `json:"duration_minutes"`
}

var localStartLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05", "2006-01-02 15:04"}

func (f StartEventForm) Normalize() (StartEventPayload, error) {
	if f.EventID.IsZero() {
		return StartEventPayload{}, pkgerrors.New(pkgerrors.RequiredFieldEmpty).WithMessage("event id is required")
	}
	raw, err := requireText("start_time", f.StartTime)
	if err != nil {
		return StartEventPayload{}, err
	}
	start, err := parseStartTime(raw, f.Location)
	if err != nil {
		return StartEventPayload{}, err
	}
	minutes, err := ParseInt("duration_minutes", defaultText(f.DurationMinutes, DefaultDurationMinutes))
	if err != nil {
		return StartEventPayload{}, err
	}
	if minutes <= 0 {
		return StartEventPayload{}, pkgerrors.ValidationError("duration_minutes", "must be positive").WithMessage("duration_minutes must be positive")
	}
	return StartEventPayload{
		EventID:         f.EventID,
		StartTime:       start.UTC().Format(isoMillis),
		DurationMinutes: minutes,
	}, nil
}

func parseStartTime(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range localStartLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, pkgerrors.ValidationError("start_time", "unrecognized time").
		WithMessage(fmt.Sprintf("invalid start_time %q: use YYYY-MM-DDTHH:MM", raw))
}

// StopEventPayload is the stop-event body.
type StopEventPayload struct {
	EventID model.ID `json:"eventId"`
}

// SubmissionFilter narrows the submission list. Zero fields are omitted.
type SubmissionFilter struct {
	TeamID    string
	ProblemID string
	Language  string
	Result    string
	EventName string
	Extra     map[string]string
}

// Query renders the filter as URL parameters.
func (f SubmissionFilter) Query() url.Values {
	q := url.Values{}
	add := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			q.Set(key, value)
		}
	}
	add("team_id", f.TeamID)
	add("problem_id", f.ProblemID)
	add("language", f.Language)
	add("result", f.Result)
	add("event_name", f.EventName)
	for k, v := range f.Extra {
		add(k, v)
	}
	return q
}

func defaultText(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
