package model

import (
	"encoding/base64"
	"strings"
)

const (
	NoCodePlaceholder   = "No code available"
	decodeErrorPrefix   = "Error decoding code: "
	unknownRelationName = "Unknown"
)

// Verdict is the judge result. The set is open: unknown results map to VerdictOther.
type Verdict string

const (
	VerdictAccepted          Verdict = "accepted"
	VerdictWrongAnswer       Verdict = "wrong answer"
	VerdictTimeLimitExceeded Verdict = "time limit exceeded"
	VerdictRuntimeError      Verdict = "runtime error"
	VerdictCompilationError  Verdict = "compilation error"
	VerdictOther             Verdict = "other"
)

// ClassifyVerdict maps a raw result string onto the known verdicts.
func ClassifyVerdict(result string) Verdict {
	switch v := Verdict(strings.ToLower(strings.TrimSpace(result))); v {
	case VerdictAccepted, VerdictWrongAnswer, VerdictTimeLimitExceeded, VerdictRuntimeError, VerdictCompilationError:
		return v
	default:
		return VerdictOther
	}
}

// Failed reports whether the verdict is a rejection.
func (v Verdict) Failed() bool {
	switch v {
	case VerdictWrongAnswer, VerdictRuntimeError, VerdictCompilationError, VerdictTimeLimitExceeded:
		return true
	}
	return false
}

type SubmissionTeam struct {
	ID       ID     `json:"id,omitempty"`
	TeamName string `json:"team_name"`
}

type SubmissionProblem struct {
	ID    ID     `json:"id,omitempty"`
	Title string `json:"title"`
}

// Submission is a judged attempt. Code is transported as base64.
type Submission struct {
	ID          ID                 `json:"id"`
	Team        *SubmissionTeam    `json:"Team,omitempty"`
	Problem     *SubmissionProblem `json:"Problem,omitempty"`
	Language    string             `json:"language"`
	Result      string             `json:"result"`
	SubmittedAt Timestamp          `json:"submitted_at"`
	Code        string             `json:"code"`
}

func (s Submission) Key() ID {
	return s.ID
}

func (s Submission) Verdict() Verdict {
	return ClassifyVerdict(s.Result)
}

func (s Submission) TeamName() string {
	if s.Team == nil || s.Team.TeamName == "" {
		return unknownRelationName
	}
	return s.Team.TeamName
}

func (s Submission) ProblemTitle() string {
	if s.Problem == nil || s.Problem.Title == "" {
		return unknownRelationName
	}
	return s.Problem.Title
}

// DecodedCode returns the source code for display. It never fails: an empty
// field yields NoCodePlaceholder and undecodable input yields a message.
func (s Submission) DecodedCode() string {
	return DecodeCode(s.Code)
}

func DecodeCode(encoded string) string {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return NoCodePlaceholder
	}
	var firstErr error
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		decoded, err := enc.DecodeString(encoded)
		if err == nil {
			return string(decoded)
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return decodeErrorPrefix + firstErr.Error()
}
