package model

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDAcceptsNumbersAndStrings(t *testing.T) {
	cases := []struct {
		raw  string
		want ID
	}{
		{`7`, "7"},
		{`"65f0c0ffee"`, "65f0c0ffee"},
		{`null`, ""},
	}
	for _, tc := range cases {
		var id ID
		require.NoError(t, json.Unmarshal([]byte(tc.raw), &id), tc.raw)
		assert.Equal(t, tc.want, id)
	}
}

func TestIDMarshalKeepsNumericType(t *testing.T) {
	body, err := json.Marshal(map[string]ID{"eventId": "7", "other": "abc"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"eventId":7,"other":"abc"}`, string(body))
}

func TestUserAcceptsLegacyID(t *testing.T) {
	var users UserList
	require.NoError(t, json.Unmarshal([]byte(`[
		{"_id":"u1","username":"alice","email":"a@x.io","role":"admin","created_at":"2025-03-01T10:00:00Z"},
		{"id":2,"username":"bob"}
	]`), &users))
	require.Len(t, users, 2)
	assert.Equal(t, ID("u1"), users[0].Key())
	assert.Equal(t, "admin", users[0].Role)
	assert.Equal(t, 2025, users[0].CreatedAt.Year())
	assert.Equal(t, ID("2"), users[1].Key())
}

func TestTeamDecodesMembersAndOptionalFirstSolve(t *testing.T) {
	var env TeamsEnvelope
	require.NoError(t, json.Unmarshal([]byte(`{"teams":[{"id":3,"team_name":"nulls","is_junior":true,"first_solve_time":null,
		"Users":[{"id":1,"username":"alice","email":"a@x.io"}]}]}`), &env))
	require.Len(t, env.Teams, 1)
	team := env.Teams[0]
	assert.True(t, team.FirstSolveTime.IsZero())
	assert.Equal(t, "junior", team.Category())
	assert.Equal(t, "alice", team.Users[0].Username)
	assert.Equal(t, "-", team.FirstSolveTime.Display())
}

func TestDecodeCode(t *testing.T) {
	source := "#include <cstdio>\nint main() { puts(\"hi\"); }\n"
	cases := []struct {
		name    string
		encoded string
		want    string
	}{
		{"std", base64.StdEncoding.EncodeToString([]byte(source)), source},
		{"raw", base64.RawStdEncoding.EncodeToString([]byte("ab")), "ab"},
		{"empty", "", NoCodePlaceholder},
		{"blank", "   ", NoCodePlaceholder},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Submission{Code: tc.encoded}.DecodedCode())
		})
	}
}

func TestDecodeCodeInvalidNeverPanics(t *testing.T) {
	got := DecodeCode("***not base64***")
	assert.True(t, strings.HasPrefix(got, "Error decoding code: "), got)
}

func TestClassifyVerdict(t *testing.T) {
	assert.Equal(t, VerdictAccepted, ClassifyVerdict("Accepted"))
	assert.Equal(t, VerdictWrongAnswer, ClassifyVerdict(" Wrong Answer "))
	assert.Equal(t, VerdictOther, ClassifyVerdict("Pending"))
	assert.True(t, VerdictCompilationError.Failed())
	assert.False(t, VerdictAccepted.Failed())
}

func TestSubmissionRelationsFallback(t *testing.T) {
	s := Submission{}
	assert.Equal(t, "Unknown", s.TeamName())
	assert.Equal(t, "Unknown", s.ProblemTitle())
	s.Team = &SubmissionTeam{TeamName: "nulls"}
	assert.Equal(t, "nulls", s.TeamName())
}

func TestTimestampLayouts(t *testing.T) {
	for _, raw := range []string{"2025-03-01T10:00:00Z", "2025-03-01T10:00:00.123Z", "2025-03-01 10:00:00", "2025-03-01T10:00"} {
		ts, err := ParseTime(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, time.March, ts.Month())
	}
	_, err := ParseTime("yesterday")
	assert.Error(t, err)

	body, err := json.Marshal(Event{ID: "7", StartTime: NewTimestamp(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))})
	require.NoError(t, err)
	assert.Contains(t, string(body), `"start_time":"2025-03-01T10:00:00Z"`)
	assert.Contains(t, string(body), `"end_time":null`)
}

func TestEventGuards(t *testing.T) {
	e := Event{ID: "7"}
	assert.True(t, e.CanStart())
	assert.False(t, e.CanStop())
	e.IsActive = true
	assert.False(t, e.CanStart())
	assert.True(t, e.CanStop())
}
