package api

import (
	"testing"
	"time"

	"ojadmin/internal/admin/model"
	pkgerrors "ojadmin/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProblemFormNormalize(t *testing.T) {
	form := NewProblemForm()
	form.Title = "  A + B  "
	form.Score = "50"
	form.TimeLimit = ""
	form.Samples = []model.Sample{{Input: "1 2", Output: "3"}}

	p, err := form.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "A + B", p.Title)
	assert.Equal(t, 50, p.Score)
	assert.Equal(t, 1000, p.TimeLimit)
	assert.Equal(t, 256, p.MemoryLimit)
	assert.False(t, p.IsJunior)
	require.Len(t, p.Samples, 1)
	assert.Equal(t, "", p.Samples[0].Explanation)
}

func TestProblemFormRejects(t *testing.T) {
	tests := []struct {
		name string
		edit func(*ProblemForm)
		code pkgerrors.ErrorCode
	}{
		{"missing title", func(f *ProblemForm) { f.Title = " " }, pkgerrors.RequiredFieldEmpty},
		{"score not numeric", func(f *ProblemForm) { f.Score = "ten" }, pkgerrors.ValidationFailed},
		{"negative score", func(f *ProblemForm) { f.Score = "-1" }, pkgerrors.ValidationFailed},
		{"zero time limit", func(f *ProblemForm) { f.TimeLimit = "0" }, pkgerrors.ValidationFailed},
		{"junior flag", func(f *ProblemForm) { f.IsJunior = "maybe" }, pkgerrors.ValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := NewProblemForm()
			form.Title = "ok"
			tt.edit(&form)
			_, err := form.Normalize()
			require.Error(t, err)
			assert.Equal(t, tt.code, pkgerrors.GetCode(err))
		})
	}
}

func TestParseFlag(t *testing.T) {
	for _, v := range []string{"true", "1", "YES", "on", "y"} {
		got, err := ParseFlag("f", v)
		require.NoError(t, err)
		assert.True(t, got, v)
	}
	for _, v := range []string{"false", "0", "no", "off", "", "N"} {
		got, err := ParseFlag("f", v)
		require.NoError(t, err)
		assert.False(t, got, v)
	}
}

func TestProblemFormFromKeepsOneSample(t *testing.T) {
	form := ProblemFormFrom(model.Problem{Title: "x", TimeLimit: 2000, MemoryLimit: 128})
	assert.Len(t, form.Samples, 1)
	assert.Equal(t, "2000", form.TimeLimit)
	assert.Equal(t, "false", form.IsJunior)
}

func TestStartEventFormNormalize(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)

	p, err := StartEventForm{EventID: "5", StartTime: "2025-04-01T09:30", Location: loc}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "2025-04-01T07:30:00.000Z", p.StartTime)
	assert.Equal(t, 60, p.DurationMinutes)
	assert.Equal(t, model.ID("5"), p.EventID)

	p, err = StartEventForm{EventID: "5", StartTime: "2025-04-01T09:30:00+02:00", DurationMinutes: "120"}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "2025-04-01T07:30:00.000Z", p.StartTime)
	assert.Equal(t, 120, p.DurationMinutes)

	_, err = StartEventForm{EventID: "5", StartTime: "tomorrow"}.Normalize()
	assert.True(t, pkgerrors.Is(err, pkgerrors.ValidationFailed))

	_, err = StartEventForm{EventID: "5", StartTime: "2025-04-01T09:30", DurationMinutes: "0"}.Normalize()
	assert.True(t, pkgerrors.Is(err, pkgerrors.ValidationFailed))

	_, err = StartEventForm{StartTime: "2025-04-01T09:30"}.Normalize()
	assert.True(t, pkgerrors.Is(err, pkgerrors.RequiredFieldEmpty))
}

func TestEventFormNormalize(t *testing.T) {
	p, err := EventForm{Name: " Spring2025 "}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "Spring2025", p.Name)

	_, err = EventForm{}.Normalize()
	assert.Error(t, err)
}

func TestSubmissionFilterQuery(t *testing.T) {
	q := SubmissionFilter{TeamID: "7", Result: "accepted", Extra: map[string]string{"page": "2"}}.Query()
	assert.Equal(t, "7", q.Get("team_id"))
	assert.Equal(t, "accepted", q.Get("result"))
	assert.Equal(t, "2", q.Get("page"))
	assert.False(t, q.Has("language"))
}
