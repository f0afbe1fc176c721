package command

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryKeys(t *testing.T) {
	reg := Registry()
	for _, key := range []string{
		"login", "logout", "register-admin", "dashboard",
		"users list", "users delete",
		"teams list", "teams show", "teams delete",
		"problems list", "problems show", "problems create", "problems update", "problems delete",
		"problems upload-testcases", "problems upload-solution",
		"submissions list", "submissions code",
		"events list", "events create", "events start", "events stop",
		"show session", "show config", "help", "exit",
	} {
		_, ok := reg[key]
		assert.True(t, ok, key)
	}
	assert.False(t, reg["login"].RequiresAuth)
	assert.True(t, reg["teams delete"].RequiresAuth)
}

func TestLookup(t *testing.T) {
	reg := Registry()

	cmd, rest, ok := Lookup(reg, []string{"Events", "start", "id=1"})
	require.True(t, ok)
	assert.Equal(t, "events start", cmd.Key())
	assert.Equal(t, []string{"id=1"}, rest)

	cmd, rest, ok = Lookup(reg, []string{"login", "username=admin"})
	require.True(t, ok)
	assert.Equal(t, "login", cmd.Key())
	assert.Len(t, rest, 1)

	_, _, ok = Lookup(reg, []string{"events", "explode"})
	assert.False(t, ok)
}

func TestParseParamsAndCanonicalize(t *testing.T) {
	params, err := ParseParams([]string{"Problem_ID=42", "files=a.in,b.in", "note=a=b"})
	require.NoError(t, err)
	assert.Equal(t, "42", params.Get("problem_id"))
	assert.Equal(t, "a=b", params.Get("note"))

	params.Canonicalize(uploadFields)
	assert.Equal(t, "42", params.Get("id"))
	assert.False(t, params.Has("problem_id"))

	_, err = ParseParams([]string{"oops"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	reg := Registry()
	cmd := reg["problems create"]

	assert.NoError(t, Validate(cmd, Params{"title": "x", "score": "10"}))
	assert.Error(t, Validate(cmd, Params{"title": "x", "score": "ten"}))
	assert.Error(t, Validate(cmd, Params{"title": "x", "colour": "red"}))
	assert.Error(t, Validate(cmd, Params{"samples_json": "[{"}))
	assert.Error(t, Validate(cmd, Params{"description_file": filepath.Join(t.TempDir(), "nope.md")}))

	missing := Missing(cmd, Params{"score": "1"})
	require.Len(t, missing, 1)
	assert.Equal(t, "title", missing[0].Name)
	assert.Empty(t, Missing(reg["problems update"], Params{"id": "3"}))
}

func TestSuggest(t *testing.T) {
	reg := Registry()
	got := Suggest(reg, "evnts strt", 3)
	require.NotEmpty(t, got)
	assert.Equal(t, "events start", got[0])

	assert.Contains(t, Suggest(reg, "problem upload", 5), "problems upload-testcases")
	assert.Empty(t, Suggest(reg, "", 3))
}

func TestUsage(t *testing.T) {
	assert.Equal(t, "events stop id=", Registry()["events stop"].Usage())
	assert.Equal(t, "events start id= start_time= [duration=]", Registry()["events start"].Usage())
}

func TestParseStringList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ParseStringList(" a, ,b "))
}
