package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"path/filepath"
	"testing"

	"ojadmin/internal/admin/api"
	"ojadmin/internal/admin/model"
	"ojadmin/internal/admin/transport"
	"ojadmin/internal/testutil"
	pkgerrors "ojadmin/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersAndTeams(t *testing.T) {
	ctx := context.Background()
	client, _, backend := loggedIn(t)
	backend.SeedUsers(model.User{ID: "u1", Username: "alice"}, model.User{ID: "u2", Username: "bob"})
	backend.SeedTeams(model.Team{ID: "7", TeamName: "Null Pointers", IsJunior: true})

	users, err := client.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, model.ID("u1"), users[0].ID, "_id is accepted")

	require.NoError(t, client.DeleteUser(ctx, "u1"))
	err = client.DeleteUser(ctx, "u1")
	assert.True(t, transport.IsNotFound(err))

	teams, err := client.ListTeams(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "junior", teams[0].Category())

	require.NoError(t, client.DeleteTeam(ctx, "7"))
	teams, err = client.ListTeams(ctx)
	require.NoError(t, err)
	assert.Empty(t, teams)
}

func TestProblemLifecycle(t *testing.T) {
	ctx := context.Background()
	client, _, backend := loggedIn(t)

	form := api.NewProblemForm()
	form.Title = "Two Sum"
	form.Score = " 100 "
	form.IsJunior = "yes"
	payload, err := form.Normalize()
	require.NoError(t, err)

	created, err := client.CreateProblem(ctx, payload)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, 100, created.Score)
	assert.True(t, created.IsJunior)
	assert.Equal(t, 1000, created.TimeLimit)

	rec, ok := backend.LastRequest(http.MethodPost, "/admin/problems")
	require.True(t, ok)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body, &body))
	assert.Equal(t, float64(100), body["score"], "score travels as a number")
	assert.Equal(t, true, body["is_junior"])

	got, err := client.GetProblem(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Two Sum", got.Title)

	edit := api.ProblemFormFrom(*got)
	edit.MemoryLimit = "512"
	payload, err = edit.Normalize()
	require.NoError(t, err)
	updated, err := client.UpdateProblem(ctx, created.ID, payload)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 512, updated.MemoryLimit)

	list, err := client.ListProblems(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, client.DeleteProblem(ctx, created.ID))
	_, err = client.GetProblem(ctx, created.ID)
	assert.True(t, transport.IsNotFound(err))
}

func TestCreateProblemWithEmptyBody(t *testing.T) {
	ctx := context.Background()
	client, _, backend := loggedIn(t)
	backend.OmitRecords(true)

	payload, err := api.ProblemForm{Title: "Echo"}.Normalize()
	require.NoError(t, err)
	created, err := client.CreateProblem(ctx, payload)
	require.NoError(t, err)
	assert.Nil(t, created)
	assert.Len(t, backend.Problems(), 1)
}

func TestUploadsSendProblemIDFirst(t *testing.T) {
	ctx := context.Background()
	client, _, backend := loggedIn(t)
	backend.SeedProblems(model.Problem{ID: "42", Title: "Echo"})

	files := []api.UploadFile{
		api.FileFromBytes("1.in", []byte("1 2")),
		api.FileFromBytes("1.out", []byte("3")),
	}
	require.NoError(t, client.UploadTestcases(ctx, "42", files))
	require.NoError(t, client.UploadSolution(ctx, "42", []api.UploadFile{api.FileFromBytes("sol.cpp", []byte("int main(){}"))}))

	uploads := backend.Uploads()
	require.Len(t, uploads, 2)
	assert.Equal(t, "/admin/upload-testcases", uploads[0].Path)
	assert.Equal(t, []string{"problem_id", "files", "files"}, uploads[0].PartNames)
	assert.Equal(t, "42", uploads[0].ProblemID)
	assert.Equal(t, "3", uploads[0].Contents["1.out"])
	assert.Equal(t, "/admin/upload-solution", uploads[1].Path)

	err := client.UploadTestcases(ctx, "42", nil)
	assert.True(t, pkgerrors.Is(err, pkgerrors.TestCaseInvalid))

	err = client.UploadTestcases(ctx, "404", files)
	assert.True(t, transport.IsNotFound(err))
}

func TestListSubmissionsWithFilter(t *testing.T) {
	ctx := context.Background()
	client, _, backend := loggedIn(t)
	backend.SeedSubmissions(
		testutil.Submission(1, "Null Pointers", "Two Sum", "Accepted", "print(1)"),
		testutil.Submission(2, "Segfaults", "Two Sum", "Wrong Answer", "print(2)"),
	)

	subs, err := client.ListSubmissions(ctx, api.SubmissionFilter{Result: "Accepted", Language: " "})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Null Pointers", subs[0].TeamName())
	assert.Equal(t, "print(1)", subs[0].DecodedCode())

	rec, ok := backend.LastRequest(http.MethodGet, "/admin/submissions")
	require.True(t, ok)
	q, err := url.ParseQuery(rec.Query)
	require.NoError(t, err)
	assert.Equal(t, url.Values{"result": {"Accepted"}}, q)
}

func TestEventLifecycle(t *testing.T) {
	ctx := context.Background()
	client, _, backend := loggedIn(t)

	created, err := client.CreateEvent(ctx, api.EventPayload{Name: "Spring2025"})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.False(t, created.IsActive)

	start, err := api.StartEventForm{EventID: created.ID, StartTime: "2025-03-01T10:00:00Z", DurationMinutes: "90"}.Normalize()
	require.NoError(t, err)
	started, err := client.StartEvent(ctx, start)
	require.NoError(t, err)
	require.NotNil(t, started)
	assert.True(t, started.IsActive)

	rec, ok := backend.LastRequest(http.MethodPost, "/admin/event/start")
	require.True(t, ok)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body, &body))
	assert.Equal(t, "2025-03-01T10:00:00.000Z", body["start_time"])
	assert.Equal(t, float64(90), body["duration_minutes"])
	assert.NotNil(t, body["eventId"])

	_, err = client.StartEvent(ctx, start)
	assert.True(t, transport.IsValidation(err))

	stopped, err := client.StopEvent(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, stopped.IsActive)

	events, err := client.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Spring2025", events[0].Name)
}

func TestFilesFromPathsAndArchives(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "cases/2.in", "b")
	testutil.WriteFile(t, dir, "cases/1.in", "a")
	testutil.WriteFile(t, dir, "cases/.DS_Store", "x")
	single := testutil.WriteFile(t, dir, "sol.py", "print()")

	files, err := api.FilesFromPaths(filepath.Join(dir, "cases"), single)
	require.NoError(t, err)
	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"1.in", "2.in", "sol.py"}, names)

	_, err = api.FilesFromPaths(filepath.Join(dir, "missing"))
	assert.True(t, pkgerrors.Is(err, pkgerrors.TestCaseInvalid))

	zipPath := filepath.Join(dir, "cases.zip")
	testutil.WriteZip(t, zipPath, map[string]string{"b/2.out": "4", "a/1.out": "3", "__MACOSX/._1.out": "junk"})
	files, err = api.FilesFromArchive(zipPath)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "1.out", files[0].Name)
	assert.Equal(t, "3", string(files[0].Data))

	zstPath := filepath.Join(dir, "cases.tar.zst")
	testutil.WriteTarZst(t, zstPath, map[string]string{"1.in": "x", "1.out": "y"})
	files, err = api.FilesFromArchive(zstPath)
	require.NoError(t, err)
	assert.Len(t, files, 2)

	_, err = api.FilesFromArchive(filepath.Join(dir, "cases.rar"))
	assert.True(t, pkgerrors.Is(err, pkgerrors.InvalidFormat))

	nested := filepath.Join(dir, "nested.zip")
	testutil.WriteZip(t, nested, map[string]string{"1/input.txt": "one", "2/input.txt": "two"})
	_, err = api.FilesFromArchive(nested)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.InvalidFormat))
	assert.Contains(t, err.Error(), `duplicate upload filename "input.txt"`)

	testutil.WriteFile(t, dir, "more/1.in", "c")
	_, err = api.FilesFromPaths(filepath.Join(dir, "cases"), filepath.Join(dir, "more"))
	assert.True(t, pkgerrors.Is(err, pkgerrors.InvalidFormat))
}
