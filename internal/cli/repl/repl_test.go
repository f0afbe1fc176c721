package repl

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"path/filepath"
	"sync"
	"testing"

	"ojadmin/internal/admin/api"
	"ojadmin/internal/admin/model"
	"ojadmin/internal/admin/session"
	"ojadmin/internal/cli/config"
	"ojadmin/internal/testutil"
	pkgerrors "ojadmin/pkg/errors"
	"ojadmin/pkg/utils/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type scriptedReader struct {
	mu      sync.Mutex
	lines   []string
	prompts []string
}

func (r *scriptedReader) Readline() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptedReader) SetPrompt(prompt string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts = append(r.prompts, prompt)
}

func (r *scriptedReader) Close() error { return nil }

func (r *scriptedReader) feed(lines ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, lines...)
}

func (r *scriptedReader) lastPrompt() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.prompts) == 0 {
		return ""
	}
	return r.prompts[len(r.prompts)-1]
}

type fixture struct {
	console *Console
	reader  *scriptedReader
	out     *bytes.Buffer
	backend *testutil.Backend
	client  *api.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := testutil.NewBackend(t)
	client, err := api.NewClient(backend.URL(), session.New(session.NewMemoryStore()))
	require.NoError(t, err)
	cfg := config.Config{
		BaseURL:     backend.URL(),
		Environment: config.EnvDevelopment,
		Location:    "UTC",
		Session:     config.SessionConfig{Backend: config.BackendMemory},
	}
	reader := &scriptedReader{}
	out := &bytes.Buffer{}
	console := New(cfg, client, reader, out)
	t.Cleanup(console.Close)
	return &fixture{console: console, reader: reader, out: out, backend: backend, client: client}
}

func (f *fixture) exec(t *testing.T, line string) {
	t.Helper()
	exit, err := f.console.Execute(context.Background(), line)
	require.NoError(t, err, line)
	require.False(t, exit)
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	f.exec(t, "login username="+testutil.AdminUsername+" password="+testutil.AdminPassword)
}

func TestLoginPromptsForMissingPassword(t *testing.T) {
	f := newFixture(t)
	f.reader.feed(testutil.AdminPassword)

	f.exec(t, "login username=admin")

	assert.Contains(t, f.reader.prompts, "password: ")
	assert.Equal(t, promptReady, f.reader.lastPrompt())
	assert.Contains(t, f.out.String(), "logged in as admin")
	assert.True(t, f.client.Session().IsAuthenticated(context.Background()))
}

func TestLoginFailureKeepsLoginPrompt(t *testing.T) {
	f := newFixture(t)

	_, err := f.console.Execute(context.Background(), "login username=admin password=wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed")
	assert.Equal(t, promptLogin, f.reader.lastPrompt())
	assert.NotContains(t, f.out.String(), msgSessionExpired)
}

func TestCommandsRequireLogin(t *testing.T) {
	f := newFixture(t)

	_, err := f.console.Execute(context.Background(), "users list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
	_, ok := f.backend.LastRequest(http.MethodGet, "/admin/users")
	assert.False(t, ok)
}

func TestExpiredTokenReturnsToLogin(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.backend.ExpireToken()

	_, err := f.console.Execute(context.Background(), "teams list")
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.TokenExpired))
	assert.Contains(t, f.out.String(), msgSessionExpired)
	assert.Equal(t, promptLogin, f.reader.lastPrompt())
	assert.False(t, f.client.Session().IsAuthenticated(context.Background()))
}

func TestLogoutDoesNotShowExpiredMessage(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	f.exec(t, "logout")

	assert.NotContains(t, f.out.String(), msgSessionExpired)
	assert.Contains(t, f.out.String(), "logged out")
	assert.Equal(t, promptLogin, f.reader.lastPrompt())
}

func TestUnknownCommandSuggests(t *testing.T) {
	f := newFixture(t)

	_, err := f.console.Execute(context.Background(), "evnts list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean")
	assert.Contains(t, err.Error(), "events list")
}

func TestUnknownParamRejected(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	_, err := f.console.Execute(context.Background(), "events create title=x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown param")
}

func TestEventLifecycle(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	f.exec(t, "events create name=Spring2025")
	require.Len(t, f.backend.Events(), 1)
	id := f.backend.Events()[0].ID

	f.exec(t, "events start id="+id.String()+" start=2025-03-01T10:00 duration=120")
	assert.True(t, f.backend.Events()[0].IsActive)
	req, ok := f.backend.LastRequest(http.MethodPost, "/admin/event/start")
	require.True(t, ok)
	var body map[string]interface{}
	testutil.MustUnmarshalJSON(t, req.Body, &body)
	assert.Equal(t, "2025-03-01T10:00:00.000Z", body["start_time"])
	assert.EqualValues(t, 120, body["duration_minutes"])

	before := len(f.backend.Requests())
	_, err := f.console.Execute(context.Background(), "events start id="+id.String()+" start=2025-03-01T10:00")
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.EventAlreadyActive))
	assert.Len(t, f.backend.Requests(), before)

	f.exec(t, "events stop id="+id.String())
	assert.False(t, f.backend.Events()[0].IsActive)

	f.out.Reset()
	f.exec(t, "events list")
	assert.Contains(t, f.out.String(), "Spring2025")
	assert.Contains(t, f.out.String(), "inactive")
}

func TestProblemCreateAndUpload(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	dir := t.TempDir()
	desc := testutil.WriteFile(t, dir, "desc.md", "Add two numbers.")
	testutil.WriteFile(t, dir, "cases/1.in", "1 2")
	testutil.WriteFile(t, dir, "cases/1.out", "3")

	f.exec(t, `problems create title=Sum score=100 description_file=`+desc+` samples_json='[{"input":"1 2","output":"3"}]'`)
	problems := f.backend.Problems()
	require.Len(t, problems, 1)
	assert.Equal(t, "Sum", problems[0].Title)
	assert.Equal(t, 100, problems[0].Score)
	assert.Equal(t, "Add two numbers.", problems[0].Description)
	require.Len(t, problems[0].Samples, 1)
	assert.Equal(t, "3", problems[0].Samples[0].Output)

	id := problems[0].ID.String()
	f.exec(t, "problems upload-testcases id="+id+" files="+filepath.Join(dir, "cases"))
	uploads := f.backend.Uploads()
	require.Len(t, uploads, 1)
	assert.Equal(t, id, uploads[0].ProblemID)
	assert.ElementsMatch(t, []string{"1.in", "1.out"}, uploads[0].FileNames)

	_, err := f.console.Execute(context.Background(), "problems upload-solution id="+id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "files= or archive=")
}

func TestProblemUpdateKeepsUntouchedFields(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	p := f.backend.AddProblem(model.Problem{Title: "Old", Score: 50, TimeLimit: 2000, MemoryLimit: 128})

	f.exec(t, "problems update id="+p.ID.String()+" title=New")

	req, ok := f.backend.LastRequest(http.MethodPut, "/admin/problems/"+p.ID.String())
	require.True(t, ok)
	var body map[string]interface{}
	testutil.MustUnmarshalJSON(t, req.Body, &body)
	assert.Equal(t, "New", body["title"])
	assert.EqualValues(t, 50, body["score"])
	assert.EqualValues(t, 2000, body["time_limit"])
}

func TestSubmissionCodeLoadsOnDemand(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.backend.SeedSubmissions(testutil.Submission(7, "Alpha", "Sum", "Accepted", "print(3)"))

	f.exec(t, "submissions code id=7")
	assert.Contains(t, f.out.String(), "print(3)")
}

func TestRunUntilExit(t *testing.T) {
	f := newFixture(t)
	f.reader.feed("help", "", "bogus", "exit", "users list")

	require.NoError(t, f.console.Run(context.Background()))

	out := f.out.String()
	assert.Contains(t, out, "not logged in")
	assert.Contains(t, out, "events start")
	assert.Contains(t, out, "error: unknown command: bogus")
	assert.Contains(t, out, "bye")
	assert.Equal(t, []string{"users list"}, f.reader.lines)
}

func TestRunStopsAtEOF(t *testing.T) {
	f := newFixture(t)
	f.reader.feed("show config")

	require.NoError(t, f.console.Run(context.Background()))
	assert.Contains(t, f.out.String(), f.backend.URL())
	assert.Contains(t, f.out.String(), "bye")
}

func TestCommandNameReachesBackendLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger.SetGlobal(zap.New(core))
	t.Cleanup(func() { logger.SetGlobal(nil) })
	f := newFixture(t)
	f.login(t)

	f.exec(t, "events list")

	calls := logs.FilterMessage("backend call").All()
	require.NotEmpty(t, calls)
	last := calls[len(calls)-1].ContextMap()
	assert.Equal(t, "events list", last["operation"])
	assert.NotEmpty(t, last["request_id"])
}
