package repl

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ojadmin/internal/admin/api"
	"ojadmin/internal/admin/model"
	"ojadmin/internal/admin/session"
	"ojadmin/internal/cli/command"
	"ojadmin/internal/cli/config"
)

func (c *Console) routes() map[string]handler {
	return map[string]handler{
		"login":                     c.login,
		"logout":                    c.logout,
		"register-admin":            c.registerAdmin,
		"dashboard":                 c.showDashboard,
		"users list":                c.listUsers,
		"users delete":              c.deleteUser,
		"teams list":                c.listTeams,
		"teams show":                c.showTeam,
		"teams delete":              c.deleteTeam,
		"problems list":             c.listProblems,
		"problems show":             c.showProblem,
		"problems create":           c.createProblem,
		"problems update":           c.updateProblem,
		"problems delete":           c.deleteProblem,
		"problems upload-testcases": c.uploadTestcases,
		"problems upload-solution":  c.uploadSolution,
		"submissions list":          c.listSubmissions,
		"submissions code":          c.showCode,
		"events list":               c.listEvents,
		"events create":             c.createEvent,
		"events start":              c.startEvent,
		"events stop":               c.stopEvent,
		"show session":              c.showSession,
		"show config":               c.showConfig,
		"set base":                  c.setBase,
		"set timeout":               c.setTimeout,
		"help":                      c.help,
	}
}

func (c *Console) login(ctx context.Context, params command.Params) error {
	username := params.Get("username")
	if _, err := c.client.Login(ctx, api.Credentials{Username: username, Password: params.Get("password")}); err != nil {
		c.refreshPrompt(ctx)
		return fmt.Errorf("login failed: %w", err)
	}
	c.refreshPrompt(ctx)
	c.printLine("logged in as %s", username)
	return nil
}

func (c *Console) logout(ctx context.Context, _ command.Params) error {
	c.client.Logout(ctx)
	c.printLine("logged out")
	return nil
}

func (c *Console) registerAdmin(ctx context.Context, params command.Params) error {
	reg := api.AdminRegistration{
		Username: params.Get("username"),
		Email:    params.Get("email"),
		Password: params.Get("password"),
	}
	if err := c.client.RegisterAdmin(ctx, reg); err != nil {
		return err
	}
	c.printLine("administrator %s registered", reg.Username)
	return nil
}

func (c *Console) showDashboard(ctx context.Context, _ command.Params) error {
	stats, err := c.dashboard.Load(ctx)
	if err != nil {
		return err
	}
	tw := c.table("METRIC", "TOTAL")
	row(tw, "users", stats.Users)
	row(tw, "teams", stats.Teams)
	row(tw, "problems", stats.Problems)
	row(tw, "submissions", stats.Submissions)
	return tw.Flush()
}

func (c *Console) listUsers(ctx context.Context, _ command.Params) error {
	if err := c.users.Load(ctx); err != nil {
		return err
	}
	return c.renderUsers(c.users.Items())
}

func (c *Console) deleteUser(ctx context.Context, params command.Params) error {
	id := model.ID(params.Get("id"))
	if err := c.users.Delete(ctx, id); err != nil {
		return err
	}
	c.printLine("user %s deleted, %d remaining", id, c.users.Len())
	return nil
}

func (c *Console) listTeams(ctx context.Context, _ command.Params) error {
	if err := c.teams.Load(ctx); err != nil {
		return err
	}
	return c.renderTeams(c.teams.Items())
}

func (c *Console) showTeam(ctx context.Context, params command.Params) error {
	id := model.ID(params.Get("id"))
	team, ok := c.teams.Find(id)
	if !ok {
		if err := c.teams.Load(ctx); err != nil {
			return err
		}
		if team, ok = c.teams.Find(id); !ok {
			return fmt.Errorf("team %s not found", id)
		}
	}
	return c.renderTeam(team)
}

func (c *Console) deleteTeam(ctx context.Context, params command.Params) error {
	id := model.ID(params.Get("id"))
	if err := c.teams.Delete(ctx, id); err != nil {
		return err
	}
	c.printLine("team %s deleted, %d remaining", id, c.teams.Len())
	return nil
}

func (c *Console) listProblems(ctx context.Context, params command.Params) error {
	if err := c.problems.Load(ctx); err != nil {
		return err
	}
	switch strings.ToLower(params.Get("category")) {
	case "":
		return c.renderProblems(c.problems.Items())
	case "junior":
		return c.renderProblems(c.problems.ByCategory(true))
	case "senior":
		return c.renderProblems(c.problems.ByCategory(false))
	default:
		return fmt.Errorf("category must be junior or senior")
	}
}

func (c *Console) showProblem(ctx context.Context, params command.Params) error {
	p, err := c.problems.Details(ctx, model.ID(params.Get("id")))
	if err != nil {
		return err
	}
	return c.renderProblem(*p)
}

func (c *Console) createProblem(ctx context.Context, params command.Params) error {
	form := api.NewProblemForm()
	if err := applyProblemParams(&form, params); err != nil {
		return err
	}
	if err := c.problems.Save(ctx, "", form); err != nil {
		return err
	}
	c.printLine("problem %q created, %d problems", form.Title, c.problems.Len())
	return nil
}

func (c *Console) updateProblem(ctx context.Context, params command.Params) error {
	id := model.ID(params.Get("id"))
	current, err := c.problems.Details(ctx, id)
	if err != nil {
		return err
	}
	form := api.ProblemFormFrom(*current)
	if err := applyProblemParams(&form, params); err != nil {
		return err
	}
	if err := c.problems.Save(ctx, id, form); err != nil {
		return err
	}
	c.printLine("problem %s updated", id)
	return nil
}

func (c *Console) deleteProblem(ctx context.Context, params command.Params) error {
	id := model.ID(params.Get("id"))
	if err := c.problems.Delete(ctx, id); err != nil {
		return err
	}
	c.printLine("problem %s deleted", id)
	return nil
}

func (c *Console) uploadTestcases(ctx context.Context, params command.Params) error {
	files, err := uploadFiles(params)
	if err != nil {
		return err
	}
	id := model.ID(params.Get("id"))
	if err := c.problems.UploadTestcases(ctx, id, files); err != nil {
		return err
	}
	c.printLine("uploaded %d test case files to problem %s", len(files), id)
	return nil
}

func (c *Console) uploadSolution(ctx context.Context, params command.Params) error {
	files, err := uploadFiles(params)
	if err != nil {
		return err
	}
	id := model.ID(params.Get("id"))
	if err := c.problems.UploadSolution(ctx, id, files); err != nil {
		return err
	}
	c.printLine("uploaded %d solution files to problem %s", len(files), id)
	return nil
}

func (c *Console) listSubmissions(ctx context.Context, params command.Params) error {
	filter := api.SubmissionFilter{
		TeamID:    params.Get("team_id"),
		ProblemID: params.Get("problem_id"),
		Language:  params.Get("language"),
		Result:    params.Get("result"),
		EventName: params.Get("event_name"),
	}
	if err := c.submissions.Load(ctx, filter); err != nil {
		return err
	}
	return c.renderSubmissions(c.submissions.Items())
}

func (c *Console) showCode(ctx context.Context, params command.Params) error {
	id := model.ID(params.Get("id"))
	code, err := c.submissions.Code(id)
	if err != nil {
		if loadErr := c.submissions.Load(ctx, api.SubmissionFilter{}); loadErr != nil {
			return loadErr
		}
		if code, err = c.submissions.Code(id); err != nil {
			return err
		}
	}
	c.printLine("%s", code)
	return nil
}

func (c *Console) listEvents(ctx context.Context, _ command.Params) error {
	if err := c.events.Load(ctx); err != nil {
		return err
	}
	return c.renderEvents(c.events.Items())
}

func (c *Console) createEvent(ctx context.Context, params command.Params) error {
	ev, err := c.events.Create(ctx, api.EventForm{Name: params.Get("name")})
	if err != nil {
		return err
	}
	if ev != nil {
		c.printLine("event %s created with id %s", ev.Name, ev.ID)
		return nil
	}
	c.printLine("event created")
	return nil
}

func (c *Console) startEvent(ctx context.Context, params command.Params) error {
	id := model.ID(params.Get("id"))
	if err := c.ensureEvents(ctx, id); err != nil {
		return err
	}
	ev, err := c.events.Start(ctx, api.StartEventForm{
		EventID:         id,
		StartTime:       params.Get("start_time"),
		DurationMinutes: params.Get("duration"),
		Location:        c.location,
	})
	if err != nil {
		return err
	}
	if ev != nil {
		c.printLine("event %s started, ends %s", ev.Name, ev.EndTime.Display())
		return nil
	}
	c.printLine("event %s started", id)
	return nil
}

func (c *Console) stopEvent(ctx context.Context, params command.Params) error {
	id := model.ID(params.Get("id"))
	if err := c.ensureEvents(ctx, id); err != nil {
		return err
	}
	ev, err := c.events.Stop(ctx, id)
	if err != nil {
		return err
	}
	if ev != nil {
		c.printLine("event %s stopped", ev.Name)
		return nil
	}
	c.printLine("event %s stopped", id)
	return nil
}

// ensureEvents loads the event list when id is not in it, so start and
// stop can check the current state first.
func (c *Console) ensureEvents(ctx context.Context, id model.ID) error {
	if _, ok := c.events.Find(id); ok {
		return nil
	}
	return c.events.Load(ctx)
}

func (c *Console) showSession(ctx context.Context, _ command.Params) error {
	cred, ok, err := c.client.Session().Credential(ctx)
	if err != nil {
		return err
	}
	if !ok {
		c.printLine("session: logged out")
		return nil
	}
	c.printLine("token:   %s", session.Mask(cred.Token))
	c.printLine("claims:  %s", session.Describe(cred.Token))
	c.printLine("issued:  %s", cred.IssuedAt.Local().Format(time.RFC3339))
	c.printLine("expires: %s", cred.ExpiresAt.Local().Format(time.RFC3339))
	c.printLine("cookie:  %s path=%s samesite=%s secure=%t", session.CookieName, cred.Path, cred.SameSite, cred.Secure)
	return nil
}

func (c *Console) showConfig(_ context.Context, _ command.Params) error {
	timeout := "none"
	if d := c.client.Transport().Timeout(); d > 0 {
		timeout = d.String()
	}
	c.printLine("baseURL:     %s", c.client.Transport().BaseURL())
	c.printLine("timeout:     %s", timeout)
	c.printLine("environment: %s", c.cfg.Environment)
	c.printLine("location:    %s", c.location)
	c.printLine("session:     %s", c.cfg.Session.Backend)
	switch c.cfg.Session.Backend {
	case config.BackendFile:
		c.printLine("sessionPath: %s", c.cfg.Session.Path)
	case config.BackendRedis:
		c.printLine("redis:       %s key=%s", c.cfg.Session.Redis.Addr, c.cfg.Session.Redis.Key)
	}
	return nil
}

func (c *Console) setBase(_ context.Context, params command.Params) error {
	if err := c.client.Transport().SetBaseURL(params.Get("url")); err != nil {
		return err
	}
	c.printLine("base set to %s", c.client.Transport().BaseURL())
	return nil
}

func (c *Console) setTimeout(_ context.Context, params command.Params) error {
	raw := params.Get("value")
	dur, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "0" {
			return fmt.Errorf("invalid duration: %w", err)
		}
		dur = 0
	}
	c.client.SetTimeout(dur)
	c.printLine("timeout set to %s", dur)
	return nil
}

func (c *Console) help(_ context.Context, _ command.Params) error {
	tw := c.table("COMMAND", "DESCRIPTION")
	for _, key := range command.Keys(c.registry) {
		cmd := c.registry[key]
		row(tw, cmd.Usage(), cmd.Summary)
	}
	return tw.Flush()
}

// applyProblemParams overlays the given params on form. Absent params keep
// the form's value.
func applyProblemParams(form *api.ProblemForm, params command.Params) error {
	set := func(key string, dst *string) {
		if params.Has(key) {
			*dst = params.Get(key)
		}
	}
	set("title", &form.Title)
	set("description", &form.Description)
	set("score", &form.Score)
	set("input_format", &form.InputFormat)
	set("output_format", &form.OutputFormat)
	set("constraints", &form.Constraints)
	set("is_junior", &form.IsJunior)
	set("event_name", &form.EventName)
	set("time_limit", &form.TimeLimit)
	set("memory_limit", &form.MemoryLimit)

	if path := params.Get("description_file"); path != "" {
		text, err := command.ReadFile(path)
		if err != nil {
			return err
		}
		form.Description = text
	}

	samplesRaw := params.Get("samples_json")
	if path := params.Get("samples_file"); path != "" {
		text, err := command.ReadFile(path)
		if err != nil {
			return err
		}
		samplesRaw = text
	}
	if samplesRaw != "" {
		raw, err := command.ParseJSON(samplesRaw)
		if err != nil {
			return fmt.Errorf("invalid samples: %w", err)
		}
		var samples []model.Sample
		if err := json.Unmarshal(raw, &samples); err != nil {
			return fmt.Errorf("invalid samples: %w", err)
		}
		form.Samples = samples
		return nil
	}
	if params.Has("sample_input") || params.Has("sample_output") || params.Has("sample_explanation") {
		if len(form.Samples) == 0 {
			form.Samples = []model.Sample{{}}
		}
		first := &form.Samples[0]
		set("sample_input", &first.Input)
		set("sample_output", &first.Output)
		set("sample_explanation", &first.Explanation)
	}
	return nil
}

func uploadFiles(params command.Params) ([]api.UploadFile, error) {
	if archive := params.Get("archive"); archive != "" {
		return api.FilesFromArchive(archive)
	}
	paths := command.ParseStringList(params.Get("files"))
	if len(paths) == 0 {
		return nil, fmt.Errorf("files= or archive= is required")
	}
	return api.FilesFromPaths(paths...)
}
