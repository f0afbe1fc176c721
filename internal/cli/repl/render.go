package repl

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"ojadmin/internal/admin/model"
)

func (c *Console) table(headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(&lockedWriter{c: c}, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	return tw
}

func row(tw *tabwriter.Writer, cells ...interface{}) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = fmt.Sprint(cell)
	}
	fmt.Fprintln(tw, strings.Join(parts, "\t"))
}

// lockedWriter serializes table output with printLine.
type lockedWriter struct {
	c *Console
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.c.outMu.Lock()
	defer w.c.outMu.Unlock()
	return w.c.out.Write(p)
}

func (c *Console) renderUsers(users []model.User) error {
	if len(users) == 0 {
		c.printLine("no users")
		return nil
	}
	tw := c.table("ID", "USERNAME", "EMAIL", "ROLE", "CREATED")
	for _, u := range users {
		row(tw, u.ID, u.Username, u.Email, orDash(u.Role), u.CreatedAt.Display())
	}
	return tw.Flush()
}

func (c *Console) renderTeams(teams []model.Team) error {
	if len(teams) == 0 {
		c.printLine("no teams")
		return nil
	}
	tw := c.table("ID", "TEAM", "EVENT", "CATEGORY", "SCORE", "CORRECT", "WRONG", "MEMBERS")
	for _, t := range teams {
		row(tw, t.ID, t.TeamName, orDash(t.EventName), t.Category(), t.Score, t.CorrectSubmission, t.WrongSubmission, len(t.Users))
	}
	return tw.Flush()
}

func (c *Console) renderTeam(t model.Team) error {
	c.printLine("team:        %s (%s)", t.TeamName, t.ID)
	c.printLine("event:       %s", orDash(t.EventName))
	c.printLine("category:    %s", t.Category())
	c.printLine("score:       %d", t.Score)
	c.printLine("submissions: %d correct, %d wrong", t.CorrectSubmission, t.WrongSubmission)
	c.printLine("first solve: %s", t.FirstSolveTime.Display())
	if len(t.Users) == 0 {
		c.printLine("members:     none")
		return nil
	}
	tw := c.table("MEMBER", "USERNAME", "EMAIL")
	for _, u := range t.Users {
		row(tw, u.ID, u.Username, u.Email)
	}
	return tw.Flush()
}

func (c *Console) renderProblems(problems []model.Problem) error {
	if len(problems) == 0 {
		c.printLine("no problems")
		return nil
	}
	tw := c.table("ID", "TITLE", "SCORE", "CATEGORY", "EVENT", "TIME(ms)", "MEMORY(MB)")
	for _, p := range problems {
		category := "senior"
		if p.IsJunior {
			category = "junior"
		}
		row(tw, p.ID, p.Title, p.Score, category, orDash(p.EventName), p.TimeLimit, p.MemoryLimit)
	}
	return tw.Flush()
}

func (c *Console) renderProblem(p model.Problem) error {
	c.printLine("problem:     %s (%s)", p.Title, p.ID)
	c.printLine("score:       %d", p.Score)
	c.printLine("junior:      %t", p.IsJunior)
	c.printLine("event:       %s", orDash(p.EventName))
	c.printLine("limits:      %d ms, %d MB", p.TimeLimit, p.MemoryLimit)
	c.printLine("description:\n%s", p.Description)
	c.printLine("input format:\n%s", p.InputFormat)
	c.printLine("output format:\n%s", p.OutputFormat)
	c.printLine("constraints:\n%s", p.Constraints)
	for i, s := range p.Samples {
		c.printLine("sample %d input:\n%s", i+1, s.Input)
		c.printLine("sample %d output:\n%s", i+1, s.Output)
		if s.Explanation != "" {
			c.printLine("sample %d explanation:\n%s", i+1, s.Explanation)
		}
	}
	return nil
}

func (c *Console) renderSubmissions(subs []model.Submission) error {
	if len(subs) == 0 {
		c.printLine("no submissions")
		return nil
	}
	tw := c.table("ID", "TEAM", "PROBLEM", "LANGUAGE", "RESULT", "SUBMITTED")
	for _, s := range subs {
		row(tw, s.ID, s.TeamName(), s.ProblemTitle(), s.Language, s.Result, s.SubmittedAt.Display())
	}
	return tw.Flush()
}

func (c *Console) renderEvents(events []model.Event) error {
	if len(events) == 0 {
		c.printLine("no events")
		return nil
	}
	tw := c.table("ID", "NAME", "STATUS", "START", "END")
	for _, e := range events {
		row(tw, e.ID, e.Name, e.Status(), e.StartTime.Display(), e.EndTime.Display())
	}
	return tw.Flush()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
