package screen

import (
	"context"
	"sync"

	"ojadmin/internal/admin/api"
	"ojadmin/internal/admin/model"
	"ojadmin/pkg/utils/logger"

	"github.com/zeromicro/go-zero/core/mr"
	"go.uber.org/zap"
)

const msgFetchDashboard = "Failed to fetch dashboard statistics"

type DashboardAPI interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	ListTeams(ctx context.Context) ([]model.Team, error)
	ListProblems(ctx context.Context) ([]model.Problem, error)
	ListSubmissions(ctx context.Context, filter api.SubmissionFilter) ([]model.Submission, error)
}

// Stats are the dashboard counters.
type Stats struct {
	Users       int
	Teams       int
	Problems    int
	Submissions int
}

// Dashboard joins four list fetches. Either all counts show or none do.
type Dashboard struct {
	mu    sync.Mutex
	api   DashboardAPI
	stats Stats
	err   string
}

func NewDashboard(api DashboardAPI) *Dashboard {
	return &Dashboard{api: api}
}

func (d *Dashboard) Load(ctx context.Context) (Stats, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var next Stats
	err := mr.Finish(
		func() error {
			users, err := d.api.ListUsers(ctx)
			next.Users = len(users)
			return err
		},
		func() error {
			teams, err := d.api.ListTeams(ctx)
			next.Teams = len(teams)
			return err
		},
		func() error {
			problems, err := d.api.ListProblems(ctx)
			next.Problems = len(problems)
			return err
		},
		func() error {
			subs, err := d.api.ListSubmissions(ctx, api.SubmissionFilter{})
			next.Submissions = len(subs)
			return err
		},
	)
	if err != nil {
		d.stats, d.err = Stats{}, msgFetchDashboard
		logger.Error(withScreen(ctx, "dashboard"), msgFetchDashboard, zap.Error(err))
		return Stats{}, wrapMsg(msgFetchDashboard, err)
	}
	d.stats, d.err = next, ""
	return next, nil
}

func (d *Dashboard) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

func (d *Dashboard) Err() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}
