package screen

import (
	"context"

	"ojadmin/internal/admin/model"
	"ojadmin/internal/admin/reconcile"
)

const (
	msgFetchUsers = "Failed to fetch users"
	msgDeleteUser = "Failed to delete user"
	msgFetchTeams = "Failed to fetch teams"
	msgDeleteTeam = "Failed to delete team"
	usersScreen   = "users"
	teamsScreen   = "teams"
)

type UserAPI interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, id model.ID) error
}

// Users is the user management screen.
type Users struct {
	state[model.User]
	api UserAPI
}

func NewUsers(api UserAPI) *Users {
	return &Users{api: api}
}

func (s *Users) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := reconcile.Refetch(ctx, s.items, s.api.ListUsers)
	if err != nil {
		return s.fail(ctx, usersScreen, msgFetchUsers, err)
	}
	s.items, s.err = items, ""
	return nil
}

// Delete removes the user on the backend, then from the list.
func (s *Users) Delete(ctx context.Context, id model.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.api.DeleteUser(ctx, id); err != nil {
		return s.fail(ctx, usersScreen, msgDeleteUser, err)
	}
	s.items, s.err = reconcile.RemoveByID(s.items, id), ""
	return nil
}

type TeamAPI interface {
	ListTeams(ctx context.Context) ([]model.Team, error)
	DeleteTeam(ctx context.Context, id model.ID) error
}

// Teams is the team management screen.
type Teams struct {
	state[model.Team]
	api TeamAPI
}

func NewTeams(api TeamAPI) *Teams {
	return &Teams{api: api}
}

func (s *Teams) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := reconcile.Refetch(ctx, s.items, s.api.ListTeams)
	if err != nil {
		return s.fail(ctx, teamsScreen, msgFetchTeams, err)
	}
	s.items, s.err = items, ""
	return nil
}

// Find returns a team from the loaded list, with its members.
func (s *Teams) Find(id model.ID) (model.Team, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return reconcile.Find(s.items, id)
}

func (s *Teams) Delete(ctx context.Context, id model.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.api.DeleteTeam(ctx, id); err != nil {
		return s.fail(ctx, teamsScreen, msgDeleteTeam, err)
	}
	s.items, s.err = reconcile.RemoveByID(s.items, id), ""
	return nil
}
