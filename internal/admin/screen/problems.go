package screen

import (
	"context"

	"ojadmin/internal/admin/api"
	"ojadmin/internal/admin/model"
	"ojadmin/internal/admin/reconcile"
)

const (
	msgFetchProblems   = "Failed to fetch problems"
	msgProblemDetails  = "Failed to fetch problem details"
	msgSaveProblem     = "Failed to save problem"
	msgDeleteProblem   = "Failed to delete problem"
	msgUploadTestcases = "Failed to upload test cases"
	msgUploadSolution  = "Failed to upload solution"
	problemsScreen     = "problems"
)

type ProblemAPI interface {
	ListProblems(ctx context.Context) ([]model.Problem, error)
	GetProblem(ctx context.Context, id model.ID) (*model.Problem, error)
	CreateProblem(ctx context.Context, payload api.ProblemPayload) (*model.Problem, error)
	UpdateProblem(ctx context.Context, id model.ID, payload api.ProblemPayload) (*model.Problem, error)
	DeleteProblem(ctx context.Context, id model.ID) error
	UploadTestcases(ctx context.Context, problemID model.ID, files []api.UploadFile) error
	UploadSolution(ctx context.Context, problemID model.ID, files []api.UploadFile) error
}

// Problems is the problem management screen. Creates, updates and uploads
// are followed by a full refetch.
type Problems struct {
	state[model.Problem]
	api ProblemAPI
}

func NewProblems(api ProblemAPI) *Problems {
	return &Problems{api: api}
}

func (s *Problems) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refetch(ctx, msgFetchProblems)
}

func (s *Problems) refetch(ctx context.Context, msg string) error {
	items, err := reconcile.Refetch(ctx, s.items, s.api.ListProblems)
	if err != nil {
		return s.fail(ctx, problemsScreen, msg, err)
	}
	s.items, s.err = items, ""
	return nil
}

// ByCategory splits the list into junior and senior problems.
func (s *Problems) ByCategory(junior bool) []model.Problem {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Problem
	for _, p := range s.items {
		if p.IsJunior == junior {
			out = append(out, p)
		}
	}
	return out
}

// Details fetches the full record, e.g. to pre-fill the edit form.
func (s *Problems) Details(ctx context.Context, id model.ID) (*model.Problem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.api.GetProblem(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, problemsScreen, msgProblemDetails, err)
	}
	s.err = ""
	return p, nil
}

// Save creates the problem when id is zero and updates it otherwise.
func (s *Problems) Save(ctx context.Context, id model.ID, form api.ProblemForm) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, err := form.Normalize()
	if err != nil {
		return s.fail(ctx, problemsScreen, msgSaveProblem, err)
	}
	if id.IsZero() {
		_, err = s.api.CreateProblem(ctx, payload)
	} else {
		_, err = s.api.UpdateProblem(ctx, id, payload)
	}
	if err != nil {
		return s.fail(ctx, problemsScreen, msgSaveProblem, err)
	}
	return s.refetch(ctx, msgFetchProblems)
}

func (s *Problems) Delete(ctx context.Context, id model.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.api.DeleteProblem(ctx, id); err != nil {
		return s.fail(ctx, problemsScreen, msgDeleteProblem, err)
	}
	s.items, s.err = reconcile.RemoveByID(s.items, id), ""
	return nil
}

func (s *Problems) UploadTestcases(ctx context.Context, id model.ID, files []api.UploadFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.api.UploadTestcases(ctx, id, files); err != nil {
		return s.fail(ctx, problemsScreen, msgUploadTestcases, err)
	}
	return s.refetch(ctx, msgFetchProblems)
}

func (s *Problems) UploadSolution(ctx context.Context, id model.ID, files []api.UploadFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.api.UploadSolution(ctx, id, files); err != nil {
		return s.fail(ctx, problemsScreen, msgUploadSolution, err)
	}
	return s.refetch(ctx, msgFetchProblems)
}
