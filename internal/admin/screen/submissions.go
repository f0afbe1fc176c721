package screen

import (
	"context"

	"ojadmin/internal/admin/api"
	"ojadmin/internal/admin/model"
	"ojadmin/internal/admin/reconcile"
	pkgerrors "ojadmin/pkg/errors"
)

const (
	msgFetchSubmissions = "Failed to fetch submissions"
	submissionsScreen   = "submissions"
)

type SubmissionAPI interface {
	ListSubmissions(ctx context.Context, filter api.SubmissionFilter) ([]model.Submission, error)
}

// Submissions is the read-only submission browser.
type Submissions struct {
	state[model.Submission]
	api SubmissionAPI
}

func NewSubmissions(api SubmissionAPI) *Submissions {
	return &Submissions{api: api}
}

func (s *Submissions) Load(ctx context.Context, filter api.SubmissionFilter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := reconcile.Refetch(ctx, s.items, func(ctx context.Context) ([]model.Submission, error) {
		return s.api.ListSubmissions(ctx, filter)
	})
	if err != nil {
		return s.fail(ctx, submissionsScreen, msgFetchSubmissions, err)
	}
	s.items, s.err = items, ""
	return nil
}

// Code returns the decoded source of a loaded submission.
func (s *Submissions) Code(id model.ID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := reconcile.Find(s.items, id)
	if !ok {
		return "", pkgerrors.Newf(pkgerrors.SubmissionNotFound, "submission %s is not loaded", id)
	}
	return sub.DecodedCode(), nil
}
