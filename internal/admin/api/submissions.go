package api

import (
	"context"

	"ojadmin/internal/admin/model"
)

// ListSubmissions fetches submissions matching filter.
func (c *Client) ListSubmissions(ctx context.Context, filter SubmissionFilter) ([]model.Submission, error) {
	resp, err := c.send(ctx, EndpointListSubmissions, "", filter.Query(), nil)
	if err != nil {
		return nil, err
	}
	var env model.SubmissionsEnvelope
	if err := EndpointListSubmissions.decode(resp, &env); err != nil {
		return nil, err
	}
	return env.Submissions, nil
}
