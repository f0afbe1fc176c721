package api

import (
	"context"

	"ojadmin/internal/admin/model"
)

func (c *Client) ListTeams(ctx context.Context) ([]model.Team, error) {
	resp, err := c.send(ctx, EndpointListTeams, "", nil, nil)
	if err != nil {
		return nil, err
	}
	var env model.TeamsEnvelope
	if err := EndpointListTeams.decode(resp, &env); err != nil {
		return nil, err
	}
	return env.Teams, nil
}

func (c *Client) DeleteTeam(ctx context.Context, id model.ID) error {
	_, err := c.send(ctx, EndpointDeleteTeam, id, nil, nil)
	return err
}
