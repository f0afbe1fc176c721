package api

import (
	"context"

	"ojadmin/internal/admin/model"
)

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	resp, err := c.send(ctx, EndpointListUsers, "", nil, nil)
	if err != nil {
		return nil, err
	}
	var users model.UserList
	if err := EndpointListUsers.decode(resp, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) DeleteUser(ctx context.Context, id model.ID) error {
	_, err := c.send(ctx, EndpointDeleteUser, id, nil, nil)
	return err
}
