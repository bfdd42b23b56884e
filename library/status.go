package library

import (
	"context"

	"github.com/larsmn/bibtrack/fbi"
)

// userStatus fetches the national aggregate once per update cycle and
// serves it to every aggregator from the same snapshot.
func (c *Client) userStatus(ctx context.Context) (*fbi.UserStatus, error) {
	if c.status != nil {
		return c.status, nil
	}
	st, err := c.fbi.UserStatus(ctx)
	if err != nil {
		return nil, err
	}
	c.status = st
	return st, nil
}
