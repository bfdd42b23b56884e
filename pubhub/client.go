// Package pubhub talks to the digital lending hub serving e-book and
// audiobook loans and reservations.
package pubhub

import (
	"context"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/larsmn/bibtrack/session"
)

// DefaultBaseURL is the shared digital lending hub.
const DefaultBaseURL = "https://pubhub-openplatform.dbc.dk"

// Client reads a patron's digital lending state.
type Client struct {
	baseURL string
	sess    *session.Session
	logger  zerolog.Logger
}

// NewClient creates a hub client. An empty baseURL selects the default hub.
func NewClient(baseURL string, sess *session.Session, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: baseURL, sess: sess, logger: logger}
}

// Loans fetches the patron's digital loans and quota counters.
func (c *Client) Loans(ctx context.Context) (*Loans, error) {
	var loans Loans
	if err := c.sess.GetJSON(ctx, c.baseURL+"/v1/user/loans", nil, "", &loans); err != nil {
		return nil, err
	}
	c.logger.Debug().Int("count", len(loans.Loans)).Msg("fetched digital loans")
	return &loans, nil
}

// Reservations fetches the patron's digital reservations.
func (c *Client) Reservations(ctx context.Context) ([]Reservation, error) {
	var res Reservations
	if err := c.sess.GetJSON(ctx, c.baseURL+"/v1/user/reservations", nil, "", &res); err != nil {
		return nil, err
	}
	return res.Reservations, nil
}

// Product fetches the catalog record for a hub identifier.
func (c *Client) Product(ctx context.Context, id string) (*Product, error) {
	var resp struct {
		Product *Product `json:"product"`
	}
	if err := c.sess.GetJSON(ctx, c.baseURL+"/v1/products/"+url.PathEscape(id), nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Product, nil
}
