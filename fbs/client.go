// Package fbs talks to the physical-circulation open platform: patron
// profile, loans, reservations and fees, all scoped to the patron behind
// the session's bearer token.
package fbs

import (
	"context"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/larsmn/bibtrack/session"
)

// DefaultBaseURL is the shared circulation platform. The agencyid/patronid
// path segments are literal; the platform resolves both from the bearer
// token.
const DefaultBaseURL = "https://fbs-openplatform.dbc.dk"

const (
	patronPath       = "/external/agencyid/patrons/patronid/v2"
	loansPath        = "/external/agencyid/patrons/patronid/loans/v2"
	reservationsPath = "/external/v1/agencyid/patrons/patronid/reservations/v2"
	feesPath         = "/external/agencyid/patron/patronid/fees/v2"
)

// Client reads a patron's circulation state.
type Client struct {
	baseURL string
	sess    *session.Session
	logger  zerolog.Logger
}

// NewClient creates a circulation client. An empty baseURL selects the
// default platform.
func NewClient(baseURL string, sess *session.Session, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: baseURL, sess: sess, logger: logger}
}

// Patron fetches the patron profile.
func (c *Client) Patron(ctx context.Context) (*Patron, error) {
	var resp struct {
		Patron *Patron `json:"patron"`
	}
	if err := c.sess.GetJSON(ctx, c.baseURL+patronPath, nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Patron, nil
}

// Loans fetches the patron's physical loans.
func (c *Client) Loans(ctx context.Context) ([]Loan, error) {
	var loans []Loan
	if err := c.sess.GetJSON(ctx, c.baseURL+loansPath, nil, "", &loans); err != nil {
		return nil, err
	}
	c.logger.Debug().Int("count", len(loans)).Msg("fetched physical loans")
	return loans, nil
}

// Reservations fetches the patron's physical reservations.
func (c *Client) Reservations(ctx context.Context) ([]Reservation, error) {
	var reservations []Reservation
	if err := c.sess.GetJSON(ctx, c.baseURL+reservationsPath, nil, "", &reservations); err != nil {
		return nil, err
	}
	c.logger.Debug().Int("count", len(reservations)).Msg("fetched physical reservations")
	return reservations, nil
}

// Fees fetches the patron's unpaid fees, including the non-payable ones.
func (c *Client) Fees(ctx context.Context) ([]Fee, error) {
	params := url.Values{
		"includepaid":       {"false"},
		"includenonpayable": {"true"},
	}
	var fees []Fee
	if err := c.sess.GetJSON(ctx, c.baseURL+feesPath, params, "", &fees); err != nil {
		return nil, err
	}
	c.logger.Debug().Int("count", len(fees)).Msg("fetched fees")
	return fees, nil
}
