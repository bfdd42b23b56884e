// Package fbi talks to the shared bibliographic metadata graph: per-item
// manifestation details, the branch directory, and the national per-user
// status aggregate.
package fbi

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/larsmn/bibtrack/session"
)

// Default graph endpoints. The details endpoint can be overridden
// per-session when the portal advertises a different host.
const (
	DefaultGraphURL   = "https://fbi-api.dbc.dk/bibdk21/graphql"
	DefaultDetailsURL = "https://temp.fbi-api.dbc.dk/next-present/graphql"
)

// Client queries the metadata graph through an authenticated session.
type Client struct {
	graphURL   string
	detailsURL string
	sess       *session.Session
	logger     zerolog.Logger
	branches   map[string]string
}

// NewClient creates a metadata graph client. Empty URLs select the defaults.
func NewClient(graphURL, detailsURL string, sess *session.Session, logger zerolog.Logger) *Client {
	if graphURL == "" {
		graphURL = DefaultGraphURL
	}
	if detailsURL == "" {
		detailsURL = DefaultDetailsURL
	}
	return &Client{
		graphURL:   graphURL,
		detailsURL: detailsURL,
		sess:       sess,
		logger:     logger,
		branches:   make(map[string]string),
	}
}

// SetDetailsURL overrides the manifestation endpoint. The portal's my-loans
// page may advertise which metadata host to use; the override lasts for the
// client's lifetime.
func (c *Client) SetDetailsURL(u string) {
	if u != "" {
		c.detailsURL = u
	}
}

type graphRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// Manifestation resolves a faust number to its bibliographic record. The
// first attempt runs under the session's user token; a 200 response with an
// empty payload is retried exactly once with the anonymous library token
// before giving up. The boolean is false when nothing could be resolved —
// callers skip that one item and keep going.
func (c *Client) Manifestation(ctx context.Context, faust string) (Manifestation, bool) {
	req := graphRequest{
		Query:     manifestationQuery,
		Variables: map[string]any{"faust": faust},
	}

	m, empty, err := c.manifestation(ctx, req, "")
	if err != nil {
		c.logger.Error().Err(err).Str("faust", faust).Msg("manifestation query failed")
		return Manifestation{}, false
	}
	if !empty {
		return m, true
	}

	// Some agencies only answer under the anonymous token.
	m, empty, err = c.manifestation(ctx, req, c.sess.State().LibraryToken)
	if err != nil || empty {
		c.logger.Warn().Str("faust", faust).Msg("manifestation lookup yielded nothing")
		return Manifestation{}, false
	}
	return m, true
}

func (c *Client) manifestation(ctx context.Context, req graphRequest, bearer string) (Manifestation, bool, error) {
	var resp struct {
		Data struct {
			Manifestation *graphManifestation `json:"manifestation"`
		} `json:"data"`
	}
	if err := c.sess.PostJSON(ctx, c.detailsURL, req, bearer, &resp); err != nil {
		return Manifestation{}, false, err
	}
	if resp.Data.Manifestation == nil || resp.Data.Manifestation.PID == "" {
		return Manifestation{}, true, nil
	}
	return resp.Data.Manifestation.flatten(), false, nil
}

// BranchName resolves a branch identifier to its display name. Compound ids
// keep only the part after the last separator. Results are cached for the
// client's lifetime; an ambiguous or failed lookup falls back to the
// stripped id unchanged.
func (c *Client) BranchName(ctx context.Context, id string) string {
	if i := strings.LastIndex(id, "-"); i >= 0 {
		id = id[i+1:]
	}
	if name, ok := c.branches[id]; ok {
		return name
	}

	req := graphRequest{
		Query: branchQuery,
		Variables: map[string]any{
			"language": "DA",
			"limit":    2,
			"q":        id,
		},
	}
	var resp struct {
		Data struct {
			Branches struct {
				Hitcount int `json:"hitcount"`
				Result   []struct {
					Name string `json:"name"`
				} `json:"result"`
			} `json:"branches"`
		} `json:"data"`
	}
	if err := c.sess.PostJSON(ctx, c.graphURL, req, c.sess.State().AccessToken, &resp); err != nil {
		c.logger.Error().Err(err).Str("branch", id).Msg("branch lookup failed")
		return id
	}
	if resp.Data.Branches.Hitcount != 1 || len(resp.Data.Branches.Result) == 0 {
		return id
	}

	name := resp.Data.Branches.Result[0].Name
	c.branches[id] = name
	return name
}

// UserStatus runs the national BasicUser aggregate under the site access
// token.
func (c *Client) UserStatus(ctx context.Context) (*UserStatus, error) {
	req := graphRequest{Query: statusQuery, Variables: map[string]any{}}
	var resp struct {
		Data struct {
			User *UserStatus `json:"user"`
		} `json:"data"`
	}
	if err := c.sess.PostJSON(ctx, c.graphURL, req, c.sess.State().AccessToken, &resp); err != nil {
		return nil, err
	}
	if resp.Data.User == nil {
		return nil, ErrNoUser
	}
	return resp.Data.User, nil
}
