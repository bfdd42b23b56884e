// Package library is the per-patron client: it logs into one library's
// portal, aggregates physical and digital circulation data from the
// downstream platforms, and normalizes everything into a single User
// snapshot. One Client serves exactly one credential pair and must not
// be used concurrently.
package library

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/larsmn/bibtrack/auth"
	"github.com/larsmn/bibtrack/covers"
	"github.com/larsmn/bibtrack/fbi"
	"github.com/larsmn/bibtrack/fbs"
	"github.com/larsmn/bibtrack/pubhub"
	"github.com/larsmn/bibtrack/session"
)

// DefaultSiteURL is the central site used for token discovery and the
// external-provider login.
const DefaultSiteURL = "https://bibliotek.dk"

// Endpoints overrides the upstream base URLs. Zero values select each
// service's default.
type Endpoints struct {
	Site        string
	Circulation string
	Hub         string
	Graph       string
	Details     string
	Covers      string
}

// Client aggregates one patron's library state.
type Client struct {
	host        string
	agency      string
	displayName string
	national    bool
	endpoints   Endpoints
	logger      zerolog.Logger

	user *User

	sess   *session.Session
	auth   *auth.Manager
	fbi    *fbi.Client
	covers *covers.Client
	fbs    *fbs.Client
	pubhub *pubhub.Client

	detailsDiscovered bool
	status            *fbi.UserStatus
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger. The default logger is disabled.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithDisplayName attaches a human-readable name for log lines and output.
func WithDisplayName(name string) Option {
	return func(c *Client) { c.displayName = name }
}

// WithNationalMode switches the client to the external-provider login and
// the national aggregate data source instead of the local portal's.
func WithNationalMode() Option {
	return func(c *Client) { c.national = true }
}

// WithEndpoints overrides upstream base URLs, mainly for tests and
// self-hosted mirrors.
func WithEndpoints(e Endpoints) Option {
	return func(c *Client) { c.endpoints = e }
}

// NewClient creates a client for one end-user against one library portal.
func NewClient(userID, pincode, host, agency string, opts ...Option) *Client {
	c := &Client{
		host:   host,
		agency: agency,
		user:   NewUser(userID, pincode),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.endpoints.Site == "" {
		c.endpoints.Site = DefaultSiteURL
	}

	c.sess = session.New(host, c.logger)
	c.auth = auth.NewManager(host, c.endpoints.Site, c.sess, c.logger)
	c.fbi = fbi.NewClient(c.endpoints.Graph, c.endpoints.Details, c.sess, c.logger)
	c.covers = covers.NewClient(c.endpoints.Covers, c.sess, c.logger)
	c.fbs = fbs.NewClient(c.endpoints.Circulation, c.sess, c.logger)
	c.pubhub = pubhub.NewClient(c.endpoints.Hub, c.sess, c.logger)
	return c
}

// User returns the patron snapshot. The caller reads it after Update; the
// client replaces the collections on every cycle.
func (c *Client) User() *User {
	return c.user
}

// DisplayName returns the configured display name, or the host when none is
// set.
func (c *Client) DisplayName() string {
	if c.displayName != "" {
		return c.displayName
	}
	return c.host
}

// Session exposes the token state, for callers that need to verify a login
// produced a usable bearer.
func (c *Client) Session() session.State {
	return c.sess.State()
}

// Login authenticates the session using the strategy the client was
// configured with. Returns whether the session ended up logged in.
func (c *Client) Login(ctx context.Context) bool {
	if c.national {
		return c.auth.LoginExternal(ctx, c.user.Credential.UserID, c.user.Credential.Pincode, c.agency)
	}
	return c.auth.Login(ctx, c.user.Credential.UserID, c.user.Credential.Pincode)
}

// Logout ends the session and clears every token.
func (c *Client) Logout(ctx context.Context) {
	c.auth.Logout(ctx)
}
