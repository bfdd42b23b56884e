// Package auth owns the session's token lifecycle: acquiring the three
// tokens the backends expect, the two login strategies, and logout. Every
// failure here is soft; the caller learns about it by reading the session
// state, never through a returned error.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/larsmn/bibtrack/session"
)

const (
	userTokensPath = "/dpl-react/user-tokens"
	loginPagePath  = "/login?current-path=/user/me/dashboard"
	logoutPath     = "/user/logout"
)

// Manager acquires and caches tokens for one session.
type Manager struct {
	host   string
	site   string
	sess   *session.Session
	logger zerolog.Logger
}

// NewManager creates a token manager for a portal host and the central site.
func NewManager(host, site string, sess *session.Session, logger zerolog.Logger) *Manager {
	return &Manager{
		host:   strings.TrimRight(host, "/"),
		site:   strings.TrimRight(site, "/"),
		sess:   sess,
		logger: logger,
	}
}

// EnsureTokens acquires whatever tokens are missing. It is idempotent and
// issues at most two requests: the portal's token endpoint when the user
// token is missing or the session is not logged in, and the central site
// when the access token is missing. Unreachable endpoints or non-200
// responses leave the state untouched.
func (m *Manager) EnsureTokens(ctx context.Context) {
	st := m.sess.State()

	if st.UserToken == "" || !st.LoggedIn {
		res, err := m.sess.Get(ctx, m.host+userTokensPath)
		switch {
		case err != nil:
			m.logger.Error().Err(err).Str("url", m.host+userTokensPath).Msg("fetching user tokens")
		case res.StatusCode != http.StatusOK:
			m.logger.Debug().Int("status", res.StatusCode).Msg("token endpoint refused")
		default:
			body := string(res.Body)
			if tok, ok := session.Extract(body, "library"); ok {
				st = st.WithLibraryToken(tok)
			}
			if tok, ok := session.Extract(body, "user"); ok {
				st = st.WithUserToken(tok)
			} else {
				st = st.NotLoggedIn()
			}
		}
	}

	if st.AccessToken == "" {
		res, err := m.sess.Get(ctx, m.site)
		if err != nil {
			m.logger.Error().Err(err).Str("url", m.site).Msg("fetching site access token")
		} else if res.StatusCode == http.StatusOK {
			if tok, ok := session.Extract(string(res.Body), "accessToken"); ok {
				st = st.WithAccessToken(tok)
			}
		}
	}

	m.sess.SetState(st)
}

// Logout ends the session. The portal flow hits the host's logout page; the
// external-provider flow uses the logout URL captured at login. On success
// the session is replaced entirely so no cookie or token survives.
func (m *Manager) Logout(ctx context.Context) {
	st := m.sess.State()
	if !st.LoggedIn {
		return
	}

	url := st.LogoutURL
	if url == "" {
		url = m.host + logoutPath
	}

	res, err := m.sess.Get(ctx, url)
	if err != nil {
		m.logger.Error().Err(err).Str("url", url).Msg("logout request failed")
		return
	}
	if res.StatusCode == http.StatusOK {
		m.sess.Reset()
	}
	m.logger.Debug().Bool("logged_out", res.StatusCode == http.StatusOK).Str("url", url).Msg("logout")
}
