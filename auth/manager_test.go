package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larsmn/bibtrack/session"
)

// portal is a stub library portal plus central site on one server.
type portal struct {
	mux        *http.ServeMux
	server     *httptest.Server
	loggedIn   bool
	tokenHits  int
	logoutHits int

	loginPageStatus int
	loginPageBody   string
}

func newPortal(t *testing.T) *portal {
	t.Helper()
	p := &portal{
		mux:             http.NewServeMux(),
		loginPageStatus: http.StatusOK,
	}

	p.mux.HandleFunc("/dpl-react/user-tokens", func(w http.ResponseWriter, r *http.Request) {
		p.tokenHits++
		if p.loggedIn {
			fmt.Fprint(w, `{"library":"lib-tok","user":"user-tok"}`)
			return
		}
		fmt.Fprint(w, `{"library":"lib-tok"}`)
	})

	p.mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			require.NoError(t, r.ParseForm())
			if r.PostForm.Get("loginBibDkUserId") == "1234567890" && r.PostForm.Get("pincode") == "0000" {
				p.loggedIn = true
			}
			fmt.Fprint(w, "welcome")
			return
		}
		if p.loginPageStatus != http.StatusOK {
			w.WriteHeader(p.loginPageStatus)
			return
		}
		body := p.loginPageBody
		if body == "" {
			body = `<html><body>
				<form action="/login" method="post">
					<input type="hidden" name="form_id" value="dpl_login_form"/>
					<input type="text" name="loginBibDkUserId"/>
					<input type="password" name="pincode"/>
				</form>
			</body></html>`
		}
		fmt.Fprint(w, body)
	})

	p.mux.HandleFunc("/user/logout", func(w http.ResponseWriter, r *http.Request) {
		p.logoutHits++
		p.loggedIn = false
		fmt.Fprint(w, "bye")
	})

	// Central site root, serves the access token.
	p.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<script>{"accessToken":"acc-tok"}</script>`)
	})

	p.server = httptest.NewServer(p.mux)
	t.Cleanup(p.server.Close)
	return p
}

func newManager(p *portal) (*Manager, *session.Session) {
	sess := session.New(p.server.URL, zerolog.Nop())
	return NewManager(p.server.URL, p.server.URL, sess, zerolog.Nop()), sess
}

func TestEnsureTokensAnonymous(t *testing.T) {
	p := newPortal(t)
	m, sess := newManager(p)

	m.EnsureTokens(context.Background())

	st := sess.State()
	assert.Equal(t, "lib-tok", st.LibraryToken)
	assert.Empty(t, st.UserToken)
	assert.False(t, st.LoggedIn)
	assert.Equal(t, "acc-tok", st.AccessToken)
}

func TestEnsureTokensIdempotent(t *testing.T) {
	p := newPortal(t)
	p.loggedIn = true
	m, sess := newManager(p)

	m.EnsureTokens(context.Background())
	require.True(t, sess.State().LoggedIn)
	require.Equal(t, 1, p.tokenHits)

	// Everything present: no further requests.
	m.EnsureTokens(context.Background())
	assert.Equal(t, 1, p.tokenHits)
}

func TestLoginFormFlow(t *testing.T) {
	p := newPortal(t)
	m, sess := newManager(p)

	ok := m.Login(context.Background(), "1234567890", "0000")
	require.True(t, ok)

	st := sess.State()
	assert.True(t, st.LoggedIn)
	assert.Equal(t, "user-tok", st.UserToken)
	assert.Equal(t, "lib-tok", st.LibraryToken)
	assert.Equal(t, 2, p.tokenHits, "tokens are checked before and after the form")
}

func TestLoginAlreadyAuthenticated(t *testing.T) {
	p := newPortal(t)
	p.loggedIn = true
	m, _ := newManager(p)

	ok := m.Login(context.Background(), "1234567890", "0000")
	assert.True(t, ok)
	assert.Equal(t, 1, p.tokenHits, "no form submission when the session is already live")
}

func TestLoginWrongCredentials(t *testing.T) {
	p := newPortal(t)
	m, sess := newManager(p)

	ok := m.Login(context.Background(), "1234567890", "9999")
	assert.False(t, ok)
	assert.False(t, sess.State().LoggedIn)
}

func TestLoginPageUnavailableShortCircuits(t *testing.T) {
	p := newPortal(t)
	p.loginPageStatus = http.StatusServiceUnavailable
	m, sess := newManager(p)

	ok := m.Login(context.Background(), "1234567890", "0000")
	assert.False(t, ok)
	assert.False(t, sess.State().LoggedIn)
	assert.Equal(t, 1, p.tokenHits, "an unavailable login page must not trigger a second token check")
}

func TestLoginUnparseablePageStillRechecksTokens(t *testing.T) {
	p := newPortal(t)
	p.loginPageBody = `<html><body>maintenance</body></html>`
	m, _ := newManager(p)

	ok := m.Login(context.Background(), "1234567890", "0000")
	assert.False(t, ok)
	assert.Equal(t, 2, p.tokenHits, "a parse failure still re-reads the token state")
}

func TestLogout(t *testing.T) {
	p := newPortal(t)
	p.loggedIn = true
	m, sess := newManager(p)

	m.EnsureTokens(context.Background())
	require.True(t, sess.State().LoggedIn)

	m.Logout(context.Background())
	assert.Equal(t, 1, p.logoutHits)
	assert.Equal(t, session.State{}, sess.State(), "logout clears every token")
}

func TestLogoutNotLoggedIn(t *testing.T) {
	p := newPortal(t)
	m, _ := newManager(p)

	m.Logout(context.Background())
	assert.Zero(t, p.logoutHits)
}
