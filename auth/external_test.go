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

// externalSite stubs the central site plus the identity provider on one
// server.
type externalSite struct {
	server     *httptest.Server
	agency     string
	rejectUser bool
}

func newExternalSite(t *testing.T) *externalSite {
	t.Helper()
	e := &externalSite{agency: "DK-775100"}
	mux := http.NewServeMux()

	mux.HandleFunc("/api/auth/csrf", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"csrfToken":"csrf-123"}`)
	})

	mux.HandleFunc("/api/auth/signin/adgangsplatformen", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("csrfToken") != "csrf-123" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, e.agency, r.URL.Query().Get("agencyId"))
		fmt.Fprintf(w, `{"url":%q}`, e.server.URL+"/provider/login")
	})

	mux.HandleFunc("/provider/login", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body>
			<form action="%s/provider/submit" method="post">
				<input type="hidden" name="borchk" value="1"/>
				<input type="text" name="loginBibDkUserId"/>
				<input type="password" name="pincode"/>
			</form>
		</body></html>`, e.server.URL)
	})

	mux.HandleFunc("/provider/submit", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if e.rejectUser || r.PostForm.Get("pincode") != "0000" {
			http.Redirect(w, r, "/provider/login?error=credentials", http.StatusFound)
			return
		}
		http.Redirect(w, r, "/profil/laan-og-reserveringer?setPickupAgency="+e.agency, http.StatusFound)
	})

	mux.HandleFunc("/profil/laan-og-reserveringer", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<script>{"accessToken":"site-acc-tok"}</script>`)
	})

	e.server = httptest.NewServer(mux)
	t.Cleanup(e.server.Close)
	return e
}

func TestLoginExternal(t *testing.T) {
	e := newExternalSite(t)
	sess := session.New(e.server.URL, zerolog.Nop())
	m := NewManager(e.server.URL, e.server.URL, sess, zerolog.Nop())

	ok := m.LoginExternal(context.Background(), "1234567890", "0000", e.agency)
	require.True(t, ok)

	st := sess.State()
	assert.True(t, st.LoggedIn)
	assert.Equal(t, "site-acc-tok", st.AccessToken)
	assert.Equal(t, e.server.URL+"/api/auth/signout", st.LogoutURL)
}

func TestLoginExternalRejected(t *testing.T) {
	e := newExternalSite(t)
	e.rejectUser = true
	sess := session.New(e.server.URL, zerolog.Nop())
	m := NewManager(e.server.URL, e.server.URL, sess, zerolog.Nop())

	ok := m.LoginExternal(context.Background(), "1234567890", "0000", e.agency)
	assert.False(t, ok, "landing anywhere but the pickup-agency callback is a failed login")
	assert.False(t, sess.State().LoggedIn)
}

func TestLoginExternalAlreadyLoggedIn(t *testing.T) {
	e := newExternalSite(t)
	sess := session.New(e.server.URL, zerolog.Nop())
	sess.SetState(session.State{}.WithLogout("somewhere"))
	m := NewManager(e.server.URL, e.server.URL, sess, zerolog.Nop())

	assert.True(t, m.LoginExternal(context.Background(), "x", "y", e.agency))
}
