package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateTransitions(t *testing.T) {
	st := State{}

	st = st.WithLibraryToken("lib")
	assert.Equal(t, "lib", st.LibraryToken)
	assert.False(t, st.LoggedIn)

	st = st.WithUserToken("usr")
	assert.Equal(t, "usr", st.UserToken)
	assert.True(t, st.LoggedIn, "a user token implies an authenticated session")

	st = st.NotLoggedIn()
	assert.False(t, st.LoggedIn)
	assert.Equal(t, "usr", st.UserToken, "clearing the flag keeps the tokens")
	assert.Equal(t, "lib", st.LibraryToken)

	st = st.WithLogout("https://example.org/signout")
	assert.True(t, st.LoggedIn)
	assert.Equal(t, "https://example.org/signout", st.LogoutURL)
}

func TestStateTransitionsAreValueSemantics(t *testing.T) {
	base := State{LibraryToken: "lib"}
	_ = base.WithUserToken("usr")
	assert.Empty(t, base.UserToken, "transitions must not mutate the receiver")
	assert.False(t, base.LoggedIn)
}

func TestGetJSONBearer(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
	}))
	defer server.Close()

	sess := New(server.URL, zerolog.Nop())
	sess.SetState(State{}.WithUserToken("user-tok"))

	var out map[string]string

	// Empty bearer falls back to the user token.
	require.NoError(t, sess.GetJSON(context.Background(), server.URL, nil, "", &out))
	assert.Equal(t, "Bearer user-tok", gotAuth)

	// Explicit bearer wins.
	require.NoError(t, sess.GetJSON(context.Background(), server.URL, nil, "other-tok", &out))
	assert.Equal(t, "Bearer other-tok", gotAuth)

	// No token at all means no header.
	sess.SetState(State{})
	require.NoError(t, sess.GetJSON(context.Background(), server.URL, nil, "", &out))
	assert.Empty(t, gotAuth)
}

func TestGetJSONStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	sess := New(server.URL, zerolog.Nop())
	err := sess.GetJSON(context.Background(), server.URL, nil, "", nil)
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.Code)
}

func TestResetClearsCookiesAndState(t *testing.T) {
	var cookieSeen bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("session"); err == nil {
			cookieSeen = true
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc"})
	}))
	defer server.Close()

	sess := New(server.URL, zerolog.Nop())
	sess.SetState(State{}.WithUserToken("usr").WithLibraryToken("lib"))

	_, err := sess.Get(context.Background(), server.URL)
	require.NoError(t, err)

	// Cookie from the first response comes back on the second request.
	_, err = sess.Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.True(t, cookieSeen)

	sess.Reset()
	assert.Equal(t, State{}, sess.State())

	cookieSeen = false
	_, err = sess.Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.False(t, cookieSeen, "reset must discard the cookie jar")
}

func TestResponseFinalURLFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/landed", http.StatusFound)
	})
	mux.HandleFunc("/landed", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("done"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	sess := New(server.URL, zerolog.Nop())
	res, err := sess.Get(context.Background(), server.URL+"/start")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "/landed", res.FinalURL.Path)
	assert.Equal(t, []byte("done"), res.Body)
}
