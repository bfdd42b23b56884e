package session

// State is the token state of one authenticated session. Values are
// immutable; every mutation happens through a transition method returning
// the next state, which keeps the auth flow testable as plain data.
type State struct {
	// LibraryToken is the anonymous token the portal issues to every
	// visitor. Used as the fallback bearer on metadata queries.
	LibraryToken string
	// UserToken is the bearer tied to a logged-in patron.
	UserToken string
	// AccessToken is the central site's token, used against the
	// bibliographic graph endpoints.
	AccessToken string
	// LoggedIn reports whether the portal considers the session
	// authenticated.
	LoggedIn bool
	// LogoutURL is set by the external-provider flow; when empty the
	// portal's own logout path is used.
	LogoutURL string
}

// WithLibraryToken returns the state with the anonymous library token set.
func (st State) WithLibraryToken(tok string) State {
	st.LibraryToken = tok
	return st
}

// WithUserToken returns the state after a successful portal login.
func (st State) WithUserToken(tok string) State {
	st.UserToken = tok
	st.LoggedIn = true
	return st
}

// WithAccessToken returns the state with the central site token set.
func (st State) WithAccessToken(tok string) State {
	st.AccessToken = tok
	return st
}

// WithLogout returns the state after an external-provider login, where the
// logged-in indicator is the logout URL handed back by the provider.
func (st State) WithLogout(url string) State {
	st.LoggedIn = true
	st.LogoutURL = url
	return st
}

// NotLoggedIn returns the state with the authenticated flag cleared. Tokens
// are kept; a full clear happens through Session.Reset.
func (st State) NotLoggedIn() State {
	st.LoggedIn = false
	return st
}
