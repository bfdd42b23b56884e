package auth

import (
	"bytes"
	"context"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/larsmn/bibtrack/session"
)

// Credential field names as the portal's login form expects them.
const (
	fieldUserID  = "loginBibDkUserId"
	fieldPincode = "pincode"
)

// Login performs the local-site form login. It first checks the token
// endpoint, and only submits the form when the session is not already
// authenticated. A non-200 login page short-circuits without any further
// token calls; a parse failure still re-reads the token state, since the
// portal may have authenticated the session anyway.
func (m *Manager) Login(ctx context.Context, userID, pincode string) bool {
	m.EnsureTokens(ctx)
	if m.sess.State().LoggedIn {
		return true
	}

	if !m.formLogin(ctx, userID, pincode) {
		return false
	}
	m.EnsureTokens(ctx)

	loggedIn := m.sess.State().LoggedIn
	m.logger.Debug().Bool("logged_in", loggedIn).Msg("portal login attempt finished")
	return loggedIn
}

// formLogin fetches the login page, fills the first form and posts it.
// Returns false only when the page itself could not be fetched.
func (m *Manager) formLogin(ctx context.Context, userID, pincode string) bool {
	pageURL := m.host + loginPagePath
	res, err := m.sess.Get(ctx, pageURL)
	if err != nil {
		m.logger.Error().Err(err).Str("url", pageURL).Msg("fetching login page")
		return false
	}
	if res.StatusCode != http.StatusOK {
		m.logger.Error().Int("status", res.StatusCode).Str("url", pageURL).Msg("login page unavailable")
		return false
	}

	if _, err := m.submitForm(ctx, res, map[string]string{
		fieldUserID:  userID,
		fieldPincode: pincode,
	}); err != nil {
		m.logger.Error().Err(err).Str("url", pageURL).Msg("processing login form")
	}
	return true
}

// submitForm builds a payload from every input of the first form on the
// page, overriding the inputs named in creds, and posts it to the form's
// action. The "/login" segment of the action is replaced with the page's
// final URL so server-side redirects are honored.
func (m *Manager) submitForm(ctx context.Context, page *session.Response, creds map[string]string) (*session.Response, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, err
	}

	form := doc.Find("form").First()
	if form.Length() == 0 {
		return nil, errNoForm
	}
	action, ok := form.Attr("action")
	if !ok {
		return nil, errNoAction
	}

	payload := url.Values{}
	var inputErr error
	form.Find("input").Each(func(_ int, in *goquery.Selection) {
		name, ok := in.Attr("name")
		if !ok {
			inputErr = errNoInputName
			return
		}
		if v, isCred := creds[name]; isCred {
			payload.Set(name, v)
			return
		}
		value, ok := in.Attr("value")
		if !ok {
			inputErr = errNoInputValue
			return
		}
		payload.Set(name, value)
	})
	if inputErr != nil {
		return nil, inputErr
	}

	target := replaceLoginSegment(action, page.FinalURL.String())
	res, err := m.sess.PostForm(ctx, target, payload)
	if err != nil {
		return nil, err
	}
	if res.StatusCode >= http.StatusBadRequest {
		return res, &session.StatusError{Code: res.StatusCode, URL: target}
	}
	return res, nil
}
