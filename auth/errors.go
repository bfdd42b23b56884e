package auth

import (
	"errors"
	"strings"
)

// Parse failures around the login form. These never escape the package;
// they exist so the log lines say which piece of the form was missing.
var (
	errNoForm       = errors.New("login page has no form element")
	errNoAction     = errors.New("login form has no action attribute")
	errNoInputName  = errors.New("login form input has no name attribute")
	errNoInputValue = errors.New("login form input has no value attribute")
	errNotCallback  = errors.New("provider login did not land on the pickup-agency callback")
)

// replaceLoginSegment swaps the "/login" path segment of a form action for
// the URL the login page actually redirected to.
func replaceLoginSegment(action, finalURL string) string {
	return strings.Replace(action, "/login", finalURL, 1)
}
