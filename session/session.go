package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// Session wraps an http.Client with a cookie jar, the default page headers
// the library portal expects, and a JSON header overlay that carries the
// user bearer token once a login succeeds. One Session serves exactly one
// end-user and is not safe for concurrent use.
type Session struct {
	client  *http.Client
	origin  string
	headers map[string]string
	state   State
	logger  zerolog.Logger
}

// Response is the subset of an HTTP response the client packages care about.
// FinalURL is the URL of the last response after redirects.
type Response struct {
	StatusCode int
	Body       []byte
	FinalURL   *url.URL
}

// New creates a session scoped to the given portal origin. The origin is used
// for the Origin/Referer headers on JSON calls.
func New(origin string, logger zerolog.Logger) *Session {
	s := &Session{
		origin: strings.TrimRight(origin, "/"),
		logger: logger,
	}
	s.replaceClient()
	return s
}

func (s *Session) replaceClient() {
	jar, _ := cookiejar.New(nil)
	s.client = &http.Client{Jar: jar}
}

// State returns the current token state.
func (s *Session) State() State {
	return s.state
}

// SetState replaces the token state.
func (s *Session) SetState(st State) {
	s.state = st
}

// Reset replaces the cookie jar and clears every token. Called on logout so
// stale cookies never bleed into the next login cycle.
func (s *Session) Reset() {
	s.replaceClient()
	s.state = State{}
}

func pageHeaders(req *http.Request) {
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "da,en-US;q=0.9,en;q=0.8")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}

func (s *Session) jsonHeaders(req *http.Request, bearer string) {
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", s.origin)
	req.Header.Set("Referer", s.origin)
	if bearer == "" {
		bearer = s.state.UserToken
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
}

func (s *Session) do(req *http.Request) (*Response, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		FinalURL:   resp.Request.URL,
	}, nil
}

// Get fetches a page through the session, following redirects.
func (s *Session) Get(ctx context.Context, rawurl string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return nil, err
	}
	pageHeaders(req)
	return s.do(req)
}

// PostForm submits a form-encoded payload through the session.
func (s *Session) PostForm(ctx context.Context, rawurl string, form url.Values) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawurl, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	pageHeaders(req)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

// GetJSON issues an authorized GET and decodes the JSON response into out.
// An empty bearer means the current user token. A non-200 status is returned
// as a *StatusError so callers can downgrade it to "this fetch yielded
// nothing" without losing the code.
func (s *Session) GetJSON(ctx context.Context, rawurl string, params url.Values, bearer string, out any) error {
	if len(params) > 0 {
		rawurl += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return err
	}
	s.jsonHeaders(req, bearer)
	return s.decode(req, out)
}

// PostJSON issues an authorized POST with a JSON body and decodes the JSON
// response into out.
func (s *Session) PostJSON(ctx context.Context, rawurl string, payload any, bearer string, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawurl, bytes.NewReader(body))
	if err != nil {
		return err
	}
	s.jsonHeaders(req, bearer)
	return s.decode(req, out)
}

func (s *Session) decode(req *http.Request, out any) error {
	res, err := s.do(req)
	if err != nil {
		return err
	}
	if res.StatusCode != http.StatusOK {
		return &StatusError{Code: res.StatusCode, URL: req.URL.String()}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(res.Body, out); err != nil {
		return fmt.Errorf("decoding %s: %w", req.URL, err)
	}
	return nil
}

// StatusError reports a non-200 response on a JSON call.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}
