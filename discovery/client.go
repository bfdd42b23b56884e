// Package discovery locates library portals: it scrapes the national
// fallback site's login page for the directory of member libraries, and
// resolves a municipality name from coordinates. Used to bootstrap the
// config file, not during updates.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

// Defaults for the two lookup sources.
const (
	DefaultFallbackURL     = "https://bibliotek.kk.dk"
	DefaultMunicipalityURL = "https://api.dataforsyningen.dk/kommuner/reverse"

	loginPagePath = "/login?current-path=/user/me/dashboard"
	librariesVar  = "var libraries ="
)

// Library is one entry in the national directory.
type Library struct {
	Name   string
	Host   string
	Agency string
}

// Directory is the national directory split into portals this client can
// log into and portals behind the legacy gateway, which it cannot.
type Directory struct {
	Supported []Library
	Excluded  []Library
}

// Client performs the discovery lookups.
type Client struct {
	fallbackURL     string
	municipalityURL string
	httpClient      *http.Client
	logger          zerolog.Logger
}

// NewClient creates a discovery client. Empty URLs select the defaults.
func NewClient(fallbackURL, municipalityURL string, logger zerolog.Logger) *Client {
	if fallbackURL == "" {
		fallbackURL = DefaultFallbackURL
	}
	if municipalityURL == "" {
		municipalityURL = DefaultMunicipalityURL
	}
	return &Client{
		fallbackURL:     strings.TrimRight(fallbackURL, "/"),
		municipalityURL: municipalityURL,
		httpClient:      &http.Client{Timeout: 30 * time.Second},
		logger:          logger,
	}
}

type directoryEntry struct {
	Name            string `json:"name"`
	BranchID        string `json:"branchId"`
	RegistrationURL string `json:"registrationUrl"`
}

// Libraries fetches and parses the directory embedded in the fallback
// site's login page as a script variable.
func (c *Client) Libraries(ctx context.Context) (*Directory, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.fallbackURL+loginPagePath, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching library directory: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("library directory returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing library directory page: %w", err)
	}

	var payload string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if strings.HasPrefix(text, librariesVar) {
			payload = strings.TrimPrefix(text, librariesVar)
			return false
		}
		return true
	})
	if payload == "" {
		return nil, fmt.Errorf("no libraries script on %s", c.fallbackURL)
	}
	payload = strings.TrimSuffix(strings.TrimSpace(payload), ";")

	var parsed struct {
		Folk []directoryEntry `json:"folk"`
	}
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, fmt.Errorf("decoding library directory: %w", err)
	}

	dir := &Directory{}
	for _, entry := range parsed.Folk {
		host, err := hostOrigin(entry.RegistrationURL)
		if err != nil {
			c.logger.Warn().Err(err).Str("library", entry.Name).Msg("skipping directory entry")
			continue
		}
		lib := Library{Name: entry.Name, Host: host, Agency: entry.BranchID}
		// Portals behind the legacy gateway need a login flow this
		// client does not speak.
		if strings.Contains(entry.RegistrationURL, "gatewayf") {
			dir.Excluded = append(dir.Excluded, lib)
		} else {
			dir.Supported = append(dir.Supported, lib)
		}
	}
	return dir, nil
}

// hostOrigin reduces a registration URL to its scheme://host origin.
func hostOrigin(rawurl string) (string, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("registration url %q has no origin", rawurl)
	}
	return u.Scheme + "://" + u.Host, nil
}

// Municipality resolves the municipality name covering the coordinates, or
// "" when the service does not know them.
func (c *Client) Municipality(ctx context.Context, lon, lat float64) (string, error) {
	params := url.Values{
		"x": {fmt.Sprintf("%f", lon)},
		"y": {fmt.Sprintf("%f", lat)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.municipalityURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("municipality lookup: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("municipality lookup returned status %d", resp.StatusCode)
	}

	var out struct {
		Navn string `json:"navn"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding municipality: %w", err)
	}
	return out.Navn, nil
}
