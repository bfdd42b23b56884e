// Package covers fetches cover-image URLs from the shared cover service.
package covers

import (
	"context"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/larsmn/bibtrack/session"
)

// DefaultBaseURL is the shared cover service.
const DefaultBaseURL = "https://cover.dandigbib.org"

// Client looks up cover images by bibliographic identifier.
type Client struct {
	baseURL string
	sess    *session.Session
	logger  zerolog.Logger
}

// NewClient creates a cover service client. An empty baseURL selects the
// default.
func NewClient(baseURL string, sess *session.Session, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: baseURL, sess: sess, logger: logger}
}

// SmallCover returns the small-size cover URL for an identifier, or "" when
// the service has none. The lookup runs under the anonymous library token.
func (c *Client) SmallCover(ctx context.Context, idType, id string) string {
	params := url.Values{
		"type":        {idType},
		"identifiers": {id},
		"sizes":       {"small"},
	}

	var covers []struct {
		ImageUrls struct {
			Small struct {
				URL string `json:"url"`
			} `json:"small"`
		} `json:"imageUrls"`
	}
	err := c.sess.GetJSON(ctx, c.baseURL+"/api/v2/covers", params, c.sess.State().LibraryToken, &covers)
	if err != nil {
		c.logger.Debug().Err(err).Str("id", id).Msg("cover lookup failed")
		return ""
	}
	if len(covers) == 0 {
		return ""
	}
	return covers[0].ImageUrls.Small.URL
}
