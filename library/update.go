package library

import (
	"bytes"
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Update runs one refresh cycle: login, one-time profile fetch, the three
// aggregations, logout, and the deterministic sorts. It always returns true
// once the sequence finishes; a failed login degrades to a no-op cycle, and
// callers inspect the collections rather than a return code.
func (c *Client) Update(ctx context.Context) bool {
	c.logger.Debug().Str("user", c.user.Credential.maskedID()).Msg("updating")

	// The national aggregate is shared by several fetches; never reuse it
	// across cycles.
	c.status = nil

	if c.Login(ctx) {
		if c.user.Name == "" {
			c.fetchProfile(ctx)
		}
		if !c.national {
			c.discoverDetailsURL(ctx)
		}

		c.fetchLoans(ctx)
		c.fetchReservations(ctx)
		c.fetchDebts(ctx)

		c.Logout(ctx)
		c.sortLists()
	}
	return true
}

// discoverDetailsURL reads the metadata host the portal advertises on the
// my-loans page, once per client. A missing attribute keeps the default
// endpoint.
func (c *Client) discoverDetailsURL(ctx context.Context) {
	if c.detailsDiscovered {
		return
	}
	c.detailsDiscovered = true

	res, err := c.sess.Get(ctx, c.host+"/user/me/loans")
	if err != nil || res.StatusCode != http.StatusOK {
		return
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		return
	}
	if u, ok := doc.Find("[data-fbi-graphql-url]").First().Attr("data-fbi-graphql-url"); ok {
		c.logger.Debug().Str("url", u).Msg("portal advertises metadata endpoint")
		c.fbi.SetDetailsURL(u)
	}
}

// sortLists orders the three collections with null sentinels first, then
// chronologically (or by queue position), with title as the tiebreak.
func (c *Client) sortLists() {
	u := c.user

	sort.SliceStable(u.Loans, func(i, j int) bool {
		a, b := u.Loans[i], u.Loans[j]
		if less, done := timeKey(a.DueDate, b.DueDate); done {
			return less
		}
		return a.Title < b.Title
	})

	sort.SliceStable(u.Reservations, func(i, j int) bool {
		a, b := u.Reservations[i], u.Reservations[j]
		if less, done := intKey(a.QueuePosition, b.QueuePosition); done {
			return less
		}
		if less, done := timeKey(a.Created, b.Created); done {
			return less
		}
		return a.Title < b.Title
	})

	sort.SliceStable(u.ReservationsReady, func(i, j int) bool {
		a, b := u.ReservationsReady[i], u.ReservationsReady[j]
		if less, done := timeKey(a.PickupDeadline, b.PickupDeadline); done {
			return less
		}
		return a.Title < b.Title
	})
}

// timeKey compares one composite key element. done is false when the
// comparison should fall through to the next element.
func timeKey(a, b *time.Time) (less, done bool) {
	switch {
	case a == nil && b == nil:
		return false, false
	case a == nil:
		return true, true
	case b == nil:
		return false, true
	case a.Equal(*b):
		return false, false
	default:
		return a.Before(*b), true
	}
}

func intKey(a, b *int) (less, done bool) {
	switch {
	case a == nil && b == nil:
		return false, false
	case a == nil:
		return true, true
	case b == nil:
		return false, true
	case *a == *b:
		return false, false
	default:
		return *a < *b, true
	}
}
