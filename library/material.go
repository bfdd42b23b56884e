package library

import (
	"strings"
	"time"

	"github.com/larsmn/bibtrack/fbi"
	"github.com/larsmn/bibtrack/pubhub"
)

// Material is the shared shape every domain record carries. The identifier
// scheme differs per source (faust numbers for physical items, hub
// identifiers for digital ones) and must not be compared across sources.
type Material struct {
	ID       string
	Type     string
	Title    string
	Creators string
	CoverURL string
}

// Loan is a borrowed item, physical or digital.
type Loan struct {
	Material
	LoanDate  *time.Time
	DueDate   *time.Time
	RenewID   string
	Renewable bool
}

// Reservation is a queued reservation.
type Reservation struct {
	Material
	Created       *time.Time
	Expiry        *time.Time
	QueuePosition *int
	PickupBranch  string
}

// ReservationReady is a reservation waiting on the pickup shelf.
type ReservationReady struct {
	Material
	Created        *time.Time
	PickupDeadline *time.Time
	PickupNumber   string
	PickupBranch   string
}

// Debt is one outstanding fee, attached to the first material the fee
// covers.
type Debt struct {
	Material
	FeeDate    *time.Time
	FeeDueDate *time.Time
	Amount     float64
}

// materialFromGraph maps a bibliographic manifestation into the shared
// shape. The cover argument wins over the manifestation's own thumbnail.
func materialFromGraph(id string, m fbi.Manifestation, cover string) Material {
	if cover == "" {
		cover = m.Thumbnail
	}
	return Material{
		ID:       id,
		Type:     m.Type,
		Title:    m.Title,
		Creators: m.Creator,
		CoverURL: cover,
	}
}

// materialFromProduct maps a digital hub catalog record into the shared
// shape.
func materialFromProduct(id string, p *pubhub.Product) Material {
	names := make([]string, 0, len(p.Contributors))
	for _, c := range p.Contributors {
		names = append(names, strings.TrimSpace(c.FirstName+" "+c.LastName))
	}
	return Material{
		ID:       id,
		Type:     p.Format,
		Title:    p.Title,
		Creators: strings.Join(names, " og "),
		CoverURL: p.ThumbnailURI,
	}
}

// dateLayouts are the timestamp shapes the backends emit, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTime parses a backend timestamp, dropping the zone. Nil means the
// field was absent or unparseable; the sorters order those first.
func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
