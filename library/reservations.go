package library

import (
	"context"
	"strconv"

	"github.com/larsmn/bibtrack/fbi"
	"github.com/larsmn/bibtrack/fbs"
)

// DigitalPickupSource is the pickup label for digital reservations, which
// have no pickup-branch concept.
const DigitalPickupSource = "ereolen.dk"

// fetchReservations replaces the user's two reservation collections.
// Physical reservations are split into ready-for-pickup and still-queued
// buckets by the source's status field; digital reservations always land in
// the queued bucket.
func (c *Client) fetchReservations(ctx context.Context) {
	reservations := []Reservation{}
	ready := []ReservationReady{}

	if c.national {
		r, rr := c.nationalReservations(ctx)
		reservations, ready = append(reservations, r...), append(ready, rr...)
	} else {
		r, rr := c.physicalReservations(ctx)
		reservations, ready = append(reservations, r...), append(ready, rr...)
	}
	reservations = append(reservations, c.digitalReservations(ctx)...)

	c.user.Reservations = reservations
	c.user.ReservationsReady = ready
}

// dedupeByTransaction keeps one record per transaction id, the last seen in
// source order, preserving the order of first occurrence.
func dedupeByTransaction(records []fbs.Reservation) []fbs.Reservation {
	order := make([]string, 0, len(records))
	byID := make(map[string]fbs.Reservation, len(records))
	for _, rec := range records {
		if _, seen := byID[rec.TransactionID]; !seen {
			order = append(order, rec.TransactionID)
		}
		byID[rec.TransactionID] = rec
	}

	out := make([]fbs.Reservation, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out
}

func (c *Client) physicalReservations(ctx context.Context) ([]Reservation, []ReservationReady) {
	records, err := c.fbs.Reservations(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("fetching physical reservations")
		return nil, nil
	}

	var reservations []Reservation
	var ready []ReservationReady
	for _, rec := range dedupeByTransaction(records) {
		man, ok := c.fbi.Manifestation(ctx, rec.RecordID)
		if !ok {
			c.logger.Warn().Str("faust", rec.RecordID).Msg("skipping reservation without details")
			continue
		}
		cover := c.covers.SmallCover(ctx, "pid", man.PID)
		material := materialFromGraph(rec.RecordID, man, cover)
		created := parseTime(rec.DateOfReservation)
		branch := c.fbi.BranchName(ctx, rec.PickupBranch)

		if rec.State == fbs.StateReadyForPickup {
			ready = append(ready, ReservationReady{
				Material:       material,
				Created:        created,
				PickupDeadline: parseTime(rec.PickupDeadline),
				PickupNumber:   rec.PickupNumber,
				PickupBranch:   branch,
			})
		} else {
			reservations = append(reservations, Reservation{
				Material:      material,
				Created:       created,
				Expiry:        parseTime(rec.ExpiryDate),
				QueuePosition: rec.NumberInQueue,
				PickupBranch:  branch,
			})
		}
	}
	return reservations, ready
}

func (c *Client) nationalReservations(ctx context.Context) ([]Reservation, []ReservationReady) {
	st, err := c.userStatus(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("fetching national reservations")
		return nil, nil
	}

	var reservations []Reservation
	var ready []ReservationReady
	for i := range st.Orders {
		rec := &st.Orders[i]
		man := rec.Material()
		material := materialFromGraph(man.PID, man, "")
		created := parseTime(rec.OrderDate)

		if rec.Status == fbi.OrderStatusReady {
			ready = append(ready, ReservationReady{
				Material:       material,
				Created:        created,
				PickupDeadline: parseTime(rec.PickUpExpiryDate),
				PickupBranch:   rec.PickUpBranch.AgencyName,
			})
			continue
		}

		var queue *int
		if n, err := strconv.Atoi(rec.HoldQueuePosition); err == nil {
			queue = &n
		}
		reservations = append(reservations, Reservation{
			Material:      material,
			Created:       created,
			QueuePosition: queue,
			PickupBranch:  rec.PickUpBranch.AgencyName,
		})
	}
	return reservations, ready
}

func (c *Client) digitalReservations(ctx context.Context) []Reservation {
	records, err := c.pubhub.Reservations(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("fetching digital reservations")
		return nil
	}

	reservations := make([]Reservation, 0, len(records))
	for _, rec := range records {
		id := rec.LibraryBook.Identifier
		product, err := c.pubhub.Product(ctx, id)
		if err != nil || product == nil {
			c.logger.Warn().Err(err).Str("id", id).Msg("skipping digital reservation without product")
			continue
		}
		reservations = append(reservations, Reservation{
			Material:     materialFromProduct(id, product),
			PickupBranch: DigitalPickupSource,
		})
	}
	return reservations
}
