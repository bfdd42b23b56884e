package library

import "context"

// fetchLoans replaces the user's loan collection with the current physical
// and digital loans. Physical records come from the national aggregate or
// the per-agency circulation platform depending on mode, each enriched with
// bibliographic details; digital records come from the hub with a per-item
// product lookup. A record whose details cannot be derived is logged and
// skipped without aborting the batch.
func (c *Client) fetchLoans(ctx context.Context) {
	loans := []Loan{}

	if c.national {
		loans = append(loans, c.nationalLoans(ctx)...)
	} else {
		loans = append(loans, c.physicalLoans(ctx)...)
	}
	loans = append(loans, c.digitalLoans(ctx)...)

	c.user.Loans = loans
}

func (c *Client) physicalLoans(ctx context.Context) []Loan {
	records, err := c.fbs.Loans(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("fetching physical loans")
		return nil
	}

	loans := make([]Loan, 0, len(records))
	for _, rec := range records {
		man, ok := c.fbi.Manifestation(ctx, rec.LoanDetails.RecordID)
		if !ok {
			c.logger.Warn().Str("faust", rec.LoanDetails.RecordID).Msg("skipping loan without details")
			continue
		}
		cover := c.covers.SmallCover(ctx, "pid", man.PID)

		loans = append(loans, Loan{
			Material:  materialFromGraph(rec.LoanDetails.MaterialItemNumber, man, cover),
			LoanDate:  parseTime(rec.LoanDetails.LoanDate),
			DueDate:   parseTime(rec.LoanDetails.DueDate),
			RenewID:   rec.LoanDetails.LoanID,
			Renewable: rec.IsRenewable,
		})
	}
	return loans
}

func (c *Client) nationalLoans(ctx context.Context) []Loan {
	st, err := c.userStatus(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("fetching national loans")
		return nil
	}

	loans := make([]Loan, 0, len(st.Loans))
	for i := range st.Loans {
		rec := &st.Loans[i]
		man := rec.Material()

		loans = append(loans, Loan{
			Material: materialFromGraph(man.PID, man, ""),
			DueDate:  parseTime(rec.DueDate),
			RenewID:  rec.LoanID,
		})
	}
	return loans
}

func (c *Client) digitalLoans(ctx context.Context) []Loan {
	hub, err := c.pubhub.Loans(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("fetching digital loans")
		return nil
	}

	c.user.EBooks = hub.UserData.TotalEbookLoans
	c.user.EBooksQuota = hub.LibraryData.MaxConcurrentEbookLoansPerBorrower
	c.user.AudioBooks = hub.UserData.TotalAudioLoans
	c.user.AudioBooksQuota = hub.LibraryData.MaxConcurrentAudiobookLoansPerBorrower

	loans := make([]Loan, 0, len(hub.Loans))
	for _, rec := range hub.Loans {
		id := rec.LibraryBook.Identifier
		product, err := c.pubhub.Product(ctx, id)
		if err != nil || product == nil {
			c.logger.Warn().Err(err).Str("id", id).Msg("skipping digital loan without product")
			continue
		}

		loans = append(loans, Loan{
			Material: materialFromProduct(id, product),
			LoanDate: parseTime(rec.OrderDateUtc),
			DueDate:  parseTime(rec.LoanExpireDateUtc),
		})
	}
	return loans
}
