package library

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// fetchDebts replaces the user's debt collection and recomputes the total.
// The per-agency platform reports structured amounts; the national
// aggregate reports localized strings with a comma decimal separator. The
// total is a plain floating sum, matching the upstream presentation.
func (c *Client) fetchDebts(ctx context.Context) {
	var debts []Debt
	if c.national {
		debts = c.nationalDebts(ctx)
	} else {
		debts = c.physicalDebts(ctx)
	}
	if debts == nil {
		debts = []Debt{}
	}

	total := 0.0
	for _, d := range debts {
		total += d.Amount
	}
	c.user.Debts = debts
	c.user.DebtsAmount = total
}

func (c *Client) physicalDebts(ctx context.Context) []Debt {
	fees, err := c.fbs.Fees(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("fetching fees")
		return nil
	}

	debts := make([]Debt, 0, len(fees))
	for _, fee := range fees {
		var material Material
		// A fee can span several materials; only the first one names it.
		if len(fee.Materials) > 0 {
			if man, ok := c.fbi.Manifestation(ctx, fee.Materials[0].RecordID); ok {
				cover := c.covers.SmallCover(ctx, "pid", man.PID)
				material = materialFromGraph(fee.Materials[0].RecordID, man, cover)
			} else {
				material = Material{ID: fee.Materials[0].RecordID}
			}
		}

		debts = append(debts, Debt{
			Material:   material,
			FeeDate:    parseTime(fee.CreationDate),
			FeeDueDate: parseTime(fee.DueDate),
			Amount:     fee.Amount,
		})
	}
	return debts
}

func (c *Client) nationalDebts(ctx context.Context) []Debt {
	st, err := c.userStatus(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("fetching national debts")
		return nil
	}

	debts := make([]Debt, 0, len(st.Debt))
	for _, d := range st.Debt {
		amount, ok := parseCommaAmount(d.Amount)
		if !ok {
			c.logger.Warn().Str("amount", d.Amount).Msg("unparseable fee amount")
		}
		debts = append(debts, Debt{
			Material: Material{Title: d.Title, Creators: d.Creator},
			FeeDate:  parseTime(d.Date),
			Amount:   amount,
		})
	}
	return debts
}

var commaAmount = regexp.MustCompile(`\d+,\d+`)

// parseCommaAmount extracts a decimal value out of an inline currency
// string in the legacy numeric locale ("50,00 kr."). Plain numeric strings
// parse too.
func parseCommaAmount(s string) (float64, bool) {
	if m := commaAmount.FindString(s); m != "" {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
		return v, err == nil
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return v, true
	}
	return 0, false
}
