package library

import (
	"context"
	"fmt"
)

// fetchProfile populates the user's profile fields. Local mode reads the
// circulation platform's patron record; national mode reads the status
// aggregate. Errors are logged and leave the profile empty, so the next
// cycle tries again.
func (c *Client) fetchProfile(ctx context.Context) {
	if c.national {
		st, err := c.userStatus(ctx)
		if err != nil {
			c.logger.Error().Err(err).Msg("fetching national profile")
			return
		}
		c.user.Name = st.Name
		c.user.Mail = st.Mail
		c.user.Address = fmt.Sprintf("%s\n%s", st.Address, st.PostalCode)
		c.user.PickupBranch = c.fbi.BranchName(ctx, st.MunicipalityAgencyID)
		return
	}

	patron, err := c.fbs.Patron(ctx)
	if err != nil || patron == nil {
		c.logger.Error().Err(err).Str("user", c.user.Credential.maskedID()).Msg("fetching patron profile")
		return
	}

	c.user.Name = patron.Name
	c.user.Address = fmt.Sprintf("%s\n%s %s", patron.Address.Street, patron.Address.PostalCode, patron.Address.City)
	c.user.Phone = patron.PhoneNumber
	c.user.PhoneNotify = patron.ReceiveSms
	c.user.Mail = patron.EmailAddress
	c.user.MailNotify = patron.ReceiveEmail
	c.user.PickupBranch = c.fbi.BranchName(ctx, patron.PreferredPickupBranch)
}
