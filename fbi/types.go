package fbi

// Manifestation is the bibliographic record behind a faust number, flattened
// to the fields the domain model needs.
type Manifestation struct {
	PID       string
	Title     string
	Creator   string
	Type      string
	Thumbnail string
}

// graphManifestation mirrors the graph's manifestation shape.
type graphManifestation struct {
	PID    string `json:"pid"`
	Titles struct {
		Main []string `json:"main"`
		Full []string `json:"full"`
	} `json:"titles"`
	Creators []struct {
		Display string `json:"display"`
	} `json:"creators"`
	Cover struct {
		Thumbnail string `json:"thumbnail"`
	} `json:"cover"`
	MaterialTypes []struct {
		MaterialTypeSpecific struct {
			Display string `json:"display"`
		} `json:"materialTypeSpecific"`
	} `json:"materialTypes"`
}

func (g *graphManifestation) flatten() Manifestation {
	m := Manifestation{
		PID:       g.PID,
		Thumbnail: g.Cover.Thumbnail,
	}
	if len(g.Titles.Full) > 0 {
		m.Title = g.Titles.Full[0]
	}
	if len(g.Creators) > 0 {
		m.Creator = g.Creators[0].Display
	}
	if len(g.MaterialTypes) > 0 {
		m.Type = g.MaterialTypes[0].MaterialTypeSpecific.Display
	}
	return m
}

// UserStatus is the national-mode aggregate: the patron's loans, orders and
// debts across agencies, as returned by the BasicUser query.
type UserStatus struct {
	Name                 string        `json:"name"`
	Mail                 string        `json:"mail"`
	Address              string        `json:"address"`
	PostalCode           string        `json:"postalCode"`
	MunicipalityAgencyID string        `json:"municipalityAgencyId"`
	Debt                 []StatusDebt  `json:"debt"`
	Loans                []StatusLoan  `json:"loans"`
	Orders               []StatusOrder `json:"orders"`
}

// StatusDebt is one outstanding fee in the national aggregate. Amount is a
// localized string (comma decimal separator).
type StatusDebt struct {
	Title    string `json:"title"`
	Amount   string `json:"amount"`
	Creator  string `json:"creator"`
	Date     string `json:"date"`
	Currency string `json:"currency"`
	AgencyID string `json:"agencyId"`
}

// StatusLoan is one physical loan in the national aggregate.
type StatusLoan struct {
	AgencyID      string              `json:"agencyId"`
	LoanID        string              `json:"loanId"`
	DueDate       string              `json:"dueDate"`
	Title         string              `json:"title"`
	Creator       string              `json:"creator"`
	Manifestation *graphManifestation `json:"manifestation"`
}

// Material flattens the loan's manifestation, falling back to the loan's
// own title/creator fields when the manifestation is missing.
func (l *StatusLoan) Material() Manifestation {
	if l.Manifestation != nil {
		m := l.Manifestation.flatten()
		if m.Title == "" {
			m.Title = l.Title
		}
		if m.Creator == "" {
			m.Creator = l.Creator
		}
		return m
	}
	return Manifestation{Title: l.Title, Creator: l.Creator}
}

// OrderStatusReady marks an order that is waiting on the pickup shelf.
const OrderStatusReady = "AVAILABLE_FOR_PICKUP"

// StatusOrder is one reservation in the national aggregate.
type StatusOrder struct {
	OrderID      string `json:"orderId"`
	Status       string `json:"status"`
	PickUpBranch struct {
		AgencyName string `json:"agencyName"`
		AgencyID   string `json:"agencyId"`
	} `json:"pickUpBranch"`
	PickUpExpiryDate  string              `json:"pickUpExpiryDate"`
	HoldQueuePosition string              `json:"holdQueuePosition"`
	Creator           string              `json:"creator"`
	OrderType         string              `json:"orderType"`
	OrderDate         string              `json:"orderDate"`
	Title             string              `json:"title"`
	Manifestation     *graphManifestation `json:"manifestation"`
}

// Material flattens the order's manifestation, falling back to the order's
// own title/creator fields when the manifestation is missing.
func (o *StatusOrder) Material() Manifestation {
	if o.Manifestation != nil {
		m := o.Manifestation.flatten()
		if m.Title == "" {
			m.Title = o.Title
		}
		if m.Creator == "" {
			m.Creator = o.Creator
		}
		return m
	}
	return Manifestation{Title: o.Title, Creator: o.Creator}
}
