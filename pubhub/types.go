package pubhub

// LibraryBook identifies a digital title in the hub.
type LibraryBook struct {
	Identifier string `json:"identifier"`
}

// Loan is one active digital loan.
type Loan struct {
	OrderDateUtc      string      `json:"orderDateUtc"`
	LoanExpireDateUtc string      `json:"loanExpireDateUtc"`
	LibraryBook       LibraryBook `json:"libraryBook"`
}

// Loans is the hub's loan listing, including the patron's quota counters.
type Loans struct {
	UserData struct {
		TotalEbookLoans int `json:"totalEbookLoans"`
		TotalAudioLoans int `json:"totalAudioLoans"`
	} `json:"userData"`
	LibraryData struct {
		MaxConcurrentEbookLoansPerBorrower     int `json:"maxConcurrentEbookLoansPerBorrower"`
		MaxConcurrentAudiobookLoansPerBorrower int `json:"maxConcurrentAudiobookLoansPerBorrower"`
	} `json:"libraryData"`
	Loans []Loan `json:"loans"`
}

// Reservation is one digital reservation.
type Reservation struct {
	LibraryBook LibraryBook `json:"libraryBook"`
}

// Reservations is the hub's reservation listing.
type Reservations struct {
	Reservations []Reservation `json:"reservations"`
}

// Contributor is one listed author/narrator of a product.
type Contributor struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Product is the hub's catalog record for a digital title.
type Product struct {
	Title        string        `json:"title"`
	Format       string        `json:"format"`
	ThumbnailURI string        `json:"thumbnailUri"`
	Contributors []Contributor `json:"contributors"`
}
