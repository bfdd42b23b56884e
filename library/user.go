package library

// Credential is one end-user's login pair. Immutable once constructed and
// owned exclusively by the User it belongs to.
type Credential struct {
	UserID  string
	Pincode string
}

// maskedID returns the user id with everything but the last four characters
// hidden, for log lines.
func (c Credential) maskedID() string {
	if len(c.UserID) <= 4 {
		return c.UserID
	}
	return "…" + c.UserID[len(c.UserID)-4:]
}

// User is the per-patron snapshot the client maintains. Profile fields are
// populated once, on the first successful login; the four collections are
// fully replaced on every update cycle.
type User struct {
	Credential Credential

	Name         string
	Address      string
	Phone        string
	PhoneNotify  bool
	Mail         string
	MailNotify   bool
	PickupBranch string

	EBooks          int
	EBooksQuota     int
	AudioBooks      int
	AudioBooksQuota int

	Loans             []Loan
	Reservations      []Reservation
	ReservationsReady []ReservationReady
	Debts             []Debt
	DebtsAmount       float64
}

// NewUser creates a user around a credential with empty collections.
func NewUser(userID, pincode string) *User {
	return &User{
		Credential:        Credential{UserID: userID, Pincode: pincode},
		Loans:             []Loan{},
		Reservations:      []Reservation{},
		ReservationsReady: []ReservationReady{},
		Debts:             []Debt{},
	}
}
