package fbs

// Patron is the profile section of the patron endpoint.
type Patron struct {
	Name    string `json:"name"`
	Address struct {
		Street     string `json:"street"`
		PostalCode string `json:"postalCode"`
		City       string `json:"city"`
	} `json:"address"`
	PhoneNumber           string `json:"phoneNumber"`
	ReceiveSms            bool   `json:"receiveSms"`
	EmailAddress          string `json:"emailAddress"`
	ReceiveEmail          bool   `json:"receiveEmail"`
	PreferredPickupBranch string `json:"preferredPickupBranch"`
}

// Loan is one physical loan record.
type Loan struct {
	IsRenewable bool        `json:"isRenewable"`
	LoanDetails LoanDetails `json:"loanDetails"`
}

// LoanDetails carries the circulation side of a loan.
type LoanDetails struct {
	RecordID           string `json:"recordId"`
	LoanID             string `json:"loanId"`
	LoanDate           string `json:"loanDate"`
	DueDate            string `json:"dueDate"`
	MaterialItemNumber string `json:"materialItemNumber"`
}

// StateReadyForPickup marks a reservation waiting on the pickup shelf.
const StateReadyForPickup = "readyForPickup"

// Reservation is one physical reservation record.
type Reservation struct {
	TransactionID     string `json:"transactionId"`
	RecordID          string `json:"recordId"`
	State             string `json:"state"`
	DateOfReservation string `json:"dateOfReservation"`
	ExpiryDate        string `json:"expiryDate"`
	NumberInQueue     *int   `json:"numberInQueue"`
	PickupBranch      string `json:"pickupBranch"`
	PickupNumber      string `json:"pickupNumber"`
	PickupDeadline    string `json:"pickupDeadline"`
}

// Fee is one outstanding fee. Amount arrives as a structured number on this
// backend.
type Fee struct {
	FeeID        int           `json:"feeId"`
	Type         string        `json:"type"`
	Amount       float64       `json:"amount"`
	CreationDate string        `json:"creationDate"`
	DueDate      string        `json:"dueDate"`
	Materials    []FeeMaterial `json:"materials"`
}

// FeeMaterial links a fee to a bibliographic record.
type FeeMaterial struct {
	RecordID           string `json:"recordId"`
	MaterialItemNumber string `json:"materialItemNumber"`
}
