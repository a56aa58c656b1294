package payments

import "time"

// Labels stamped onto synthesized payments. They stand in for a real payment
// processor integration.
const (
	methodCreditCard = "Credit Card"
	statusSuccess    = "Success"
)

// Payment is a billing record. Account and amount are assigned at creation
// and immutable afterwards; only BillFor may change.
type Payment struct {
	ID        string
	Date      time.Time
	BillFor   string
	Account   string
	Amount    float64
	Method    string
	Status    string
	CreatedAt time.Time
}
