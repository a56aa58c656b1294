package otp

import "time"

// Delivery methods accepted by Issue.
const (
	MethodEmail = "email"
	MethodPhone = "phone"
)

// Otp is an ephemeral verification record. It is created on issuance and
// deleted on successful verification; expired rows are removed by the sweep.
type Otp struct {
	ID        string
	Email     string
	Phone     string
	Code      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Contact identifies which user an OTP targets. At least one field must be
// set; email takes precedence when both are present.
type Contact struct {
	Email string
	Phone string
}

func (c Contact) empty() bool {
	return c.Email == "" && c.Phone == ""
}
