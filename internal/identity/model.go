package identity

import "time"

// User represents a registered account holder. The password is stored only as
// a bcrypt hash; the plaintext never leaves the signup request.
type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash []byte
	Phone        string
	CreatedAt    time.Time
}

// Signup carries the fields required to create an account.
type Signup struct {
	FullName string
	Email    string
	Password string
	Phone    string
}
