package domain

import "time"

// User is an account record persisted by the user store. Passwords are
// stored only as bcrypt hashes.
type User struct {
	ID                int64      `json:"id"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	Mobile            string     `json:"mobile,omitempty"`
	EmailVerified     bool       `json:"email_verified"`
	VerificationToken string     `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	LastLogin         *time.Time `json:"last_login,omitempty"`
}
