package entity

import "time"

// EmailOtp is one row per email. A new send overwrites the previous row, the
// code is consumed by comparison, never deleted. Only the bcrypt hash of the
// code is stored.
type EmailOtp struct {
	ID        int64     `db:"id"`
	Email     string    `db:"email"`
	OTPHash   string    `db:"otp"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}
