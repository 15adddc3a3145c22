package entity

import "time"

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// User is the identity record. Email and username are stored lowercase and
// unique. ResetPasswordToken and VerificationToken never leave the service
// layer.
type User struct {
	ID                 int64     `db:"id"`
	Role               UserRole  `db:"role"`
	FirstName          string    `db:"first_name"`
	LastName           string    `db:"last_name"`
	Email              string    `db:"email"`
	Username           string    `db:"username"`
	Phone              *string   `db:"phone"`
	Photo              *string   `db:"photo"`
	PasswordHash       string    `db:"password"`
	ResetPasswordToken *string   `db:"reset_password_token"`
	VerificationToken  *string   `db:"verification_token"`
	IsActive           bool      `db:"is_active"`
	IsVerified         bool      `db:"is_verified"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`

	MetaData *UserMetaData
}
