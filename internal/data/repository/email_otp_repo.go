package repository

import (
	"context"
	"fmt"

	"account-service/internal/data/entity"
	"account-service/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type EmailOtpRepository interface {
	Upsert(ctx context.Context, otp *entity.EmailOtp) error
	FindByEmail(ctx context.Context, email string) (*entity.EmailOtp, error)
}

type emailOtpRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewEmailOtpRepository(db database.PgxIface, log *zap.Logger) EmailOtpRepository {
	return &emailOtpRepository{
		db:  db,
		log: log.With(zap.String("repository", "email_otp")),
	}
}

// Upsert keeps exactly one OTP row per email. A stale row is simply
// overwritten by the next send.
func (r *emailOtpRepository) Upsert(ctx context.Context, otp *entity.EmailOtp) error {
	query := `
		INSERT INTO email_otps (email, otp, expires_at, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (email) DO UPDATE
		SET otp = EXCLUDED.otp,
		    expires_at = EXCLUDED.expires_at
	`

	_, err := r.db.Exec(ctx, query,
		otp.Email,
		otp.OTPHash,
		otp.ExpiresAt,
	)

	if err != nil {
		r.log.Error("Failed to upsert OTP", zap.Error(err), zap.String("email", otp.Email))
		return fmt.Errorf("upsert OTP for %s: %w", otp.Email, err)
	}

	return nil
}

func (r *emailOtpRepository) FindByEmail(ctx context.Context, email string) (*entity.EmailOtp, error) {
	query := `
		SELECT id, email, otp, expires_at, created_at
		FROM email_otps
		WHERE email = $1
	`

	var otp entity.EmailOtp
	err := r.db.QueryRow(ctx, query, email).Scan(
		&otp.ID,
		&otp.Email,
		&otp.OTPHash,
		&otp.ExpiresAt,
		&otp.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find OTP", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find OTP for %s: %w", email, err)
	}

	return &otp, nil
}
