package repository

import (
	"context"
	"fmt"
	"strings"

	"account-service/internal/data/entity"
	"account-service/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const userColumns = `id, role, first_name, last_name, email, username, phone, photo,
	       password, reset_password_token, verification_token,
	       is_active, is_verified, created_at, updated_at`

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByEmailOrUsername(ctx context.Context, emailOrUsername string) (*entity.User, error)
	Search(ctx context.Context, query string) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateResetToken(ctx context.Context, id int64, token *string) error
	UpdateVerificationToken(ctx context.Context, id int64, tokenHash *string) error
	SetVerified(ctx context.Context, id int64) error
	UpdatePhoto(ctx context.Context, id int64, photoURL string) error
	Delete(ctx context.Context, id int64) error
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

// Create inserts a new user record and fills in the generated id.
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (role, first_name, last_name, email, username, phone, photo,
		                   password, verification_token, is_active, is_verified,
		                   created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	err := ur.db.QueryRow(ctx, query,
		user.Role,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Username,
		user.Phone,
		user.Photo,
		user.PasswordHash,
		user.VerificationToken,
		user.IsActive,
		user.IsVerified,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)

	if err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
			zap.String("username", user.Username),
		)
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	user, err := ur.scanOne(ur.db.QueryRow(ctx, query, id))
	if err != nil {
		ur.log.Error("Failed to find user by ID", zap.Error(err), zap.Int64("user_id", id))
		return nil, fmt.Errorf("find user by ID %d: %w", id, err)
	}

	return user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	user, err := ur.scanOne(ur.db.QueryRow(ctx, query, strings.ToLower(email)))
	if err != nil {
		ur.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}

	return user, nil
}

func (ur *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1`, userColumns)

	user, err := ur.scanOne(ur.db.QueryRow(ctx, query, strings.ToLower(username)))
	if err != nil {
		ur.log.Error("Failed to find user by username", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("find user by username %s: %w", username, err)
	}

	return user, nil
}

func (ur *userRepository) FindByEmailOrUsername(ctx context.Context, emailOrUsername string) (*entity.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1 OR username = $1`, userColumns)

	user, err := ur.scanOne(ur.db.QueryRow(ctx, query, strings.ToLower(emailOrUsername)))
	if err != nil {
		ur.log.Error("Failed to find user by email or username",
			zap.Error(err), zap.String("identifier", emailOrUsername))
		return nil, fmt.Errorf("find user by email or username %s: %w", emailOrUsername, err)
	}

	return user, nil
}

// Search lists users, optionally filtered by a case-insensitive match on
// name or email.
func (ur *userRepository) Search(ctx context.Context, searchQuery string) ([]*entity.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE ($1 = ''
		   OR first_name ILIKE '%%' || $1 || '%%'
		   OR last_name ILIKE '%%' || $1 || '%%'
		   OR email ILIKE '%%' || $1 || '%%')
		ORDER BY created_at DESC
	`, userColumns)

	rows, err := ur.db.Query(ctx, query, searchQuery)
	if err != nil {
		ur.log.Error("Failed to search users", zap.Error(err), zap.String("query", searchQuery))
		return nil, fmt.Errorf("search users %q: %w", searchQuery, err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		var user entity.User
		if err := scanUser(rows, &user); err != nil {
			ur.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		ur.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}

	return users, nil
}

func (ur *userRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, username = $4, phone = $5,
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := ur.db.Exec(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Username,
		user.Phone,
	)

	if err != nil {
		ur.log.Error("Failed to update user", zap.Error(err), zap.Int64("user_id", user.ID))
		return fmt.Errorf("update user %d: %w", user.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", user.ID)
	}

	return nil
}

func (ur *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return ur.setColumn(ctx, id, "password", passwordHash)
}

func (ur *userRepository) UpdateResetToken(ctx context.Context, id int64, token *string) error {
	return ur.setColumn(ctx, id, "reset_password_token", token)
}

func (ur *userRepository) UpdateVerificationToken(ctx context.Context, id int64, tokenHash *string) error {
	return ur.setColumn(ctx, id, "verification_token", tokenHash)
}

func (ur *userRepository) SetVerified(ctx context.Context, id int64) error {
	return ur.setColumn(ctx, id, "is_verified", true)
}

func (ur *userRepository) UpdatePhoto(ctx context.Context, id int64, photoURL string) error {
	return ur.setColumn(ctx, id, "photo", photoURL)
}

func (ur *userRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := ur.db.Exec(ctx, query, id)
	if err != nil {
		ur.log.Error("Failed to delete user", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", id)
	}

	ur.log.Info("User deleted", zap.Int64("id", id))
	return nil
}

// setColumn updates a single column on a user row. The column name is always
// a compile-time constant from this file, never caller input.
func (ur *userRepository) setColumn(ctx context.Context, id int64, column string, value any) error {
	query := fmt.Sprintf(`UPDATE users SET %s = $2, updated_at = NOW() WHERE id = $1`, column)

	result, err := ur.db.Exec(ctx, query, id, value)
	if err != nil {
		ur.log.Error("Failed to update user column",
			zap.Error(err),
			zap.Int64("user_id", id),
			zap.String("column", column),
		)
		return fmt.Errorf("update user %d %s: %w", id, column, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", id)
	}

	return nil
}

// scanOne maps pgx.ErrNoRows to (nil, nil), matching the other lookups.
func (ur *userRepository) scanOne(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := scanUser(row, &user)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func scanUser(row pgx.Row, user *entity.User) error {
	return row.Scan(
		&user.ID,
		&user.Role,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Username,
		&user.Phone,
		&user.Photo,
		&user.PasswordHash,
		&user.ResetPasswordToken,
		&user.VerificationToken,
		&user.IsActive,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}
