package repository

import (
	"context"
	"fmt"

	"account-service/internal/data/entity"
	"account-service/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type UserMetaDataRepository interface {
	Upsert(ctx context.Context, meta *entity.UserMetaData) error
	FindByUserID(ctx context.Context, userID int64) (*entity.UserMetaData, error)
}

type userMetaDataRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserMetaDataRepository(db database.PgxIface, log *zap.Logger) UserMetaDataRepository {
	return &userMetaDataRepository{
		db:  db,
		log: log.With(zap.String("repository", "user_metadata")),
	}
}

func (r *userMetaDataRepository) Upsert(ctx context.Context, meta *entity.UserMetaData) error {
	query := `
		INSERT INTO user_metadata (user_id, ip, city, region, country, timezone, last_visit)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET ip = EXCLUDED.ip,
		    city = EXCLUDED.city,
		    region = EXCLUDED.region,
		    country = EXCLUDED.country,
		    timezone = EXCLUDED.timezone,
		    last_visit = EXCLUDED.last_visit
	`

	_, err := r.db.Exec(ctx, query,
		meta.UserID,
		meta.IP,
		meta.City,
		meta.Region,
		meta.Country,
		meta.Timezone,
		meta.LastVisit,
	)

	if err != nil {
		r.log.Error("Failed to upsert user metadata", zap.Error(err), zap.Int64("user_id", meta.UserID))
		return fmt.Errorf("upsert metadata for user %d: %w", meta.UserID, err)
	}

	return nil
}

func (r *userMetaDataRepository) FindByUserID(ctx context.Context, userID int64) (*entity.UserMetaData, error) {
	query := `
		SELECT user_id, ip, city, region, country, timezone, last_visit
		FROM user_metadata
		WHERE user_id = $1
	`

	var meta entity.UserMetaData
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&meta.UserID,
		&meta.IP,
		&meta.City,
		&meta.Region,
		&meta.Country,
		&meta.Timezone,
		&meta.LastVisit,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find user metadata", zap.Error(err), zap.Int64("user_id", userID))
		return nil, fmt.Errorf("find metadata for user %d: %w", userID, err)
	}

	return &meta, nil
}
