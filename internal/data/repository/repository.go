package repository

import (
	"account-service/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User     UserRepository
	MetaData UserMetaDataRepository
	EmailOtp EmailOtpRepository
	Session  SessionRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:     NewUserRepository(db, log),
		MetaData: NewUserMetaDataRepository(db, log),
		EmailOtp: NewEmailOtpRepository(db, log),
		Session:  NewSessionRepository(db, log),
	}
}
