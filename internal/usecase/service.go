package usecase

import (
	"account-service/internal/data/repository"
	"account-service/pkg/clients"
	"account-service/pkg/mailer"
	"account-service/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Token TokenService
	User  UserService
	Auth  AuthService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	mail mailer.Sender,
	geo clients.Geolocator,
	verifier clients.EmailVerifier,
	log *zap.Logger,
) *Service {
	tokens := NewTokenService(config.JWT)
	users := NewUserService(repo, verifier, log)
	auth := NewAuthService(repo, users, tokens, mail, geo, config, log)

	return &Service{
		Token: tokens,
		User:  users,
		Auth:  auth,
	}
}
