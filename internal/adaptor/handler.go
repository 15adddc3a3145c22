package adaptor

import (
	"account-service/internal/data/repository"
	"account-service/internal/usecase"
	"account-service/pkg/clients"
	"account-service/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth   *AuthHandler
	User   *UserHandler
	OAuth  *OAuthHandler
	Upload *UploadHandler
	Binder *SessionBinder
}

func NewHandler(
	service *usecase.Service,
	repo *repository.Repository,
	storage clients.BlobStorage,
	config *utils.Config,
	log *zap.Logger,
) *Handler {
	binder := NewSessionBinder(service.Token, repo.Session, config, log)

	return &Handler{
		Auth:   NewAuthHandler(service.Auth, binder, log),
		User:   NewUserHandler(service.Auth, service.User, log),
		OAuth:  NewOAuthHandler(service.Auth, binder, config, log),
		Upload: NewUploadHandler(storage, repo.User, log),
		Binder: binder,
	}
}
