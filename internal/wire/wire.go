// internal/wire/wire.go
package wire

import (
	"net/http"

	"account-service/internal/adaptor"
	"account-service/internal/data/repository"
	"account-service/internal/usecase"
	"account-service/pkg/clients"
	"account-service/pkg/mailer"
	"account-service/pkg/middleware"
	"account-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the fully wired router
type App struct {
	Router *chi.Mux
}

// Wiring initializes services and handlers and mounts every route
func Wiring(
	repo *repository.Repository,
	config *utils.Config,
	mail mailer.Sender,
	geo clients.Geolocator,
	verifier clients.EmailVerifier,
	storage clients.BlobStorage,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, config, mail, geo, verifier, logger)
	handler := adaptor.NewHandler(service, repo, storage, config, logger)

	router := setupRouter(handler, service, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireAuth(r, handler, service, logger)
	wireUser(r, handler, service, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
