package wire

import (
	"account-service/internal/adaptor"
	"account-service/internal/usecase"
	"account-service/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireUser configures profile and admin routes with role-based access control
func wireUser(
	r chi.Router,
	handler *adaptor.Handler,
	service *usecase.Service,
	log *zap.Logger,
) {
	auth := middleware.Auth(service.Token, service.User, log)

	// ==================== PROTECTED USER ROUTES ====================
	r.With(auth).Route("/me", func(r chi.Router) {
		r.Get("/", handler.User.GetMe)
		r.Patch("/", handler.User.EditMe)
		r.Post("/photo", handler.Upload.UploadPhoto)
	})

	// ==================== ADMIN ROUTES ====================
	r.With(
		auth,                  // Check valid session
		middleware.Admin(log), // Check admin role
	).Route("/admin/users", func(r chi.Router) {
		r.Get("/", handler.User.GetUsers) // GET /admin/users?query=
		r.Get("/{username}", handler.User.GetUser)
		r.Delete("/{username}", handler.User.DeleteUser)
	})
}
