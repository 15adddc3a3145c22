package wire

import (
	"account-service/internal/adaptor"
	"account-service/internal/usecase"
	"account-service/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	handler *adaptor.Handler,
	service *usecase.Service,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/register", handler.Auth.Register)
	r.Post("/login", handler.Auth.Login)
	r.Post("/send-otp", handler.Auth.SendOTP)
	r.Post("/login-otp", handler.Auth.LoginOTP)
	r.Post("/password/forgot", handler.Auth.ForgotPassword)
	r.Post("/password/reset", handler.Auth.ResetPassword)

	// Google OAuth code flow
	r.Get("/google/login", handler.OAuth.GoogleLogin)
	r.Get("/google/callback", handler.OAuth.GoogleCallback)

	// ==================== PROTECTED ROUTES ====================
	auth := middleware.Auth(service.Token, service.User, log)

	// GET is kept alongside POST so plain browser navigation can log out
	r.With(auth).Get("/logout", handler.Auth.Logout)
	r.With(auth).Post("/logout", handler.Auth.Logout)

	r.With(auth).Post("/email-verification", handler.Auth.VerifyEmail)
}
