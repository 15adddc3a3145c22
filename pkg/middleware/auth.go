package middleware

import (
	"net/http"
	"strings"

	"account-service/internal/usecase"
	"account-service/pkg/apperr"
	"account-service/pkg/utils"

	"go.uber.org/zap"
)

// Auth validates the session JWT from the Authorization header or the
// session cookie, loads the user through the directory (which rejects
// deactivated accounts), and stores identity on the request context.
func Auth(tokens usecase.TokenService, users usecase.UserService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			userID, err := tokens.VerifySession(token)
			if err != nil {
				logger.Warn("Invalid session token", zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				switch apperr.KindOf(err) {
				case apperr.KindForbidden:
					utils.ResponseForbidden(w, apperr.Message(err))
				case apperr.KindUnauthorized:
					utils.ResponseUnauthorized(w, apperr.Message(err))
				default:
					logger.Error("Failed to load session user", zap.Error(err), zap.Int64("user_id", userID))
					utils.ResponseInternalError(w, "Internal server error")
				}
				return
			}

			ctx := utils.SetUserContext(r.Context(), user.ID, string(user.Role))
			ctx = utils.SetTokenContext(ctx, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin requires the ADMIN role. Auth must have run first.
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := utils.GetRoleFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if role != "ADMIN" {
				userID, _ := utils.GetUserIDFromContext(r.Context())
				logger.Warn("Non-admin access attempt",
					zap.Int64("user_id", userID),
					zap.String("path", r.URL.Path),
				)
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractToken prefers the Authorization header, falling back to the session
// cookie so browser clients work without scripting headers.
func extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := r.Cookie("session"); err == nil {
		return cookie.Value
	}

	return ""
}
