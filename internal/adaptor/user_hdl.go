package adaptor

import (
	"encoding/json"
	"net/http"

	"account-service/internal/data/entity"
	"account-service/internal/dto/request"
	"account-service/internal/usecase"
	"account-service/pkg/apperr"
	"account-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	auth  usecase.AuthService
	users usecase.UserService
	log   *zap.Logger
}

func NewUserHandler(auth usecase.AuthService, users usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		auth:  auth,
		users: users,
		log:   log,
	}
}

// GetMe handles GET /me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.auth.GetMe(r.Context(), userID, clientIP(r))
	if err != nil {
		respondError(w, h.log, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved successfully", profile)
}

// EditMe handles PATCH /me
func (h *UserHandler) EditMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.EditMeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	profile, err := h.auth.EditMe(r.Context(), userID, &req)
	if err != nil {
		respondError(w, h.log, err, "edit profile")
		return
	}

	utils.ResponseSuccess(w, "Profile updated successfully", profile)
}

// GetUsers handles GET /admin/users?query=
func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	actor, err := h.requireActor(r)
	if err != nil {
		respondError(w, h.log, err, "list users")
		return
	}

	users, err := h.users.GetUsers(r.Context(), actor, r.URL.Query().Get("query"))
	if err != nil {
		respondError(w, h.log, err, "list users")
		return
	}

	utils.ResponseSuccess(w, "Users retrieved successfully", users)
}

// GetUser handles GET /admin/users/{username}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	actor, err := h.requireActor(r)
	if err != nil {
		respondError(w, h.log, err, "get user")
		return
	}

	user, err := h.users.GetUser(r.Context(), actor, chi.URLParam(r, "username"))
	if err != nil {
		respondError(w, h.log, err, "get user")
		return
	}

	utils.ResponseSuccess(w, "User retrieved successfully", user)
}

// DeleteUser handles DELETE /admin/users/{username}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, err := h.requireActor(r)
	if err != nil {
		respondError(w, h.log, err, "delete user")
		return
	}

	if err := h.users.DeleteUser(r.Context(), actor, chi.URLParam(r, "username")); err != nil {
		respondError(w, h.log, err, "delete user")
		return
	}

	utils.ResponseSuccess(w, "User deleted successfully", nil)
}

// requireActor loads the authenticated user for admin operations. The auth
// middleware already verified the session, the directory gate re-checks the
// account state.
func (h *UserHandler) requireActor(r *http.Request) (*entity.User, error) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return nil, apperr.Unauthorized("Authentication required")
	}

	user, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}
