package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"account-service/internal/data/entity"
	"account-service/internal/data/repository"
	"account-service/internal/dto/request"
	"account-service/internal/dto/response"
	"account-service/pkg/apperr"
	"account-service/pkg/clients"
	"account-service/pkg/utils"

	"go.uber.org/zap"
)

const usernameRetries = 5

// UserService is the user directory: it creates and looks up user records,
// enforces email/username uniqueness and applies the active-account gate on
// every lookup path.
type UserService interface {
	CreateUser(ctx context.Context, req *request.RegisterRequest) (*entity.User, error)
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByEmailOrUsername(ctx context.Context, emailOrUsername string) (*entity.User, error)

	GetUsers(ctx context.Context, actor *entity.User, query string) (*response.UsersResponse, error)
	GetUser(ctx context.Context, actor *entity.User, username string) (*response.UserResponse, error)
	DeleteUser(ctx context.Context, actor *entity.User, username string) error
}

type userService struct {
	repo     *repository.Repository
	verifier clients.EmailVerifier
	log      *zap.Logger
}

func NewUserService(repo *repository.Repository, verifier clients.EmailVerifier, log *zap.Logger) UserService {
	return &userService{
		repo:     repo,
		verifier: verifier,
		log:      log,
	}
}

func (us *userService) CreateUser(ctx context.Context, req *request.RegisterRequest) (*entity.User, error) {
	email := strings.ToLower(req.Email)

	existing, err := us.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal("failed to check email", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("User already exists")
	}

	deliverable, err := us.verifier.Verify(ctx, email)
	if err != nil {
		return nil, apperr.Internal("failed to verify email", err)
	}
	if !deliverable {
		return nil, apperr.InvalidInput("Your email address is invalid")
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	username, err := us.generateUniqueUsername(ctx, email)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		Role:         entity.RoleUser,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        email,
		Username:     username,
		Photo:        req.Photo,
		PasswordHash: hashedPassword,
		IsActive:     true,
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := us.repo.User.Create(ctx, user); err != nil {
		return nil, apperr.Internal("failed to create account", err)
	}

	us.log.Info("User created",
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email),
		zap.String("username", user.Username),
	)

	return user, nil
}

func (us *userService) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	user, err := us.repo.User.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to find user", err)
	}
	if user != nil {
		user.MetaData, _ = us.repo.MetaData.FindByUserID(ctx, user.ID)
	}
	return gate(user)
}

func (us *userService) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := us.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal("failed to find user", err)
	}
	return gate(user)
}

func (us *userService) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := us.repo.User.FindByUsername(ctx, username)
	if err != nil {
		return nil, apperr.Internal("failed to find user", err)
	}
	return gate(user)
}

func (us *userService) FindByEmailOrUsername(ctx context.Context, emailOrUsername string) (*entity.User, error) {
	user, err := us.repo.User.FindByEmailOrUsername(ctx, emailOrUsername)
	if err != nil {
		return nil, apperr.Internal("failed to find user", err)
	}
	return gate(user)
}

// GetUsers lists users for the admin surface, optionally filtered by a name
// or email search.
func (us *userService) GetUsers(ctx context.Context, actor *entity.User, query string) (*response.UsersResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	users, err := us.repo.User.Search(ctx, query)
	if err != nil {
		return nil, apperr.Internal("failed to list users", err)
	}

	return response.UsersToResponse(users), nil
}

func (us *userService) GetUser(ctx context.Context, actor *entity.User, username string) (*response.UserResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := requireTextualUsername(username); err != nil {
		return nil, err
	}

	user, err := us.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return response.UserToResponse(user), nil
}

func (us *userService) DeleteUser(ctx context.Context, actor *entity.User, username string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := requireTextualUsername(username); err != nil {
		return err
	}

	user, err := us.FindByUsername(ctx, username)
	if err != nil {
		return err
	}

	if user.ID == actor.ID {
		return apperr.Forbidden("You cannot delete yourself, please ask someone with the admin role")
	}

	if err := us.repo.User.Delete(ctx, user.ID); err != nil {
		return apperr.Internal("failed to delete user", err)
	}

	us.log.Info("User deleted by admin",
		zap.Int64("user_id", user.ID),
		zap.Int64("actor_id", actor.ID),
	)

	return nil
}

// generateUniqueUsername derives a username from the email local-part. On
// collision a millisecond-timestamp suffix is appended and the check is
// retried, a plain timestamp alone is racy under concurrent registration.
func (us *userService) generateUniqueUsername(ctx context.Context, email string) (string, error) {
	base := strings.TrimSpace(strings.Split(strings.ToLower(email), "@")[0])

	candidate := base
	for attempt := 0; attempt < usernameRetries; attempt++ {
		existing, err := us.repo.User.FindByUsername(ctx, candidate)
		if err != nil {
			return "", apperr.Internal("failed to check username", err)
		}
		if existing == nil {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, time.Now().UnixMilli())
	}

	return "", apperr.Internal("failed to generate a unique username",
		fmt.Errorf("exhausted %d attempts for %s", usernameRetries, base))
}

// gate is the single post-lookup policy applied to every directory lookup:
// a missing row is unauthorized, a deactivated account is forbidden.
func gate(user *entity.User) (*entity.User, error) {
	if user == nil {
		return nil, apperr.Unauthorized("User not found")
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("User has been deactivated")
	}
	return user, nil
}

func requireAdmin(actor *entity.User) error {
	if actor == nil || actor.Role != entity.RoleAdmin {
		return apperr.Forbidden("You do not have the required permission to manage users")
	}
	return nil
}

// requireTextualUsername rejects numeric path parameters, user ids are not
// accepted where a username is expected.
func requireTextualUsername(username string) error {
	if _, err := strconv.Atoi(username); err == nil {
		return apperr.Conflict("The username parameter must be a string")
	}
	return nil
}
