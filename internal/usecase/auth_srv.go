package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"account-service/internal/data/entity"
	"account-service/internal/data/repository"
	"account-service/internal/dto/request"
	"account-service/internal/dto/response"
	"account-service/pkg/apperr"
	"account-service/pkg/clients"
	"account-service/pkg/mailer"
	"account-service/pkg/utils"

	"go.uber.org/zap"
)

// AuthService orchestrates the authentication flows by calling the user
// directory, the token service and the notification sender in sequence.
type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*entity.User, error)
	Login(ctx context.Context, req *request.LoginRequest) (*entity.User, error)
	SendOTP(ctx context.Context, email string) error
	LoginOTP(ctx context.Context, req *request.LoginOtpRequest) (*entity.User, error)
	OAuthLogin(ctx context.Context, email string) (*entity.User, error)
	Logout(ctx context.Context, sessionToken string) error
	GetMe(ctx context.Context, userID int64, ip string) (*response.UserResponse, error)
	EditMe(ctx context.Context, userID int64, req *request.EditMeRequest) (*response.UserResponse, error)
	VerifyEmail(ctx context.Context, userID int64, req *request.EmailVerificationRequest) error
	ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) (*response.MessageResponse, error)
	ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error
}

type authService struct {
	repo   *repository.Repository
	users  UserService
	tokens TokenService
	mail   mailer.Sender
	geo    clients.Geolocator
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	users UserService,
	tokens TokenService,
	mail mailer.Sender,
	geo clients.Geolocator,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		users:  users,
		tokens: tokens,
		mail:   mail,
		geo:    geo,
		config: config,
		log:    log,
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*entity.User, error) {
	user, err := s.users.CreateUser(ctx, req)
	if err != nil {
		return nil, err
	}

	// Verification code delivery does not hold up the response
	go s.sendVerificationCode(user.ID, user.Email, user.FirstName)

	s.log.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email),
	)

	return user, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*entity.User, error) {
	user, err := s.users.FindByEmailOrUsername(ctx, req.EmailOrUsername)
	if err != nil {
		return nil, err
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.Int64("user_id", user.ID))
		return nil, apperr.Unauthorized("Invalid password")
	}

	s.log.Info("User logged in",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
	)

	return user, nil
}

func (s *authService) SendOTP(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	code := utils.GenerateVerificationCode()
	codeHash, err := utils.HashPassword(code)
	if err != nil {
		return apperr.Internal("failed to generate OTP", err)
	}

	otp := &entity.EmailOtp{
		Email:     user.Email,
		OTPHash:   codeHash,
		ExpiresAt: time.Now().Add(time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute),
	}

	// Persist and send concurrently, await both. A failed send after a
	// successful write is not compensated, the user re-requests.
	storeErr, sendErr := inParallel(
		func() error { return s.repo.EmailOtp.Upsert(ctx, otp) },
		func() error { return s.mail.SendOTP(user.Email, user.FirstName, code) },
	)
	if storeErr != nil {
		return apperr.Internal("failed to store OTP", storeErr)
	}
	if sendErr != nil {
		return apperr.Internal("failed to send OTP", sendErr)
	}

	s.log.Info("OTP sent", zap.String("email", user.Email))
	return nil
}

func (s *authService) LoginOTP(ctx context.Context, req *request.LoginOtpRequest) (*entity.User, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	otp, err := s.repo.EmailOtp.FindByEmail(ctx, user.Email)
	if err != nil {
		return nil, apperr.Internal("failed to look up OTP", err)
	}
	if otp == nil {
		return nil, apperr.InvalidInput("Invalid one-time password")
	}

	if !utils.CheckPasswordHash(req.OTP, otp.OTPHash) {
		s.log.Warn("OTP mismatch", zap.String("email", user.Email))
		return nil, apperr.InvalidInput("Invalid one-time password")
	}

	// Expiry is checked after the hash compare, a matching but stale code
	// still fails
	if time.Now().After(otp.ExpiresAt) {
		return nil, apperr.Expired("The one-time password has expired")
	}

	s.log.Info("User logged in via OTP", zap.Int64("user_id", user.ID))
	return user, nil
}

// OAuthLogin resolves the provider-reported email to a local account. There
// is no auto-provisioning: an unknown email is rejected.
func (s *authService) OAuthLogin(ctx context.Context, email string) (*entity.User, error) {
	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal("failed to find user", err)
	}
	if user == nil {
		return nil, apperr.Unauthorized("User not found")
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("User has been deactivated")
	}

	s.log.Info("User logged in via OAuth", zap.Int64("user_id", user.ID))
	return user, nil
}

// Logout revokes the session row recorded for this token at login time. A
// missing row is not an error, the handler clears the cookie either way and
// the JWT expires on its own.
func (s *authService) Logout(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}

	session, err := s.repo.Session.FindValidSession(ctx, sessionToken)
	if err != nil {
		return apperr.Internal("failed to log out", err)
	}
	if session == nil {
		return nil
	}

	if err := s.repo.Session.Revoke(ctx, sessionToken); err != nil {
		return apperr.Internal("failed to log out", err)
	}

	s.log.Info("Session revoked", zap.Int64("user_id", session.UserID))
	return nil
}

func (s *authService) GetMe(ctx context.Context, userID int64, ip string) (*response.UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Geolocation and the metadata upsert are best-effort, they never block
	// the response
	location, err := s.geo.Lookup(ctx, ip)
	if err != nil {
		s.log.Warn("Geolocation lookup failed", zap.Error(err), zap.String("ip", ip))
		location = &clients.Location{}
	}

	meta := &entity.UserMetaData{
		UserID:    user.ID,
		IP:        optional(ip),
		City:      optional(location.City),
		Region:    optional(location.Region),
		Country:   optional(location.Country),
		Timezone:  optional(location.Timezone),
		LastVisit: time.Now(),
	}

	if err := s.repo.MetaData.Upsert(ctx, meta); err != nil {
		s.log.Warn("Metadata upsert failed", zap.Error(err), zap.Int64("user_id", user.ID))
	} else {
		user.MetaData = meta
	}

	return response.UserToResponse(user), nil
}

func (s *authService) EditMe(ctx context.Context, userID int64, req *request.EditMeRequest) (*response.UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		username := strings.ToLower(*req.Username)
		if username != user.Username {
			existing, err := s.repo.User.FindByUsername(ctx, username)
			if err != nil {
				return nil, apperr.Internal("failed to check username", err)
			}
			if existing != nil {
				return nil, apperr.Conflict("Username is already taken")
			}
		}
		user.Username = username
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	if req.Phone != nil {
		user.Phone = req.Phone
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, apperr.Internal("failed to update profile", err)
	}

	s.log.Info("Profile updated", zap.Int64("user_id", user.ID))
	return response.UserToResponse(user), nil
}

func (s *authService) VerifyEmail(ctx context.Context, userID int64, req *request.EmailVerificationRequest) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.IsVerified {
		return apperr.InvalidInput("User is already verified")
	}

	if user.VerificationToken == nil || !utils.CheckPasswordHash(req.Code, *user.VerificationToken) {
		return apperr.Conflict("The code does not match")
	}

	if err := s.repo.User.SetVerified(ctx, user.ID); err != nil {
		return apperr.Internal("failed to verify email", err)
	}

	s.log.Info("Email verified", zap.Int64("user_id", user.ID))
	return nil
}

func (s *authService) ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) (*response.MessageResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateResetPasswordToken(user.ID)
	if err != nil {
		return nil, apperr.Internal("failed to generate reset token", err)
	}

	link := fmt.Sprintf("%s/password/reset?identification_token=%s", s.config.Frontend.BaseURL, token)

	storeErr, sendErr := inParallel(
		func() error { return s.repo.User.UpdateResetToken(ctx, user.ID, &token) },
		func() error { return s.mail.SendPasswordReset(user.Email, user.FirstName, link) },
	)
	if storeErr != nil {
		return nil, apperr.Internal("failed to store reset token", storeErr)
	}
	if sendErr != nil {
		return nil, apperr.Internal("failed to send reset link", sendErr)
	}

	s.log.Info("Password reset link sent", zap.Int64("user_id", user.ID))
	return &response.MessageResponse{
		Message: fmt.Sprintf("A password reset link was sent to %s", user.Email),
	}, nil
}

func (s *authService) ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error {
	userID, err := s.tokens.CompareResetPasswordToken(req.IdentificationToken)
	if err != nil {
		return err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return apperr.Internal("failed to hash password", err)
	}

	if err := s.repo.User.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return apperr.Internal("failed to update password", err)
	}

	// Open sessions were authenticated by the old password
	if err := s.repo.Session.RevokeAllUserSessions(ctx, userID); err != nil {
		s.log.Warn("Failed to revoke sessions after password reset", zap.Error(err), zap.Int64("user_id", userID))
	}

	s.log.Info("Password reset", zap.Int64("user_id", userID))
	return nil
}

// sendVerificationCode stores the bcrypt hash of a fresh 6-digit code on the
// user and emails the plaintext, both sides awaited, neither rolled back.
func (s *authService) sendVerificationCode(userID int64, email, firstName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	code := utils.GenerateVerificationCode()
	codeHash, err := utils.HashPassword(code)
	if err != nil {
		s.log.Error("Failed to hash verification code", zap.Error(err), zap.Int64("user_id", userID))
		return
	}

	storeErr, sendErr := inParallel(
		func() error { return s.repo.User.UpdateVerificationToken(ctx, userID, &codeHash) },
		func() error { return s.mail.SendVerificationCode(email, firstName, code) },
	)
	if storeErr != nil {
		s.log.Error("Failed to store verification code", zap.Error(storeErr), zap.Int64("user_id", userID))
	}
	if sendErr != nil {
		s.log.Error("Failed to send verification code", zap.Error(sendErr), zap.Int64("user_id", userID))
	}
}

// inParallel runs two independent side effects concurrently and returns both
// results once both finished.
func inParallel(first, second func() error) (error, error) {
	var firstErr, secondErr error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		firstErr = first()
	}()
	go func() {
		defer wg.Done()
		secondErr = second()
	}()

	wg.Wait()
	return firstErr, secondErr
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
