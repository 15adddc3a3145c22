package adaptor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"account-service/internal/data/entity"
	"account-service/internal/dto/request"
	"account-service/internal/dto/response"
	"account-service/internal/usecase"
	"account-service/pkg/utils"

	"go.uber.org/zap"
)

func testConfig() *utils.Config {
	return &utils.Config{
		App: utils.AppConfig{Env: "development"},
		JWT: utils.JWTConfig{
			Secret:              "test-secret-key",
			SessionExpiryMin:    30,
			ResetTokenExpiryMin: 2,
		},
		Frontend: utils.FrontendConfig{BaseURL: "http://localhost:3000"},
	}
}

func testUser() *entity.User {
	now := time.Now()
	return &entity.User{
		ID:           1,
		Role:         entity.RoleUser,
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        "jane@example.com",
		Username:     "jane",
		PasswordHash: "$2a$10$secret-hash-never-shown",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// fakeAuthService returns canned results so handler tests exercise only the
// HTTP mapping.
type fakeAuthService struct {
	user      *entity.User
	profile   *response.UserResponse
	err       error
	logoutTok string
	otpEmails []string
}

func (f *fakeAuthService) Register(ctx context.Context, req *request.RegisterRequest) (*entity.User, error) {
	return f.user, f.err
}

func (f *fakeAuthService) Login(ctx context.Context, req *request.LoginRequest) (*entity.User, error) {
	return f.user, f.err
}

func (f *fakeAuthService) SendOTP(ctx context.Context, email string) error {
	f.otpEmails = append(f.otpEmails, email)
	return f.err
}

func (f *fakeAuthService) LoginOTP(ctx context.Context, req *request.LoginOtpRequest) (*entity.User, error) {
	return f.user, f.err
}

func (f *fakeAuthService) OAuthLogin(ctx context.Context, email string) (*entity.User, error) {
	return f.user, f.err
}

func (f *fakeAuthService) Logout(ctx context.Context, sessionToken string) error {
	f.logoutTok = sessionToken
	return f.err
}

func (f *fakeAuthService) GetMe(ctx context.Context, userID int64, ip string) (*response.UserResponse, error) {
	return f.profile, f.err
}

func (f *fakeAuthService) EditMe(ctx context.Context, userID int64, req *request.EditMeRequest) (*response.UserResponse, error) {
	return f.profile, f.err
}

func (f *fakeAuthService) VerifyEmail(ctx context.Context, userID int64, req *request.EmailVerificationRequest) error {
	return f.err
}

func (f *fakeAuthService) ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) (*response.MessageResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &response.MessageResponse{Message: "A password reset link was sent"}, nil
}

func (f *fakeAuthService) ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error {
	return f.err
}

// fakeSessionStore records the rows the binder mints.
type fakeSessionStore struct {
	created []*entity.Session
	revoked []string
}

func (f *fakeSessionStore) Create(ctx context.Context, session *entity.Session) error {
	f.created = append(f.created, session)
	return nil
}

func (f *fakeSessionStore) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	for _, session := range f.created {
		if session.Token == token && session.RevokedAt == nil {
			return session, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionStore) Revoke(ctx context.Context, token string) error {
	f.revoked = append(f.revoked, token)
	return nil
}

func (f *fakeSessionStore) RevokeAllUserSessions(ctx context.Context, userID int64) error { return nil }

func (f *fakeSessionStore) CleanExpiredSessions(ctx context.Context) error { return nil }

func newTestBinder(t *testing.T) (*SessionBinder, *fakeSessionStore) {
	t.Helper()
	config := testConfig()
	sessions := &fakeSessionStore{}
	return NewSessionBinder(usecase.NewTokenService(config.JWT), sessions, config, zap.NewNop()), sessions
}

func newTestAuthHandler(t *testing.T, service usecase.AuthService) *AuthHandler {
	t.Helper()
	binder, _ := newTestBinder(t)
	return NewAuthHandler(service, binder, zap.NewNop())
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return body
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}
