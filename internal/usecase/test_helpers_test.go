package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"account-service/internal/data/entity"
	"account-service/internal/data/repository"
	"account-service/pkg/apperr"
	"account-service/pkg/clients"
	"account-service/pkg/utils"

	"go.uber.org/zap"
)

func testConfig() *utils.Config {
	return &utils.Config{
		JWT: utils.JWTConfig{
			Secret:              "test-secret-key",
			SessionExpiryMin:    30,
			ResetTokenExpiryMin: 2,
		},
		OTP:      utils.OTPConfig{ExpiryMinutes: 5},
		Frontend: utils.FrontendConfig{BaseURL: "http://localhost:3000"},
	}
}

// fakeUserRepo is an in-memory UserRepository. It mirrors the lowercase
// storage rule of the real one.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: map[int64]*entity.User{}}
}

func (f *fakeUserRepo) add(user *entity.User) *entity.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == 0 {
		user.ID = f.nextID
		f.nextID++
	}
	user.Email = strings.ToLower(user.Email)
	user.Username = strings.ToLower(user.Username)
	clone := *user
	f.users[user.ID] = &clone
	return user
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.add(user)
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == strings.ToLower(email) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Username == strings.ToLower(username) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmailOrUsername(ctx context.Context, emailOrUsername string) (*entity.User, error) {
	if user, _ := f.FindByEmail(ctx, emailOrUsername); user != nil {
		return user, nil
	}
	return f.FindByUsername(ctx, emailOrUsername)
}

func (f *fakeUserRepo) Search(ctx context.Context, query string) ([]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	query = strings.ToLower(query)
	var out []*entity.User
	for _, user := range f.users {
		if query == "" ||
			strings.Contains(strings.ToLower(user.FirstName), query) ||
			strings.Contains(strings.ToLower(user.LastName), query) ||
			strings.Contains(user.Email, query) {
			clone := *user
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	return f.mutate(user.ID, func(stored *entity.User) {
		stored.FirstName = user.FirstName
		stored.LastName = user.LastName
		stored.Username = strings.ToLower(user.Username)
		stored.Phone = user.Phone
		stored.UpdatedAt = time.Now()
	})
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return f.mutate(id, func(stored *entity.User) { stored.PasswordHash = passwordHash })
}

func (f *fakeUserRepo) UpdateResetToken(ctx context.Context, id int64, token *string) error {
	return f.mutate(id, func(stored *entity.User) { stored.ResetPasswordToken = token })
}

func (f *fakeUserRepo) UpdateVerificationToken(ctx context.Context, id int64, tokenHash *string) error {
	return f.mutate(id, func(stored *entity.User) { stored.VerificationToken = tokenHash })
}

func (f *fakeUserRepo) SetVerified(ctx context.Context, id int64) error {
	return f.mutate(id, func(stored *entity.User) { stored.IsVerified = true })
}

func (f *fakeUserRepo) UpdatePhoto(ctx context.Context, id int64, photoURL string) error {
	return f.mutate(id, func(stored *entity.User) { stored.Photo = &photoURL })
}

func (f *fakeUserRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) mutate(id int64, fn func(*entity.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if stored, ok := f.users[id]; ok {
		fn(stored)
	}
	return nil
}

type fakeMetaRepo struct {
	mu   sync.Mutex
	rows map[int64]*entity.UserMetaData
}

func newFakeMetaRepo() *fakeMetaRepo {
	return &fakeMetaRepo{rows: map[int64]*entity.UserMetaData{}}
}

func (f *fakeMetaRepo) Upsert(ctx context.Context, meta *entity.UserMetaData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *meta
	f.rows[meta.UserID] = &clone
	return nil
}

func (f *fakeMetaRepo) FindByUserID(ctx context.Context, userID int64) (*entity.UserMetaData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if meta, ok := f.rows[userID]; ok {
		clone := *meta
		return &clone, nil
	}
	return nil, nil
}

type fakeOtpRepo struct {
	mu   sync.Mutex
	rows map[string]*entity.EmailOtp
}

func newFakeOtpRepo() *fakeOtpRepo {
	return &fakeOtpRepo{rows: map[string]*entity.EmailOtp{}}
}

func (f *fakeOtpRepo) Upsert(ctx context.Context, otp *entity.EmailOtp) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *otp
	f.rows[otp.Email] = &clone
	return nil
}

func (f *fakeOtpRepo) FindByEmail(ctx context.Context, email string) (*entity.EmailOtp, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if otp, ok := f.rows[strings.ToLower(email)]; ok {
		clone := *otp
		return &clone, nil
	}
	return nil, nil
}

type fakeSessionRepo struct {
	mu      sync.Mutex
	rows    map[string]*entity.Session
	revoked []string
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{rows: map[string]*entity.Session{}}
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *session
	f.rows[session.Token] = &clone
	return nil
}

func (f *fakeSessionRepo) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if session, ok := f.rows[token]; ok && session.RevokedAt == nil {
		clone := *session
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeSessionRepo) Revoke(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if session, ok := f.rows[token]; ok {
		now := time.Now()
		session.RevokedAt = &now
	}
	f.revoked = append(f.revoked, token)
	return nil
}

func (f *fakeSessionRepo) RevokeAllUserSessions(ctx context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for _, session := range f.rows {
		if session.UserID == userID && session.RevokedAt == nil {
			session.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeSessionRepo) CleanExpiredSessions(ctx context.Context) error { return nil }

// fakeMailer records every send instead of talking SMTP.
type fakeMailer struct {
	mu            sync.Mutex
	verifications []string
	otps          []string
	resetLinks    []string
}

func (f *fakeMailer) SendVerificationCode(to, firstName, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifications = append(f.verifications, code)
	return nil
}

func (f *fakeMailer) SendOTP(to, firstName, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.otps = append(f.otps, code)
	return nil
}

func (f *fakeMailer) SendPasswordReset(to, firstName, link string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLinks = append(f.resetLinks, link)
	return nil
}

func (f *fakeMailer) lastOTP(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.otps) == 0 {
		t.Fatal("expected an OTP to have been sent")
	}
	return f.otps[len(f.otps)-1]
}

type fakeGeolocator struct {
	location clients.Location
}

func (f *fakeGeolocator) Lookup(ctx context.Context, ip string) (*clients.Location, error) {
	clone := f.location
	return &clone, nil
}

type fakeVerifier struct {
	deliverable bool
}

func (f *fakeVerifier) Verify(ctx context.Context, email string) (bool, error) {
	return f.deliverable, nil
}

type testEnv struct {
	service  *Service
	users    *fakeUserRepo
	meta     *fakeMetaRepo
	otps     *fakeOtpRepo
	sessions *fakeSessionRepo
	mail     *fakeMailer
	verifier *fakeVerifier
	config   *utils.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		users:    newFakeUserRepo(),
		meta:     newFakeMetaRepo(),
		otps:     newFakeOtpRepo(),
		sessions: newFakeSessionRepo(),
		mail:     &fakeMailer{},
		verifier: &fakeVerifier{deliverable: true},
		config:   testConfig(),
	}

	repo := &repository.Repository{
		User:     env.users,
		MetaData: env.meta,
		EmailOtp: env.otps,
		Session:  env.sessions,
	}

	log := zap.NewNop()
	tokens := NewTokenService(env.config.JWT)
	users := NewUserService(repo, env.verifier, log)
	auth := NewAuthService(repo, users, tokens, env.mail, &fakeGeolocator{}, env.config, log)

	env.service = &Service{Token: tokens, User: users, Auth: auth}
	return env
}

// seedUser inserts an active user with the given bcrypt-hashed password.
func (env *testEnv) seedUser(t *testing.T, email, username, password string) *entity.User {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	now := time.Now()
	return env.users.add(&entity.User{
		Role:         entity.RoleUser,
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func assertKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if got := apperr.KindOf(err); got != kind {
		t.Fatalf("expected error kind %d, got %d (%v)", kind, got, err)
	}
}
