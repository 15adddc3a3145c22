package usecase

import (
	"errors"
	"fmt"
	"time"

	"account-service/pkg/apperr"
	"account-service/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and verifies the signed, time-limited tokens: the
// session JWT and the password-reset identification token. Both embed only
// the user id.
type TokenService interface {
	GenerateSession(userID int64) (string, error)
	VerifySession(token string) (int64, error)
	SessionTTL() time.Duration
	GenerateResetPasswordToken(userID int64) (string, error)
	CompareResetPasswordToken(token string) (int64, error)
}

type sessionClaims struct {
	ID int64 `json:"id"`
	jwt.RegisteredClaims
}

type tokenService struct {
	secret     []byte
	sessionTTL time.Duration
	resetTTL   time.Duration
}

func NewTokenService(config utils.JWTConfig) TokenService {
	return &tokenService{
		secret:     []byte(config.Secret),
		sessionTTL: time.Duration(config.SessionExpiryMin) * time.Minute,
		resetTTL:   time.Duration(config.ResetTokenExpiryMin) * time.Minute,
	}
}

func (s *tokenService) GenerateSession(userID int64) (string, error) {
	return s.sign(userID, s.sessionTTL)
}

func (s *tokenService) VerifySession(token string) (int64, error) {
	claims, err := s.parse(token)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindUnauthorized, "Invalid or expired session", err)
	}
	return claims.ID, nil
}

func (s *tokenService) SessionTTL() time.Duration {
	return s.sessionTTL
}

func (s *tokenService) GenerateResetPasswordToken(userID int64) (string, error) {
	return s.sign(userID, s.resetTTL)
}

// CompareResetPasswordToken verifies a reset token and returns the embedded
// user id. An expired link and a malformed one surface as distinct errors so
// the caller can tell the user which happened.
func (s *tokenService) CompareResetPasswordToken(token string) (int64, error) {
	claims, err := s.parse(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, apperr.Expired("The password reset link has expired. Please request a new one.")
		}
		return 0, apperr.InvalidInput("Invalid password reset token. Please use the link from the email.")
	}

	if claims.ID <= 0 {
		return 0, apperr.Unauthorized("User not found")
	}

	return claims.ID, nil
}

func (s *tokenService) sign(userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		ID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS384, claims)
	return token.SignedString(s.secret)
}

func (s *tokenService) parse(tokenString string) (*sessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
