package usecase

import (
	"strings"
	"testing"
	"time"

	"account-service/pkg/apperr"
	"account-service/pkg/utils"
)

func TestSessionRoundTrip(t *testing.T) {
	tokens := NewTokenService(testConfig().JWT)

	token, err := tokens.GenerateSession(42)
	if err != nil {
		t.Fatalf("generate session: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected a JWT, got %q", token)
	}

	userID, err := tokens.VerifySession(token)
	if err != nil {
		t.Fatalf("verify session: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user id 42, got %d", userID)
	}
}

func TestVerifySessionRejectsForeignSecret(t *testing.T) {
	tokens := NewTokenService(testConfig().JWT)
	other := NewTokenService(utils.JWTConfig{Secret: "another-secret", SessionExpiryMin: 30, ResetTokenExpiryMin: 2})

	token, err := other.GenerateSession(7)
	if err != nil {
		t.Fatalf("generate session: %v", err)
	}

	if _, err := tokens.VerifySession(token); err == nil {
		t.Fatal("expected a foreign-signed token to be rejected")
	} else {
		assertKind(t, err, apperr.KindUnauthorized)
	}
}

func TestVerifySessionRejectsGarbage(t *testing.T) {
	tokens := NewTokenService(testConfig().JWT)

	if _, err := tokens.VerifySession("not-a-token"); err == nil {
		t.Fatal("expected garbage to be rejected")
	}
}

func TestSessionTTLFollowsConfig(t *testing.T) {
	tokens := NewTokenService(testConfig().JWT)

	if got := tokens.SessionTTL(); got != 30*time.Minute {
		t.Fatalf("expected 30m session TTL, got %v", got)
	}
}

func TestResetTokenIsReusableWithinWindow(t *testing.T) {
	tokens := NewTokenService(testConfig().JWT)

	token, err := tokens.GenerateResetPasswordToken(9)
	if err != nil {
		t.Fatalf("generate reset token: %v", err)
	}

	// The token stays valid after a successful compare, nothing consumes it.
	for i := 0; i < 3; i++ {
		userID, err := tokens.CompareResetPasswordToken(token)
		if err != nil {
			t.Fatalf("compare %d: %v", i, err)
		}
		if userID != 9 {
			t.Fatalf("compare %d: expected user id 9, got %d", i, userID)
		}
	}
}

func TestExpiredResetTokenReportsExpired(t *testing.T) {
	expired := NewTokenService(utils.JWTConfig{
		Secret:              "test-secret-key",
		SessionExpiryMin:    30,
		ResetTokenExpiryMin: -1,
	})

	token, err := expired.GenerateResetPasswordToken(5)
	if err != nil {
		t.Fatalf("generate reset token: %v", err)
	}

	_, err = expired.CompareResetPasswordToken(token)
	assertKind(t, err, apperr.KindExpired)
}

func TestMalformedResetTokenReportsInvalidInput(t *testing.T) {
	tokens := NewTokenService(testConfig().JWT)

	_, err := tokens.CompareResetPasswordToken("garbage")
	assertKind(t, err, apperr.KindInvalidInput)
}
