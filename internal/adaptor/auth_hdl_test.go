package adaptor

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"account-service/pkg/apperr"
	"account-service/pkg/utils"
)

func TestRegisterBindsSessionAndStripsSecrets(t *testing.T) {
	service := &fakeAuthService{user: testUser()}
	handler := newTestAuthHandler(t, service)

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{
		"firstName": "Jane",
		"lastName": "Doe",
		"email": "jane@example.com",
		"password": "secret-pass"
	}`))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	auth := rec.Header().Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		t.Fatalf("expected a bearer Authorization header, got %q", auth)
	}

	cookie := findCookie(t, rec, SessionCookieName)
	if cookie == nil || cookie.Value == "" || !cookie.HttpOnly {
		t.Fatalf("expected an httpOnly session cookie, got %+v", cookie)
	}

	raw := rec.Body.String()
	for _, secret := range []string{"password", "resetPasswordToken", "verificationToken"} {
		if strings.Contains(raw, secret) {
			t.Fatalf("response leaks %q: %s", secret, raw)
		}
	}

	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	if data == nil || data["redirectUrl"] == "" {
		t.Fatalf("expected a redirectUrl in the payload, got %v", body)
	}
	user, _ := data["user"].(map[string]any)
	if user == nil || user["email"] != "jane@example.com" {
		t.Fatalf("expected the public user projection, got %v", data)
	}
}

func TestRegisterRejectsInvalidBody(t *testing.T) {
	handler := newTestAuthHandler(t, &fakeAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"email": "not-an-email"}`))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLoginMapsServiceErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"wrong password", apperr.Unauthorized("Invalid password"), http.StatusUnauthorized},
		{"deactivated", apperr.Forbidden("User has been deactivated"), http.StatusForbidden},
		{"unknown user", apperr.Unauthorized("User not found"), http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := newTestAuthHandler(t, &fakeAuthService{err: tc.err})

			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{
				"emailOrUsername": "jane",
				"password": "secret-pass"
			}`))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}

			body := decodeEnvelope(t, rec)
			if body["message"] == "" || body["status"] != false {
				t.Fatalf("expected a failure envelope, got %v", body)
			}
		})
	}
}

func TestLoginInternalErrorNeverLeaksCause(t *testing.T) {
	handler := newTestAuthHandler(t, &fakeAuthService{
		err: apperr.Internal("failed to find user", assertableErr("pg: connection refused")),
	})

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{
		"emailOrUsername": "jane",
		"password": "secret-pass"
	}`))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Fatalf("internal cause leaked to the client: %s", rec.Body.String())
	}
}

type assertableErr string

func (e assertableErr) Error() string { return string(e) }

func TestLogoutClearsCookieAndRedirects(t *testing.T) {
	service := &fakeAuthService{}
	handler := newTestAuthHandler(t, service)

	req := httptest.NewRequest(http.MethodGet, "/logout?next=/dashboard", nil)
	req = req.WithContext(utils.SetTokenContext(req.Context(), "session-token"))
	rec := httptest.NewRecorder()

	handler.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if service.logoutTok != "session-token" {
		t.Fatalf("expected the session token to reach the service, got %q", service.logoutTok)
	}

	cookie := findCookie(t, rec, SessionCookieName)
	if cookie == nil || cookie.MaxAge >= 0 {
		t.Fatalf("expected the session cookie to be expired, got %+v", cookie)
	}

	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	if data == nil || data["redirectUrl"] != "/redirect?to=%2Fdashboard" {
		t.Fatalf("expected the next target in the redirect, got %v", body)
	}
}

func TestSendOTPPassesEmailThrough(t *testing.T) {
	service := &fakeAuthService{}
	handler := newTestAuthHandler(t, service)

	req := httptest.NewRequest(http.MethodPost, "/send-otp", strings.NewReader(`{"email": "jane@example.com"}`))
	rec := httptest.NewRecorder()

	handler.SendOTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(service.otpEmails) != 1 || service.otpEmails[0] != "jane@example.com" {
		t.Fatalf("expected the email to reach the service, got %v", service.otpEmails)
	}
}

func TestVerifyEmailRequiresAuthContext(t *testing.T) {
	handler := newTestAuthHandler(t, &fakeAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/email-verification", strings.NewReader(`{"code": "123456"}`))
	rec := httptest.NewRecorder()

	handler.VerifyEmail(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth context, got %d", rec.Code)
	}
}

func TestResetPasswordMapsExpiredTokenTo400(t *testing.T) {
	handler := newTestAuthHandler(t, &fakeAuthService{
		err: apperr.Expired("The password reset link has expired. Please request a new one."),
	})

	req := httptest.NewRequest(http.MethodPost, "/password/reset", strings.NewReader(`{
		"password": "brand-new-pass",
		"identificationToken": "some-token"
	}`))
	rec := httptest.NewRecorder()

	handler.ResetPassword(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an expired link, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "expired") {
		t.Fatalf("expected the expiry message, got %s", rec.Body.String())
	}
}
