package adaptor

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"account-service/internal/data/entity"
	"account-service/internal/data/repository"
	"account-service/internal/dto/response"
	"account-service/internal/usecase"
	"account-service/pkg/utils"

	"go.uber.org/zap"
)

const SessionCookieName = "session"

// SessionBinder wraps every flow that authenticates a user: it mints the
// session token, attaches it as an Authorization header and an httpOnly
// cookie, and answers either with a redirect (browser OAuth flow, marked by
// the authuser query parameter) or a JSON payload (API/SPA flow).
type SessionBinder struct {
	tokens   usecase.TokenService
	sessions repository.SessionRepository
	config   *utils.Config
	log      *zap.Logger
}

func NewSessionBinder(tokens usecase.TokenService, sessions repository.SessionRepository, config *utils.Config, log *zap.Logger) *SessionBinder {
	return &SessionBinder{
		tokens:   tokens,
		sessions: sessions,
		config:   config,
		log:      log,
	}
}

func (b *SessionBinder) Bind(w http.ResponseWriter, r *http.Request, user *entity.User, status int, message string) {
	token, err := b.tokens.GenerateSession(user.ID)
	if err != nil {
		b.log.Error("Failed to mint session token", zap.Error(err), zap.Int64("user_id", user.ID))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
	http.SetCookie(w, b.sessionCookie(token))
	b.recordSession(r, user.ID, token)

	next := r.URL.Query().Get("next")
	if next == "" {
		next = "/"
	}
	redirectTo := fmt.Sprintf("/redirect?session=%s&to=%s", token, url.QueryEscape(next))

	// The OAuth browser flow carries the provider marker and expects a
	// redirect rather than a JSON body
	if r.URL.Query().Get("authuser") != "" {
		http.Redirect(w, r, b.config.Frontend.BaseURL+redirectTo, http.StatusFound)
		return
	}

	utils.ResponseJSON(w, status, true, message, &response.SessionResponse{
		RedirectURL: redirectTo,
		User:        response.UserToResponse(user),
	}, nil)
}

// recordSession stores the issued token server-side so logout can revoke it.
// The row is best-effort: the client already holds a valid token, a failed
// insert only loses explicit revocation.
func (b *SessionBinder) recordSession(r *http.Request, userID int64, token string) {
	now := time.Now()
	session := &entity.Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: now.Add(b.tokens.SessionTTL()),
		CreatedAt: now,
	}
	if agent := r.UserAgent(); agent != "" {
		session.UserAgent = &agent
	}
	if ip := clientIP(r); ip != "" {
		session.IPAddress = &ip
	}

	if err := b.sessions.Create(r.Context(), session); err != nil {
		b.log.Warn("Failed to record session", zap.Error(err), zap.Int64("user_id", userID))
	}
}

// Clear expires the session cookie on logout.
func (b *SessionBinder) Clear(w http.ResponseWriter) {
	cookie := b.sessionCookie("")
	cookie.MaxAge = -1
	http.SetCookie(w, cookie)
}

func (b *SessionBinder) sessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   b.config.IsProduction(),
		SameSite: http.SameSiteNoneMode,
		MaxAge:   int(b.tokens.SessionTTL().Seconds()),
	}
}
