package adaptor

import (
	"encoding/json"
	"net/http"

	"account-service/internal/usecase"
	"account-service/pkg/apperr"
	"account-service/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const oauthStateCookie = "oauth_state"

// OAuthHandler runs the Google OAuth code flow. The callback resolves the
// provider email to a local account, there is no auto-provisioning: unknown
// or deactivated accounts are redirected to the frontend error pages.
type OAuthHandler struct {
	service usecase.AuthService
	binder  *SessionBinder
	oauth   *oauth2.Config
	config  *utils.Config
	log     *zap.Logger
}

func NewOAuthHandler(service usecase.AuthService, binder *SessionBinder, config *utils.Config, log *zap.Logger) *OAuthHandler {
	return &OAuthHandler{
		service: service,
		binder:  binder,
		oauth: &oauth2.Config{
			ClientID:     config.OAuth.GoogleClientID,
			ClientSecret: config.OAuth.GoogleClientSecret,
			RedirectURL:  config.OAuth.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		config: config,
		log:    log,
	}
}

// GoogleLogin handles GET /google/login
func (h *OAuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := utils.GenerateState()

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300,
	})

	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallback handles GET /google/callback
func (h *OAuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if !h.validState(r) {
		utils.ResponseBadRequest(w, "Invalid OAuth state", nil)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		utils.ResponseBadRequest(w, "No authorization code provided", nil)
		return
	}

	token, err := h.oauth.Exchange(r.Context(), code)
	if err != nil {
		h.log.Error("OAuth code exchange failed", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	email, err := h.fetchEmail(r, token)
	if err != nil {
		h.log.Error("Failed to fetch OAuth user info", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	user, err := h.service.OAuthLogin(r.Context(), email)
	if err != nil {
		// Redirect-based failure modes, not JSON ones
		switch apperr.KindOf(err) {
		case apperr.KindUnauthorized:
			http.Redirect(w, r, h.config.Frontend.BaseURL+"/login?error=401", http.StatusFound)
		case apperr.KindForbidden:
			http.Redirect(w, r, h.config.Frontend.BaseURL+"/login?error=403", http.StatusFound)
		default:
			respondError(w, h.log, err, "OAuth login")
		}
		return
	}

	h.binder.Bind(w, r, user, http.StatusOK, "Login successful")
}

func (h *OAuthHandler) validState(r *http.Request) bool {
	state := r.URL.Query().Get("state")
	if state == "" || !utils.ValidateState(state) {
		return false
	}

	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil {
		return false
	}
	return cookie.Value == state
}

func (h *OAuthHandler) fetchEmail(r *http.Request, token *oauth2.Token) (string, error) {
	client := h.oauth.Client(r.Context(), token)

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var info struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", err
	}
	return info.Email, nil
}
