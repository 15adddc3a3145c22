package response

// SessionResponse is the JSON payload of the session binding layer when the
// caller is an API/SPA client rather than the browser-redirect OAuth flow.
type SessionResponse struct {
	RedirectURL string        `json:"redirectUrl"`
	User        *UserResponse `json:"user,omitempty"`
}

type LogoutResponse struct {
	RedirectURL string `json:"redirectUrl"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type PhotoResponse struct {
	Photo string `json:"photo"`
}
