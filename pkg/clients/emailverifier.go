package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// EmailVerifier checks whether an address is deliverable before an account
// is created for it.
type EmailVerifier interface {
	Verify(ctx context.Context, email string) (bool, error)
}

type hunterClient struct {
	token  string
	client *http.Client
	log    *zap.Logger
}

// NewEmailVerifier builds a hunter.io email-verifier client. Without an API
// key every address is accepted.
func NewEmailVerifier(token string, log *zap.Logger) EmailVerifier {
	return &hunterClient{
		token:  token,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

func (c *hunterClient) Verify(ctx context.Context, email string) (bool, error) {
	if c.token == "" {
		return true, nil
	}

	endpoint := fmt.Sprintf("https://api.hunter.io/v2/email-verifier?email=%s&api_key=%s",
		url.QueryEscape(email), url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("build verifier request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		// An unreachable verifier reports the address as non-deliverable
		c.log.Error("Email verification request failed", zap.Error(err), zap.String("email", email))
		return false, nil
	}
	defer resp.Body.Close()

	var payload struct {
		Data struct {
			Status string `json:"status"`
			Regexp bool   `json:"regexp"`
			Result string `json:"result"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log.Error("Failed to decode verifier response", zap.Error(err), zap.String("email", email))
		return false, nil
	}

	return payload.Data.Status == "valid" &&
		payload.Data.Regexp &&
		payload.Data.Result == "deliverable", nil
}
