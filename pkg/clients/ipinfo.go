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

// Location is the subset of ipinfo fields kept on user metadata.
type Location struct {
	City     string `json:"city"`
	Region   string `json:"region"`
	Country  string `json:"country"`
	Timezone string `json:"timezone"`
}

// Geolocator resolves an IP address to a coarse location.
type Geolocator interface {
	Lookup(ctx context.Context, ip string) (*Location, error)
}

type ipinfoClient struct {
	token  string
	client *http.Client
	log    *zap.Logger
}

// NewGeolocator builds an ipinfo.io client. Without a token every lookup
// returns an empty location, metadata updates still record IP and timestamp.
func NewGeolocator(token string, log *zap.Logger) Geolocator {
	return &ipinfoClient{
		token:  token,
		client: &http.Client{Timeout: 5 * time.Second},
		log:    log,
	}
}

func (c *ipinfoClient) Lookup(ctx context.Context, ip string) (*Location, error) {
	if c.token == "" {
		return &Location{}, nil
	}

	endpoint := fmt.Sprintf("https://ipinfo.io/%s?token=%s", url.PathEscape(ip), url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build ipinfo request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ipinfo lookup %s: %w", ip, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ipinfo lookup %s: status %d", ip, resp.StatusCode)
	}

	var location Location
	if err := json.NewDecoder(resp.Body).Decode(&location); err != nil {
		return nil, fmt.Errorf("decode ipinfo response: %w", err)
	}

	return &location, nil
}
