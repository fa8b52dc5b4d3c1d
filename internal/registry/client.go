package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"

	"ipfolio/internal/models"
)

const DefaultGatewayURL = "https://api.brandwatch-gateway.example.com"

// Client talks to the monitoring gateway over HTTP. One search endpoint
// per item type; the gateway fans out to the trademark registry, domain
// registrar, marketplace and social sources behind it.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient() *Client {
	baseURL := os.Getenv("REGISTRY_GATEWAY_URL")
	if baseURL == "" {
		baseURL = DefaultGatewayURL
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		// The gateway allows 2 requests per second per API key.
		limiter: rate.NewLimiter(rate.Limit(2), 2),
	}
}

type checkRequest struct {
	Keywords []string        `json:"keywords"`
	Config   json.RawMessage `json:"config,omitempty"`
}

func (c *Client) Check(ctx context.Context, item *models.MonitoringItem, apiKey string) (*CheckOutcome, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(checkRequest{
		Keywords: item.Keywords,
		Config:   item.Config,
	})
	if err != nil {
		return nil, fmt.Errorf("error encoding request: %v", err)
	}

	url := fmt.Sprintf("%s/v1/%s/search", c.baseURL, searchPath(item.Type))
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("X-Api-Key", apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("monitoring gateway returned status: %d", resp.StatusCode)
	}

	var outcome CheckOutcome
	if err := json.NewDecoder(resp.Body).Decode(&outcome); err != nil {
		return nil, fmt.Errorf("error decoding response: %v", err)
	}

	return &outcome, nil
}

func searchPath(itemType string) string {
	switch itemType {
	case models.MonitorTrademark:
		return "trademarks"
	case models.MonitorDomain:
		return "domains"
	case models.MonitorMarketplace:
		return "marketplaces"
	case models.MonitorSocial:
		return "social"
	default:
		return "trademarks"
	}
}
