package taskboardsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient talks to one taskboard deployment. Use Authenticate (or
// NewSession) to get a Session for the protected endpoints.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a client for the API rooted at baseURL.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Authenticate exchanges credentials for a token and wraps it in a Session.
func (c *SDKClient) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	var resp TokenResponse
	err := c.do(ctx, http.MethodPost, "/user/authenticate", "",
		Credentials{Email: email, Password: password}, &resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return c.NewSession(resp.Token), nil
}

// GetServiceInfo calls GET /.
func (c *SDKClient) GetServiceInfo(ctx context.Context) (*ServiceInfo, error) {
	var info ServiceInfo
	if err := c.do(ctx, http.MethodGet, "/", "", nil, &info, http.StatusOK); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetLiveness calls GET /livez.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.do(ctx, http.MethodGet, "/livez", "", nil, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetReadiness calls GET /readyz. A degraded service answers 503, which is
// returned as an *APIError.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.do(ctx, http.MethodGet, "/readyz", "", nil, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}
