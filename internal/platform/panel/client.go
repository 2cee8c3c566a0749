package panel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/fx"

	cfgpkg "github.com/blancosphere/streamvault/pkg/config"
	"github.com/blancosphere/streamvault/pkg/types"
)

// Response is the activation panel's reply envelope. Status is the string
// "true" on success; the panel is a loosely typed PHP API.
type Response struct {
	Status  string `json:"status"`
	UserID  string `json:"user_id,omitempty"`
	Message string `json:"message,omitempty"`
	URL     string `json:"url,omitempty"`
	Mac     string `json:"mac,omitempty"`
	Code    string `json:"code,omitempty"`
}

func (r *Response) OK() bool {
	return strings.EqualFold(r.Status, "true")
}

type Credentials struct {
	Username string
	Password string
}

// Client issues credential operations against the activation panel.
type Client interface {
	// CreateM3U provisions a fresh M3U line for the given plan length and
	// bouquet. The credentials are embedded in the returned playlist URL.
	CreateM3U(ctx context.Context, sub types.SubscriptionLength, bouquet string) (*Response, error)
	// RenewM3U extends an existing line identified by its credentials.
	RenewM3U(ctx context.Context, creds Credentials, sub types.SubscriptionLength) (*Response, error)
}

type httpClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func New(cfg *cfgpkg.Config) Client {
	return &httpClient{
		baseURL: strings.TrimRight(cfg.Panel.BaseURL, "/"),
		apiKey:  cfg.Panel.APIKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *httpClient) CreateM3U(ctx context.Context, sub types.SubscriptionLength, bouquet string) (*Response, error) {
	q := url.Values{}
	q.Set("action", "new")
	q.Set("type", "m3u")
	q.Set("sub", string(sub))
	q.Set("pack", bouquet)
	return c.call(ctx, q)
}

func (c *httpClient) RenewM3U(ctx context.Context, creds Credentials, sub types.SubscriptionLength) (*Response, error) {
	q := url.Values{}
	q.Set("action", "renew")
	q.Set("type", "m3u")
	q.Set("username", creds.Username)
	q.Set("password", creds.Password)
	q.Set("sub", string(sub))
	return c.call(ctx, q)
}

func (c *httpClient) call(ctx context.Context, q url.Values) (*Response, error) {
	q.Set("api_key", c.apiKey)
	reqURL := c.baseURL + "/api/api.php?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build panel request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("panel request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("panel request failed with status: %d", resp.StatusCode)
	}
	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to parse panel response: %w", err)
	}
	return &out, nil
}

// ExtractCredentials recovers the username/password pair embedded in an M3U
// playlist URL returned by the panel's create action.
func ExtractCredentials(m3uURL string) (*Credentials, error) {
	u, err := url.Parse(m3uURL)
	if err != nil {
		return nil, fmt.Errorf("invalid m3u url: %w", err)
	}
	q := u.Query()
	creds := &Credentials{Username: q.Get("username"), Password: q.Get("password")}
	if creds.Username == "" || creds.Password == "" {
		return nil, fmt.Errorf("missing username or password in m3u url")
	}
	return creds, nil
}

var Module = fx.Options(
	fx.Provide(New),
)
