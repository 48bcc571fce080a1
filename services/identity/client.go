package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campushub/campus-api/utils/cache"
)

const (
	// DefaultTimeout is the HTTP client timeout for verification calls
	DefaultTimeout = 10 * time.Second
	// cacheTTL bounds how long a verified principal may be reused without
	// re-contacting the provider
	cacheTTL = 60 * time.Second
)

// ErrInvalidToken is returned when the provider rejects the credential or the
// token is structurally unusable. Anything else from VerifyToken is a
// transport or provider failure.
var ErrInvalidToken = errors.New("invalid or expired token")

// Principal is the authenticated identity resolved from a bearer token
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Client verifies bearer tokens against the external identity provider
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	cache      *cache.RedisCache // optional
}

// Config holds configuration for the identity client
type Config struct {
	BaseURL    string
	ServiceKey string
	Timeout    time.Duration
	Cache      *cache.RedisCache
}

// NewClient creates a new identity provider client
func NewClient(config Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	return &Client{
		baseURL:    config.BaseURL,
		serviceKey: config.ServiceKey,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		cache: config.Cache,
	}
}

// VerifyToken resolves a bearer token to a Principal. The token is first
// parsed locally (unverified) so obviously malformed or already-expired
// tokens are rejected without a network round trip; the provider remains the
// authority on validity.
func (c *Client) VerifyToken(ctx context.Context, token string) (*Principal, error) {
	cacheKey, err := c.prescreen(token)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		var p Principal
		if err := c.cache.GetJSON(ctx, cacheKey, &p); err == nil {
			return &p, nil
		}
	}

	principal, err := c.fetchUser(ctx, token)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		// Best effort; verification already succeeded
		_ = c.cache.SetJSON(ctx, cacheKey, principal, cacheTTL)
	}

	return principal, nil
}

// prescreen parses the token without signature verification and returns the
// cache key. The key is a digest of the whole credential, never of its claims:
// only the exact token the provider already accepted can produce a cache hit.
func (c *Client) prescreen(token string) (string, error) {
	parser := jwt.NewParser()
	parsed, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		if exp.Before(time.Now()) {
			return "", ErrInvalidToken
		}
	}

	sum := sha256.Sum256([]byte(token))
	return "identity:" + hex.EncodeToString(sum[:]), nil
}

// fetchUser calls the provider's user endpoint with the bearer token
func (c *Client) fetchUser(ctx context.Context, token string) (*Principal, error) {
	url := c.baseURL + "/auth/v1/user"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity service request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read identity response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrInvalidToken
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("identity service error (status %d): %s", resp.StatusCode, string(body))
	}

	var principal Principal
	if err := json.Unmarshal(body, &principal); err != nil {
		return nil, fmt.Errorf("failed to decode identity response: %w", err)
	}
	if principal.ID == "" {
		return nil, ErrInvalidToken
	}

	return &principal, nil
}
