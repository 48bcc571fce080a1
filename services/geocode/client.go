package geocode

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/campushub/campus-api/utils/cache"
)

const (
	// DefaultTimeout is the HTTP client timeout for geocoding calls
	DefaultTimeout = 10 * time.Second
	// cacheTTL keeps resolved addresses around; street addresses do not move
	cacheTTL = 24 * time.Hour
)

// ErrNoResults is returned when the geocoding service finds no match for the
// address
var ErrNoResults = errors.New("no geocoding results for address")

// Result is a resolved coordinate pair plus the raw provider payload
type Result struct {
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
	Raw       json.RawMessage `json:"raw,omitempty"`
}

// Client resolves free-form addresses through the external geocoding API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      *cache.RedisCache // optional
}

// Config holds configuration for the geocoding client
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Cache   *cache.RedisCache
}

// NewClient creates a new geocoding client
func NewClient(config Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	return &Client{
		baseURL: config.BaseURL,
		apiKey:  config.APIKey,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		cache: config.Cache,
	}
}

// geocodeResponse mirrors the provider's JSON shape
type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Lookup resolves an address to coordinates. Returns ErrNoResults when the
// provider has no match; any other failure is a transport or provider error.
func (c *Client) Lookup(ctx context.Context, address string) (*Result, error) {
	if c.apiKey == "" {
		return nil, errors.New("geocoding API key is not configured")
	}

	key := cacheKey(address)
	if c.cache != nil {
		var cached Result
		if err := c.cache.GetJSON(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	endpoint := fmt.Sprintf("%s/geocode/json?address=%s&key=%s",
		c.baseURL, url.QueryEscape(address), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read geocoding response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("geocoding service error (status %d): %s", resp.StatusCode, string(body))
	}

	var decoded geocodeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode geocoding response: %w", err)
	}

	if len(decoded.Results) == 0 {
		return nil, ErrNoResults
	}

	location := decoded.Results[0].Geometry.Location
	result := &Result{
		Latitude:  location.Lat,
		Longitude: location.Lng,
		Raw:       json.RawMessage(body),
	}

	if c.cache != nil {
		_ = c.cache.SetJSON(ctx, key, result, cacheTTL)
	}

	return result, nil
}

func cacheKey(address string) string {
	sum := sha256.Sum256([]byte(address))
	return "geocode:" + hex.EncodeToString(sum[:])
}
