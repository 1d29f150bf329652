// Package modelhub fetches popular model names from the Hugging Face Hub to
// populate the systems selector. Fetches are rate limited and retried; on
// any failure the static priority list serves as fallback.
package modelhub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/aiflawlab/sdk/pkg/core"
	sdkerrors "github.com/aiflawlab/sdk/pkg/errors"
)

// DefaultBaseURL is the Hugging Face Hub API.
const DefaultBaseURL = "https://huggingface.co"

// DefaultLimit is how many models TopModels fetches by default.
const DefaultLimit = 400

// PriorityModels are pinned to the top of the systems selector regardless
// of hub popularity.
var PriorityModels = []string{
	// Text models
	"GPT-4.5-Preview",
	"o3-mini",
	"o1",
	"GPT-4o",
	"GPT-4",
	"GPT-3.5-Turbo",
	"Claude-3.7-Sonnet-Reasoning",
	"Claude-3.7-Sonnet",
	"Claude-3.5-Sonnet",
	"Claude-3",
	"Claude-instant",
	"Claude-2",
	"Gemini-2.0",
	"Gemini-1.5",
	"Gemini-1.0",
	"DeepSeek-R1",
	"DeepSeek-V3",
	"Grok-2",
	"Grok-beta",

	// Image models
	"FLUX-pro-1.1-ultra",
	"FLUX-pro-1.1",
	"FLUX-pro",
	"FLUX-schnell",
	"FLUX-dev",
	"Imagen3",
	"Luma-Photon",
	"DALL-E-3",
	"StableDiffusion3.5",
	"StableDiffusion3",
	"StableDiffusionXL",
	"Playground-v3",
	"Playground-v2.5",
	"Ideogram-v2",
	"Ideogram",

	// Video models
	"Runway",
	"Ray2",
	"Dream-Machine",
	"Pika-2.0",
	"Pika-1.5",
	"Pika-1.0",
	"Hailuo-AI",
	"Kling-Pro-v1.5",
	"HunyuanVideo",
	"Haiper2.0",
	"Veo-2",
}

// Client queries the model hub.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     core.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different hub endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the retrying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger.
func WithLogger(l core.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a hub client with retries and a 1 req/s rate limit.
func NewClient(opts ...Option) *Client {
	retry := retryablehttp.NewClient()
	retry.RetryMax = 3
	retry.RetryWaitMin = 500 * time.Millisecond
	retry.Logger = nil

	c := &Client{
		httpClient: retry.StandardClient(),
		baseURL:    DefaultBaseURL,
		limiter:    rate.NewLimiter(rate.Limit(1), 2),
		logger:     core.GetDefaultLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type modelEntry struct {
	ModelID string `json:"modelId"`
}

// TopModels fetches the most-downloaded model ids from the hub.
func (c *Client) TopModels(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("sort", "downloads")
	q.Set("direction", "-1")
	q.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/models?"+q.Encode(), nil)
	if err != nil {
		return nil, sdkerrors.E(sdkerrors.KindNetwork, "modelhub.TopModels", "building request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, sdkerrors.E(sdkerrors.KindNetwork, "modelhub.TopModels", "fetching models", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, sdkerrors.E(sdkerrors.KindNetwork, "modelhub.TopModels",
			fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	var entries []modelEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, sdkerrors.E(sdkerrors.KindNetwork, "modelhub.TopModels", "decoding response", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.ModelID != "" {
			names = append(names, e.ModelID)
		}
	}
	return names, nil
}

// SystemOptions returns the selector options: priority models first, then
// hub models not already listed, then "Other". Hub failures degrade to the
// priority list alone.
func (c *Client) SystemOptions(ctx context.Context, limit int) []string {
	options := append([]string(nil), PriorityModels...)
	seen := make(map[string]struct{}, len(options))
	for _, m := range options {
		seen[m] = struct{}{}
	}

	hubModels, err := c.TopModels(ctx, limit)
	if err != nil {
		c.logger.Warn("model hub fetch failed, using priority list only: %v", err)
	}
	for _, m := range hubModels {
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		options = append(options, m)
	}

	return append(options, "Other")
}
