package image

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("image: api key is required")

const defaultTimeout = 120 * time.Second

// Resolutions supported by the images endpoint.
const (
	Resolution256  = "256x256"
	Resolution512  = "512x512"
	Resolution1024 = "1024x1024"
)

// ValidResolution reports whether the resolution is one the provider accepts.
func ValidResolution(res string) bool {
	switch res {
	case Resolution256, Resolution512, Resolution1024:
		return true
	}
	return false
}

// GenerateRequest captures the inputs for image generation.
type GenerateRequest struct {
	Prompt     string
	Amount     int
	Resolution string
}

// Image is one generated image descriptor, returned to callers verbatim.
type Image struct {
	URL string `json:"url"`
}

// Options configures the OpenAI images client.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Client performs HTTP calls to the OpenAI image generation API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type generationRequest struct {
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type generationResponse struct {
	Data []Image `json:"data"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient constructs a client with sane defaults.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		httpClient: httpClient,
	}, nil
}

// Generate requests req.Amount images and returns their descriptors.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) ([]Image, error) {
	payload := generationRequest{Prompt: req.Prompt, N: req.Amount, Size: req.Resolution}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	endpoint := c.baseURL + "/images/generations"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call openai: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 300 {
		var apiErr errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error.Message != "" {
			return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("openai status %d", resp.StatusCode)
	}

	var out generationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out.Data, nil
}
