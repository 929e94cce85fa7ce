package video

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

// ErrMissingAPIToken indicates that the client was configured without credentials.
var ErrMissingAPIToken = errors.New("video: api token is required")

const (
	defaultTimeout      = 30 * time.Second
	defaultPollInterval = 2 * time.Second
	defaultPollBudget   = 5 * time.Minute
)

// Options configures the Replicate predictions client.
type Options struct {
	APIToken string
	BaseURL  string
	// ModelVersion is "owner/model:versionhash"; only the hash is sent.
	ModelVersion string
	HTTPClient   *http.Client
	PollInterval time.Duration
}

// Client runs predictions against the Replicate HTTP API. A prediction
// is created and then polled until it reaches a terminal status, which
// is what the hosted SDK "run" helpers do under the hood.
type Client struct {
	apiToken     string
	baseURL      string
	version      string
	httpClient   *http.Client
	pollInterval time.Duration
}

type predictionRequest struct {
	Version string          `json:"version"`
	Input   predictionInput `json:"input"`
}

type predictionInput struct {
	Prompt string `json:"prompt"`
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  json.RawMessage `json:"error"`
}

// NewClient constructs a client with sane defaults.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIToken) == "" {
		return nil, ErrMissingAPIToken
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.replicate.com/v1"
	}
	version := opts.ModelVersion
	if idx := strings.LastIndex(version, ":"); idx >= 0 {
		version = version[idx+1:]
	}
	if version == "" {
		return nil, errors.New("video: model version is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &Client{
		apiToken:     strings.TrimSpace(opts.APIToken),
		baseURL:      baseURL,
		version:      version,
		httpClient:   httpClient,
		pollInterval: pollInterval,
	}, nil
}

// Generate creates a prediction for the prompt and waits for its
// output. The returned payload is the provider-native output, passed
// through to API callers verbatim.
func (c *Client) Generate(ctx context.Context, promptText string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultPollBudget)
	defer cancel()

	pred, err := c.createPrediction(ctx, promptText)
	if err != nil {
		return nil, err
	}

	for {
		switch pred.Status {
		case "succeeded":
			return pred.Output, nil
		case "failed", "canceled":
			return nil, fmt.Errorf("prediction %s %s: %s", pred.ID, pred.Status, string(pred.Error))
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}

		pred, err = c.getPrediction(ctx, pred.ID)
		if err != nil {
			return nil, err
		}
	}
}

func (c *Client) createPrediction(ctx context.Context, promptText string) (*prediction, error) {
	payload := predictionRequest{Version: c.version, Input: predictionInput{Prompt: promptText}}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predictions", &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.apiToken)

	return c.doPrediction(req)
}

func (c *Client) getPrediction(ctx context.Context, id string) (*prediction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/predictions/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.apiToken)

	return c.doPrediction(req)
}

func (c *Client) doPrediction(req *http.Request) (*prediction, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call replicate: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Detail != "" {
			return nil, fmt.Errorf("replicate status %d: %s", resp.StatusCode, apiErr.Detail)
		}
		return nil, fmt.Errorf("replicate status %d", resp.StatusCode)
	}

	var pred prediction
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &pred, nil
}
