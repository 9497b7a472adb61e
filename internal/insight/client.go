package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/maam00/glasshouse/internal/config"
	"github.com/maam00/glasshouse/internal/logger"
	"github.com/maam00/glasshouse/internal/models"
	"github.com/maam00/glasshouse/internal/retry"
)

const (
	messagesPath     = "/v1/messages"
	anthropicVersion = "2023-06-01"
)

// Client calls the language-model messages API to turn aggregated dashboard
// metrics into short narrative insights.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
	retryCfg   retry.Config
	log        zerolog.Logger
}

func NewClient(cfg *config.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}

	return &Client{
		baseURL:    cfg.APIBaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		retryCfg:   retry.DefaultConfig(),
		log:        logger.WithComponent("insight"),
	}, nil
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Generate builds the analyst prompt from dashboard data, calls the API, and
// parses the strict-JSON insight response.
func (c *Client) Generate(ctx context.Context, d *models.Dashboard) (*models.Insights, error) {
	prompt := BuildContext(d) + "\n\n" + instructions

	var text string
	err := retry.Do(ctx, c.retryCfg, func() error {
		var err error
		text, err = c.complete(ctx, prompt)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate insights: %w", err)
	}

	insights, err := ParseInsights(text)
	if err != nil {
		return nil, err
	}
	insights.GeneratedAt = time.Now().Format(time.RFC3339)

	c.log.Info().Str("model", c.model).Msg("insights generated")
	return insights, nil
}

// complete performs one messages-API round trip and returns the text of the
// first content block.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(messageRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("failed to encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err := fmt.Errorf("API returned status %d: %s", resp.StatusCode, bytes.TrimSpace(payload))
		if retry.RetryableStatus(resp.StatusCode) {
			return "", err
		}
		return "", retry.Permanent(err)
	}

	var decoded messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(decoded.Content) == 0 {
		return "", fmt.Errorf("response contained no content")
	}

	return decoded.Content[0].Text, nil
}
