package gemini

import (
	"context"
	"errors"
	"strings"

	"github.com/yojanasetu/apiserver/config"
	"google.golang.org/genai"
)

const defaultModel = "gemini-1.5-flash"

// Client wraps the Gemini SDK with the model configured for suggestions.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient constructs a Gemini client from config.
func NewClient(ctx context.Context, cfg config.GenAIConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("google ai api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	return &Client{client: client, model: model}, nil
}

// GenerateText sends a single-turn prompt and returns the raw text of the
// model's response.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("empty model response")
	}
	return text, nil
}
