package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 4096
	requestTimeout     = 60 * time.Second
)

// Provider sends a prompt to a language model and returns its text.
type Provider interface {
	Invoke(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Options tune a model request.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

func (o *Options) applyDefaults() {
	if o.Temperature == 0 {
		o.Temperature = defaultTemperature
	}
	if o.MaxTokens == 0 {
		o.MaxTokens = defaultMaxTokens
	}
}

// NewProvider picks a provider from the model name: "claude-*" models
// use the Anthropic API, everything else the OpenAI-compatible API.
func NewProvider(opts Options, anthropicKey, openaiKey string) (Provider, error) {
	opts.applyDefaults()

	if strings.HasPrefix(opts.Model, "claude") {
		if anthropicKey == "" {
			return nil, fmt.Errorf("model %s requires ANTHROPIC_API_KEY", opts.Model)
		}
		return newAnthropicProvider(opts, anthropicKey), nil
	}
	if openaiKey == "" {
		return nil, fmt.Errorf("model %s requires OPENAI_API_KEY", opts.Model)
	}
	return newOpenAIProvider(opts, openaiKey), nil
}

// AnthropicProvider calls the Anthropic Messages API.
type AnthropicProvider struct {
	client *resty.Client
	opts   Options
}

func newAnthropicProvider(opts Options, apiKey string) *AnthropicProvider {
	client := resty.New()
	client.SetBaseURL("https://api.anthropic.com")
	client.SetTimeout(requestTimeout)
	client.SetHeader("x-api-key", apiKey)
	client.SetHeader("anthropic-version", "2023-06-01")

	return &AnthropicProvider{client: client, opts: opts}
}

func (p *AnthropicProvider) Name() string { return p.opts.Model }

func (p *AnthropicProvider) Invoke(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"model":       p.opts.Model,
			"max_tokens":  p.opts.MaxTokens,
			"temperature": p.opts.Temperature,
			"messages": []map[string]string{
				{"role": "user", "content": prompt},
			},
		}).
		Post("/v1/messages")
	if err != nil {
		return "", fmt.Errorf("anthropic request: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("anthropic API error %d: %s", resp.StatusCode(), resp.String())
	}

	var body struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", fmt.Errorf("parse anthropic response: %w", err)
	}

	var out strings.Builder
	for _, block := range body.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	return out.String(), nil
}

// OpenAIProvider calls an OpenAI-compatible chat completions API.
type OpenAIProvider struct {
	client *resty.Client
	opts   Options
}

func newOpenAIProvider(opts Options, apiKey string) *OpenAIProvider {
	client := resty.New()
	client.SetBaseURL("https://api.openai.com")
	client.SetTimeout(requestTimeout)
	client.SetAuthToken(apiKey)

	return &OpenAIProvider{client: client, opts: opts}
}

func (p *OpenAIProvider) Name() string { return p.opts.Model }

func (p *OpenAIProvider) Invoke(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"model":       p.opts.Model,
			"max_tokens":  p.opts.MaxTokens,
			"temperature": p.opts.Temperature,
			"messages": []map[string]string{
				{"role": "user", "content": prompt},
			},
		}).
		Post("/v1/chat/completions")
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("openai API error %d: %s", resp.StatusCode(), resp.String())
	}

	var body struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", fmt.Errorf("parse openai response: %w", err)
	}
	if len(body.Choices) == 0 {
		return "", fmt.Errorf("openai response has no choices")
	}
	return body.Choices[0].Message.Content, nil
}
