package llm

import (
	"context"
	"errors"
	"fmt"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

const (
	DefaultModel      = "gpt-4"
	PerplexityBaseURL = "https://api.perplexity.ai"
	PerplexityModel   = "llama-3-sonar-small-32k-online"
)

var ErrMissingToken = errors.New("missing api key")

// NewOpenAI returns an OpenAI (or OpenAI compatible, when baseURL is set) chat model.
func NewOpenAI(token, model, baseURL string) (llms.Model, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	if model == "" {
		model = DefaultModel
	}
	opts := []openai.Option{openai.WithToken(token), openai.WithModel(model)}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	return llm, nil
}

// NewPerplexity returns a model talking to the Perplexity online models.
func NewPerplexity(token, model string) (llms.Model, error) {
	if model == "" {
		model = PerplexityModel
	}
	return NewOpenAI(token, model, PerplexityBaseURL)
}

// Chat sends a system and a user message and returns the first choice.
func Chat(ctx context.Context, model llms.Model, system, user string) (string, error) {
	resp, err := model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, system),
		llms.TextParts(schema.ChatMessageTypeHuman, user),
	})
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Content, nil
}
