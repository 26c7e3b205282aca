package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/MagicOwO/pipo-agent/pkg/data"
	"github.com/MagicOwO/pipo-agent/pkg/memory/buffer"
	"github.com/MagicOwO/pipo-agent/pkg/metrics"
	"github.com/MagicOwO/pipo-agent/pkg/template"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
	"sort"
	"time"
)

var ErrEmptyCompletion = errors.New("empty completion")

// Client runs prompt templates through a langchaingo model. Template values
// that are not strings are rendered as indented JSON.
type Client struct {
	model    llms.Model
	memory   *buffer.Memories
	attempts int
}

type Option func(*Client)

// WithAttempts sets how many times JSON queries are retried on undecodable answers.
func WithAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.attempts = n
		}
	}
}

// WithMemory records every question and answer into m.
func WithMemory(m *buffer.Memories) Option {
	return func(c *Client) {
		c.memory = m
	}
}

func New(model llms.Model, opts ...Option) *Client {
	c := &Client{model: model, attempts: 2}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fork returns a client sharing the model but recording into m.
func (c *Client) Fork(m *buffer.Memories) *Client {
	cp := *c
	cp.memory = m
	return &cp
}

func (c *Client) Text(ctx context.Context, tmpl string, vars map[string]any) (string, error) {
	values, err := stringify(vars)
	if err != nil {
		return "", err
	}

	start := time.Now()
	chain := chains.NewLLMChain(c.model, prompts.NewPromptTemplate(tmpl, keys(values)))
	completion, err := chains.Call(ctx, chain, values)
	metrics.LLMDuration.Observe(time.Since(start).Seconds())
	metrics.LLMCalls.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		return "", fmt.Errorf("call: %w", err)
	}

	answer, _ := completion["text"].(string)
	if answer == "" {
		return "", ErrEmptyCompletion
	}

	if c.memory != nil {
		question, err := template.Parse(tmpl, values)
		if err != nil {
			log.Debug().Err(err).Msg("unable to render question for memory")
		}
		c.memory.Add(buffer.Memory{Question: question, Answer: answer})
	}
	return answer, nil
}

func (c *Client) JSON(ctx context.Context, tmpl string, vars map[string]any, out any) error {
	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		answer, err := c.Text(ctx, tmpl, vars)
		if err != nil {
			return err
		}
		if lastErr = decode(answer, out); lastErr == nil {
			return nil
		}
		log.Warn().Err(lastErr).Int("attempt", attempt).Msg("undecodable answer from llm")
	}
	return fmt.Errorf("decode after %d attempts: %w", c.attempts, lastErr)
}

func decode(answer string, out any) error {
	match, err := data.SanitizeAnswer(data.StripFences(answer))
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(match), out); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return nil
}

func stringify(vars map[string]any) (map[string]any, error) {
	values := make(map[string]any, len(vars))
	for k, v := range vars {
		switch t := v.(type) {
		case string:
			values[k] = t
		default:
			b, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("marshal %s: %w", k, err)
			}
			values[k] = string(b)
		}
	}
	return values, nil
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
