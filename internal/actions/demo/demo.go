// Package demo holds the actions of the step-by-step planner. Each carries an
// estimated duration used to cost plans before they run.
package demo

import (
	"context"
	"errors"
	"fmt"
	"github.com/MagicOwO/pipo-agent/pkg/actions"
	"github.com/MagicOwO/pipo-agent/pkg/llm"
	"github.com/MagicOwO/pipo-agent/pkg/prompts"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"strings"
	"time"
)

const FinalAnswerName = "FinalAnswer"

var ErrMissingPerplexityKey = errors.New("PERPLEXITY_API_KEY environment variable not set")

// GoogleSearch is a mock search returning a market valuation for a few companies.
type GoogleSearch struct {
	Query string `json:"query" jsonschema:"required" jsonschema_description:"Search query"`
}

func (g *GoogleSearch) Execute(context.Context, actions.Env) (any, error) {
	switch {
	case strings.Contains(g.Query, "Nvidia"):
		return 1000, nil
	case strings.Contains(g.Query, "AMD"):
		return 100, nil
	default:
		return 0, nil
	}
}

type AskGPT struct {
	Query string `json:"query" jsonschema:"required" jsonschema_description:"Specific question to ask"`
}

func (a *AskGPT) Execute(ctx context.Context, env actions.Env) (any, error) {
	if env.LLM == nil {
		return nil, errors.New("no language model available")
	}
	return env.LLM.Text(ctx, prompts.AskQuery, map[string]any{"query": a.Query})
}

type ModelFactory func(token, model string) (llms.Model, error)

type AskPerplexity struct {
	Query string `json:"query" jsonschema:"required" jsonschema_description:"Question needing up-to-date information"`
	Model string `json:"model,omitempty" jsonschema_description:"Perplexity model name"`

	token    string
	newModel ModelFactory
}

// Execute queries Perplexity. API failures are reported in the returned text
// so that a plan can continue past them.
func (a *AskPerplexity) Execute(ctx context.Context, _ actions.Env) (any, error) {
	if a.token == "" {
		return nil, ErrMissingPerplexityKey
	}
	model, err := a.newModel(a.token, a.Model)
	if err != nil {
		return nil, fmt.Errorf("perplexity: %w", err)
	}

	log.Debug().Str("query", a.Query).Msg("calling perplexity")
	answer, err := llm.Chat(ctx, model, prompts.PerplexitySystem, a.Query)
	if err != nil {
		log.Warn().Err(err).Msg("perplexity call failed")
		return fmt.Sprintf("Perplexity API Error: %v", err), nil
	}
	return answer, nil
}

type FinalAnswer struct {
	FinalAnswer string `json:"final_answer" jsonschema:"required" jsonschema_description:"The answer to the question"`
}

func (f *FinalAnswer) Execute(context.Context, actions.Env) (any, error) {
	return f.FinalAnswer, nil
}

type Options struct {
	PerplexityKey string
	// NewPerplexity defaults to llm.NewPerplexity.
	NewPerplexity ModelFactory
}

// Register adds the planner actions to r.
func Register(r *actions.Registry, opts Options) error {
	if opts.NewPerplexity == nil {
		opts.NewPerplexity = llm.NewPerplexity
	}
	specs := []actions.Spec{
		{
			Name:              "GoogleSearch",
			Description:       "Performs a Google search to retrieve information related to the query.",
			EstimatedDuration: 2 * time.Second,
			New:               func() actions.Action { return &GoogleSearch{} },
		},
		{
			Name:              "AskGPT",
			Description:       "Asks GPT a specific question to get information.",
			EstimatedDuration: 5 * time.Second,
			New:               func() actions.Action { return &AskGPT{} },
		},
		{
			Name:              "AskPerplexity",
			Description:       "Queries the Perplexity AI online model to answer a question or retrieve up-to-date information.",
			EstimatedDuration: 15 * time.Second,
			New: func() actions.Action {
				return &AskPerplexity{Model: llm.PerplexityModel, token: opts.PerplexityKey, newModel: opts.NewPerplexity}
			},
		},
		{
			Name:              FinalAnswerName,
			Description:       "Gives the final answer to the question.",
			EstimatedDuration: time.Second,
			New:               func() actions.Action { return &FinalAnswer{} },
		},
	}
	for _, s := range specs {
		if err := r.Register(s); err != nil {
			return err
		}
	}
	return nil
}
