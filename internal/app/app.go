// Package app wires configuration into the stores, models and action
// registries shared by the CLI and the HTTP server.
package app

import (
	"context"
	"fmt"
	"github.com/MagicOwO/pipo-agent/internal/actions/code"
	"github.com/MagicOwO/pipo-agent/internal/actions/demo"
	"github.com/MagicOwO/pipo-agent/internal/actions/research"
	"github.com/MagicOwO/pipo-agent/internal/store"
	"github.com/MagicOwO/pipo-agent/pkg/actions"
	"github.com/MagicOwO/pipo-agent/pkg/config"
	"github.com/MagicOwO/pipo-agent/pkg/llm"
	"github.com/rs/zerolog/log"
	"time"
)

// NewStore returns a redis store when an address is configured and an
// in-memory one otherwise.
func NewStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	if cfg.RedisAddr == "" {
		log.Debug().Msg("using in-memory store")
		return store.NewMemory(), nil
	}

	s := store.NewRedis(cfg.RedisAddr, "", 0, store.WithTTL(cfg.SessionTTL))
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Ping(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("using redis store")
	return s, nil
}

// NewClient builds the OpenAI backed LLM client.
func NewClient(cfg config.Config) (*llm.Client, error) {
	if err := cfg.CheckOpenAIKey(); err != nil {
		return nil, err
	}
	model, err := llm.NewOpenAI(cfg.OpenAIKey, cfg.Model, "")
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	return llm.New(model), nil
}

// AsQuerier returns client as an actions.Querier, or a nil interface when
// there is no client, so actions can detect the missing model.
func AsQuerier(client *llm.Client) actions.Querier {
	if client == nil {
		return nil
	}
	return client
}

// AgentActions are the code and research actions the PIPO agent plans over.
func AgentActions() (*actions.Registry, error) {
	r := actions.NewRegistry()
	if err := code.Register(r); err != nil {
		return nil, err
	}
	if err := research.Register(r); err != nil {
		return nil, err
	}
	return r, nil
}

// PlannerActions are the actions of the step-by-step planner.
func PlannerActions(cfg config.Config) (*actions.Registry, error) {
	r := actions.NewRegistry()
	if err := demo.Register(r, demo.Options{PerplexityKey: cfg.PerplexityToken()}); err != nil {
		return nil, err
	}
	return r, nil
}
