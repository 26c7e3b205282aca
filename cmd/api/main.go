package main

import (
	"context"
	"flag"
	pipo "github.com/MagicOwO/pipo-agent/internal/agents/pipo/actor"
	planner "github.com/MagicOwO/pipo-agent/internal/agents/planner/actor"
	"github.com/MagicOwO/pipo-agent/internal/agents/planner/handler"
	"github.com/MagicOwO/pipo-agent/internal/api"
	"github.com/MagicOwO/pipo-agent/internal/app"
	"github.com/MagicOwO/pipo-agent/pkg/config"
	"github.com/MagicOwO/pipo-agent/pkg/llm"
	"github.com/MagicOwO/pipo-agent/pkg/logger"
	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	zLog "github.com/rs/zerolog/log"
	"log"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	log.Println("starting server")
	if err := config.LoadEnvFiles("."); err != nil {
		log.Panicf("failed to load env files: %v", err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Panicf("failed to load config: %v", err)
	}
	if err := logger.NewGlobal(cfg.LogLevel, cfg.LogPretty); err != nil {
		log.Panicf("failed to initialize logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := app.NewStore(ctx, cfg)
	if err != nil {
		zLog.Panic().Err(err).Msg("failed to open store")
	}
	defer st.Close()

	agentActions, err := app.AgentActions()
	if err != nil {
		zLog.Panic().Err(err).Msg("failed to register agent actions")
	}
	plannerActions, err := app.PlannerActions(cfg)
	if err != nil {
		zLog.Panic().Err(err).Msg("failed to register planner actions")
	}

	// without a key the server still starts; /health reports it and work is refused with 412
	var client *llm.Client
	if err := cfg.CheckOpenAIKey(); err != nil {
		zLog.Warn().Err(err).Msg("no usable OpenAI API key")
	} else if client, err = app.NewClient(cfg); err != nil {
		zLog.Panic().Err(err).Msg("failed to create llm client")
	}
	plannerHandler := handler.New(app.AsQuerier(client), plannerActions)

	system := actor.NewActorSystem()
	server := api.New(system.Root, api.Options{
		Addr:    cfg.Addr,
		Store:   st,
		Actions: plannerActions,
		NewJob: func() actor.Producer {
			return pipo.New(client, agentActions, st, 0)
		},
		NewSession: func(id uuid.UUID) actor.Producer {
			return planner.New(id, plannerHandler, st, planner.Config{MaxSteps: cfg.MaxSteps})
		},
		CheckKey: cfg.CheckOpenAIKey,
	})

	go func() {
		err := server.Start()
		if err != nil {
			zLog.Panic().Err(err).Msg("server crash")
		}
	}()

	<-ctx.Done()

	stop()
	zLog.Info().Msg("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		zLog.Panic().Err(err).Msg("server forced to shutdown")
	}

	zLog.Info().Msg("server exiting")
}
