package actor

import (
	"context"
	"errors"
	"github.com/MagicOwO/pipo-agent/internal/agents/pipo/handler"
	"github.com/MagicOwO/pipo-agent/internal/store"
	"github.com/MagicOwO/pipo-agent/pkg/actions"
	"github.com/MagicOwO/pipo-agent/pkg/llm"
	"github.com/MagicOwO/pipo-agent/pkg/logger"
	"github.com/MagicOwO/pipo-agent/pkg/memory/buffer"
	"github.com/MagicOwO/pipo-agent/pkg/messages"
	"github.com/MagicOwO/pipo-agent/pkg/metrics"
	"github.com/MagicOwO/pipo-agent/pkg/models"
	"github.com/asynkron/protoactor-go/actor"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"time"
)

// Job runs a single PIPO request and stops once the outcome is stored.
type Job struct {
	client   *llm.Client
	registry *actions.Registry
	store    store.Store
	timeout  time.Duration
	memory   *buffer.Memories
	job      models.Job
}

func New(client *llm.Client, registry *actions.Registry, st store.Store, timeout time.Duration) actor.Producer {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return func() actor.Actor {
		return &Job{
			client:   client,
			registry: registry,
			store:    st,
			timeout:  timeout,
			memory:   &buffer.Memories{},
			job:      models.Job{State: models.Init},
		}
	}
}

func (agent *Job) Receive(ac actor.Context) {
	l := log.With().Fields(map[string]interface{}{logger.ActorIDField: ac.Self().GetId(), logger.AgentNameField: "pipo"}).Logger()
	switch msg := ac.Message().(type) {
	case *actor.Started:
		l.Debug().Msg("starting actor")
	case *actor.Stopping:
		l.Debug().Msg("stopping actor")
	case *actor.Stopped:
		l.Debug().Msg("stopped actor")
	case *actor.Restarting:
		l.Debug().Msg("restarting actor")
	case messages.NewRequest:
		l = l.With().Str(logger.RequestTaskID, msg.RequestID.String()).Logger()
		ctx, cancel := context.WithTimeout(context.Background(), agent.timeout)
		defer cancel()

		agent.job = models.Job{ID: msg.RequestID.String(), State: models.Thinking, Request: msg.Request}
		agent.save(ctx, l)

		l.Info().Msg("processing request...")
		h := handler.New(agent.client.Fork(agent.memory), agent.registry)
		result := h.ProcessRequest(ctx, msg.Request)

		agent.job.Result = &result
		agent.job.Transcript = agent.memory.Snapshot()
		agent.job.LLMCalls = len(agent.job.Transcript)
		if result.Success() {
			agent.job.State = models.Finished
			l.Info().Msg("request processed")
		} else {
			agent.job.State = models.Failed
			agent.job.Errs = models.NewError(errors.New(result.Error), msg.Request)
			l.Error().Interface("summary", result.Summary).Str("error", result.Error).Msg("request failed")
		}
		metrics.Jobs.WithLabelValues(string(agent.job.State)).Inc()
		agent.save(ctx, l)
		ac.Stop(ac.Self())
	default:
		l.Warn().Msgf("unknown message: %v", msg)
	}
}

func (agent *Job) save(ctx context.Context, l zerolog.Logger) {
	agent.job.UpdatedAt = time.Now()
	if err := agent.store.Save(ctx, store.JobKey(agent.job.ID), agent.job); err != nil {
		l.Error().Err(err).Msg("unable to persist job")
	}
}
