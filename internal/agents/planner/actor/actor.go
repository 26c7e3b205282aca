package actor

import (
	"context"
	"errors"
	"fmt"
	"github.com/MagicOwO/pipo-agent/internal/agents/planner/handler"
	"github.com/MagicOwO/pipo-agent/internal/store"
	"github.com/MagicOwO/pipo-agent/pkg/logger"
	"github.com/MagicOwO/pipo-agent/pkg/messages"
	"github.com/MagicOwO/pipo-agent/pkg/metrics"
	"github.com/MagicOwO/pipo-agent/pkg/models"
	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"time"
)

var ErrInterrupted = errors.New("session was interrupted while working")

// Session drives one planning workflow. Every stage change is persisted, so a
// respawned actor picks up where the last one stopped.
type Session struct {
	id       uuid.UUID
	handler  *handler.Handler
	store    store.Store
	maxSteps int
	timeout  time.Duration
	session  models.Session
}

type Config struct {
	MaxSteps int
	// Timeout bounds the work done for a single message.
	Timeout time.Duration
}

func New(id uuid.UUID, h *handler.Handler, st store.Store, cfg Config) actor.Producer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}
	return func() actor.Actor {
		return &Session{
			id:       id,
			handler:  h,
			store:    st,
			maxSteps: cfg.MaxSteps,
			timeout:  cfg.Timeout,
		}
	}
}

// Allowed reports whether a session in stage may handle msg.
func Allowed(stage models.Stage, msg interface{}) error {
	var ok bool
	switch msg.(type) {
	case messages.StartSession:
		ok = stage == models.StageInput
	case messages.SubmitFeedback, messages.ApprovePlan, messages.RejectPlan:
		ok = stage == models.StageFeedback
	case messages.ResetSession, messages.DeleteSession:
		ok = stage == models.StageInput || stage.CanTransition(models.StageInput)
	default:
		return fmt.Errorf("unsupported message %T", msg)
	}
	if !ok {
		return fmt.Errorf("%w: %T not accepted in stage %s", models.ErrInvalidTransition, msg, stage)
	}
	return nil
}

func (agent *Session) Receive(ac actor.Context) {
	l := log.With().Fields(map[string]interface{}{
		logger.ActorIDField:   ac.Self().GetId(),
		logger.AgentNameField: "planner",
		logger.SessionIDField: agent.id.String(),
	}).Logger()

	ctx, cancel := context.WithTimeout(context.Background(), agent.timeout)
	defer cancel()

	switch msg := ac.Message().(type) {
	case *actor.Started:
		l.Debug().Msg("starting actor")
		agent.restore(ctx, l)
	case *actor.Stopping:
		l.Debug().Msg("stopping actor")
	case *actor.Stopped:
		l.Debug().Msg("stopped actor")
	case *actor.Restarting:
		l.Debug().Msg("restarting actor")
	case messages.Request:
		if time.Now().After(msg.Deadline) {
			l.Warn().Msgf("dropping %T, the caller stopped waiting", msg.Command)
			return
		}
		agent.handle(ctx, ac, l, msg.Command)
	default:
		agent.handle(ctx, ac, l, msg)
	}
}

func (agent *Session) handle(ctx context.Context, ac actor.Context, l zerolog.Logger, msg interface{}) {
	switch msg := msg.(type) {
	case messages.StartSession:
		if !agent.accept(ac, l, msg) {
			return
		}
		agent.start(ctx, l, msg)
	case messages.SubmitFeedback:
		if !agent.accept(ac, l, msg) {
			return
		}
		l.Info().Str("feedback", msg.Feedback).Msg("revising plan...")
		plan, err := agent.handler.GeneratePlan(ctx, agent.session.Query, msg.Feedback, agent.session.Plan)
		if err != nil {
			agent.fail(ctx, l, err, msg)
			return
		}
		agent.session.Feedback = msg.Feedback
		agent.setPlan(plan)
		agent.transition(ctx, l, models.StageFeedback)
	case messages.ApprovePlan:
		if !agent.accept(ac, l, msg) {
			return
		}
		agent.transition(ctx, l, models.StageExecuting)
		l.Info().Msg("executing plan...")
		answer, results, err := agent.handler.ExecutePlan(ctx, agent.session.Query, *agent.session.Plan)
		if err != nil {
			l.Warn().Err(err).Msg("plan execution stopped")
		}
		agent.session.Results = results
		agent.session.FinalAnswer = answer
		agent.transition(ctx, l, models.StageCompleted)
	case messages.RejectPlan, messages.ResetSession:
		if !agent.accept(ac, l, msg) {
			return
		}
		agent.session.Reset()
		agent.count(models.StageInput)
		agent.save(ctx, l)
	case messages.DeleteSession:
		if !agent.accept(ac, l, msg) {
			return
		}
		if err := agent.store.Delete(ctx, store.SessionKey(agent.id.String())); err != nil {
			l.Error().Err(err).Msg("unable to delete session")
		}
		l.Info().Msg("session deleted")
		ac.Stop(ac.Self())
	default:
		l.Warn().Msgf("unknown message: %v", msg)
	}
}

// accept checks msg against the live stage and acknowledges requests before
// any work starts.
func (agent *Session) accept(ac actor.Context, l zerolog.Logger, msg interface{}) bool {
	err := Allowed(agent.session.Stage, msg)
	if ac.Sender() != nil {
		ac.Respond(messages.Ack{Stage: agent.session.Stage, Err: err})
	}
	if err != nil {
		l.Warn().Err(err).Msg("ignoring message")
		return false
	}
	return true
}

func (agent *Session) start(ctx context.Context, l zerolog.Logger, msg messages.StartSession) {
	agent.session.Reset()
	agent.session.Query = msg.Query
	agent.session.Mode = msg.Mode

	if msg.Mode == models.ModeDynamic {
		agent.transition(ctx, l, models.StageDynamic)
		l.Info().Msg("solving step by step...")
		answer, results, err := agent.handler.DynamicSolve(ctx, msg.Query, agent.maxSteps)
		agent.session.Results = results
		var stepErr *handler.StepError
		switch {
		case errors.As(err, &stepErr):
			answer = stepErr.Error()
		case errors.Is(err, handler.ErrNoAnswer):
			l.Info().Msg("no final answer found")
		case err != nil:
			agent.fail(ctx, l, err, msg)
			return
		}
		agent.session.FinalAnswer = answer
		agent.transition(ctx, l, models.StageCompleted)
		return
	}

	agent.transition(ctx, l, models.StagePlanning)
	l.Info().Msg("planning...")
	plan, err := agent.handler.GeneratePlan(ctx, msg.Query, "", nil)
	if err != nil {
		agent.fail(ctx, l, err, msg)
		return
	}
	agent.setPlan(plan)
	agent.transition(ctx, l, models.StageFeedback)
}

func (agent *Session) setPlan(plan models.DemoPlan) {
	agent.session.Plan = &plan
	agent.session.EstimatedDuration = agent.handler.Duration(plan).Seconds()
}

func (agent *Session) restore(ctx context.Context, l zerolog.Logger) {
	err := agent.store.Load(ctx, store.SessionKey(agent.id.String()), &agent.session)
	switch {
	case errors.Is(err, store.ErrNotFound):
		agent.session = models.Session{ID: agent.id.String(), Mode: models.ModeStatic, Stage: models.StageInput, UpdatedAt: time.Now()}
		agent.save(ctx, l)
	case err != nil:
		l.Error().Err(err).Msg("unable to restore session")
		agent.session = models.Session{ID: agent.id.String(), Stage: models.StageInput}
	default:
		l.Debug().Str(logger.StageField, string(agent.session.Stage)).Msg("restored session")
		switch agent.session.Stage {
		case models.StagePlanning, models.StageExecuting, models.StageDynamic:
			agent.fail(ctx, l, ErrInterrupted, nil)
		}
	}
}

func (agent *Session) transition(ctx context.Context, l zerolog.Logger, next models.Stage) {
	if err := agent.session.Stage.Transition(next); err != nil {
		l.Error().Err(err).Msg("forcing transition")
	}
	agent.session.Stage = next
	agent.count(next)
	agent.save(ctx, l)
}

func (agent *Session) fail(ctx context.Context, l zerolog.Logger, err error, msg interface{}) {
	l.Error().Err(err).Msg("session failed")
	agent.session.Errs = models.NewError(err, msg)
	agent.transition(ctx, l, models.StageFailed)
}

func (agent *Session) count(stage models.Stage) {
	metrics.SessionTransitions.WithLabelValues(string(stage)).Inc()
}

func (agent *Session) save(ctx context.Context, l zerolog.Logger) {
	agent.session.UpdatedAt = time.Now()
	if err := agent.store.Save(ctx, store.SessionKey(agent.id.String()), agent.session); err != nil {
		l.Error().Err(err).Msg("unable to persist session")
	}
	l.Debug().Str(logger.StageField, string(agent.session.Stage)).Msg("session saved")
}
