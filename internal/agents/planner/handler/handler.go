package handler

import (
	"context"
	"errors"
	"fmt"
	"github.com/MagicOwO/pipo-agent/internal/actions/demo"
	"github.com/MagicOwO/pipo-agent/pkg/actions"
	"github.com/MagicOwO/pipo-agent/pkg/logger"
	"github.com/MagicOwO/pipo-agent/pkg/models"
	"github.com/MagicOwO/pipo-agent/pkg/prompts"
	"github.com/rs/zerolog/log"
	"strings"
	"time"
)

const DefaultMaxSteps = 10

const (
	NoFinalAnswer       = "Execution completed but no final answer was found."
	PlanRejected        = "Plan rejected."
	PlanWithoutAnswer   = "Plan completed without providing a final answer."
	executionFailedText = "Execution failed at step %d."
)

var ErrNoAnswer = errors.New("no final answer within the step budget")

// StepError reports the zero-based step that failed.
type StepError struct {
	Index  int
	Action string
	Err    error
}

func (e *StepError) Error() string { return fmt.Sprintf("Error executing step %d: %v", e.Index, e.Err) }

func (e *StepError) Unwrap() error { return e.Err }

// Handler plans over the demo actions, either as a whole plan up front or one
// step at a time.
type Handler struct {
	llm      actions.Querier
	registry *actions.Registry
}

func New(llm actions.Querier, registry *actions.Registry) *Handler {
	return &Handler{
		llm:      llm,
		registry: registry,
	}
}

// GeneratePlan asks for a new plan, or for a revision of current when feedback
// is given.
func (h *Handler) GeneratePlan(ctx context.Context, question, feedback string, current *models.DemoPlan) (models.DemoPlan, error) {
	tmpl := prompts.PlannerNewPlan
	vars := map[string]any{
		"question": question,
		"actions":  h.registry.SummarizeAll(),
	}
	if current != nil && feedback != "" {
		tmpl = prompts.PlannerRevisePlan
		vars["current_plan"] = *current
		vars["feedback"] = feedback
	}

	var plan models.DemoPlan
	if err := h.llm.JSON(ctx, tmpl, vars, &plan); err != nil {
		return models.DemoPlan{}, fmt.Errorf("generate plan: %w", err)
	}
	if err := h.check(plan); err != nil {
		return models.DemoPlan{}, err
	}
	return plan, nil
}

func (h *Handler) check(plan models.DemoPlan) error {
	if len(plan.Steps) == 0 {
		return &models.ValidationError{Reason: "Plan has no steps"}
	}
	for i, step := range plan.Steps {
		if !h.registry.Has(step.Action.Name) {
			return &models.ValidationError{Reason: fmt.Sprintf("Step %d uses unknown action '%s'", i, step.Action.Name)}
		}
	}
	return nil
}

// Duration is the sum of the estimated durations of the plan's actions.
func (h *Handler) Duration(plan models.DemoPlan) time.Duration {
	var total time.Duration
	for _, step := range plan.Steps {
		if spec, ok := h.registry.Lookup(step.Action.Name); ok {
			total += spec.EstimatedDuration
		}
	}
	return total
}

// Describe renders the plan for review.
func (h *Handler) Describe(plan models.DemoPlan) string {
	var b strings.Builder
	if plan.Thought != "" {
		fmt.Fprintf(&b, "Thought: %s\n\n", plan.Thought)
	}
	for i, step := range plan.Steps {
		fmt.Fprintf(&b, "Step %d: Action: %s\n", i, step.Action)
		fmt.Fprintf(&b, "  Thought: %s\n", step.Thought)
		if spec, ok := h.registry.Lookup(step.Action.Name); ok {
			fmt.Fprintf(&b, "  Estimated Duration: %.1fs\n", spec.EstimatedDuration.Seconds())
		}
	}
	fmt.Fprintf(&b, "Total Estimated Time: %.1f seconds", h.Duration(plan).Seconds())
	return b.String()
}

// ExecutePlan runs the steps in order. On failure the answer is the step error
// text and the error is a *StepError.
func (h *Handler) ExecutePlan(ctx context.Context, question string, plan models.DemoPlan) (string, []models.StepResult, error) {
	results := []models.StepResult{}
	for i, step := range plan.Steps {
		result, err := h.run(ctx, question, step, results)
		if err != nil {
			stepErr := &StepError{Index: i, Action: step.Action.Name, Err: err}
			log.Error().Err(err).Int(logger.StepField, i).Str(logger.ActionField, step.Action.Name).Msg("step failed")
			return stepErr.Error(), results, stepErr
		}
		results = append(results, models.StepResult{Step: step, Result: result})
	}

	if len(results) > 0 {
		if answer, ok := results[len(results)-1].Result.(string); ok {
			return answer, results, nil
		}
	}
	return NoFinalAnswer, results, nil
}

// DynamicSolve asks for one step at a time until a FinalAnswer is proposed.
// ErrNoAnswer is returned with the recorded steps when maxSteps is exhausted.
func (h *Handler) DynamicSolve(ctx context.Context, question string, maxSteps int) (string, []models.StepResult, error) {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	results := []models.StepResult{}
	for i := 0; i < maxSteps; i++ {
		var step models.Step
		err := h.llm.JSON(ctx, prompts.PlannerNextStep, map[string]any{
			"question":   question,
			"past_steps": results,
			"actions":    h.registry.SummarizeAll(),
		}, &step)
		if err != nil {
			return "", results, fmt.Errorf("next step: %w", err)
		}

		l := log.With().Int(logger.StepField, i).Str(logger.ActionField, step.Action.Name).Logger()
		l.Debug().Str("thought", step.Thought).Msg("next step")

		result, err := h.run(ctx, question, step, results)
		if err != nil {
			return "", results, &StepError{Index: i, Action: step.Action.Name, Err: err}
		}
		if step.Action.Name == demo.FinalAnswerName {
			return fmt.Sprint(result), results, nil
		}
		results = append(results, models.StepResult{Step: step, Result: result})
	}
	return "", results, ErrNoAnswer
}

// StaticSolve generates a plan, has it reviewed until approved or rejected and
// then executes it.
func (h *Handler) StaticSolve(ctx context.Context, question string, reviewer Reviewer) (string, error) {
	var (
		current  *models.DemoPlan
		feedback string
	)
	for {
		plan, err := h.GeneratePlan(ctx, question, feedback, current)
		if err != nil {
			return "", err
		}

		decision, err := reviewer.Review(ctx, plan, h.Duration(plan))
		if err != nil {
			return "", fmt.Errorf("review: %w", err)
		}

		switch decision.Verdict {
		case Approve:
			return h.executeApproved(ctx, question, plan), nil
		case Reject:
			return PlanRejected, nil
		default:
			log.Info().Str("feedback", decision.Feedback).Msg("revising plan")
			current, feedback = &plan, decision.Feedback
		}
	}
}

func (h *Handler) executeApproved(ctx context.Context, question string, plan models.DemoPlan) string {
	_, results, err := h.ExecutePlan(ctx, question, plan)
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return fmt.Sprintf(executionFailedText, stepErr.Index)
	}
	if plan.Steps[len(plan.Steps)-1].Action.Name != demo.FinalAnswerName {
		return PlanWithoutAnswer
	}
	return fmt.Sprint(results[len(results)-1].Result)
}

func (h *Handler) run(ctx context.Context, question string, step models.Step, past []models.StepResult) (any, error) {
	return h.registry.Run(ctx, step.Action.Name, step.Action.Inputs, actions.Env{
		LLM:       h.llm,
		Question:  question,
		PastSteps: append([]models.StepResult(nil), past...),
	})
}
