package handler

import (
	"context"
	"fmt"
	"github.com/MagicOwO/pipo-agent/pkg/actions"
	"github.com/MagicOwO/pipo-agent/pkg/logger"
	"github.com/MagicOwO/pipo-agent/pkg/models"
	"github.com/MagicOwO/pipo-agent/pkg/prompts"
	"github.com/rs/zerolog/log"
)

// Handler turns a natural language request into a plan over the registered
// actions, runs it and summarizes the outputs.
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

// ProcessRequest never returns an error: failures are reported in the Result.
func (h *Handler) ProcessRequest(ctx context.Context, request string) models.Result {
	req, err := h.ParseRequest(ctx, request)
	if err != nil {
		return failed("Request processing failed", nil, err)
	}

	plan, err := h.GeneratePlan(ctx, req)
	if err != nil {
		return failed("Request processing failed", nil, err)
	}

	if err := plan.ValidateWith(h.registry.Has); err != nil {
		return failed("Plan validation failed", nil, err)
	}

	return h.ExecutePlan(ctx, plan)
}

func (h *Handler) ParseRequest(ctx context.Context, request string) (models.UserRequest, error) {
	var req models.UserRequest
	if err := h.llm.JSON(ctx, prompts.ParseRequest, map[string]any{"request": request}, &req); err != nil {
		return models.UserRequest{}, fmt.Errorf("parse request: %w", err)
	}
	if req.Goal == "" {
		req.Goal = request
	}
	return req, nil
}

func (h *Handler) GeneratePlan(ctx context.Context, req models.UserRequest) (models.Plan, error) {
	var plan models.Plan
	err := h.llm.JSON(ctx, prompts.GeneratePlan, map[string]any{
		"goal":        req.Goal,
		"subtasks":    nonNil(req.Subtasks),
		"constraints": nonNil(req.Constraints),
		"context":     req.Context,
		"actions":     h.registry.DescribeAll(),
	}, &plan)
	if err != nil {
		return models.Plan{}, fmt.Errorf("generate plan: %w", err)
	}
	if plan.Goal == "" {
		plan.Goal = req.Goal
	}
	return plan, nil
}

// ExecutePlan runs a validated plan step by step. A step's configured inputs
// are overlaid with the outputs its InputMapping points at.
func (h *Handler) ExecutePlan(ctx context.Context, plan models.Plan) models.Result {
	outputs := map[string]any{}
	execContext := map[string]any{}

	for i, step := range plan.Steps {
		l := log.With().Int(logger.StepField, i+1).Str(logger.ActionField, step.Action.Name).Logger()

		inputs := make(map[string]any, len(step.Action.Inputs)+len(step.InputMapping))
		for k, v := range step.Action.Inputs {
			inputs[k] = v
		}
		for param, source := range step.InputMapping {
			v, ok := execContext[source]
			if !ok {
				return failed("Plan execution failed", outputs, fmt.Errorf("step %d: output '%s' is not available", i+1, source))
			}
			inputs[param] = v
		}

		result, err := h.registry.Run(ctx, step.Action.Name, inputs, actions.Env{LLM: h.llm})
		if err != nil {
			l.Error().Err(err).Msg("step failed")
			return failed("Plan execution failed", outputs, fmt.Errorf("step %d (%s): %w", i+1, step.Action.Name, err))
		}
		l.Debug().Msg("step completed")

		if step.OutputKey != "" {
			execContext[step.OutputKey] = result
			outputs[fmt.Sprintf("step_%d", i+1)] = result
		}
	}

	summary, err := h.llm.Text(ctx, prompts.SummarizeResults, map[string]any{
		"goal":    plan.Goal,
		"outputs": outputs,
	})
	if err != nil {
		return failed("Plan execution failed", outputs, fmt.Errorf("summarize: %w", err))
	}

	return models.Result{
		Summary:    summary,
		RawOutputs: outputs,
		Metadata: map[string]any{
			"goal":      plan.Goal,
			"num_steps": len(plan.Steps),
		},
	}
}

func failed(summary string, outputs map[string]any, err error) models.Result {
	if outputs == nil {
		outputs = map[string]any{}
	}
	return models.Result{Summary: summary, RawOutputs: outputs, Error: err.Error()}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
