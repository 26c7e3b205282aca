// Package actions holds the action contract and the registration table that
// planners pick actions from.
package actions

import (
	"context"
	"github.com/MagicOwO/pipo-agent/pkg/models"
	"time"
)

// Querier is the LLM surface actions may use.
type Querier interface {
	// Text renders tmpl with vars, sends it and returns the raw completion.
	Text(ctx context.Context, tmpl string, vars map[string]any) (string, error)
	// JSON is Text followed by decoding the first JSON object of the answer into out.
	JSON(ctx context.Context, tmpl string, vars map[string]any, out any) error
}

// Env is what an action sees when it executes.
type Env struct {
	LLM Querier
	// Question and PastSteps are set by the step-by-step planner.
	Question  string
	PastSteps []models.StepResult
}

// Action is a discrete capability executed as part of a plan. Its inputs are
// the exported fields of the implementing struct.
type Action interface {
	Execute(ctx context.Context, env Env) (any, error)
}

// Spec describes a registered action.
type Spec struct {
	Name              string
	Description       string
	EstimatedDuration time.Duration
	// New returns a fresh action with default inputs set.
	New func() Action
}
