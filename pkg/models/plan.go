package models

import (
	"errors"
	"fmt"
	"strings"
)

// ActionCall is an action configuration: the registered action name and the
// inputs to build it with.
type ActionCall struct {
	Name   string         `json:"name"`
	Inputs map[string]any `json:"inputs,omitempty"`
}

func (a ActionCall) String() string {
	if len(a.Inputs) == 0 {
		return a.Name + "()"
	}
	keys := sortedKeys(a.Inputs)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, a.Inputs[k]))
	}
	return a.Name + "(" + strings.Join(parts, ", ") + ")"
}

// PlanStep pairs an action with a description. InputMapping maps an action
// input to the output key of an earlier step.
type PlanStep struct {
	Action       ActionCall        `json:"action"`
	Description  string            `json:"description"`
	InputMapping map[string]string `json:"input_mapping,omitempty"`
	OutputKey    string            `json:"output_key,omitempty"`
}

// Plan is an ordered list of steps towards a goal.
type Plan struct {
	Goal  string     `json:"goal"`
	Steps []PlanStep `json:"steps"`
}

var ErrInvalidPlan = errors.New("invalid plan")

// ValidationError carries the reason a plan cannot run. It matches ErrInvalidPlan.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidPlan }

func invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// Describe returns a natural language description of the plan.
func (p Plan) Describe() string {
	lines := []string{fmt.Sprintf("Plan to achieve: %s\n", p.Goal)}
	for i, step := range p.Steps {
		lines = append(lines, fmt.Sprintf("Step %d: %s", i+1, step.Description))
		if len(step.InputMapping) > 0 {
			lines = append(lines, "  Using:")
			for _, param := range sortedKeys(step.InputMapping) {
				lines = append(lines, fmt.Sprintf("  - %s from %s", param, step.InputMapping[param]))
			}
		}
	}
	return strings.Join(lines, "\n")
}

// Validate checks that the plan has steps and that every input mapping refers
// to an output produced by an earlier step.
func (p Plan) Validate() error {
	return p.ValidateWith(nil)
}

// ValidateWith is Validate plus a check that every step names an action known
// to the given lookup. A nil lookup skips the action check.
func (p Plan) ValidateWith(known func(name string) bool) error {
	if len(p.Steps) == 0 {
		return invalid("Plan has no steps")
	}

	available := map[string]struct{}{}
	for i, step := range p.Steps {
		if known != nil && !known(step.Action.Name) {
			return invalid("Step %d uses unknown action '%s'", i+1, step.Action.Name)
		}
		for _, param := range sortedKeys(step.InputMapping) {
			source := step.InputMapping[param]
			if _, ok := available[source]; !ok {
				return invalid("Step %d requires output '%s' which is not available", i+1, source)
			}
		}
		if step.OutputKey != "" {
			available[step.OutputKey] = struct{}{}
		}
	}
	return nil
}

// UserRequest is the structured form of a raw text request.
type UserRequest struct {
	Goal        string         `json:"goal"`
	Subtasks    []string       `json:"subtasks,omitempty"`
	Constraints []string       `json:"constraints,omitempty"`
	Context     map[string]any `json:"context,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}
