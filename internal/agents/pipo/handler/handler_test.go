package handler

import (
	"context"
	"errors"
	"github.com/MagicOwO/pipo-agent/internal/actions/code"
	"github.com/MagicOwO/pipo-agent/internal/actions/research"
	"github.com/MagicOwO/pipo-agent/pkg/actions"
	"github.com/MagicOwO/pipo-agent/pkg/llm"
	"github.com/MagicOwO/pipo-agent/pkg/llm/llmtest"
	"github.com/MagicOwO/pipo-agent/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

const researchPlan = `{
  "goal": "report on AI launches",
  "steps": [
    {"action": {"name": "WebSearch", "inputs": {"query": "AI launches 2024"}}, "description": "search", "output_key": "results"},
    {"action": {"name": "FetchWebContent", "inputs": {"url": "https://example.com/1"}}, "description": "fetch", "output_key": "page"},
    {"action": {"name": "ExtractEntities"}, "description": "entities", "input_mapping": {"text": "page"}, "output_key": "entities"},
    {"action": {"name": "GenerateReport", "inputs": {"style": "casual"}}, "description": "report", "input_mapping": {"entities": "entities"}, "output_key": "report"}
  ]
}`

func scripted(plan string) *llmtest.Model {
	return &llmtest.Model{Respond: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "structured objectives"):
			return `{"goal": "report on AI launches", "subtasks": ["search"], "constraints": []}`, nil
		case strings.Contains(prompt, "Generate a plan to fulfill"):
			return plan, nil
		case strings.Contains(prompt, "Summarize the results"):
			return "Three entities were reported.", nil
		}
		return "", errors.New("unexpected prompt")
	}}
}

func newHandler(t *testing.T, model *llmtest.Model) *Handler {
	r := actions.NewRegistry()
	require.NoError(t, code.Register(r))
	require.NoError(t, research.Register(r))
	return New(llm.New(model), r)
}

func TestProcessRequest(t *testing.T) {
	model := scripted(researchPlan)
	res := newHandler(t, model).ProcessRequest(context.Background(), "Research AI product launches")
	require.True(t, res.Success(), res.Error)

	assert.Equal(t, "Three entities were reported.", res.Summary)
	assert.Len(t, res.RawOutputs, 4)
	assert.Equal(t, "This is an example report summarizing the extracted entities.", res.RawOutputs["step_4"])
	assert.Equal(t, map[string]any{"goal": "report on AI launches", "num_steps": 4}, res.Metadata)

	calls := model.Calls()
	require.Len(t, calls, 3)
	assert.Contains(t, calls[1], "Action: WebSearch")
	assert.Contains(t, calls[1], "Action: ParseCode")
	assert.Contains(t, calls[2], "Goal: report on AI launches")
}

func TestProcessRequest_ValidationFailure(t *testing.T) {
	plan := `{"goal": "g", "steps": [{"action": {"name": "GenerateReport"}, "description": "report", "input_mapping": {"entities": "entities"}}]}`
	res := newHandler(t, scripted(plan)).ProcessRequest(context.Background(), "report")
	assert.False(t, res.Success())
	assert.Equal(t, "Plan validation failed", res.Summary)
	assert.Equal(t, "Step 1 requires output 'entities' which is not available", res.Error)

	res = newHandler(t, scripted(`{"goal": "g", "steps": []}`)).ProcessRequest(context.Background(), "report")
	assert.Equal(t, "Plan has no steps", res.Error)

	res = newHandler(t, scripted(`{"goal": "g", "steps": [{"action": {"name": "LaunchRocket"}}]}`)).ProcessRequest(context.Background(), "report")
	assert.Equal(t, "Step 1 uses unknown action 'LaunchRocket'", res.Error)
}

func TestProcessRequest_ExecutionFailure(t *testing.T) {
	plan := `{"goal": "g", "steps": [
		{"action": {"name": "WebSearch", "inputs": {"query": "q"}}, "description": "search", "output_key": "results"},
		{"action": {"name": "ParseCode", "inputs": {"code": "not go at all"}}, "description": "parse", "output_key": "ast"}
	]}`
	res := newHandler(t, scripted(plan)).ProcessRequest(context.Background(), "parse")
	assert.False(t, res.Success())
	assert.Equal(t, "Plan execution failed", res.Summary)
	assert.Contains(t, res.Error, "step 2 (ParseCode)")
	assert.Contains(t, res.RawOutputs, "step_1")
}

func TestProcessRequest_ModelFailure(t *testing.T) {
	model := &llmtest.Model{Respond: func(string) (string, error) { return "", errors.New("offline") }}
	res := newHandler(t, model).ProcessRequest(context.Background(), "anything")
	assert.Equal(t, "Request processing failed", res.Summary)
	assert.Contains(t, res.Error, "offline")
}

func TestExecutePlan_OutputsOnlyForKeyedSteps(t *testing.T) {
	h := newHandler(t, scripted(""))
	res := h.ExecutePlan(context.Background(), models.Plan{Goal: "g", Steps: []models.PlanStep{
		{Action: models.ActionCall{Name: "WebSearch", Inputs: map[string]any{"query": "q"}}},
		{Action: models.ActionCall{Name: "FetchWebContent", Inputs: map[string]any{"url": "u"}}, OutputKey: "page"},
	}})
	require.True(t, res.Success(), res.Error)
	assert.Equal(t, []string{"step_2"}, keys(res.RawOutputs))
}

func keys(m map[string]any) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	return out
}
