package llm

import (
	"context"
	"errors"
	"github.com/MagicOwO/pipo-agent/pkg/llm/llmtest"
	"github.com/MagicOwO/pipo-agent/pkg/memory/buffer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestClient_Text(t *testing.T) {
	model := llmtest.New("forty two")
	mem := &buffer.Memories{}
	c := New(model, WithMemory(mem))

	out, err := c.Text(context.Background(), "Q: {{.question}} given {{.facts}}", map[string]any{
		"question": "meaning?",
		"facts":    []string{"a", "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, "forty two", out)

	calls := model.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0], "Q: meaning? given [\n  \"a\",\n  \"b\"\n]")

	items := mem.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, calls[0], items[0].Question)
	assert.Equal(t, "forty two", items[0].Answer)
}

func TestClient_JSON(t *testing.T) {
	var out struct {
		Goal  string   `json:"goal"`
		Tasks []string `json:"tasks"`
	}
	model := llmtest.New("Here you go:\n```json\n{\"goal\": \"g\", \"tasks\": [\"a\"]}\n```")
	require.NoError(t, New(model).JSON(context.Background(), "plan {{.goal}}", map[string]any{"goal": "g"}, &out))
	assert.Equal(t, "g", out.Goal)
	assert.Equal(t, []string{"a"}, out.Tasks)
}

func TestClient_JSONRetries(t *testing.T) {
	var out map[string]any
	model := llmtest.New("not json", `{"ok": true}`)
	require.NoError(t, New(model).JSON(context.Background(), "x", nil, &out))
	assert.Equal(t, true, out["ok"])
	assert.Len(t, model.Calls(), 2)

	model = llmtest.New("nope", "still nope")
	err := New(model, WithAttempts(2)).JSON(context.Background(), "x", nil, &out)
	assert.Error(t, err)
}

func TestClient_CallError(t *testing.T) {
	model := &llmtest.Model{Respond: func(string) (string, error) { return "", errors.New("rate limited") }}
	_, err := New(model).Text(context.Background(), "x", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestChat(t *testing.T) {
	model := llmtest.New("pong")
	out, err := Chat(context.Background(), model, "be brief", "ping")
	require.NoError(t, err)
	assert.Equal(t, "pong", out)
	assert.Equal(t, "be brief\nping", model.Calls()[0])
}

func TestNewOpenAI_MissingToken(t *testing.T) {
	_, err := NewOpenAI("", "", "")
	assert.ErrorIs(t, err, ErrMissingToken)
}
