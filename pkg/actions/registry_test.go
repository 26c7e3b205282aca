package actions

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

type echo struct {
	Text   string   `json:"text" jsonschema:"required" jsonschema_description:"Text to echo"`
	Times  int      `json:"times,omitempty" jsonschema_description:"How many times"`
	Labels []string `json:"labels,omitempty"`
}

func (e *echo) Execute(_ context.Context, _ Env) (any, error) {
	out := ""
	for i := 0; i < e.Times; i++ {
		out += e.Text
	}
	return out, nil
}

type noInputs struct{}

func (noInputs) Execute(context.Context, Env) (any, error) { return nil, nil }

func echoSpec() Spec {
	return Spec{
		Name:              "Echo",
		Description:       "Repeats text.",
		EstimatedDuration: 1500 * time.Millisecond,
		New:               func() Action { return &echo{Times: 1} },
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoSpec()))

	err := r.Register(echoSpec())
	require.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.Equal(t, "action Echo already registered", err.Error())

	assert.Error(t, r.Register(Spec{Name: "Broken"}))
	assert.True(t, r.Has("Echo"))
	assert.False(t, r.Has("Broken"))
}

func TestRegistry_SpecsSortedCopy(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(
		Spec{Name: "Zeta", New: func() Action { return &noInputs{} }},
		echoSpec(),
	)
	specs := r.Specs()
	require.Len(t, specs, 2)
	assert.Equal(t, "Echo", specs[0].Name)
	assert.Equal(t, "Zeta", specs[1].Name)

	specs[0].Name = "mutated"
	_, ok := r.Lookup("Echo")
	assert.True(t, ok)
}

func TestRegistry_Build(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(echoSpec())

	a, err := r.Build("Echo", map[string]any{"text": "ab", "times": "3", "labels": []any{"x"}})
	require.NoError(t, err)
	out, err := a.Execute(context.Background(), Env{})
	require.NoError(t, err)
	assert.Equal(t, "ababab", out)
	assert.Equal(t, []string{"x"}, a.(*echo).Labels)

	a, err = r.Build("Echo", map[string]any{"text": "z"})
	require.NoError(t, err)
	assert.Equal(t, 1, a.(*echo).Times, "default kept")

	a, err = r.Build("Echo", map[string]any{"text": "z", "times": nil})
	require.NoError(t, err)
	assert.Equal(t, 1, a.(*echo).Times, "null keeps default")

	_, err = r.Build("Echo", map[string]any{"text": nil})
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = r.Build("Echo", map[string]any{"times": 2})
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = r.Build("Missing", nil)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestRegistry_Describe(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(echoSpec(), Spec{Name: "Noop", Description: "Does nothing.", New: func() Action { return &noInputs{} }})

	want := "Action: Echo\n\nDescription:\nRepeats text.\n\nInputs:\n" +
		"- text: string - Text to echo\n" +
		"- times: integer - How many times\n" +
		"- labels: array of string -"
	assert.Equal(t, want, r.Describe("Echo"))
	assert.Contains(t, r.Describe("Noop"), "Inputs:\nNo inputs required")
	assert.Empty(t, r.Describe("Missing"))

	inputs := r.Inputs("Echo")
	require.Len(t, inputs, 3)
	assert.True(t, inputs[0].Required)
	assert.False(t, inputs[1].Required)
}

func TestSpec_Summary(t *testing.T) {
	assert.Equal(t, "Echo - Repeats text.", echoSpec().Summary())

	r := NewRegistry()
	r.MustRegister(echoSpec(), Spec{Name: "Noop", Description: "Does nothing.", New: func() Action { return &noInputs{} }})
	assert.Equal(t, "Echo - Repeats text.\n  Inputs: text (string), times (integer), labels (array of string)\nNoop - Does nothing.", r.SummarizeAll())
}
