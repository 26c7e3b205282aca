package research

import (
	"context"
	"github.com/MagicOwO/pipo-agent/pkg/actions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func build(t *testing.T, name string, inputs map[string]any) actions.Action {
	r := actions.NewRegistry()
	require.NoError(t, Register(r))
	a, err := r.Build(name, inputs)
	require.NoError(t, err)
	return a
}

func TestWebSearch(t *testing.T) {
	out, err := build(t, "WebSearch", map[string]any{"query": "AI launches"}).Execute(context.Background(), actions.Env{})
	require.NoError(t, err)
	results := out.([]SearchResult)
	require.Len(t, results, 2)
	assert.Equal(t, "https://example.com/1", results[0].URL)

	out, err = build(t, "WebSearch", map[string]any{"query": "q", "num_results": 1}).Execute(context.Background(), actions.Env{})
	require.NoError(t, err)
	assert.Len(t, out.([]SearchResult), 1)
}

func TestExtractEntitiesFeedsReport(t *testing.T) {
	entities, err := build(t, "ExtractEntities", map[string]any{"text": "John Smith of Acme Corp"}).Execute(context.Background(), actions.Env{})
	require.NoError(t, err)

	report := build(t, "GenerateReport", map[string]any{"entities": entities})
	g := report.(*GenerateReport)
	require.Len(t, g.Entities, 3)
	assert.Equal(t, Entity{Type: "ORG", Text: "Acme Corp"}, g.Entities[1])
	assert.Equal(t, "formal", g.Style)

	out, err := report.Execute(context.Background(), actions.Env{})
	require.NoError(t, err)
	assert.Contains(t, out, "report")
}

func TestFetchWebContent(t *testing.T) {
	out, err := build(t, "FetchWebContent", map[string]any{"url": "https://example.com"}).Execute(context.Background(), actions.Env{})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
