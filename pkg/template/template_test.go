package template

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestParse(t *testing.T) {
	out, err := Parse("Goal: {{.Goal}}", map[string]any{"Goal": "ship it"})
	require.NoError(t, err)
	assert.Equal(t, "Goal: ship it", out)

	out, err = Parse("Goal: {{.Goal}}", struct{ Goal string }{"again"})
	require.NoError(t, err)
	assert.Equal(t, "Goal: again", out)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("{{.Goal", nil)
	assert.Error(t, err)
}
