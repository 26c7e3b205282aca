package actor

import (
	"context"
	"errors"
	"github.com/MagicOwO/pipo-agent/internal/actions/research"
	"github.com/MagicOwO/pipo-agent/internal/store"
	"github.com/MagicOwO/pipo-agent/pkg/actions"
	"github.com/MagicOwO/pipo-agent/pkg/llm"
	"github.com/MagicOwO/pipo-agent/pkg/llm/llmtest"
	"github.com/MagicOwO/pipo-agent/pkg/messages"
	"github.com/MagicOwO/pipo-agent/pkg/models"
	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func run(t *testing.T, model *llmtest.Model, request string) models.Job {
	r := actions.NewRegistry()
	require.NoError(t, research.Register(r))
	st := store.NewMemory()
	root := actor.NewActorSystem().Root
	pid := root.Spawn(actor.PropsFromProducer(New(llm.New(model), r, st, time.Minute)))

	id := uuid.New()
	root.Send(pid, messages.NewRequest{RequestID: id, Request: request})

	var job models.Job
	require.Eventually(t, func() bool {
		err := st.Load(context.Background(), store.JobKey(id.String()), &job)
		return err == nil && (job.State == models.Finished || job.State == models.Failed)
	}, 5*time.Second, 10*time.Millisecond)
	return job
}

func TestJob_Finished(t *testing.T) {
	model := llmtest.New(
		`{"goal": "find news"}`,
		`{"goal": "find news", "steps": [{"action": {"name": "WebSearch", "inputs": {"query": "news"}}, "description": "search", "output_key": "results"}]}`,
		"Two results found.",
	)
	job := run(t, model, "find news")
	assert.Equal(t, models.Finished, job.State)
	assert.Equal(t, "find news", job.Request)
	assert.Equal(t, 3, job.LLMCalls)
	require.Len(t, job.Transcript, 3)
	assert.Contains(t, job.Transcript[0].Question, "find news")
	assert.Equal(t, "Two results found.", job.Transcript[2].Answer)
	require.NotNil(t, job.Result)
	assert.Equal(t, "Two results found.", job.Result.Summary)
	assert.Nil(t, job.Errs)
}

func TestJob_Failed(t *testing.T) {
	model := &llmtest.Model{Respond: func(string) (string, error) { return "", errors.New("offline") }}
	job := run(t, model, "anything")
	assert.Equal(t, models.Failed, job.State)
	require.NotNil(t, job.Errs)
	assert.Contains(t, job.Errs.ErrMessage, "offline")
	assert.Equal(t, "Request processing failed", job.Result.Summary)
}
