package store

import (
	"context"
	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

type doc struct {
	ID    string `json:"id"`
	Stage string `json:"stage"`
}

func runContract(t *testing.T, s Store) {
	ctx := context.Background()

	var out doc
	assert.ErrorIs(t, s.Load(ctx, SessionKey("missing"), &out), ErrNotFound)

	require.NoError(t, s.Save(ctx, SessionKey("a"), doc{ID: "a", Stage: "input"}))
	require.NoError(t, s.Save(ctx, SessionKey("b"), doc{ID: "b", Stage: "feedback"}))
	require.NoError(t, s.Save(ctx, JobKey("c"), doc{ID: "c"}))

	require.NoError(t, s.Load(ctx, SessionKey("b"), &out))
	assert.Equal(t, doc{ID: "b", Stage: "feedback"}, out)

	require.NoError(t, s.Save(ctx, SessionKey("a"), doc{ID: "a", Stage: "planning"}))
	require.NoError(t, s.Load(ctx, SessionKey("a"), &out))
	assert.Equal(t, "planning", out.Stage)

	keys, err := s.List(ctx, "session:")
	require.NoError(t, err)
	assert.Equal(t, []string{"session:a", "session:b"}, keys)

	require.NoError(t, s.Delete(ctx, SessionKey("a")))
	assert.ErrorIs(t, s.Load(ctx, SessionKey("a"), &out), ErrNotFound)

	keys, err = s.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"job:c", "session:b"}, keys)
}

func TestMemory(t *testing.T) {
	runContract(t, NewMemory())
}

func TestRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisFromClient(backend.NewClient(&backend.Options{Addr: mr.Addr()}))
	defer s.Close()
	require.NoError(t, s.Ping(context.Background()))
	runContract(t, s)
}

func TestRedis_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisFromClient(backend.NewClient(&backend.Options{Addr: mr.Addr()}), WithTTL(time.Minute), WithPrefix("test:"))
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, JobKey("x"), doc{ID: "x"}))
	assert.True(t, mr.Exists("test:job:x"))

	mr.FastForward(2 * time.Minute)
	var out doc
	assert.ErrorIs(t, s.Load(ctx, JobKey("x"), &out), ErrNotFound)
}
