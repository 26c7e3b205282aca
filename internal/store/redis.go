package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	backend "github.com/redis/go-redis/v9"
	"sort"
	"strings"
	"time"
)

// Redis stores documents as JSON strings under a key prefix. An index sorted
// set scored by expiry lets List skip expired documents.
type Redis struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Redis)

func WithTTL(ttl time.Duration) Option {
	return func(r *Redis) {
		r.ttl = ttl
	}
}

func WithPrefix(prefix string) Option {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

func NewRedis(address, password string, db int, opts ...Option) *Redis {
	return NewRedisFromClient(backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	}), opts...)
}

func NewRedisFromClient(client *backend.Client, opts ...Option) *Redis {
	r := &Redis{client: client, prefix: "pipo:"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Ping checks the connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) key(k string) string { return r.prefix + k }

func (r *Redis) indexKey() string { return r.prefix + "index" }

func (r *Redis) Save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	score := float64(time.Now().Add(r.ttl).Unix())
	if r.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(key), data, r.ttl)
	pipe.ZAdd(ctx, r.indexKey(), backend.Z{Score: score, Member: key})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save: %w", err)
	}
	return nil
}

func (r *Redis) Load(ctx context.Context, key string, out any) error {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, backend.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("redis load: %w", err)
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.key(key))
	pipe.ZRem(ctx, r.indexKey(), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}

func (r *Redis) List(ctx context.Context, prefix string) ([]string, error) {
	now := fmt.Sprintf("%d", time.Now().Unix())
	if err := r.client.ZRemRangeByScore(ctx, r.indexKey(), "-inf", now).Err(); err != nil {
		return nil, fmt.Errorf("redis prune: %w", err)
	}
	members, err := r.client.ZRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}
	keys := []string{}
	for _, m := range members {
		if strings.HasPrefix(m, prefix) {
			keys = append(keys, m)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
