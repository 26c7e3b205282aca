package actions

import (
	"context"
	"github.com/MagicOwO/pipo-agent/pkg/metrics"
	"time"
)

// Run builds the named action from inputs and executes it.
func (r *Registry) Run(ctx context.Context, name string, inputs map[string]any, env Env) (any, error) {
	a, err := r.Build(name, inputs)
	if err != nil {
		metrics.ActionExecutions.WithLabelValues(name, metrics.Outcome(err)).Inc()
		return nil, err
	}

	start := time.Now()
	out, err := a.Execute(ctx, env)
	metrics.ActionDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	metrics.ActionExecutions.WithLabelValues(name, metrics.Outcome(err)).Inc()
	return out, err
}
