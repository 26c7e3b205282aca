package handler

import (
	"context"
	"github.com/MagicOwO/pipo-agent/pkg/models"
	"strings"
	"time"
)

type Verdict int

const (
	Revise Verdict = iota
	Approve
	Reject
)

// Decision is a reviewer's answer to a proposed plan. Feedback is set when
// the verdict is Revise.
type Decision struct {
	Verdict  Verdict
	Feedback string
}

// Reviewer decides on a proposed plan.
type Reviewer interface {
	Review(ctx context.Context, plan models.DemoPlan, estimated time.Duration) (Decision, error)
}

type ReviewerFunc func(ctx context.Context, plan models.DemoPlan, estimated time.Duration) (Decision, error)

func (f ReviewerFunc) Review(ctx context.Context, plan models.DemoPlan, estimated time.Duration) (Decision, error) {
	return f(ctx, plan, estimated)
}

// ParseDecision reads y/yes as approval and n/no as rejection, case
// insensitively. Anything else is feedback.
func ParseDecision(input string) Decision {
	input = strings.TrimSpace(input)
	switch strings.ToLower(input) {
	case "y", "yes":
		return Decision{Verdict: Approve}
	case "n", "no":
		return Decision{Verdict: Reject}
	}
	return Decision{Verdict: Revise, Feedback: input}
}
