package messages

import (
	"github.com/MagicOwO/pipo-agent/pkg/models"
	"github.com/google/uuid"
	"time"
)

// NewRequest starts a PIPO agent job.
type NewRequest struct {
	RequestID uuid.UUID
	Request   string
}

// StartSession starts a planning session in the given mode.
type StartSession struct {
	SessionID uuid.UUID
	Query     string
	Mode      models.Mode
}

// SubmitFeedback asks for a revised plan.
type SubmitFeedback struct {
	Feedback string
}

type ApprovePlan struct{}

type RejectPlan struct{}

type ResetSession struct{}

// DeleteSession removes an idle session and stops its actor.
type DeleteSession struct{}

// Request wraps a session command whose caller waits for an Ack until
// Deadline. Commands still queued after the deadline are dropped.
type Request struct {
	Command  interface{}
	Deadline time.Time
}

// Ack answers a session command sent as a request. Err is set when the
// session's stage does not accept the command.
type Ack struct {
	Stage models.Stage
	Err   error
}
