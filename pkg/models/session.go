package models

import (
	"time"
)

// Step is one thought/action pair of a demo plan.
type Step struct {
	Summary string     `json:"summary,omitempty"`
	Thought string     `json:"thought"`
	Action  ActionCall `json:"action"`
}

type StepResult struct {
	Step   Step `json:"step"`
	Result any  `json:"result"`
}

// DemoPlan is a sequence of steps whose last action should be FinalAnswer.
type DemoPlan struct {
	Steps   []Step `json:"steps"`
	Thought string `json:"thought"`
}

// Session is the persisted state of one planning workflow.
type Session struct {
	ID                string       `json:"id"`
	Mode              Mode         `json:"mode"`
	Stage             Stage        `json:"stage"`
	Query             string       `json:"query"`
	Plan              *DemoPlan    `json:"plan,omitempty"`
	EstimatedDuration float64      `json:"estimatedDurationSeconds,omitempty"`
	Feedback          string       `json:"feedback,omitempty"`
	Results           []StepResult `json:"results,omitempty"`
	FinalAnswer       string       `json:"finalAnswer,omitempty"`
	Errs              *Error       `json:"error,omitempty"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

// Reset clears everything but the id and mode, returning to the input stage.
func (s *Session) Reset() {
	*s = Session{ID: s.ID, Mode: s.Mode, Stage: StageInput, UpdatedAt: time.Now()}
}
