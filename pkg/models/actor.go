package models

import (
	"github.com/MagicOwO/pipo-agent/pkg/memory/buffer"
	"time"
)

type Error struct {
	ErrMessage string      `json:"error,omitempty"`
	Message    interface{} `json:"message,omitempty"`
	Time       *time.Time  `json:"time,omitempty"`
}

func NewError(err error, msg interface{}) *Error {
	t := time.Now()
	e := &Error{Message: msg, Time: &t}
	if err != nil {
		e.ErrMessage = err.Error()
	}
	return e
}

// Job is the status snapshot of one request handled by the PIPO agent.
type Job struct {
	ID       string  `json:"id"`
	State    State   `json:"state"`
	Request  string  `json:"request"`
	Result   *Result `json:"result,omitempty"`
	LLMCalls int     `json:"llmCalls"`
	// Transcript holds the rendered prompts and answers of the job's LLM calls.
	Transcript []buffer.Memory `json:"transcript,omitempty"`
	Errs       *Error          `json:"error,omitempty"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}
