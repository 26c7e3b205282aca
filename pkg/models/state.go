package models

import (
	"errors"
	"fmt"
)

type State string

const (
	Init     State = "init"
	Thinking State = "thinking"
	Idle     State = "idle"
	Failed   State = "failed" // dead state
	Finished State = "finished"
)

// Stage is the position of a planning session in its workflow.
type Stage string

const (
	StageInput     Stage = "input"
	StagePlanning  Stage = "planning"
	StageFeedback  Stage = "feedback"
	StageExecuting Stage = "executing"
	StageCompleted Stage = "completed"
	StageDynamic   Stage = "dynamic"
	StageFailed    Stage = "failed"
)

var ErrInvalidTransition = errors.New("invalid stage transition")

var transitions = map[Stage][]Stage{
	StageInput:     {StagePlanning, StageDynamic},
	StagePlanning:  {StageFeedback, StageFailed},
	StageFeedback:  {StageFeedback, StageExecuting, StageInput, StageFailed},
	StageExecuting: {StageCompleted, StageFailed},
	StageDynamic:   {StageCompleted, StageFailed},
	StageCompleted: {StageInput},
	StageFailed:    {StageInput},
}

// CanTransition reports whether a session may move from s to next.
func (s Stage) CanTransition(next Stage) bool {
	for _, st := range transitions[s] {
		if st == next {
			return true
		}
	}
	return false
}

// Transition returns ErrInvalidTransition when s cannot move to next.
func (s Stage) Transition(next Stage) error {
	if !s.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
	}
	return nil
}

// Mode selects how a session plans.
type Mode string

const (
	ModeStatic  Mode = "static"
	ModeDynamic Mode = "dynamic"
)

func (m Mode) Valid() bool {
	return m == ModeStatic || m == ModeDynamic
}
