package logger

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"io"
	"os"
)

const (
	AgentNameField = "agent"
	ActorIDField   = "actor"
	RequestTaskID  = "task"
	SessionIDField = "session"
	ActionField    = "action"
	StepField      = "step"
	StageField     = "stage"
)

// NewGlobal configures the global zerolog logger.
func NewGlobal(level string, pretty bool) error {
	return newGlobal(level, pretty, os.Stderr)
}

func newGlobal(level string, pretty bool, out io.Writer) error {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(l)

	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: out})
	} else {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	}
	return nil
}
