// Package llmtest provides a scripted llms.Model for tests.
package llmtest

import (
	"context"
	"errors"
	"github.com/tmc/langchaingo/llms"
	"strings"
	"sync"
)

var ErrExhausted = errors.New("llmtest: no scripted response left")

// Model answers prompts from Respond when set, otherwise from Responses in order.
type Model struct {
	mu        sync.Mutex
	Responses []string
	Respond   func(prompt string) (string, error)
	Prompts   []string
}

func New(responses ...string) *Model {
	return &Model{Responses: responses}
}

func (m *Model) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	var parts []string
	for _, msg := range messages {
		for _, p := range msg.Parts {
			if tc, ok := p.(llms.TextContent); ok {
				parts = append(parts, tc.Text)
			}
		}
	}
	answer, err := m.answer(strings.Join(parts, "\n"))
	if err != nil {
		return nil, err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: answer}}}, nil
}

func (m *Model) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func (m *Model) answer(prompt string) (string, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	respond := m.Respond
	if respond == nil {
		if len(m.Responses) == 0 {
			m.mu.Unlock()
			return "", ErrExhausted
		}
		next := m.Responses[0]
		m.Responses = m.Responses[1:]
		m.mu.Unlock()
		return next, nil
	}
	m.mu.Unlock()
	return respond(prompt)
}

// Calls returns a copy of the prompts received so far.
func (m *Model) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Prompts...)
}
