package buffer

import (
	"sync"
)

// Memories is the question/answer transcript of the LLM calls made for one run.
type Memories struct {
	mu    sync.Mutex
	Items []Memory `json:"memories"`
}

type Memory struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (m *Memories) Add(m2 Memory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Items = append(m.Items, m2)
}

// Snapshot returns a copy of the transcript.
func (m *Memories) Snapshot() []Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Memory, len(m.Items))
	copy(out, m.Items)
	return out
}
