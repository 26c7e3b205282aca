package buffer

import (
	"github.com/stretchr/testify/assert"
	"sync"
	"testing"
)

func TestMemories_ConcurrentAdd(t *testing.T) {
	m := &Memories{}
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Add(Memory{Question: "q", Answer: "a"})
		}()
	}
	wg.Wait()
	snap := m.Snapshot()
	assert.Len(t, snap, 20)
	snap[0].Answer = "changed"
	assert.Equal(t, "a", m.Snapshot()[0].Answer)
}
