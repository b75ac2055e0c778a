package agent

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAppendOrder(t *testing.T) {
	m := NewMemory()
	m.Append(TurnRoleUser, "first question")
	m.Append(TurnRoleAssistant, "first answer")
	m.Append(TurnRoleUser, "second question")

	turns := m.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, "first question", turns[0].Content)
	assert.Equal(t, "first answer", turns[1].Content)
	assert.Equal(t, "second question", turns[2].Content)
	assert.Equal(t, TurnRoleUser, turns[0].Role)
	assert.Equal(t, TurnRoleAssistant, turns[1].Role)
	assert.False(t, turns[0].Timestamp.IsZero())
}

func TestMemoryTurnsReturnsCopy(t *testing.T) {
	m := NewMemory()
	m.Append(TurnRoleUser, "question")

	turns := m.Turns()
	turns[0].Content = "mutated"

	assert.Equal(t, "question", m.Turns()[0].Content)
}

func TestMemoryReset(t *testing.T) {
	m := NewMemory()
	m.Append(TurnRoleUser, "question")
	m.Append(TurnRoleAssistant, "answer")
	require.Equal(t, 2, m.Len())

	m.Reset()
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Turns())

	m.Append(TurnRoleUser, "after reset")
	assert.Equal(t, 1, m.Len())
}

func TestMemoryConcurrentAppend(t *testing.T) {
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Append(TurnRoleUser, "q")
			m.Append(TurnRoleAssistant, "a")
		}()
	}
	wg.Wait()

	assert.Equal(t, 40, m.Len())
}
