package queue

import (
	"testing"

	"github.com/hupe1980/topoindex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFIFO_Order(t *testing.T) {
	var q FIFO

	_, ok := q.Pop()
	assert.False(t, ok)

	for i := 1; i <= 40; i++ {
		q.Push(core.EntityID(i))
	}

	for i := 1; i <= 40; i++ {
		id, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, core.EntityID(i), id)
	}
	_, ok = q.Pop()
	assert.False(t, ok, "drained")
}

func TestFIFO_WrapAround(t *testing.T) {
	var q FIFO
	next := core.EntityID(1)
	want := core.EntityID(1)

	// Interleave pushes and pops so head wraps before growth.
	for round := 0; round < 10; round++ {
		for i := 0; i < 12; i++ {
			q.Push(next)
			next++
		}
		for i := 0; i < 9; i++ {
			id, ok := q.Pop()
			require.True(t, ok)
			assert.Equal(t, want, id)
			want++
		}
	}
	for {
		id, ok := q.Pop()
		if !ok {
			break
		}
		assert.Equal(t, want, id)
		want++
	}
	assert.Equal(t, next, want)

	q.Push(5)
	q.Reset()
	_, ok := q.Pop()
	assert.False(t, ok, "reset empties the queue")
}
