// Package queue provides a FIFO of EntityIDs for breadth-first traversal.
package queue

import "github.com/hupe1980/topoindex/core"

// FIFO is a growable ring buffer. The zero value is ready to use.
type FIFO struct {
	items []core.EntityID
	head  int
	n     int
}

// Push appends id at the tail.
func (q *FIFO) Push(id core.EntityID) {
	if q.n == len(q.items) {
		q.grow()
	}
	q.items[(q.head+q.n)%len(q.items)] = id
	q.n++
}

// Pop removes and returns the head.
func (q *FIFO) Pop() (core.EntityID, bool) {
	if q.n == 0 {
		return core.InvalidEntityID, false
	}
	id := q.items[q.head]
	q.head = (q.head + 1) % len(q.items)
	q.n--
	return id, true
}

// Reset empties the queue and keeps its buffer.
func (q *FIFO) Reset() {
	q.head = 0
	q.n = 0
}

func (q *FIFO) grow() {
	newCap := len(q.items) * 2
	if newCap == 0 {
		newCap = 16
	}
	items := make([]core.EntityID, newCap)
	for i := 0; i < q.n; i++ {
		items[i] = q.items[(q.head+i)%len(q.items)]
	}
	q.items = items
	q.head = 0
}
