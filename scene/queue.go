package scene

import (
	"time"

	"github.com/oriumgames/objref"
)

// pendingDestroy is a destruction scheduled for a later tick.
type pendingDestroy struct {
	// at is the time the object should be destroyed
	at time.Time

	// seq orders entries with equal times by scheduling order
	seq uint64

	handle    objref.Handle
	cancelled bool

	// index is the heap index, -1 once popped
	index int
}

func (p *pendingDestroy) before(o *pendingDestroy) bool {
	if p.at.Equal(o.at) {
		return p.seq < o.seq
	}
	return p.at.Before(o.at)
}

// destroyQueue is a binary min-heap of pending destructions keyed by due
// time.
type destroyQueue struct {
	heap    []*pendingDestroy
	nextSeq uint64
}

func newDestroyQueue() *destroyQueue {
	return &destroyQueue{heap: make([]*pendingDestroy, 0, 16)}
}

// compact removes cancelled entries and rebuilds the heap.
func (q *destroyQueue) compact() {
	write := 0
	for read := 0; read < len(q.heap); read++ {
		if !q.heap[read].cancelled {
			q.heap[write] = q.heap[read]
			q.heap[write].index = write
			write++
		}
	}
	for i := write; i < len(q.heap); i++ {
		q.heap[i] = nil
	}
	q.heap = q.heap[:write]

	for i := len(q.heap)/2 - 1; i >= 0; i-- {
		q.down(i, len(q.heap))
	}
}

func (q *destroyQueue) push(h objref.Handle, at time.Time) *pendingDestroy {
	if len(q.heap) > 64 && len(q.heap)%64 == 0 {
		q.compact()
	}
	p := &pendingDestroy{at: at, seq: q.nextSeq, handle: h, index: len(q.heap)}
	q.nextSeq++
	q.heap = append(q.heap, p)
	q.up(p.index)
	return p
}

// popDue removes and returns the entries due at now, earliest first.
func (q *destroyQueue) popDue(now time.Time) []*pendingDestroy {
	var due []*pendingDestroy
	for len(q.heap) > 0 && !q.heap[0].at.After(now) {
		if p := q.pop(); !p.cancelled {
			due = append(due, p)
		}
	}
	return due
}

// drain removes and returns every live entry, earliest first.
func (q *destroyQueue) drain() []*pendingDestroy {
	var all []*pendingDestroy
	for len(q.heap) > 0 {
		if p := q.pop(); !p.cancelled {
			all = append(all, p)
		}
	}
	return all
}

// len counts entries that are not cancelled.
func (q *destroyQueue) len() int {
	n := 0
	for _, p := range q.heap {
		if !p.cancelled {
			n++
		}
	}
	return n
}

func (q *destroyQueue) pop() *pendingDestroy {
	n := len(q.heap) - 1
	q.swap(0, n)
	q.down(0, n)
	p := q.heap[n]
	q.heap[n] = nil
	q.heap = q.heap[:n]
	p.index = -1
	return p
}

func (q *destroyQueue) up(i int) {
	for {
		parent := (i - 1) / 2
		if parent == i || !q.heap[i].before(q.heap[parent]) {
			break
		}
		q.swap(i, parent)
		i = parent
	}
}

func (q *destroyQueue) down(i, n int) {
	for {
		left := 2*i + 1
		if left >= n || left < 0 {
			break
		}
		j := left
		if right := left + 1; right < n && q.heap[right].before(q.heap[left]) {
			j = right
		}
		if !q.heap[j].before(q.heap[i]) {
			break
		}
		q.swap(i, j)
		i = j
	}
}

func (q *destroyQueue) swap(i, j int) {
	q.heap[i], q.heap[j] = q.heap[j], q.heap[i]
	q.heap[i].index = i
	q.heap[j].index = j
}

// Timer allows cancelling a scheduled destruction.
type Timer struct {
	p *pendingDestroy
}

// Cancel cancels the destruction. It returns false if it already ran or
// was cancelled.
func (t *Timer) Cancel() bool {
	if t == nil || t.p == nil || t.p.cancelled || t.p.index < 0 {
		return false
	}
	t.p.cancelled = true
	return true
}
