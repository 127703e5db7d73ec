package engine

import (
	"sync"

	"go.uber.org/atomic"
)

// KeyedQueue runs at most one task per key at a time. Tasks sharing a
// key run in enqueue order; tasks on different keys run concurrently.
type KeyedQueue struct {
	mtx      sync.Mutex
	lanes    map[string][]func()
	wg       sync.WaitGroup
	inflight *atomic.Int64
}

func NewKeyedQueue() *KeyedQueue {
	return &KeyedQueue{
		lanes:    make(map[string][]func()),
		inflight: atomic.NewInt64(0),
	}
}

func (q *KeyedQueue) Enqueue(key string, fn func()) {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	pending, exist := q.lanes[key]
	if exist {
		// a drain goroutine owns this lane already
		q.lanes[key] = append(pending, fn)
		return
	}

	q.lanes[key] = []func(){fn}
	q.wg.Add(1)
	go q.drain(key)
}

func (q *KeyedQueue) drain(key string) {
	defer q.wg.Done()

	for {
		q.mtx.Lock()
		pending := q.lanes[key]
		if len(pending) == 0 {
			delete(q.lanes, key)
			q.mtx.Unlock()
			return
		}
		fn := pending[0]
		q.lanes[key] = pending[1:]
		q.mtx.Unlock()

		q.inflight.Inc()
		fn()
		q.inflight.Dec()
	}
}

// Wait blocks until every enqueued task has run and all lanes are
// drained.
func (q *KeyedQueue) Wait() {
	q.wg.Wait()
}

func (q *KeyedQueue) Inflight() int64 {
	return q.inflight.Load()
}
