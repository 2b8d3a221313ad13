package dispatch

import (
	"sync"

	"github.com/google/uuid"
)

type job struct {
	id uuid.UUID
	fn func()
}

// generation is one set of workers together with the unbounded FIFO
// they drain. A closed generation refuses new jobs but its workers keep
// running until the queue is empty.
type generation struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []job
	closed bool
	wg     sync.WaitGroup
	done   chan struct{}
}

func newGeneration() *generation {
	g := &generation{done: make(chan struct{})}
	g.cond = sync.NewCond(&g.mu)

	return g
}

func (g *generation) push(j job) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return 0, ErrShutdown
	}

	g.queue = append(g.queue, j)
	g.cond.Signal()

	return len(g.queue), nil
}

// pop blocks until a job is available. It reports false once the
// generation is closed and drained.
func (g *generation) pop() (job, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for len(g.queue) == 0 && !g.closed {
		g.cond.Wait()
	}

	if len(g.queue) == 0 {
		return job{}, false
	}

	j := g.queue[0]
	g.queue[0] = job{}
	g.queue = g.queue[1:]

	return j, true
}

// close reports whether this call closed the generation.
func (g *generation) close() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return false
	}

	g.closed = true
	g.cond.Broadcast()

	return true
}

func (g *generation) isClosed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.closed
}

func (g *generation) depth() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.queue)
}
