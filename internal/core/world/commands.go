package world

import (
	"sync"

	"github.com/protolith/protolith/pkg/generic"
)

// Command is a deferred store mutation. Commands are enqueued during the
// direct mutation phase (typically from lifecycle hooks) and executed during
// Flush, when the World guarantees arbitrary entities and topology may be
// mutated safely.
//
// Apply returns ErrStaleEntity or ErrStaleMarker (possibly wrapped) when its
// target vanished between enqueue and execution; any other error is treated
// as a command failure and logged.
type Command interface {
	Apply(w *World) error
}

// CommandFunc adapts a plain function to the Command interface.
type CommandFunc func(w *World) error

func (f CommandFunc) Apply(w *World) error { return f(w) }

// commandQueue is an unbounded FIFO of deferred commands.
//
// The queue is drained in batches: Flush swaps the live slice against a
// recycled one from the pool, so commands enqueued while a batch executes
// land in the next batch and FIFO order is preserved across batches.
//
// The mutex guards against hooks enqueuing while an external caller inspects
// the queue; within one world all mutation is single-threaded per phase.
type commandQueue struct {
	mu   sync.Mutex
	cmds []Command
	pool *generic.Pool[[]Command]
}

func newCommandQueue(capacity int) *commandQueue {
	if capacity <= 0 {
		capacity = 64
	}
	pool := generic.NewPool(func() []Command {
		return make([]Command, 0, capacity)
	})
	return &commandQueue{cmds: pool.Get(), pool: pool}
}

func (q *commandQueue) enqueue(c Command) {
	if c == nil {
		return
	}
	q.mu.Lock()
	q.cmds = append(q.cmds, c)
	q.mu.Unlock()
}

func (q *commandQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.cmds)
}

// drain swaps out the pending batch. The caller must hand the batch back via
// recycle once processed.
func (q *commandQueue) drain() []Command {
	q.mu.Lock()
	batch := q.cmds
	q.cmds = q.pool.Get()[:0]
	q.mu.Unlock()
	return batch
}

func (q *commandQueue) recycle(batch []Command) {
	for i := range batch {
		batch[i] = nil // drop references so commands can be collected
	}
	q.pool.Put(batch[:0])
}

// FlushStats summarizes one Flush pass.
type FlushStats struct {
	// Applied counts commands that ran to completion.
	Applied int
	// Stale counts commands dropped because their target vanished.
	Stale int
	// Failed counts commands that returned a non-stale error.
	Failed int
}
