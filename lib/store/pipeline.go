package store

import (
	"log/slog"
	"sync/atomic"

	"github.com/ltessier/keepsake/lib/backing"
	"github.com/ltessier/keepsake/lib/codec"
	"github.com/ltessier/keepsake/lib/dispatch"
	"github.com/ltessier/keepsake/lib/queue"
)

// --------------------------------------------------------------------------
// Tasks
// --------------------------------------------------------------------------

type taskOp uint8

const (
	opPut     taskOp = iota // Commit a key-value pair.
	opRemove                // Commit a key removal.
	opClear                 // Commit a full clear.
	opBarrier               // Flush marker, commits nothing.
)

// task is one disk-bound unit of work. For a put it carries the value as it
// was at issuance; a later put for the same key does not rewrite earlier
// tasks, it just commits after them.
type task struct {
	op    taskOp
	key   string
	value codec.Value
	cb    Callback
	done  chan struct{} // barrier only
}

// --------------------------------------------------------------------------
// Pipeline
// --------------------------------------------------------------------------

// pipeline serializes all backing store commits of one namespace on a
// single worker goroutine. The adapter's commit operations are not safe for
// concurrent invocation; funnelling every task through one consumer gives
// exactly one in-flight commit per namespace and makes the committed state
// sequence a subsequence of the in-memory state sequence in issuance order.
//
// The pipeline deliberately holds no reference to the store so that a store
// only referenced by its own background machinery can be collected.
type pipeline struct {
	adapter   backing.Adapter
	tasks     *queue.MPSC[task]
	callbacks *dispatch.Queue
	metrics   *storeMetrics
	logger    *slog.Logger
	stopped   atomic.Bool
	done      chan struct{}
}

func newPipeline(adapter backing.Adapter, callbacks *dispatch.Queue, m *storeMetrics, logger *slog.Logger) *pipeline {
	p := &pipeline{
		adapter:   adapter,
		tasks:     queue.NewMPSC[task](),
		callbacks: callbacks,
		metrics:   m,
		logger:    logger,
	}
	p.done = make(chan struct{})
	go p.run()
	return p
}

// run is the per-namespace commit worker.
func (p *pipeline) run() {
	defer close(p.done)

	for t := range p.tasks.Recv() {
		if t.op == opBarrier {
			// Dispatch the barrier through the callback queue so that
			// Flush also covers callbacks of earlier commits.
			done := t.done
			if !p.callbacks.Dispatch(func() { close(done) }) {
				close(done)
			}
			continue
		}

		ok := p.commit(t)
		if ok {
			p.metrics.commits.Inc()
		} else {
			p.metrics.commitFailures.Inc()
			p.logger.Warn("backing store commit failed",
				slog.String("key", t.key))
		}
		p.complete(t.cb, ok)
	}
}

// commit applies one task to the backing store. This call is the only place
// the adapter is mutated, and it runs exclusively on the worker goroutine.
func (p *pipeline) commit(t task) bool {
	switch t.op {
	case opPut:
		return p.adapter.CommitPut(t.key, t.value)
	case opRemove:
		return p.adapter.CommitRemove(t.key)
	case opClear:
		return p.adapter.CommitClear()
	default:
		return false
	}
}

// submit schedules a task. After shutdown the commit can no longer happen,
// which is a failed write from the caller's perspective: the callback still
// fires, with false.
func (p *pipeline) submit(t task) {
	if !p.tasks.Push(t) {
		p.complete(t.cb, false)
	}
}

// complete dispatches a callback to the designated callback context.
// A nil callback is a no-op.
func (p *pipeline) complete(cb Callback, ok bool) {
	if cb == nil {
		return
	}
	p.callbacks.Dispatch(func() { cb(ok) })
}

// flush blocks until all previously submitted tasks have committed and
// their callbacks have run.
func (p *pipeline) flush() {
	t := task{op: opBarrier, done: make(chan struct{})}
	if !p.tasks.Push(t) {
		return
	}
	<-t.done
}

// shutdown drains the task queue, stops the worker and closes the adapter.
// Safe to call more than once.
func (p *pipeline) shutdown() error {
	if !p.stopped.CompareAndSwap(false, true) {
		return nil
	}
	p.tasks.Close()
	<-p.done
	return p.adapter.Close()
}

func (p *pipeline) isStopped() bool {
	return p.stopped.Load()
}
