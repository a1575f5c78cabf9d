package dispatch

import (
	"sync"

	"github.com/ltessier/keepsake/lib/queue"
)

// Queue is a single-consumer serial executor. Functions submitted with
// Dispatch run one at a time, in submission order, on one goroutine.
type Queue struct {
	tasks *queue.MPSC[func()]
	done  chan struct{}
}

// NewQueue creates a queue and starts its executor goroutine.
func NewQueue() *Queue {
	d := &Queue{
		tasks: queue.NewMPSC[func()](),
		done:  make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Queue) run() {
	defer close(d.done)
	for fn := range d.tasks.Recv() {
		fn()
	}
}

// Dispatch submits fn for execution. Returns false if the queue is closed
// or fn is nil; the function is then never run.
//
// Thread-safety: safe for concurrent use.
func (d *Queue) Dispatch(fn func()) bool {
	if fn == nil {
		return false
	}
	return d.tasks.Push(fn)
}

// Sync blocks until every function dispatched before the call has run.
// Returns immediately if the queue is closed.
func (d *Queue) Sync() {
	ch := make(chan struct{})
	if !d.Dispatch(func() { close(ch) }) {
		return
	}
	<-ch
}

// Close stops the queue. Functions already dispatched still run before the
// executor goroutine exits; Close waits for that.
func (d *Queue) Close() {
	d.tasks.Close()
	<-d.done
}

// --------------------------------------------------------------------------
// Process-wide default queue
// --------------------------------------------------------------------------

var (
	defaultOnce  sync.Once
	defaultQueue *Queue
)

// Default returns the process-wide callback queue. It is created on first
// use and never closed.
func Default() *Queue {
	defaultOnce.Do(func() {
		defaultQueue = NewQueue()
	})
	return defaultQueue
}
