// Package queue provides an unbounded lock-free multi-producer
// single-consumer queue.
//
// Producers append with atomic compare-and-swap operations, so any number of
// goroutines may Push concurrently. A single internal consumer goroutine
// forwards items to the Recv channel in the order the append operations
// completed. The queue is used as the commit task queue of the persistence
// pipeline and as the backbone of the callback dispatch queue.
package queue
