// Package dispatch provides the designated callback context of the store.
//
// A Queue runs submitted functions one at a time on a single dedicated
// goroutine, in submission order. The persistence pipeline delivers all
// completion callbacks through such a queue, so callbacks never run
// concurrently with each other regardless of how many stores or caller
// threads are active. Hosts with their own serial executor can wrap it in a
// Queue-compatible way by supplying a custom queue per store.
package dispatch
