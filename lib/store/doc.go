// Package store implements a namespaced in-memory key-value cache with
// asynchronous write-through to a durable backing store.
//
// Properties:
//
//  1. Speed. All data lives in memory, so reads are synchronous and cheap
//     enough for latency-sensitive paths. Writes and deletes return after a
//     synchronous in-memory update; the durable commit runs in the
//     background and reports completion through a callback.
//  2. Durability. Every mutation is eventually committed to the namespace's
//     backing store. A mutation that is still in flight when the process
//     dies is lost; if true commit semantics are required this store is not
//     the right tool.
//  3. Consistency. A read always reflects the latest write issued by this
//     process, whether or not the corresponding commit has completed.
//  4. Thread-safety. All methods may be called from any goroutine without
//     external synchronization.
//
// Stores are obtained via Create, which maintains at most one live instance
// per namespace process-wide. The registry holds only weak references and
// never keeps a store alive by itself.
package store
