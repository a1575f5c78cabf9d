// Package backing defines the durable backing store consumed by the cache.
//
// One Adapter instance corresponds to one namespace. The adapter contract is
// deliberately small: bulk read-on-open plus whole-state commits for put,
// remove and clear. Commit operations are assumed atomic (all-or-nothing)
// and are the sole source of durability, but they are NOT safe for
// concurrent invocation. The persistence pipeline serializes all commits of
// a namespace on a single goroutine.
//
// Two implementations are provided: a file adapter with atomic whole-file
// commit semantics, and a memory adapter for tests and ephemeral namespaces.
package backing
