package backing

import "github.com/ltessier/keepsake/lib/codec"

// Entry is a single persisted (key, value) pair.
type Entry struct {
	Key   string
	Value codec.Value
}

// Adapter is a named durable key-value container for one namespace.
//
// Thread-safety: LoadAll is only called once, before any commit. The commit
// methods are not safe for concurrent use; callers must serialize them.
type Adapter interface {
	// LoadAll enumerates the full persisted contents of the namespace.
	LoadAll() ([]Entry, error)

	// CommitPut durably stores a key-value pair.
	// The boolean reports whether the commit succeeded.
	CommitPut(key string, value codec.Value) bool

	// CommitRemove durably removes a key. Removing an absent key succeeds.
	CommitRemove(key string) bool

	// CommitClear durably removes all entries of the namespace.
	CommitClear() bool

	// Close releases the adapter. No commits may follow.
	Close() error
}

// Factory opens or creates the adapter for a namespace.
type Factory func(namespace string) (Adapter, error)
