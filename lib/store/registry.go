package store

import (
	"weak"

	"github.com/puzpuzpuz/xsync/v3"
)

// registry maps namespace names to weakly-held store instances. A weak
// pointer never keeps a store alive: entries go stale when the last
// external reference is dropped and are pruned by the store's cleanup or by
// the next Create for the namespace.
var registry = xsync.NewMapOf[string, weak.Pointer[storeImpl]]()

// Create returns the live store for a namespace, constructing and loading
// it if none exists. Construction is serialized per namespace, so two
// concurrent Create calls for the same namespace never build two live
// instances.
//
// opts may be nil for defaults; unset fields of a non-nil opts fall back to
// their defaults. The options are only consulted when a new instance is
// constructed.
//
// Thread-safety: safe for concurrent use from any goroutine.
func Create(namespace string, opts *Options) (Store, error) {
	if namespace == "" {
		return nil, NewError(RetCInvalidArgument, "namespace must not be empty")
	}
	if opts == nil {
		opts = DefaultOptions()
	} else {
		opts = opts.withDefaults()
	}

	var (
		st      *storeImpl
		makeErr error
	)
	registry.Compute(namespace, func(old weak.Pointer[storeImpl], loaded bool) (weak.Pointer[storeImpl], bool) {
		if loaded {
			if live := old.Value(); live != nil && !live.isClosed() {
				st = live
				return old, false
			}
		}
		st, makeErr = newStore(namespace, opts)
		if makeErr != nil {
			st = nil
			return old, true
		}
		return weak.Make(st), false
	})
	if makeErr != nil {
		return nil, makeErr
	}
	return st, nil
}

// prune drops the registry entry for a namespace unless it still points to
// a live, open store.
func prune(namespace string) {
	registry.Compute(namespace, func(old weak.Pointer[storeImpl], loaded bool) (weak.Pointer[storeImpl], bool) {
		if !loaded {
			return old, true
		}
		if live := old.Value(); live != nil && !live.isClosed() {
			return old, false
		}
		return old, true
	})
}
