package backing

import "github.com/ltessier/keepsake/lib/codec"

// memoryAdapter is a non-durable adapter for tests and ephemeral namespaces.
// Commits always succeed.
type memoryAdapter struct {
	data map[string]codec.Value
}

// NewMemoryFactory returns a Factory producing an independent, empty memory
// adapter per namespace.
func NewMemoryFactory() Factory {
	return func(string) (Adapter, error) {
		return NewMemoryAdapter(), nil
	}
}

// NewMemoryAdapter creates an empty in-memory adapter.
func NewMemoryAdapter() Adapter {
	return &memoryAdapter{data: make(map[string]codec.Value)}
}

// --------------------------------------------------------------------------
// Adapter interface (docu see interface.go)
// --------------------------------------------------------------------------

func (a *memoryAdapter) LoadAll() ([]Entry, error) {
	entries := make([]Entry, 0, len(a.data))
	for k, v := range a.data {
		entries = append(entries, Entry{Key: k, Value: v})
	}
	return entries, nil
}

func (a *memoryAdapter) CommitPut(key string, value codec.Value) bool {
	a.data[key] = value
	return true
}

func (a *memoryAdapter) CommitRemove(key string) bool {
	delete(a.data, key)
	return true
}

func (a *memoryAdapter) CommitClear() bool {
	a.data = make(map[string]codec.Value)
	return true
}

func (a *memoryAdapter) Close() error {
	a.data = nil
	return nil
}
