package store

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/ltessier/keepsake/lib/codec"
)

// storeImpl is the write-through cache for one namespace. The in-memory map
// is the authoritative read path; the pipeline mirrors every mutation into
// the backing store.
type storeImpl struct {
	namespace string
	data      *xsync.MapOf[string, codec.Value]
	pipe      *pipeline
	logger    *slog.Logger
	metrics   *storeMetrics
}

// cleanupState is everything the GC-triggered cleanup may touch. It must not
// reference the store itself, or the store would never become unreachable.
type cleanupState struct {
	namespace string
	pipe      *pipeline
}

// newStore opens the backing store for a namespace and loads its full
// contents into memory. The load is synchronous by design: the first read
// after Create returns must already be correct. Callers are expected to
// create stores off latency-sensitive paths, typically once at startup.
func newStore(namespace string, opts *Options) (*storeImpl, error) {
	start := time.Now()

	adapter, err := opts.Adapter(namespace)
	if err != nil {
		return nil, NewError(RetCInternalError, fmt.Sprintf("open backing store for %q: %v", namespace, err))
	}

	entries, err := adapter.LoadAll()
	if err != nil {
		_ = adapter.Close()
		return nil, NewError(RetCInternalError, fmt.Sprintf("load backing store for %q: %v", namespace, err))
	}

	s := &storeImpl{
		namespace: namespace,
		data:      xsync.NewMapOf[string, codec.Value](),
		logger:    opts.Logger,
		metrics:   newStoreMetrics(namespace),
	}

	// Skip invalid values so a legacy null placeholder never becomes an
	// in-memory entry.
	for _, e := range entries {
		if !e.Value.Valid() {
			continue
		}
		s.data.Store(e.Key, e.Value)
	}

	s.pipe = newPipeline(adapter, opts.Callbacks, s.metrics, opts.Logger)

	// The registry holds only a weak reference, so the pipeline and adapter
	// are torn down when the last external reference to the store is gone.
	runtime.AddCleanup(s, func(st cleanupState) {
		_ = st.pipe.shutdown()
		prune(st.namespace)
	}, cleanupState{namespace: namespace, pipe: s.pipe})

	s.logger.Info("store loaded",
		slog.String("namespace", namespace),
		slog.Int("entries", s.data.Size()),
		slog.Duration("took", time.Since(start)))

	return s, nil
}

// --------------------------------------------------------------------------
// Write path
// --------------------------------------------------------------------------

// put performs the synchronous phase of a write: validate, then atomically
// either detect an identical existing entry or update the mapping. Only a
// changed entry schedules a commit; an identical re-put skips the disk
// write entirely and still reports success through the callback.
func (s *storeImpl) put(key string, value codec.Value, cb Callback) error {
	if key == "" {
		return NewError(RetCInvalidArgument, "key must not be empty")
	}
	if !value.Valid() {
		return NewError(RetCInvalidArgument, "value must not be empty")
	}

	changed := false
	s.data.Compute(key, func(old codec.Value, loaded bool) (codec.Value, bool) {
		// Equality includes the kind: re-putting 5 as a Long over an Int
		// counts as a change and goes to disk.
		if loaded && old.Equal(value) {
			return old, false
		}
		changed = true
		return value, false
	})

	if !changed {
		s.metrics.putsDeduped.Inc()
		s.pipe.complete(cb, true)
		return nil
	}

	s.metrics.puts.Inc()
	s.pipe.submit(task{op: opPut, key: key, value: value, cb: cb})
	return nil
}

func (s *storeImpl) Put(key string, value any, cb Callback) error {
	switch v := value.(type) {
	case float32:
		return s.put(key, codec.Float(v), cb)
	case int32:
		return s.put(key, codec.Int(v), cb)
	case int64:
		return s.put(key, codec.Long(v), cb)
	case int:
		return s.put(key, codec.Long(int64(v)), cb)
	case string:
		return s.put(key, codec.String(v), cb)
	case bool:
		return s.put(key, codec.Bool(v), cb)
	case map[string]any:
		return s.PutJSONObject(key, v, cb)
	case []any:
		return s.PutJSONArray(key, v, cb)
	case nil:
		return NewError(RetCInvalidArgument, "value must not be nil")
	default:
		return NewError(RetCUnsupportedType, fmt.Sprintf("unsupported value type %T", value))
	}
}

func (s *storeImpl) PutFloat(key string, value float32, cb Callback) error {
	return s.put(key, codec.Float(value), cb)
}

func (s *storeImpl) PutInt(key string, value int32, cb Callback) error {
	return s.put(key, codec.Int(value), cb)
}

func (s *storeImpl) PutLong(key string, value int64, cb Callback) error {
	return s.put(key, codec.Long(value), cb)
}

func (s *storeImpl) PutString(key string, value string, cb Callback) error {
	return s.put(key, codec.String(value), cb)
}

func (s *storeImpl) PutBool(key string, value bool, cb Callback) error {
	return s.put(key, codec.Bool(value), cb)
}

func (s *storeImpl) PutJSONObject(key string, value map[string]any, cb Callback) error {
	if key == "" {
		return NewError(RetCInvalidArgument, "key must not be empty")
	}
	// A nil object would serialize to a null string, which puts reject.
	// Storing null means "not present", so it maps to a remove.
	if value == nil {
		s.Remove(key, cb)
		return nil
	}
	text, err := codec.EncodeJSONObject(value)
	if err != nil {
		return NewError(RetCUnsupportedType, fmt.Sprintf("value is not JSON-encodable: %v", err))
	}
	return s.put(key, codec.String(text), cb)
}

func (s *storeImpl) PutJSONArray(key string, value []any, cb Callback) error {
	if key == "" {
		return NewError(RetCInvalidArgument, "key must not be empty")
	}
	if value == nil {
		s.Remove(key, cb)
		return nil
	}
	text, err := codec.EncodeJSONArray(value)
	if err != nil {
		return NewError(RetCUnsupportedType, fmt.Sprintf("value is not JSON-encodable: %v", err))
	}
	return s.put(key, codec.String(text), cb)
}

func (s *storeImpl) Remove(key string, cb Callback) {
	s.data.Delete(key)
	s.metrics.removes.Inc()
	s.pipe.submit(task{op: opRemove, key: key, cb: cb})
}

func (s *storeImpl) Clear(cb Callback) {
	s.data.Clear()
	s.metrics.clears.Inc()
	s.pipe.submit(task{op: opClear, cb: cb})
}

// --------------------------------------------------------------------------
// Read path
// --------------------------------------------------------------------------

// load is the shared read primitive. No I/O, no blocking: absence or a
// wrong type tag resolves to the caller's fallback, never an error.
func (s *storeImpl) load(key string) (codec.Value, bool) {
	s.metrics.gets.Inc()
	return s.data.Load(key)
}

func (s *storeImpl) GetFloat(key string, fallback float32) float32 {
	if v, ok := s.load(key); ok {
		if f, ok := v.Float(); ok {
			return f
		}
	}
	return fallback
}

func (s *storeImpl) GetInt(key string, fallback int32) int32 {
	if v, ok := s.load(key); ok {
		if i, ok := v.Int(); ok {
			return i
		}
	}
	return fallback
}

func (s *storeImpl) GetLong(key string, fallback int64) int64 {
	if v, ok := s.load(key); ok {
		if l, ok := v.Long(); ok {
			return l
		}
	}
	return fallback
}

func (s *storeImpl) GetString(key string, fallback string) string {
	if v, ok := s.load(key); ok {
		if str, ok := v.Text(); ok {
			return str
		}
	}
	return fallback
}

func (s *storeImpl) GetBool(key string, fallback bool) bool {
	if v, ok := s.load(key); ok {
		if b, ok := v.Bool(); ok {
			return b
		}
	}
	return fallback
}

func (s *storeImpl) GetJSONObject(key string, fallback map[string]any) map[string]any {
	if obj, ok := codec.DecodeJSONObject(s.GetString(key, "")); ok {
		return obj
	}
	return fallback
}

func (s *storeImpl) GetJSONArray(key string, fallback []any) []any {
	if arr, ok := codec.DecodeJSONArray(s.GetString(key, "")); ok {
		return arr
	}
	return fallback
}

func (s *storeImpl) Get(key string) (codec.Value, bool) {
	return s.load(key)
}

func (s *storeImpl) Contains(key string) bool {
	_, ok := s.data.Load(key)
	return ok
}

func (s *storeImpl) Size() int {
	return s.data.Size()
}

// Keys returns a snapshot of the key set. The underlying iteration is
// weakly consistent: concurrent mutations never corrupt it but are not
// guaranteed to be reflected.
func (s *storeImpl) Keys() []string {
	keys := make([]string, 0, s.data.Size())
	s.data.Range(func(key string, _ codec.Value) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

func (s *storeImpl) Query(p Predicate) []string {
	matches := make([]string, 0)
	s.data.Range(func(key string, value codec.Value) bool {
		if p(value) {
			matches = append(matches, key)
		}
		return true
	})
	return matches
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

func (s *storeImpl) Namespace() string {
	return s.namespace
}

func (s *storeImpl) Flush() {
	s.pipe.flush()
}

func (s *storeImpl) Close() error {
	err := s.pipe.shutdown()
	prune(s.namespace)
	return err
}

// isClosed reports whether the pipeline has been shut down. A closed store
// is treated as dead by the registry.
func (s *storeImpl) isClosed() bool {
	return s.pipe.isStopped()
}
