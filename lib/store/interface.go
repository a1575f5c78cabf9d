package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ltessier/keepsake/lib/backing"
	"github.com/ltessier/keepsake/lib/codec"
	"github.com/ltessier/keepsake/lib/dispatch"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Callback reports the outcome of an asynchronous commit. Callbacks run on
// the store's dispatch queue, one at a time, never on the caller's
// goroutine.
type Callback func(ok bool)

// Predicate matches stored values during a Query scan. It receives the raw
// tagged value and must handle any of the five primitive kinds.
type Predicate func(value codec.Value) bool

// Store is a namespaced key-value cache. Reads are synchronous against the
// in-memory state; mutations update memory synchronously and commit to the
// backing store asynchronously, reporting the result via the optional
// callback (nil callbacks are a no-op).
type Store interface {
	// Put stores a dynamically typed value. The value must be one of the
	// five storable primitives (float32, int32, int64 or int, string, bool)
	// or a JSON object/array; anything else fails with RetCUnsupportedType.
	Put(key string, value any, cb Callback) error
	// PutFloat stores a 32-bit float.
	PutFloat(key string, value float32, cb Callback) error
	// PutInt stores a 32-bit integer.
	PutInt(key string, value int32, cb Callback) error
	// PutLong stores a 64-bit integer.
	PutLong(key string, value int64, cb Callback) error
	// PutString stores a string.
	PutString(key string, value string, cb Callback) error
	// PutBool stores a boolean.
	PutBool(key string, value bool, cb Callback) error
	// PutJSONObject stores a JSON object in its string encoding.
	// A nil object is treated as Remove.
	PutJSONObject(key string, value map[string]any, cb Callback) error
	// PutJSONArray stores a JSON array in its string encoding.
	// A nil array is treated as Remove.
	PutJSONArray(key string, value []any, cb Callback) error

	// GetFloat returns the float stored under key, or fallback if the key
	// is absent or holds a different kind. Same contract for the other
	// typed getters: absence and type mismatch are not errors.
	GetFloat(key string, fallback float32) float32
	GetInt(key string, fallback int32) int32
	GetLong(key string, fallback int64) int64
	GetString(key string, fallback string) string
	GetBool(key string, fallback bool) bool
	// GetJSONObject parses the string stored under key as a JSON object.
	// Returns fallback on absence, type mismatch, or a parse failure.
	GetJSONObject(key string, fallback map[string]any) map[string]any
	// GetJSONArray parses the string stored under key as a JSON array.
	GetJSONArray(key string, fallback []any) []any
	// Get returns the raw tagged value under key. The boolean reports
	// whether a mapping exists.
	Get(key string) (codec.Value, bool)

	// Remove deletes the mapping for key from memory immediately and from
	// the backing store asynchronously. Removing an absent key succeeds.
	Remove(key string, cb Callback)
	// Clear removes all entries from memory immediately and from the
	// backing store asynchronously.
	Clear(cb Callback)

	// Contains reports whether a mapping for key exists.
	Contains(key string) bool
	// Size returns the number of entries.
	Size() int
	// Keys returns a weakly consistent snapshot of all keys.
	Keys() []string
	// Query returns the keys whose values match the predicate.
	// This is an O(n) scan over the in-memory state.
	Query(p Predicate) []string

	// Namespace returns the namespace this store was created for.
	Namespace() string
	// Info returns metadata about the store contents.
	Info() Info
	// Flush blocks until every commit scheduled before the call has been
	// applied to the backing store and its callback dispatched.
	Flush()
	// Close flushes pending commits, stops the pipeline, releases the
	// backing adapter and drops the registry entry. Reads keep working on
	// the in-memory state; later mutations report failure via callback.
	Close() error
}

// --------------------------------------------------------------------------
// Options
// --------------------------------------------------------------------------

// Options configures store construction. Zero fields fall back to the
// defaults described on each field.
type Options struct {
	// Adapter opens the backing store for a namespace.
	// Default: file adapter rooted at DefaultDir().
	Adapter backing.Factory

	// Callbacks is the designated callback context.
	// Default: the process-wide dispatch.Default() queue.
	Callbacks *dispatch.Queue

	// Logger receives store lifecycle and commit failure logs.
	// Default: slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns the default store options.
func DefaultOptions() *Options {
	return (&Options{}).withDefaults()
}

// withDefaults fills unset fields.
func (o *Options) withDefaults() *Options {
	out := *o
	if out.Adapter == nil {
		out.Adapter = backing.NewFileFactory(DefaultDir())
	}
	if out.Callbacks == nil {
		out.Callbacks = dispatch.Default()
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return &out
}

// DefaultDir returns the default directory for namespace files.
func DefaultDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "keepsake")
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is the error type returned by store operations. It wraps a return
// code (of type RetCode) and a message. Commit failures are never surfaced
// as an Error; they are reported only through the callback's boolean.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorCode := "Unknown"
	switch e.Code {
	case RetCInvalidArgument:
		errorCode = "InvalidArgument"
	case RetCUnsupportedType:
		errorCode = "UnsupportedType"
	case RetCInternalError:
		errorCode = "InternalError"
	}

	return fmt.Sprintf("StoreError (code %s): %s", errorCode, e.Msg)
}

// NewError creates a new Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess         RetCode = iota // 0: Operation executed successfully.
	RetCInvalidArgument                // 1: Empty namespace or empty key.
	RetCUnsupportedType                // 2: Value outside the storable primitives.
	RetCInternalError                  // 3: Backing store could not be opened or loaded.
)
