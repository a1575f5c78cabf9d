package backingtest

import (
	"strconv"
	"testing"

	"github.com/ltessier/keepsake/lib/backing"
	"github.com/ltessier/keepsake/lib/codec"
)

// AdapterFactory creates a fresh, empty adapter for one suite run.
type AdapterFactory func(t *testing.T) backing.Adapter

// RunAdapterTests runs the conformance test suite against an Adapter
// implementation.
func RunAdapterTests(t *testing.T, name string, factory AdapterFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("EmptyLoadAll", func(t *testing.T) {
			testEmptyLoadAll(t, factory(t))
		})

		t.Run("PutAndLoadAll", func(t *testing.T) {
			testPutAndLoadAll(t, factory(t))
		})

		t.Run("AllKinds", func(t *testing.T) {
			testAllKinds(t, factory(t))
		})

		t.Run("Overwrite", func(t *testing.T) {
			testOverwrite(t, factory(t))
		})

		t.Run("Remove", func(t *testing.T) {
			testRemove(t, factory(t))
		})

		t.Run("RemoveAbsent", func(t *testing.T) {
			testRemoveAbsent(t, factory(t))
		})

		t.Run("Clear", func(t *testing.T) {
			testClear(t, factory(t))
		})

		t.Run("ManyEntries", func(t *testing.T) {
			testManyEntries(t, factory(t))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// loadMap enumerates the adapter into a map for easy assertions.
func loadMap(t *testing.T, adapter backing.Adapter) map[string]codec.Value {
	t.Helper()

	entries, err := adapter.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	m := make(map[string]codec.Value, len(entries))
	for _, e := range entries {
		if _, dup := m[e.Key]; dup {
			t.Errorf("LoadAll returned duplicate key %q", e.Key)
		}
		m[e.Key] = e.Value
	}
	return m
}

func mustCommitPut(t *testing.T, adapter backing.Adapter, key string, value codec.Value) {
	t.Helper()
	if !adapter.CommitPut(key, value) {
		t.Fatalf("CommitPut(%q) failed", key)
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testEmptyLoadAll(t *testing.T, adapter backing.Adapter) {
	defer adapter.Close()

	if got := loadMap(t, adapter); len(got) != 0 {
		t.Errorf("Expected empty adapter, got %d entries", len(got))
	}
}

func testPutAndLoadAll(t *testing.T, adapter backing.Adapter) {
	defer adapter.Close()

	mustCommitPut(t, adapter, "alpha", codec.String("one"))
	mustCommitPut(t, adapter, "beta", codec.Long(2))

	got := loadMap(t, adapter)
	if len(got) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(got))
	}
	if v, ok := got["alpha"]; !ok || !v.Equal(codec.String("one")) {
		t.Errorf("Expected alpha=one, got %v (found=%v)", v, ok)
	}
	if v, ok := got["beta"]; !ok || !v.Equal(codec.Long(2)) {
		t.Errorf("Expected beta=2, got %v (found=%v)", v, ok)
	}
}

func testAllKinds(t *testing.T, adapter backing.Adapter) {
	defer adapter.Close()

	values := map[string]codec.Value{
		"float":  codec.Float(2.5),
		"int":    codec.Int(-7),
		"long":   codec.Long(1 << 40),
		"string": codec.String("hello"),
		"bool":   codec.Bool(true),
		"empty":  codec.String(""),
	}

	for k, v := range values {
		mustCommitPut(t, adapter, k, v)
	}

	got := loadMap(t, adapter)
	for k, want := range values {
		if v, ok := got[k]; !ok || !v.Equal(want) {
			t.Errorf("Key %q: expected %s %v, got %s %v (found=%v)",
				k, want.Kind(), want, v.Kind(), v, ok)
		}
	}
}

func testOverwrite(t *testing.T, adapter backing.Adapter) {
	defer adapter.Close()

	mustCommitPut(t, adapter, "key", codec.Int(1))
	mustCommitPut(t, adapter, "key", codec.String("two"))

	got := loadMap(t, adapter)
	if len(got) != 1 {
		t.Fatalf("Expected 1 entry after overwrite, got %d", len(got))
	}
	if v := got["key"]; !v.Equal(codec.String("two")) {
		t.Errorf("Expected overwritten value, got %s %v", v.Kind(), v)
	}
}

func testRemove(t *testing.T, adapter backing.Adapter) {
	defer adapter.Close()

	mustCommitPut(t, adapter, "kept", codec.Bool(true))
	mustCommitPut(t, adapter, "gone", codec.Bool(false))

	if !adapter.CommitRemove("gone") {
		t.Fatal("CommitRemove failed")
	}

	got := loadMap(t, adapter)
	if _, ok := got["gone"]; ok {
		t.Error("Removed key still present")
	}
	if _, ok := got["kept"]; !ok {
		t.Error("Unrelated key lost by remove")
	}
}

func testRemoveAbsent(t *testing.T, adapter backing.Adapter) {
	defer adapter.Close()

	if !adapter.CommitRemove("never-stored") {
		t.Error("Removing an absent key must succeed")
	}
}

func testClear(t *testing.T, adapter backing.Adapter) {
	defer adapter.Close()

	for i := 0; i < 5; i++ {
		mustCommitPut(t, adapter, string(rune('a'+i)), codec.Int(int32(i)))
	}

	if !adapter.CommitClear() {
		t.Fatal("CommitClear failed")
	}

	if got := loadMap(t, adapter); len(got) != 0 {
		t.Errorf("Expected empty adapter after clear, got %d entries", len(got))
	}
}

func testManyEntries(t *testing.T, adapter backing.Adapter) {
	defer adapter.Close()

	const n = 500
	for i := 0; i < n; i++ {
		mustCommitPut(t, adapter, keyOf(i), codec.Long(int64(i)))
	}

	got := loadMap(t, adapter)
	if len(got) != n {
		t.Fatalf("Expected %d entries, got %d", n, len(got))
	}
	for i := 0; i < n; i++ {
		if v, ok := got[keyOf(i)]; !ok || !v.Equal(codec.Long(int64(i))) {
			t.Fatalf("Key %q: expected %d, got %v (found=%v)", keyOf(i), i, v, ok)
		}
	}
}

func keyOf(i int) string {
	return "key-" + strconv.Itoa(i)
}
