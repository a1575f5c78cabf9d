package backing_test

import (
	"testing"

	"github.com/ltessier/keepsake/lib/backing"
	"github.com/ltessier/keepsake/lib/backing/backingtest"
	"github.com/ltessier/keepsake/lib/codec"
)

func TestMemoryAdapter(t *testing.T) {
	backingtest.RunAdapterTests(t, "memory", func(t *testing.T) backing.Adapter {
		return backing.NewMemoryAdapter()
	})
}

// TestMemoryFactoryIsolation verifies that namespaces do not share state
func TestMemoryFactoryIsolation(t *testing.T) {
	factory := backing.NewMemoryFactory()

	a, err := factory("one")
	if err != nil {
		t.Fatalf("factory failed: %v", err)
	}
	defer a.Close()

	b, err := factory("two")
	if err != nil {
		t.Fatalf("factory failed: %v", err)
	}
	defer b.Close()

	a.CommitPut("key", codec.String("value"))

	entries, err := b.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Adapter for namespace two sees %d entries from namespace one", len(entries))
	}
}
