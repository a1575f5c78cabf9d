package backing_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ltessier/keepsake/lib/backing"
	"github.com/ltessier/keepsake/lib/backing/backingtest"
	"github.com/ltessier/keepsake/lib/codec"
)

func TestFileAdapter(t *testing.T) {
	backingtest.RunAdapterTests(t, "file", func(t *testing.T) backing.Adapter {
		a, err := backing.NewFileAdapter(t.TempDir(), "suite")
		if err != nil {
			t.Fatalf("NewFileAdapter failed: %v", err)
		}
		return a
	})
}

// TestFilePersistenceAcrossReopen verifies committed entries survive a
// close-and-reopen of the same namespace file.
func TestFilePersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	a, err := backing.NewFileAdapter(dir, "ns")
	if err != nil {
		t.Fatalf("NewFileAdapter failed: %v", err)
	}
	if !a.CommitPut("pi", codec.Float(3.14)) {
		t.Fatal("CommitPut failed")
	}
	if !a.CommitPut("greeting", codec.String("hello")) {
		t.Fatal("CommitPut failed")
	}
	if !a.CommitPut("gone", codec.Bool(true)) {
		t.Fatal("CommitPut failed")
	}
	if !a.CommitRemove("gone") {
		t.Fatal("CommitRemove failed")
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	b, err := backing.NewFileAdapter(dir, "ns")
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer b.Close()

	entries, err := b.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	got := make(map[string]codec.Value, len(entries))
	for _, e := range entries {
		got[e.Key] = e.Value
	}

	if len(got) != 2 {
		t.Fatalf("Expected 2 entries after reopen, got %d", len(got))
	}
	if v := got["pi"]; !v.Equal(codec.Float(3.14)) {
		t.Errorf("Expected pi=3.14, got %s %v", v.Kind(), v)
	}
	if v := got["greeting"]; !v.Equal(codec.String("hello")) {
		t.Errorf("Expected greeting=hello, got %s %v", v.Kind(), v)
	}
	if _, ok := got["gone"]; ok {
		t.Error("Removed key resurrected on reopen")
	}
}

// TestFileNamespaceSeparation verifies two namespaces in one dir use separate
// files and never see each other's entries.
func TestFileNamespaceSeparation(t *testing.T) {
	dir := t.TempDir()

	a, err := backing.NewFileAdapter(dir, "first")
	if err != nil {
		t.Fatalf("NewFileAdapter failed: %v", err)
	}
	defer a.Close()

	b, err := backing.NewFileAdapter(dir, "second")
	if err != nil {
		t.Fatalf("NewFileAdapter failed: %v", err)
	}
	defer b.Close()

	a.CommitPut("key", codec.Int(1))

	entries, err := b.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Namespace second sees %d entries from namespace first", len(entries))
	}
}

// TestFileNamespaceEscaping verifies that namespaces with characters that are
// not filesystem-safe still map to usable files.
func TestFileNamespaceEscaping(t *testing.T) {
	dir := t.TempDir()

	a, err := backing.NewFileAdapter(dir, "user/settings?v=2")
	if err != nil {
		t.Fatalf("NewFileAdapter failed: %v", err)
	}
	if !a.CommitPut("key", codec.String("value")) {
		t.Fatal("CommitPut failed")
	}
	a.Close()

	b, err := backing.NewFileAdapter(dir, "user/settings?v=2")
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer b.Close()

	entries, err := b.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}

	// No nested directories may have been created by the namespace name
	subdirs, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, d := range subdirs {
		if d.IsDir() {
			t.Errorf("Namespace name created a directory: %s", d.Name())
		}
	}
}

// TestFileCorruptionDetected verifies that opening a garbage file fails
// instead of silently loading nonsense.
func TestFileCorruptionDetected(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "broken.kv")
	if err := os.WriteFile(path, []byte("this is not a keepsake file"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := backing.NewFileAdapter(dir, "broken"); err == nil {
		t.Error("Expected an error opening a corrupt namespace file")
	}
}

// TestFileTruncationDetected verifies a file cut short mid-entry is rejected
func TestFileTruncationDetected(t *testing.T) {
	dir := t.TempDir()

	a, err := backing.NewFileAdapter(dir, "truncated")
	if err != nil {
		t.Fatalf("NewFileAdapter failed: %v", err)
	}
	a.CommitPut("some-key", codec.String("some reasonably long value"))
	a.Close()

	path := filepath.Join(dir, "truncated.kv")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if err := os.WriteFile(path, data[:len(data)-5], 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := backing.NewFileAdapter(dir, "truncated"); err == nil {
		t.Error("Expected an error opening a truncated namespace file")
	}
}

// TestFileCommitLeavesNoTempFile verifies the atomic rename cleans up
func TestFileCommitLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()

	a, err := backing.NewFileAdapter(dir, "tidy")
	if err != nil {
		t.Fatalf("NewFileAdapter failed: %v", err)
	}
	defer a.Close()

	for i := 0; i < 10; i++ {
		if !a.CommitPut("key", codec.Int(int32(i))) {
			t.Fatalf("CommitPut %d failed", i)
		}
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(files) != 1 {
		names := make([]string, 0, len(files))
		for _, f := range files {
			names = append(names, f.Name())
		}
		t.Errorf("Expected exactly the namespace file, found %v", names)
	}
}
