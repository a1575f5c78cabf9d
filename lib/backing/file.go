package backing

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"os"
	"path/filepath"

	"github.com/ltessier/keepsake/lib/codec"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

// Constants for the on-disk format
const (
	magicNum    = "KEEPSKV\x00" // File format identifier
	fileVersion = 1             // On-disk format version
	fileSuffix  = ".kv"
)

// --------------------------------------------------------------------------
// File adapter
// --------------------------------------------------------------------------

// fileAdapter persists one namespace as a single flat file. Every commit
// rewrites the whole file through a temp-file-and-rename sequence, which
// makes each commit atomic: a crash leaves either the old or the new state,
// never a partial one.
//
// The adapter keeps a private mirror of the persisted contents so that a
// per-key commit can rewrite the full file. The mirror is only touched from
// commit calls, which the pipeline serializes.
type fileAdapter struct {
	path   string
	mirror map[string]codec.Value
}

// NewFileFactory returns a Factory that places one file per namespace in dir.
func NewFileFactory(dir string) Factory {
	return func(namespace string) (Adapter, error) {
		return NewFileAdapter(dir, namespace)
	}
}

// NewFileAdapter opens or creates the persisted file for a namespace.
// The existing contents are decoded eagerly so that LoadAll is a pure
// in-memory enumeration.
func NewFileAdapter(dir, namespace string) (Adapter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	a := &fileAdapter{
		// Escape the namespace so arbitrary names map to valid file names.
		path:   filepath.Join(dir, url.PathEscape(namespace)+fileSuffix),
		mirror: make(map[string]codec.Value),
	}

	f, err := os.Open(a.path)
	if errors.Is(err, os.ErrNotExist) {
		return a, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := a.decode(f); err != nil {
		return nil, fmt.Errorf("backing file %s: %w", a.path, err)
	}
	return a, nil
}

// --------------------------------------------------------------------------
// Adapter interface (docu see interface.go)
// --------------------------------------------------------------------------

func (a *fileAdapter) LoadAll() ([]Entry, error) {
	entries := make([]Entry, 0, len(a.mirror))
	for k, v := range a.mirror {
		entries = append(entries, Entry{Key: k, Value: v})
	}
	return entries, nil
}

func (a *fileAdapter) CommitPut(key string, value codec.Value) bool {
	a.mirror[key] = value
	return a.writeFile() == nil
}

func (a *fileAdapter) CommitRemove(key string) bool {
	delete(a.mirror, key)
	return a.writeFile() == nil
}

func (a *fileAdapter) CommitClear() bool {
	a.mirror = make(map[string]codec.Value)
	return a.writeFile() == nil
}

func (a *fileAdapter) Close() error {
	a.mirror = nil
	return nil
}

// --------------------------------------------------------------------------
// Encoding
// --------------------------------------------------------------------------

// writeFile rewrites the whole namespace file atomically: encode into a temp
// file in the same directory, fsync, then rename over the old file.
func (a *fileAdapter) writeFile() error {
	tmp := a.path + ".tmp"

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if err := a.encode(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, a.path)
}

// encode writes the file header and all mirror entries.
//
// Layout (little endian): magic, version byte, entry count (uint64), then
// per entry: key length (uint32) + key bytes + kind byte + payload.
func (a *fileAdapter) encode(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(magicNum); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint8(fileVersion)); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint64(len(a.mirror))); err != nil {
		return err
	}

	for key, value := range a.mirror {
		if err := binary.Write(bw, binary.LittleEndian, uint32(len(key))); err != nil {
			return err
		}
		if _, err := bw.WriteString(key); err != nil {
			return err
		}
		if err := encodeValue(bw, value); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// encodeValue writes the kind tag followed by the payload.
func encodeValue(bw *bufio.Writer, value codec.Value) error {
	if err := bw.WriteByte(byte(value.Kind())); err != nil {
		return err
	}

	switch value.Kind() {
	case codec.KindFloat:
		f, _ := value.Float()
		return binary.Write(bw, binary.LittleEndian, math.Float32bits(f))
	case codec.KindInt:
		i, _ := value.Int()
		return binary.Write(bw, binary.LittleEndian, uint32(i))
	case codec.KindLong:
		l, _ := value.Long()
		return binary.Write(bw, binary.LittleEndian, uint64(l))
	case codec.KindString:
		s, _ := value.Text()
		if err := binary.Write(bw, binary.LittleEndian, uint32(len(s))); err != nil {
			return err
		}
		_, err := bw.WriteString(s)
		return err
	case codec.KindBool:
		b, _ := value.Bool()
		if b {
			return bw.WriteByte(1)
		}
		return bw.WriteByte(0)
	default:
		return fmt.Errorf("cannot encode value of kind %s", value.Kind())
	}
}

// decode reads the full file into the mirror. Entries with a null value
// tag are skipped rather than loaded, so a legacy null placeholder never
// turns into an in-memory entry.
func (a *fileAdapter) decode(r io.Reader) error {
	br := bufio.NewReader(r)

	magic := make([]byte, len(magicNum))
	if _, err := io.ReadFull(br, magic); err != nil {
		return err
	}
	if string(magic) != magicNum {
		return fmt.Errorf("invalid file format: magic number mismatch")
	}

	var version uint8
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return err
	}
	if int(version) != fileVersion {
		return fmt.Errorf("unsupported version: %d (expected %d)", version, fileVersion)
	}

	var count uint64
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return err
	}

	for i := uint64(0); i < count; i++ {
		var keyLen uint32
		if err := binary.Read(br, binary.LittleEndian, &keyLen); err != nil {
			return err
		}
		keyBytes := make([]byte, keyLen)
		if _, err := io.ReadFull(br, keyBytes); err != nil {
			return err
		}

		value, ok, err := decodeValue(br)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		a.mirror[string(keyBytes)] = value
	}

	return nil
}

// decodeValue reads one kind tag and payload. The boolean reports whether
// the value is usable; a null tag has no payload and yields (zero, false,
// nil) so the caller skips the entry.
func decodeValue(br *bufio.Reader) (codec.Value, bool, error) {
	kindByte, err := br.ReadByte()
	if err != nil {
		return codec.Value{}, false, err
	}

	switch codec.Kind(kindByte) {
	case codec.KindInvalid:
		// Null placeholder written by older versions. Skip it.
		return codec.Value{}, false, nil
	case codec.KindFloat:
		var bits uint32
		if err := binary.Read(br, binary.LittleEndian, &bits); err != nil {
			return codec.Value{}, false, err
		}
		return codec.Float(math.Float32frombits(bits)), true, nil
	case codec.KindInt:
		var u uint32
		if err := binary.Read(br, binary.LittleEndian, &u); err != nil {
			return codec.Value{}, false, err
		}
		return codec.Int(int32(u)), true, nil
	case codec.KindLong:
		var u uint64
		if err := binary.Read(br, binary.LittleEndian, &u); err != nil {
			return codec.Value{}, false, err
		}
		return codec.Long(int64(u)), true, nil
	case codec.KindString:
		var strLen uint32
		if err := binary.Read(br, binary.LittleEndian, &strLen); err != nil {
			return codec.Value{}, false, err
		}
		strBytes := make([]byte, strLen)
		if _, err := io.ReadFull(br, strBytes); err != nil {
			return codec.Value{}, false, err
		}
		return codec.String(string(strBytes)), true, nil
	case codec.KindBool:
		b, err := br.ReadByte()
		if err != nil {
			return codec.Value{}, false, err
		}
		return codec.Bool(b != 0), true, nil
	default:
		// Without a known payload size the rest of the file cannot be
		// framed, so an unknown tag makes the file unreadable.
		return codec.Value{}, false, fmt.Errorf("unknown kind tag %d", kindByte)
	}
}
