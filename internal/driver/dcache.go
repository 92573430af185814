package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"jvlint/internal/diag"
	"jvlint/internal/source"
)

// Current schema version - increment when ResultPayload format changes
const diskCacheSchemaVersion uint16 = 1

// Digest is a SHA-256 content hash, the cache key for one class image.
type Digest = [32]byte

// DiskCache хранит результаты анализа по content digest на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Finding is one serialised diagnostic. Locations are stored without the
// FileID: the ID is only meaningful inside a single run and is re-bound on
// restore.
type Finding struct {
	Code     uint16
	Severity uint8
	Message  string
	Class    string
	Method   string
	PC       uint16
	Line     uint16
}

// ResultPayload stores the cached per-class analysis outcome.
type ResultPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	// RuleSet identifies the rules that produced the findings; a run with
	// a different rule set must not reuse them.
	RuleSet string

	ClassName string
	Findings  []Finding
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt returns a disk cache rooted at an explicit directory.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Для удобства читаемости/очистки — подкаталог "results".
	return filepath.Join(c.dir, "results", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *ResultPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. The boolean
// reports whether a usable entry existed.
func (c *DiskCache) Get(key Digest, out *ResultPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pathFor(key)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		_ = f.Close()
	}()
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// snapshotFindings converts a bag into a cacheable payload.
func snapshotFindings(className, fingerprint string, bag *diag.Bag) *ResultPayload {
	payload := &ResultPayload{
		Schema:    diskCacheSchemaVersion,
		RuleSet:   fingerprint,
		ClassName: className,
	}
	items := bag.Items()
	payload.Findings = make([]Finding, len(items))
	for i, d := range items {
		payload.Findings[i] = Finding{
			Code:     uint16(d.Code),
			Severity: uint8(d.Severity),
			Message:  d.Message,
			Class:    d.Primary.Class,
			Method:   d.Primary.Method,
			PC:       d.Primary.PC,
			Line:     d.Primary.Line,
		}
	}
	return payload
}

// restoreFindings re-binds cached findings to the current run's FileID.
func restoreFindings(file source.FileID, payload *ResultPayload, bag *diag.Bag) {
	for _, f := range payload.Findings {
		bag.Add(diag.Diagnostic{
			Severity: diag.Severity(f.Severity),
			Code:     diag.Code(f.Code),
			Message:  f.Message,
			Primary: source.Location{
				File:   file,
				Class:  f.Class,
				Method: f.Method,
				PC:     f.PC,
				Line:   f.Line,
			},
		})
	}
}
