package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"playscript/internal/bytecode"
	"playscript/internal/project"
	"playscript/internal/source"
)

// Current schema version - increment when DiskPayload or the module wire
// format changes.
const diskCacheSchemaVersion uint16 = 1

// schemaDigest is mixed into every cache key so that a schema bump never
// reads stale entries.
var schemaDigest = project.HashBytes([]byte{byte(diskCacheSchemaVersion >> 8), byte(diskCacheSchemaVersion)})

// DiskCache stores compiled modules keyed by source content.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached compilation.
type DiskPayload struct {
	Schema uint16
	Path   string         // source path the module was built from
	Source project.Digest // SHA-256 of the normalized source
	Module []byte         // bytecode.Encode output
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
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache opens a cache rooted at dir, creating it when missing.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// CacheKey derives the cache key for a loaded source file.
func CacheKey(file *source.File) project.Digest {
	return project.Combine(project.Digest(file.Hash), schemaDigest)
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "mods", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) (err error) {
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
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// atomic replace
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
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

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

// loadModule returns the cached module for file, if any. Entries written
// under another schema or for different content count as misses.
func (c *DiskCache) loadModule(file *source.File) (*bytecode.Module, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	var payload DiskPayload
	ok, err := c.Get(CacheKey(file), &payload)
	if err != nil || !ok {
		return nil, false, err
	}
	if payload.Schema != diskCacheSchemaVersion || payload.Source != project.Digest(file.Hash) {
		return nil, false, nil
	}
	m, err := bytecode.DecodeModule(payload.Module)
	if err != nil {
		return nil, false, err
	}
	return m, true, nil
}

func (c *DiskCache) storeModule(file *source.File, m *bytecode.Module) error {
	if c == nil {
		return nil
	}
	data, err := bytecode.Encode(m)
	if err != nil {
		return err
	}
	return c.Put(CacheKey(file), &DiskPayload{
		Schema: diskCacheSchemaVersion,
		Path:   file.Path,
		Source: project.Digest(file.Hash),
		Module: data,
	})
}
