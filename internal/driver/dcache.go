package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"baselint/internal/config"
	"baselint/internal/diag"
)

// Increment when the payload format changes.
const diskCacheSchemaVersion uint16 = 1

// Digest keys one cached unit result.
type Digest [32]byte

// DiskCache хранит готовые диагностики юнита на диске: повторный скан
// неизменённого файла при неизменённой политике не парсит его заново.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// diskPayload is the serialized per-unit result.
type diskPayload struct {
	Schema      uint16
	Diagnostics []diag.Diagnostic
}

// OpenDiskCache initializes the cache at the standard location.
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

// cacheKey binds a unit result to its content and the effective policy.
func cacheKey(path string, content []byte, cfg *config.Config) Digest {
	h := sha256.New()
	h.Write([]byte{byte(diskCacheSchemaVersion), byte(diskCacheSchemaVersion >> 8)})
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write([]byte(cfg.Hash()))
	h.Write([]byte{0})
	h.Write(content)

	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "scans", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a payload. Атомарная замена через rename.
func (c *DiskCache) Put(key Digest, payload *diskPayload) error {
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

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload. A missing entry is not an error.
func (c *DiskCache) Get(key Digest, out *diskPayload) (bool, error) {
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
	defer func() {
		_ = f.Close()
	}()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// cacheGet returns the cached diagnostics for a key, if any. Ошибки кэша не
// фатальны: промах и пересчёт.
func cacheGet(cache *DiskCache, key Digest, logger *zap.Logger) ([]diag.Diagnostic, bool) {
	if cache == nil {
		return nil, false
	}
	var payload diskPayload
	ok, err := cache.Get(key, &payload)
	if err != nil {
		logger.Warn("scan cache read failed", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return payload.Diagnostics, true
}

func cachePut(cache *DiskCache, key Digest, diags []diag.Diagnostic, logger *zap.Logger) {
	if cache == nil {
		return
	}
	payload := diskPayload{Schema: diskCacheSchemaVersion, Diagnostics: diags}
	if err := cache.Put(key, &payload); err != nil {
		logger.Warn("scan cache write failed", zap.Error(err))
	}
}

// DropAll invalidates the whole cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
