package cc

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/confgen/internal/core/domain"
	"go.trai.ch/zerr"
)

// probeCache persists probe results across runs in a flat JSON file, the
// moral equivalent of a config.cache. Entries are keyed by the runner's
// probe hash, so a toolchain or flag change invalidates them naturally.
type probeCache struct {
	path    string
	mu      sync.RWMutex
	entries map[string]domain.ProbeResult
}

// OpenCache loads (or initializes) the probe cache at the given path.
func OpenCache(path string) (*probeCache, error) {
	c := &probeCache{
		path:    filepath.Clean(path),
		entries: make(map[string]domain.ProbeResult),
	}
	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *probeCache) load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	//nolint:gosec // path is cleaned and operator-provided
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, domain.ErrProbeCacheReadFailed.Error())
	}
	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &c.entries); err != nil {
		return zerr.Wrap(err, domain.ErrProbeCacheReadFailed.Error())
	}
	return nil
}

// Get returns the cached result for a probe key.
func (c *probeCache) Get(key string) (domain.ProbeResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res, ok := c.entries[key]
	return res, ok
}

// Put stores a probe result and persists the cache file.
func (c *probeCache) Put(key string, res domain.ProbeResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = res

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrProbeCacheWriteFailed.Error())
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return zerr.Wrap(err, domain.ErrProbeCacheWriteFailed.Error())
	}
	return nil
}
