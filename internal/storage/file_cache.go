// Package storage persists run results: the translation cache file, the
// Cloudflare D1 sync script and the optional Postgres mirror.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// TranslationCache is the persistent source-text-to-Chinese mapping.
// Entries are appended within a run and never evicted; the file is the
// only state that survives between runs.
type TranslationCache struct {
	filePath string
	entries  map[string]string
	mu       sync.RWMutex
}

func NewTranslationCache(filePath string) *TranslationCache {
	return &TranslationCache{
		filePath: filePath,
		entries:  make(map[string]string),
	}
}

// Load reads the cache file. A missing file is fine; a corrupt one
// degrades to an empty cache with the error returned for logging.
func (tc *TranslationCache) Load() error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.entries = make(map[string]string)

	data, err := os.ReadFile(tc.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &tc.entries); err != nil {
		tc.entries = make(map[string]string)
		return fmt.Errorf("unmarshal cache: %w", err)
	}
	return nil
}

// Save writes the cache back to disk, once, at the end of the run.
func (tc *TranslationCache) Save() error {
	tc.mu.RLock()
	data, err := json.MarshalIndent(tc.entries, "", "  ")
	tc.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	if dir := filepath.Dir(tc.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}
	if err := os.WriteFile(tc.filePath, data, 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return nil
}

func (tc *TranslationCache) Get(key string) (string, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	value, ok := tc.entries[key]
	return value, ok
}

func (tc *TranslationCache) Set(key, value string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.entries[key] = value
}

func (tc *TranslationCache) Len() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.entries)
}
