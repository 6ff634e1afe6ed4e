// Package metrics tracks run counters exposed by the optional
// monitoring server.
package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	SourcesFetched       int64
	SourcesFailed        int64
	EntriesSeen          int64
	ItemsKept            int64
	DuplicatesDropped    int64
	TranslationCacheHits int64
	TranslationsDone     int64
	TranslationsFailed   int64

	// Status
	LastRunDuration time.Duration
	LastRunTime     time.Time
	LastErrorTime   time.Time
	LastError       string
	IsHealthy       bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncSourcesFetched() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesFetched++
}

func (m *Metrics) IncSourcesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesFailed++
}

func (m *Metrics) IncEntriesSeen() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EntriesSeen++
}

func (m *Metrics) AddItemsKept(n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsKept += n
}

func (m *Metrics) IncDuplicatesDropped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesDropped++
}

func (m *Metrics) IncTranslationCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TranslationCacheHits++
}

func (m *Metrics) IncTranslationsDone() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TranslationsDone++
}

func (m *Metrics) IncTranslationsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TranslationsFailed++
}

func (m *Metrics) RecordRun(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunDuration = duration
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"sources_fetched":        m.SourcesFetched,
		"sources_failed":         m.SourcesFailed,
		"entries_seen":           m.EntriesSeen,
		"items_kept":             m.ItemsKept,
		"duplicates_dropped":     m.DuplicatesDropped,
		"translation_cache_hits": m.TranslationCacheHits,
		"translations_done":      m.TranslationsDone,
		"translations_failed":    m.TranslationsFailed,
		"last_run_duration_ms":   m.LastRunDuration.Milliseconds(),
		"last_run_time":          m.LastRunTime.Format(time.RFC3339),
		"last_error_time":        m.LastErrorTime.Format(time.RFC3339),
		"last_error":             m.LastError,
		"is_healthy":             m.IsHealthy,
	}
}
