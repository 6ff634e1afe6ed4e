// Package translate produces the Chinese rendition of overseas feed
// text through a persistent cache and a chain of best-effort backends.
package translate

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cyrus-tt/ainews/internal/metrics"
)

const cacheKeyPrefix = "zh::"

// Backend is a single translation service. It auto-detects the source
// language and translates to Simplified Chinese.
type Backend interface {
	Name() string
	Translate(ctx context.Context, text string) (string, error)
}

// Cache is the persistent source-text-to-translation mapping consulted
// before any backend call.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// Service resolves translations: cache first, then each backend in
// order. Backend calls are throttled so a long run of uncached items
// does not hammer the free endpoints.
type Service struct {
	backends []Backend
	cache    Cache
	limiter  *rate.Limiter
	log      *slog.Logger
}

func NewService(cache Cache, log *slog.Logger, backends ...Backend) *Service {
	return &Service{
		backends: backends,
		cache:    cache,
		limiter:  rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
		log:      log,
	}
}

// HasCJK reports whether text contains CJK unified ideographs.
func HasCJK(text string) bool {
	for _, r := range text {
		if r >= 0x4E00 && r <= 0x9FFF {
			return true
		}
	}
	return false
}

// ToChinese translates text and reports whether the result differs from
// the input. Already-Chinese text passes through unchanged. When every
// backend fails the original text comes back with changed=false and
// nothing is written to the cache.
func (s *Service) ToChinese(ctx context.Context, text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	if HasCJK(text) {
		return text, false
	}

	key := cacheKeyPrefix + text
	if cached, ok := s.cache.Get(key); ok {
		metrics.Global.IncTranslationCacheHits()
		return cached, strings.TrimSpace(cached) != text
	}

	for _, backend := range s.backends {
		if err := s.limiter.Wait(ctx); err != nil {
			return text, false
		}
		result, err := backend.Translate(ctx, text)
		if err != nil {
			s.log.Warn("translation backend failed",
				"backend", backend.Name(), "error", err)
			continue
		}
		result = strings.TrimSpace(result)
		if result == "" {
			continue
		}
		s.cache.Set(key, result)
		metrics.Global.IncTranslationsDone()
		return result, result != text
	}

	metrics.Global.IncTranslationsFailed()
	return text, false
}
