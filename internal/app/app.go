// Package app wires the pipeline together: fetch, aggregate, snapshot,
// then best-effort persistence and notification.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cyrus-tt/ainews/internal/config"
	"github.com/cyrus-tt/ainews/internal/feed"
	"github.com/cyrus-tt/ainews/internal/metrics"
	"github.com/cyrus-tt/ainews/internal/news"
	"github.com/cyrus-tt/ainews/internal/snapshot"
	"github.com/cyrus-tt/ainews/internal/source"
	"github.com/cyrus-tt/ainews/internal/storage"
	"github.com/cyrus-tt/ainews/internal/telegram"
	"github.com/cyrus-tt/ainews/internal/translate"
)

// Run executes one full pipeline pass. Only the steps the snapshot
// depends on can fail the run; persistence and notification problems
// are logged and absorbed.
func Run(ctx context.Context) error {
	startedAt := time.Now().UTC()
	cfg := config.Load()
	log := slog.Default()

	sources, err := source.Load(cfg.SourcesPath)
	if err != nil {
		return fmt.Errorf("load sources: %w", err)
	}
	if len(sources) == 0 {
		return fmt.Errorf("no sources configured in %s", cfg.SourcesPath)
	}
	log.Info("starting run", "sources", len(sources))

	cache := storage.NewTranslationCache(cfg.CachePath)
	if err := cache.Load(); err != nil {
		log.Warn("translation cache unreadable, starting empty", "error", err)
	}
	log.Info("translation cache loaded", "entries", cache.Len())

	translator, cleanup := buildTranslator(ctx, cfg, cache, log)
	defer cleanup()

	fetcher := feed.NewFetcher(cfg.RequestTimeout, cfg.PerSourceLimit, translator, log)

	var collected []news.Item
	for _, src := range sources {
		collected = append(collected, fetcher.FetchSource(ctx, src)...)
	}

	items := news.DedupeAndSort(collected, cfg.MaxItems)
	log.Info("aggregation done", "collected", len(collected), "kept", len(items))

	finishedAt := time.Now().UTC()

	payload := snapshot.Build(items)
	payload.GeneratedAt = finishedAt
	if err := payload.Write(cfg.OutputPath); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	log.Info("snapshot written", "path", cfg.OutputPath, "total", payload.Total)

	if err := cache.Save(); err != nil {
		log.Warn("translation cache save failed", "error", err)
	}

	runID := storage.NewRunID(finishedAt)
	syncRun(ctx, cfg, payload, runID, startedAt, finishedAt, log)
	notify(cfg, payload, startedAt, finishedAt, log)

	metrics.Global.RecordRun(time.Since(startedAt))
	log.Info("run finished", "run_id", runID, "duration", time.Since(startedAt).Round(time.Millisecond))
	return nil
}

// buildTranslator assembles the backend chain: the free Google endpoint
// first, then Gemini and OpenAI when their keys are configured. The
// returned cleanup closes the Gemini client.
func buildTranslator(ctx context.Context, cfg *config.Config, cache translate.Cache, log *slog.Logger) (*translate.Service, func()) {
	backends := []translate.Backend{translate.NewGoogleBackend(cfg.RequestTimeout)}
	cleanup := func() {}

	if cfg.GeminiAPIKey != "" {
		gemini, err := translate.NewGeminiBackend(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Warn("gemini backend unavailable", "error", err)
		} else {
			backends = append(backends, gemini)
			cleanup = gemini.Close
		}
	}
	if cfg.OpenAIAPIKey != "" {
		backends = append(backends, translate.NewOpenAIBackend(cfg.OpenAIAPIKey))
	}

	return translate.NewService(cache, log, backends...), cleanup
}

// syncRun pushes the payload to D1 via wrangler and, when DATABASE_URL
// is set, mirrors it into Postgres. The snapshot file is authoritative;
// store failures only warn.
func syncRun(ctx context.Context, cfg *config.Config, p *snapshot.Payload, runID string, startedAt, finishedAt time.Time, log *slog.Logger) {
	if !cfg.D1Enabled {
		log.Info("d1 sync disabled")
	} else if cfg.D1DatabaseName == "" {
		log.Warn("d1 sync enabled but no database name configured")
	} else {
		d1 := &storage.D1Sync{
			DatabaseName: cfg.D1DatabaseName,
			Remote:       cfg.D1Remote,
			Log:          log,
		}
		d1.Run(p, runID, startedAt, finishedAt)
	}

	if cfg.DatabaseURL == "" {
		return
	}
	store, err := storage.NewSyncStore(cfg.DatabaseURL)
	if err != nil {
		log.Warn("postgres mirror unavailable", "error", err)
		return
	}
	defer store.Close()
	if err := store.SaveRun(ctx, p, runID, startedAt, finishedAt); err != nil {
		log.Warn("postgres mirror save failed", "error", err)
		return
	}
	log.Info("postgres mirror saved", "run_id", runID)
}

func notify(cfg *config.Config, p *snapshot.Payload, startedAt, finishedAt time.Time, log *slog.Logger) {
	if cfg.TelegramToken == "" || cfg.TelegramChatID == "" {
		return
	}

	stats := metrics.Global.GetStats()
	text := fmt.Sprintf(
		"📰 <b>AI资讯更新完成</b>\n\n共 %d 条资讯\n翻译缓存命中 %v 次\n耗时 %s",
		p.Total,
		stats["translation_cache_hits"],
		finishedAt.Sub(startedAt).Round(time.Second))

	if err := telegram.SendMessage(cfg.TelegramToken, cfg.TelegramChatID, text); err != nil {
		log.Warn("telegram notification failed", "error", err)
	}
}
