package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/cyrus-tt/ainews/internal/news"
	"github.com/cyrus-tt/ainews/internal/snapshot"
)

// SyncStore mirrors run history and the latest-news view into Postgres,
// for deployments where wrangler is unavailable. Same tables and upsert
// semantics as the D1 script.
type SyncStore struct {
	db *sql.DB
}

func NewSyncStore(connectionString string) (*SyncStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SyncStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SyncStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS fetch_runs (
		run_id TEXT PRIMARY KEY,
		started_at TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL,
		item_count INTEGER NOT NULL,
		status TEXT NOT NULL,
		message TEXT
	);

	CREATE TABLE IF NOT EXISTS news_snapshots (
		id SERIAL PRIMARY KEY,
		run_id TEXT NOT NULL,
		source_url TEXT NOT NULL,
		source_name TEXT,
		platform TEXT,
		region TEXT,
		industry_stage TEXT,
		title_original TEXT,
		title_zh TEXT,
		summary_original TEXT,
		summary_zh TEXT,
		has_translation BOOLEAN NOT NULL DEFAULT FALSE,
		action TEXT,
		published_at TEXT,
		date TEXT,
		content_tags_json TEXT,
		captured_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_news_snapshots_run_id ON news_snapshots(run_id);
	CREATE INDEX IF NOT EXISTS idx_news_snapshots_source_url ON news_snapshots(source_url);

	CREATE TABLE IF NOT EXISTS latest_news (
		source_url TEXT PRIMARY KEY,
		source_name TEXT,
		platform TEXT,
		region TEXT,
		industry_stage TEXT,
		title_original TEXT,
		title_zh TEXT,
		summary_original TEXT,
		summary_zh TEXT,
		has_translation BOOLEAN NOT NULL DEFAULT FALSE,
		action TEXT,
		published_at TEXT,
		date TEXT,
		content_tags_json TEXT,
		updated_at TIMESTAMPTZ NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SaveRun writes the run row, one history row per item and one
// latest_news upsert per item, in a single transaction.
func (s *SyncStore) SaveRun(ctx context.Context, p *snapshot.Payload, runID string, startedAt, finishedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO fetch_runs (run_id, started_at, finished_at, item_count, status, message)
		VALUES ($1, $2, $3, $4, 'success', 'auto-sync')
	`, runID, startedAt.UTC(), finishedAt.UTC(), p.Total)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, item := range p.Items {
		stage := item.IndustryStage
		if stage == "" {
			stage = news.StageMidstream
		}
		tagsJSON := contentTagsJSON(item.ContentTags)
		publishedAt := item.PublishedAt.UTC().Format(time.RFC3339)

		_, err = tx.ExecContext(ctx, `
			INSERT INTO news_snapshots (run_id, source_url, source_name, platform, region, industry_stage,
				title_original, title_zh, summary_original, summary_zh, has_translation, action,
				published_at, date, content_tags_json, captured_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		`, runID, item.SourceURL, item.SourceName, item.Platform, item.Region, stage,
			item.TitleOriginal, item.TitleZh, item.SummaryOriginal, item.SummaryZh,
			item.HasTranslation, item.Action, publishedAt, item.Date, tagsJSON, finishedAt.UTC())
		if err != nil {
			return fmt.Errorf("insert snapshot row: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO latest_news (source_url, source_name, platform, region, industry_stage,
				title_original, title_zh, summary_original, summary_zh, has_translation, action,
				published_at, date, content_tags_json, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			ON CONFLICT (source_url) DO UPDATE SET
				source_name = EXCLUDED.source_name,
				platform = EXCLUDED.platform,
				region = EXCLUDED.region,
				industry_stage = EXCLUDED.industry_stage,
				title_original = EXCLUDED.title_original,
				title_zh = EXCLUDED.title_zh,
				summary_original = EXCLUDED.summary_original,
				summary_zh = EXCLUDED.summary_zh,
				has_translation = EXCLUDED.has_translation,
				action = EXCLUDED.action,
				published_at = EXCLUDED.published_at,
				date = EXCLUDED.date,
				content_tags_json = EXCLUDED.content_tags_json,
				updated_at = EXCLUDED.updated_at
		`, item.SourceURL, item.SourceName, item.Platform, item.Region, stage,
			item.TitleOriginal, item.TitleZh, item.SummaryOriginal, item.SummaryZh,
			item.HasTranslation, item.Action, publishedAt, item.Date, tagsJSON, finishedAt.UTC())
		if err != nil {
			return fmt.Errorf("upsert latest row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *SyncStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
