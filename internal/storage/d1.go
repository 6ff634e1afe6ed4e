package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cyrus-tt/ainews/internal/news"
	"github.com/cyrus-tt/ainews/internal/snapshot"
)

// D1Sync persists a run into Cloudflare D1 through the wrangler CLI.
// The whole step is best-effort: the snapshot file is already on disk
// when it runs, so every failure mode here is absorbed with a warning.
type D1Sync struct {
	DatabaseName string
	Remote       bool
	Log          *slog.Logger
}

// NewRunID returns an identifier like run_20240131T080002Z_1a2b3c4d.
func NewRunID(finishedAt time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("run_%s_%s", finishedAt.UTC().Format("20060102T150405Z"), suffix)
}

// sqlText escapes a value for embedding as a SQL string literal.
func sqlText(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

func sqlBool(value bool) string {
	if value {
		return "1"
	}
	return "0"
}

// contentTagsJSON renders tags as a compact JSON array string for the
// content_tags_json columns.
func contentTagsJSON(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// BuildScript renders a run into one SQL script: a fetch_runs insert, a
// news_snapshots history insert per item and a latest_news upsert per
// item keyed on source_url. History rows accumulate across runs by
// design; latest_news keeps one row per distinct link.
func BuildScript(p *snapshot.Payload, runID string, startedAt, finishedAt time.Time) string {
	started := startedAt.UTC().Format(time.RFC3339)
	finished := finishedAt.UTC().Format(time.RFC3339)

	var b strings.Builder
	b.WriteString("PRAGMA foreign_keys = ON;\n")
	fmt.Fprintf(&b,
		"INSERT INTO fetch_runs (run_id, started_at, finished_at, item_count, status, message) VALUES (%s, %s, %s, %d, %s, %s);\n",
		sqlText(runID), sqlText(started), sqlText(finished), p.Total,
		sqlText("success"), sqlText("auto-sync"))

	for _, item := range p.Items {
		stage := item.IndustryStage
		if stage == "" {
			stage = news.StageMidstream
		}
		tagsJSON := contentTagsJSON(item.ContentTags)
		publishedAt := item.PublishedAt.UTC().Format(time.RFC3339)

		fmt.Fprintf(&b,
			"INSERT INTO news_snapshots (run_id, source_url, source_name, platform, region, industry_stage, "+
				"title_original, title_zh, summary_original, summary_zh, has_translation, action, published_at, date, "+
				"content_tags_json, captured_at) VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s);\n",
			sqlText(runID), sqlText(item.SourceURL), sqlText(item.SourceName), sqlText(item.Platform),
			sqlText(item.Region), sqlText(stage), sqlText(item.TitleOriginal), sqlText(item.TitleZh),
			sqlText(item.SummaryOriginal), sqlText(item.SummaryZh), sqlBool(item.HasTranslation),
			sqlText(item.Action), sqlText(publishedAt), sqlText(item.Date),
			sqlText(tagsJSON), sqlText(finished))

		fmt.Fprintf(&b,
			"INSERT INTO latest_news (source_url, source_name, platform, region, industry_stage, title_original, title_zh, "+
				"summary_original, summary_zh, has_translation, action, published_at, date, content_tags_json, updated_at) "+
				"VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s) "+
				"ON CONFLICT(source_url) DO UPDATE SET "+
				"source_name=excluded.source_name, "+
				"platform=excluded.platform, "+
				"region=excluded.region, "+
				"industry_stage=excluded.industry_stage, "+
				"title_original=excluded.title_original, "+
				"title_zh=excluded.title_zh, "+
				"summary_original=excluded.summary_original, "+
				"summary_zh=excluded.summary_zh, "+
				"has_translation=excluded.has_translation, "+
				"action=excluded.action, "+
				"published_at=excluded.published_at, "+
				"date=excluded.date, "+
				"content_tags_json=excluded.content_tags_json, "+
				"updated_at=excluded.updated_at;\n",
			sqlText(item.SourceURL), sqlText(item.SourceName), sqlText(item.Platform), sqlText(item.Region),
			sqlText(stage), sqlText(item.TitleOriginal), sqlText(item.TitleZh), sqlText(item.SummaryOriginal),
			sqlText(item.SummaryZh), sqlBool(item.HasTranslation), sqlText(item.Action), sqlText(publishedAt),
			sqlText(item.Date), sqlText(tagsJSON), sqlText(finished))
	}

	return b.String()
}

// Run writes the script to a temporary file and hands it to wrangler.
// The temp file is removed on every path.
func (s *D1Sync) Run(p *snapshot.Payload, runID string, startedAt, finishedAt time.Time) {
	if _, err := exec.LookPath("wrangler"); err != nil {
		s.Log.Warn("wrangler not found, skipping d1 sync")
		return
	}

	script := BuildScript(p, runID, startedAt, finishedAt)

	tmp, err := os.CreateTemp("", "d1-sync-*.sql")
	if err != nil {
		s.Log.Warn("d1 sync: create temp file failed", "error", err)
		return
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(script); err != nil {
		tmp.Close()
		s.Log.Warn("d1 sync: write script failed", "error", err)
		return
	}
	if err := tmp.Close(); err != nil {
		s.Log.Warn("d1 sync: close script failed", "error", err)
		return
	}

	args := []string{"d1", "execute", s.DatabaseName}
	if s.Remote {
		args = append(args, "--remote")
	}
	args = append(args, "--file", tmp.Name())

	out, err := exec.Command("wrangler", args...).CombinedOutput()
	if err != nil {
		s.Log.Warn("d1 sync failed",
			"error", err, "output", strings.TrimSpace(string(out)))
		return
	}

	s.Log.Info("d1 synced",
		"run_id", runID, "items", p.Total, "database", s.DatabaseName)
}
