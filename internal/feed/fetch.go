// Package feed fetches the configured sources and normalizes their raw
// entries into news items.
package feed

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/cyrus-tt/ainews/internal/metrics"
	"github.com/cyrus-tt/ainews/internal/news"
	"github.com/cyrus-tt/ainews/internal/source"
	"github.com/cyrus-tt/ainews/internal/textutil"
)

const (
	userAgent    = "Mozilla/5.0 (compatible; CyrusNewsBot/1.0; +https://cyrustyj.xyz)"
	acceptHeader = "application/rss+xml, application/xml, text/xml;q=0.9, */*;q=0.8"

	titleMaxLen   = 140
	summaryMaxLen = 190

	// Raw entries scanned beyond the per-source limit, to absorb
	// entries dropped by normalization.
	rawEntrySlack = 3
)

// Translator produces the Chinese rendition of overseas text.
type Translator interface {
	ToChinese(ctx context.Context, text string) (string, bool)
}

type Fetcher struct {
	client         *http.Client
	parser         *gofeed.Parser
	translator     Translator
	log            *slog.Logger
	perSourceLimit int
}

// NewFetcher builds a fetcher. translator may be nil, in which case
// overseas items keep their original text.
func NewFetcher(timeout time.Duration, perSourceLimit int, translator Translator, log *slog.Logger) *Fetcher {
	return &Fetcher{
		client:         &http.Client{Timeout: timeout},
		parser:         gofeed.NewParser(),
		translator:     translator,
		log:            log,
		perSourceLimit: perSourceLimit,
	}
}

// FetchSource downloads and normalizes one source. Network, status and
// parse failures are logged and yield an empty list; they never abort
// the run.
func (f *Fetcher) FetchSource(ctx context.Context, src source.Source) []news.Item {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		f.log.Warn("skipping source: bad url", "source", src.Name, "error", err)
		metrics.Global.IncSourcesFailed()
		return nil
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.client.Do(req)
	if err != nil {
		f.log.Warn("fetch failed", "source", src.Name, "error", err)
		metrics.Global.IncSourcesFailed()
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.log.Warn("fetch returned non-success status",
			"source", src.Name, "status", resp.StatusCode)
		metrics.Global.IncSourcesFailed()
		return nil
	}

	parsed, err := f.parser.Parse(resp.Body)
	if err != nil {
		f.log.Warn("feed parse failed", "source", src.Name, "error", err)
		metrics.Global.IncSourcesFailed()
		return nil
	}
	metrics.Global.IncSourcesFetched()

	now := time.Now().UTC()
	entries := parsed.Items
	if max := f.perSourceLimit * rawEntrySlack; len(entries) > max {
		entries = entries[:max]
	}

	items := make([]news.Item, 0, f.perSourceLimit)
	for _, entry := range entries {
		metrics.Global.IncEntriesSeen()
		item, ok := f.normalizeEntry(ctx, src, entry, now)
		if !ok {
			continue
		}
		items = append(items, item)
		if len(items) >= f.perSourceLimit {
			break
		}
	}
	metrics.Global.AddItemsKept(int64(len(items)))

	f.log.Info("source fetched",
		"source", src.Name, "entries", len(parsed.Items), "kept", len(items))
	return items
}

// normalizeEntry turns one raw entry into an Item. Entries without a
// usable title or link, or failing the keyword filter of a
// keywords_only source, are dropped silently.
func (f *Fetcher) normalizeEntry(ctx context.Context, src source.Source, entry *gofeed.Item, now time.Time) (news.Item, bool) {
	if entry == nil {
		return news.Item{}, false
	}

	title := textutil.StripMarkup(entry.Title)
	if title == "" {
		return news.Item{}, false
	}
	summary := textutil.StripMarkup(entry.Description)
	if summary == "" {
		summary = textutil.StripMarkup(entry.Content)
	}
	link := textutil.CleanURL(entry.Link)
	if link == "" {
		return news.Item{}, false
	}

	filterText := title + " " + summary
	if src.KeywordsOnly && !news.ContainsKeyword(filterText) {
		return news.Item{}, false
	}

	published := entryTime(entry, now)

	titleOriginal := textutil.Truncate(title, titleMaxLen)
	summarySource := summary
	if summarySource == "" {
		summarySource = title
	}
	summaryOriginal := textutil.Truncate(summarySource, summaryMaxLen)

	titleZh, summaryZh := titleOriginal, summaryOriginal
	hasTranslation := false
	if src.Region == source.RegionOverseas && f.translator != nil {
		var titleChanged, summaryChanged bool
		titleZh, titleChanged = f.translator.ToChinese(ctx, titleOriginal)
		summaryZh, summaryChanged = f.translator.ToChinese(ctx, summaryOriginal)
		hasTranslation = titleChanged || summaryChanged
	}

	return news.Item{
		Title:           titleZh,
		Summary:         summaryZh,
		TitleOriginal:   titleOriginal,
		SummaryOriginal: summaryOriginal,
		TitleZh:         titleZh,
		SummaryZh:       summaryZh,
		HasTranslation:  hasTranslation,
		Platform:        src.Platform,
		Region:          src.Region,
		IndustryStage:   news.InferIndustryStage(filterText),
		ContentTags:     news.InferContentTags(filterText),
		Date:            published.Format("2006-01-02"),
		Action:          news.InferAction(filterText),
		SourceURL:       link,
		SourceName:      src.Name,
		PublishedAt:     published,
	}, true
}

// entryTime resolves the entry timestamp: published, then updated, then
// the fetch clock. gofeed folds atom created/issued dates into
// Published during parsing.
func entryTime(entry *gofeed.Item, now time.Time) time.Time {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed.UTC()
	}
	if entry.UpdatedParsed != nil {
		return entry.UpdatedParsed.UTC()
	}
	return now
}
