package feed

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cyrus-tt/ainews/internal/source"
)

const rssBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Test Feed</title>
<item>
  <title>New GPT model &lt;b&gt;released&lt;/b&gt;</title>
  <link>http://example.com/a?utm_source=rss&amp;id=1</link>
  <description>&lt;p&gt;Big &amp;amp; important llm news&lt;/p&gt;</description>
  <pubDate>Tue, 30 Jan 2024 15:04:05 GMT</pubDate>
</item>
<item>
  <title>Gardening tips for spring</title>
  <link>http://example.com/b</link>
  <description>Nothing about technology at all</description>
  <pubDate>Mon, 29 Jan 2024 10:00:00 GMT</pubDate>
</item>
<item>
  <title></title>
  <link>http://example.com/c</link>
  <description>entry without a title is dropped</description>
</item>
</channel>
</rss>`

type echoTranslator struct {
	calls int
}

func (e *echoTranslator) ToChinese(ctx context.Context, text string) (string, bool) {
	e.calls++
	return "译文:" + text, true
}

func rssServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("request missing User-Agent header")
		}
		if !strings.Contains(r.Header.Get("Accept"), "application/rss+xml") {
			t.Error("request missing feed Accept header")
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchSourceNormalizes(t *testing.T) {
	server := rssServer(t, rssBody)
	fetcher := NewFetcher(5*time.Second, 15, nil, slog.Default())

	items := fetcher.FetchSource(context.Background(), source.Source{
		Name:     "test",
		URL:      server.URL,
		Platform: "博客",
		Region:   "国内",
	})

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 (titleless entry dropped)", len(items))
	}

	first := items[0]
	if first.TitleOriginal != "New GPT model released" {
		t.Errorf("title = %q, markup must be stripped", first.TitleOriginal)
	}
	if first.SummaryOriginal != "Big & important llm news" {
		t.Errorf("summary = %q", first.SummaryOriginal)
	}
	if first.SourceURL != "http://example.com/a?id=1" {
		t.Errorf("link = %q, tracking params must be removed", first.SourceURL)
	}
	if first.Date != "2024-01-30" {
		t.Errorf("date = %q, want 2024-01-30", first.Date)
	}
	if !first.PublishedAt.Equal(time.Date(2024, 1, 30, 15, 4, 5, 0, time.UTC)) {
		t.Errorf("published at = %v", first.PublishedAt)
	}
	if first.HasTranslation {
		t.Error("domestic source must not be marked translated")
	}
	if first.Title != first.TitleOriginal || first.TitleZh != first.TitleOriginal {
		t.Error("without a translator the display title equals the original")
	}
	if first.IndustryStage == "" || len(first.ContentTags) == 0 || first.Action == "" {
		t.Error("classification fields must be populated")
	}
	if first.SourceName != "test" || first.Platform != "博客" {
		t.Errorf("source metadata lost: %+v", first)
	}
}

func TestFetchSourceKeywordFilter(t *testing.T) {
	server := rssServer(t, rssBody)
	fetcher := NewFetcher(5*time.Second, 15, nil, slog.Default())

	items := fetcher.FetchSource(context.Background(), source.Source{
		Name:         "filtered",
		URL:          server.URL,
		KeywordsOnly: true,
	})

	if len(items) != 1 {
		t.Fatalf("got %d items, want 1 (gardening entry filtered out)", len(items))
	}
	if !strings.Contains(items[0].TitleOriginal, "GPT") {
		t.Errorf("wrong entry survived the filter: %q", items[0].TitleOriginal)
	}
}

func TestFetchSourceTranslatesOverseas(t *testing.T) {
	server := rssServer(t, rssBody)
	translator := &echoTranslator{}
	fetcher := NewFetcher(5*time.Second, 15, translator, slog.Default())

	items := fetcher.FetchSource(context.Background(), source.Source{
		Name:   "overseas",
		URL:    server.URL,
		Region: source.RegionOverseas,
	})

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	first := items[0]
	if !first.HasTranslation {
		t.Error("overseas item must be marked translated")
	}
	if first.TitleZh != "译文:New GPT model released" {
		t.Errorf("titleZh = %q", first.TitleZh)
	}
	if first.Title != first.TitleZh {
		t.Error("display title must carry the translated text")
	}
	if first.TitleOriginal != "New GPT model released" {
		t.Errorf("original title must survive translation, got %q", first.TitleOriginal)
	}
	if translator.calls != 4 {
		t.Errorf("translator called %d times, want title+summary per item", translator.calls)
	}
}

func TestFetchSourcePerSourceLimit(t *testing.T) {
	server := rssServer(t, rssBody)
	fetcher := NewFetcher(5*time.Second, 1, nil, slog.Default())

	items := fetcher.FetchSource(context.Background(), source.Source{Name: "capped", URL: server.URL})
	if len(items) != 1 {
		t.Errorf("got %d items, want the per-source cap of 1", len(items))
	}
}

func TestFetchSourceHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, 15, nil, slog.Default())
	items := fetcher.FetchSource(context.Background(), source.Source{Name: "down", URL: server.URL})
	if len(items) != 0 {
		t.Errorf("got %d items from a failing source, want 0", len(items))
	}
}

func TestFetchSourceBadFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not xml"))
	}))
	defer server.Close()

	fetcher := NewFetcher(5*time.Second, 15, nil, slog.Default())
	items := fetcher.FetchSource(context.Background(), source.Source{Name: "garbage", URL: server.URL})
	if len(items) != 0 {
		t.Errorf("got %d items from an unparsable feed, want 0", len(items))
	}
}
