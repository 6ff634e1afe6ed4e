package source

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "sources.yaml", `
- name: OpenAI Blog
  url: https://openai.com/blog/rss.xml
  platform: 博客
  region: 海外
- name: 机器之心
  url: https://www.jiqizhixin.com/rss
  platform: 资讯
  region: 国内
  keywords_only: true
`)

	sources, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(sources))
	}
	if sources[0].Name != "OpenAI Blog" || sources[0].Region != RegionOverseas {
		t.Errorf("first source = %+v", sources[0])
	}
	if sources[0].KeywordsOnly {
		t.Error("keywords_only must default to false")
	}
	if !sources[1].KeywordsOnly {
		t.Error("keywords_only flag lost for second source")
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "sources.json", `[
		{"name": "Hacker News", "url": "https://hnrss.org/frontpage", "platform": "社区", "region": "海外", "keywords_only": true}
	]`)

	sources, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(sources) != 1 || sources[0].Name != "Hacker News" || !sources[0].KeywordsOnly {
		t.Errorf("sources = %+v", sources)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := writeFile(t, "bad.yaml", "name: [unterminated")
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
