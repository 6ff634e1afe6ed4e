// Package snapshot assembles and writes the JSON document consumed by
// the news page.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cyrus-tt/ainews/internal/news"
)

// Payload is the single document produced per run, replacing the
// previous one.
type Payload struct {
	GeneratedAt time.Time   `json:"generatedAt"`
	Timezone    string      `json:"timezone"`
	Total       int         `json:"total"`
	Items       []news.Item `json:"items"`
}

// Build wraps the aggregated item list with run metadata. GeneratedAt is
// left for the caller to stamp once the run body has finished.
func Build(items []news.Item) *Payload {
	if items == nil {
		items = []news.Item{}
	}
	return &Payload{
		Timezone: "UTC",
		Total:    len(items),
		Items:    items,
	}
}

// Write marshals the payload and atomically replaces the file at path.
// A failed run never clobbers the previous snapshot.
func (p *Payload) Write(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
