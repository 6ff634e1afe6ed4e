package news

import (
	"sort"

	"github.com/cyrus-tt/ainews/internal/metrics"
)

// DedupeAndSort merges the per-source item lists into the final ranked
// set. The canonical link is the dedupe key (cleaned title as fallback)
// and the first occurrence wins, so earlier-listed sources take
// precedence. The survivors are sorted by publish time, newest first,
// with the pre-sort order preserved for equal timestamps, then capped at
// limit.
func DedupeAndSort(items []Item, limit int) []Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]Item, 0, len(items))

	for _, item := range items {
		key := item.SourceURL
		if key == "" {
			key = item.TitleOriginal
		}
		if _, dup := seen[key]; dup {
			metrics.Global.IncDuplicatesDropped()
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
