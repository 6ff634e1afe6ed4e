// Package news holds the normalized item model, the rule-based
// classifiers and the aggregation step of the pipeline.
package news

import "time"

// Item is the uniform record produced for every feed entry that survives
// normalization. Title/Summary carry the display (Chinese-first) text;
// the Original fields keep the cleaned source-language text.
type Item struct {
	Title           string    `json:"title"`
	Summary         string    `json:"summary"`
	TitleOriginal   string    `json:"titleOriginal"`
	SummaryOriginal string    `json:"summaryOriginal"`
	TitleZh         string    `json:"titleZh"`
	SummaryZh       string    `json:"summaryZh"`
	HasTranslation  bool      `json:"hasTranslation"`
	Platform        string    `json:"platform"`
	Region          string    `json:"region"`
	IndustryStage   string    `json:"industryStage"`
	ContentTags     []string  `json:"contentTags"`
	Date            string    `json:"date"`
	Action          string    `json:"action"`
	SourceURL       string    `json:"sourceUrl"`
	SourceName      string    `json:"sourceName"`
	PublishedAt     time.Time `json:"publishedAt"`
}
