// Package textutil holds the text cleaning helpers shared by the
// normalization pipeline: markup stripping, display truncation and
// tracking-parameter removal from links.
package textutil

import (
	"html"
	"net/url"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// Ellipsis is appended when Truncate has to cut text.
const Ellipsis = "…"

var stripPolicy = bluemonday.StrictPolicy()

// StripMarkup removes HTML tags, unescapes entities and collapses
// whitespace runs into single spaces. Empty input yields an empty string.
func StripMarkup(text string) string {
	if text == "" {
		return ""
	}
	clean := stripPolicy.Sanitize(text)
	clean = html.UnescapeString(clean)
	return strings.Join(strings.Fields(clean), " ")
}

// Truncate cuts text to at most maxLen runes. Longer text is cut at
// maxLen-1 runes, right-trimmed and terminated with a single ellipsis,
// so the result never exceeds maxLen displayed characters.
func Truncate(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	cut := strings.TrimRightFunc(string(runes[:maxLen-1]), unicode.IsSpace)
	return cut + Ellipsis
}

// Query parameter names dropped by CleanURL, matched case-insensitively.
// Anything starting with utm_ is dropped as well.
var trackingParams = map[string]struct{}{
	"spm":    {},
	"from":   {},
	"source": {},
	"ref":    {},
}

// CleanURL strips tracking query parameters and the fragment from a link
// so it can serve as a stable dedupe key. The relative order of the
// remaining parameters is preserved. Idempotent; empty input yields an
// empty string.
func CleanURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return cleanUnparsable(raw)
	}
	u.RawQuery = cleanQuery(u.RawQuery)
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// cleanUnparsable handles links url.Parse rejects. The fragment and
// tracking parameters are still removed textually so the dedupe key
// stays canonical.
func cleanUnparsable(raw string) string {
	if i := strings.Index(raw, "#"); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.Index(raw, "?"); i >= 0 {
		query := cleanQuery(raw[i+1:])
		raw = raw[:i]
		if query != "" {
			raw += "?" + query
		}
	}
	return raw
}

func cleanQuery(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	var kept []string
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key, value := pair, ""
		if i := strings.Index(pair, "="); i >= 0 {
			key, value = pair[:i], pair[i+1:]
		}
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
		name := strings.ToLower(key)
		if strings.HasPrefix(name, "utm_") {
			continue
		}
		if _, drop := trackingParams[name]; drop {
			continue
		}
		if decoded, err := url.QueryUnescape(value); err == nil {
			value = decoded
		}
		kept = append(kept, url.QueryEscape(key)+"="+url.QueryEscape(value))
	}
	return strings.Join(kept, "&")
}
