package resolve

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/go-shiori/go-readability"
)

const maxExcerptChars = 280

// extractExcerpt runs readability over the already-fetched (truncated) page
// and returns a short plain-text excerpt, or "" when nothing useful comes
// out. Best effort: excerpt failures never reject a candidate.
func (r *Resolver) extractExcerpt(body []byte) string {
	article, err := readability.FromReader(bytes.NewReader(body), nil)
	if err != nil {
		slog.Debug("Excerpt extraction failed", "error", err)
		return ""
	}

	excerpt := strings.TrimSpace(article.Excerpt)
	if excerpt == "" {
		excerpt = strings.Join(strings.Fields(article.TextContent), " ")
	}

	return truncateRunes(excerpt, maxExcerptChars)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
