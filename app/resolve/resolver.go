package resolve

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/jd261/marit/app/urlnorm"
)

const (
	// Only the head-section metadata matters; 200 KB is plenty for it.
	// Longer documents are truncated, not rejected.
	maxBodyBytes = 200 * 1024

	// Titles shorter than this are junk ("Home", "403", site names)
	minTitleLength = 12
)

// Resolution is a successfully resolved candidate: a trustworthy title and
// the final, post-redirect destination.
type Resolution struct {
	Title    string
	FinalURL string
	Excerpt  string
}

// Resolver fetches a candidate URL and extracts a human title from its
// destination page. One-shot best effort: no retry, no backoff — a missed
// link is recovered on the next periodic run if it is still in the source's
// recent list.
type Resolver struct {
	client       *http.Client
	normalizer   *urlnorm.Normalizer
	userAgent    string
	junkTitles   []string
	withExcerpts bool
	timeout      time.Duration
}

func NewResolver(client *http.Client, normalizer *urlnorm.Normalizer, userAgent string,
	junkTitles []string, withExcerpts bool, timeout time.Duration) *Resolver {
	lowered := make([]string, len(junkTitles))
	for i, phrase := range junkTitles {
		lowered[i] = strings.ToLower(phrase)
	}

	return &Resolver{
		client:       client,
		normalizer:   normalizer,
		userAgent:    userAgent,
		junkTitles:   lowered,
		withExcerpts: withExcerpts,
		timeout:      timeout,
	}
}

// Run resolves a candidate URL to its destination title. A non-nil error
// means the candidate is rejected; rejection is a normal negative outcome,
// never fatal to the run.
func (r *Resolver) Run(ctx context.Context, rawURL string) (*Resolution, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTML(contentType) {
		return nil, fmt.Errorf("not an HTML document: %q", contentType)
	}

	body, err := io.ReadAll(r.decode(io.LimitReader(resp.Body, maxBodyBytes), contentType))
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	title := cleanTitle(extractTitle(doc))
	if utf8.RuneCountInString(title) < minTitleLength {
		return nil, fmt.Errorf("title too short: %q", title)
	}
	if phrase := r.matchJunk(title); phrase != "" {
		return nil, fmt.Errorf("interstitial page signature %q in title %q", phrase, title)
	}

	resolution := &Resolution{
		Title:    title,
		FinalURL: r.normalizer.Normalize(resp.Request.URL.String()),
	}

	if r.withExcerpts {
		resolution.Excerpt = r.extractExcerpt(body)
	}

	return resolution, nil
}

// extractTitle checks title-bearing elements in priority order: Open Graph,
// then Twitter card, then the document's own title element.
func extractTitle(doc *goquery.Document) string {
	if content, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok && strings.TrimSpace(content) != "" {
		return content
	}
	if content, ok := doc.Find(`meta[name="twitter:title"]`).First().Attr("content"); ok && strings.TrimSpace(content) != "" {
		return content
	}
	return doc.Find("title").First().Text()
}

// cleanTitle collapses whitespace and trims decorative separators from the
// ends.
func cleanTitle(title string) string {
	title = strings.Join(strings.Fields(title), " ")
	return strings.Trim(title, " -–—|•·:~")
}

func (r *Resolver) matchJunk(title string) string {
	lowered := strings.ToLower(title)
	for _, phrase := range r.junkTitles {
		if strings.Contains(lowered, phrase) {
			return phrase
		}
	}
	return ""
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// decode wraps the body in a charset decoder when the Content-Type names a
// non-UTF-8 charset.
func (r *Resolver) decode(body io.Reader, contentType string) io.Reader {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return body
	}

	charset := params["charset"]
	if charset == "" || strings.EqualFold(charset, "utf-8") {
		return body
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		slog.Debug("Unknown charset, reading as-is", "charset", charset)
		return body
	}

	return transform.NewReader(body, enc.NewDecoder())
}
