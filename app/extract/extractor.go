package extract

import (
	"html"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jd261/marit/app/classify"
	"github.com/jd261/marit/app/urlnorm"
)

// Permissive URL shape for the bare-text fallback. Anchor hrefs are always
// preferred: forum rendering wraps a single logical link in both an anchor
// and decorative surrounding text, and regex scanning over that produces
// truncated or duplicated fragments.
var urlPattern = regexp.MustCompile(`https?://\S+`)

// Extractor scans a post body for candidate outbound URLs and reduces them
// to a set of normalized, acceptable destinations.
type Extractor struct {
	normalizer *urlnorm.Normalizer
	classifier *classify.Classifier
}

func NewExtractor(normalizer *urlnorm.Normalizer, classifier *classify.Classifier) *Extractor {
	return &Extractor{
		normalizer: normalizer,
		classifier: classifier,
	}
}

// Run extracts candidate links from a post body (HTML or plain text). Any
// extra raw URLs (typically the post's own link element) go through the
// same cleaning path. The result has set semantics: no duplicates, no
// ordering guarantee.
func (e *Extractor) Run(body string, extraURLs ...string) []string {
	seen := make(map[string]bool)

	for _, raw := range e.scan(body) {
		e.add(seen, raw)
	}
	for _, raw := range extraURLs {
		e.add(seen, raw)
	}

	candidates := make([]string, 0, len(seen))
	for link := range seen {
		candidates = append(candidates, link)
	}
	return candidates
}

// scan pulls raw URL strings out of the body, preferring anchor hrefs and
// falling back to pattern matching over the entity-decoded text.
func (e *Extractor) scan(body string) []string {
	var raw []string

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err == nil {
		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			if href, ok := sel.Attr("href"); ok && href != "" {
				raw = append(raw, href)
			}
		})
	}

	if len(raw) == 0 {
		raw = urlPattern.FindAllString(html.UnescapeString(body), -1)
	}

	return raw
}

func (e *Extractor) add(seen map[string]bool, raw string) {
	link := e.normalizer.Normalize(raw)
	link = e.unwrapProxy(link)

	if class := e.classifier.Run(link); class != classify.Acceptable {
		slog.Debug("Candidate dropped", "url", link, "class", class.String())
		return
	}

	seen[link] = true
}

// unwrapProxy recovers the true destination from a platform redirect or
// media proxy URL: a same-platform URL whose "url" query parameter names
// the real target.
func (e *Extractor) unwrapProxy(link string) string {
	if e.classifier.Run(link) != classify.OwnPlatform {
		return link
	}

	parsed, err := url.Parse(link)
	if err != nil {
		return link
	}

	target := parsed.Query().Get("url")
	if target == "" {
		return link
	}

	return e.normalizer.Normalize(target)
}
