package source

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/jd261/marit/app/config"
)

// Fetcher retrieves the recent-post listing of a source collection. The
// listing is a single GET with a timeout, parsed as RSS/Atom. No retry: the
// pipeline run is periodic and a missed listing is recovered on the next
// invocation.
type Fetcher struct {
	client    *http.Client
	parser    *gofeed.Parser
	userAgent string
	postLimit int
	timeout   time.Duration
}

func NewFetcher(client *http.Client, userAgent string, postLimit int, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:    client,
		parser:    gofeed.NewParser(),
		userAgent: userAgent,
		postLimit: postLimit,
		timeout:   timeout,
	}
}

// Run fetches and parses the recent posts of one source, newest first,
// capped at the configured post limit.
func (f *Fetcher) Run(ctx context.Context, src config.Source) ([]Post, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	feed, err := f.parser.ParseString(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing: %w", err)
	}

	limit := len(feed.Items)
	if f.postLimit > 0 && f.postLimit < limit {
		limit = f.postLimit
	}

	posts := make([]Post, 0, limit)
	for _, item := range feed.Items[:limit] {
		posts = append(posts, f.normalizePost(src, item))
	}

	return posts, nil
}

func (f *Fetcher) normalizePost(src config.Source, item *gofeed.Item) Post {
	post := Post{
		Title: cmp.Or(item.Title, fmt.Sprintf("Link from %s", src.Name)),
		Link:  item.Link,
		Body:  cmp.Or(item.Content, item.Description),
	}

	// Unparseable or absent timestamps fall back to the current time
	switch {
	case item.PublishedParsed != nil:
		post.PublishedAt = item.PublishedParsed.UTC()
	case item.UpdatedParsed != nil:
		post.PublishedAt = item.UpdatedParsed.UTC()
	default:
		post.PublishedAt = time.Now().UTC()
	}

	return post
}
