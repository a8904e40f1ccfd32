package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jd261/marit/app/config"
)

const listingXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>newest submissions : medicine</title>
  <entry>
    <title>New sepsis guideline released</title>
    <link href="https://www.reddit.com/r/medicine/comments/abc/post1/"/>
    <updated>2024-05-01T10:00:00+00:00</updated>
    <content type="html">&lt;a href="https://news.example/sepsis"&gt;[link]&lt;/a&gt;</content>
  </entry>
  <entry>
    <title>Second post</title>
    <link href="https://www.reddit.com/r/medicine/comments/def/post2/"/>
    <updated>2024-05-01T09:00:00+00:00</updated>
    <content type="html">text only</content>
  </entry>
  <entry>
    <title>Third post</title>
    <link href="https://www.reddit.com/r/medicine/comments/ghi/post3/"/>
    <updated>2024-05-01T08:00:00+00:00</updated>
    <content type="html">more text</content>
  </entry>
</feed>`

func TestFetchRecent(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(listingXML))
	}))
	defer server.Close()

	f := NewFetcher(server.Client(), "test-agent/1.0", 10, 5*time.Second)
	posts, err := f.Run(context.Background(), config.Source{Name: "medicine", URL: server.URL})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if gotUserAgent != "test-agent/1.0" {
		t.Errorf("Expected custom user agent, got: %s", gotUserAgent)
	}

	if len(posts) != 3 {
		t.Fatalf("Expected 3 posts, got: %d", len(posts))
	}

	first := posts[0]
	if first.Title != "New sepsis guideline released" {
		t.Errorf("Unexpected title: %s", first.Title)
	}
	if first.Link != "https://www.reddit.com/r/medicine/comments/abc/post1/" {
		t.Errorf("Unexpected link: %s", first.Link)
	}
	if first.Body == "" {
		t.Error("Expected post body to be populated from content")
	}

	expected := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if !first.PublishedAt.Equal(expected) {
		t.Errorf("Expected published at %v, got %v", expected, first.PublishedAt)
	}
}

func TestFetchRecentPostLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingXML))
	}))
	defer server.Close()

	f := NewFetcher(server.Client(), "test-agent/1.0", 2, 5*time.Second)
	posts, err := f.Run(context.Background(), config.Source{Name: "medicine", URL: server.URL})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(posts) != 2 {
		t.Fatalf("Expected 2 posts with limit 2, got: %d", len(posts))
	}
}

func TestFetchRecentTimestampFallback(t *testing.T) {
	noDates := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>test</title>
    <item>
      <title>Undated post</title>
      <link>https://www.reddit.com/r/medicine/comments/xyz/post/</link>
      <pubDate>not a date</pubDate>
    </item>
  </channel>
</rss>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(noDates))
	}))
	defer server.Close()

	before := time.Now().UTC()
	f := NewFetcher(server.Client(), "test-agent/1.0", 10, 5*time.Second)
	posts, err := f.Run(context.Background(), config.Source{Name: "medicine", URL: server.URL})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(posts) != 1 {
		t.Fatalf("Expected 1 post, got: %d", len(posts))
	}
	if posts[0].PublishedAt.Before(before) {
		t.Errorf("Expected fallback timestamp >= %v, got %v", before, posts[0].PublishedAt)
	}
}

func TestFetchRecentHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	f := NewFetcher(server.Client(), "test-agent/1.0", 10, 5*time.Second)
	if _, err := f.Run(context.Background(), config.Source{Name: "medicine", URL: server.URL}); err == nil {
		t.Error("Expected an error for non-2xx status, got none")
	}
}

func TestFetchRecentUnreachable(t *testing.T) {
	f := NewFetcher(&http.Client{Timeout: time.Second}, "test-agent/1.0", 10, time.Second)
	src := config.Source{Name: "medicine", URL: "http://127.0.0.1:1/new.rss"}
	if _, err := f.Run(context.Background(), src); err == nil {
		t.Error("Expected an error for unreachable host, got none")
	}
}

func TestFetchRecentMalformedListing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not a feed"))
	}))
	defer server.Close()

	f := NewFetcher(server.Client(), "test-agent/1.0", 10, 5*time.Second)
	if _, err := f.Run(context.Background(), config.Source{Name: "medicine", URL: server.URL}); err == nil {
		t.Error("Expected an error for malformed listing, got none")
	}
}
