package source

import (
	"time"
)

// Post is one recent post from a source collection.
type Post struct {
	Title       string
	Link        string // permalink back to the source platform
	Body        string // HTML or plain text, possibly containing outbound links
	PublishedAt time.Time
}
