package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"time"

	"github.com/jd261/marit/app/aggregate"
)

const (
	channelID          = "reddit:medicine:external-links"
	channelTitle       = "External links shared across medicine subreddits"
	channelDescription = "Outbound articles and resources shared across selected medicine-related subreddits."
)

// Generator renders the final item list into an RSS 2.0 document. It
// consumes only the aggregator's output contract.
type Generator struct {
	version  string
	selfHref string
}

func NewGenerator(version, selfHref string) *Generator {
	return &Generator{
		version:  version,
		selfHref: selfHref,
	}
}

func (g *Generator) Run(items []*aggregate.Item) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", channelTitle, 4)
	g.writeElement(&buf, "link", channelID, 4)
	g.writeElement(&buf, "description", channelDescription, 4)

	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(g.selfHref)))

	g.writeElement(&buf, "lastBuildDate", time.Now().UTC().Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("marit/%s", g.version), 4)

	for _, item := range items {
		g.writeItem(&buf, item)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, item *aggregate.Item) {
	buf.WriteString("    <item>\n")

	// The GUID is a hash of the canonical URL, never a fetchable link
	buf.WriteString(`      <guid isPermaLink="false">`)
	xml.EscapeText(buf, []byte(item.GUID))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", item.Title, 6)
	g.writeElement(buf, "link", item.Key, 6)
	g.writeElement(buf, "description", item.Description(), 6)
	g.writeElement(buf, "pubDate", item.UpdatedAt.Format(time.RFC1123Z), 6)

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
