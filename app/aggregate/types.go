package aggregate

import (
	"fmt"
	"strings"
	"time"
)

// Up to this many originating posts are rendered into an item description;
// the rest stay in provenance but keep output readable.
const maxDescriptionRefs = 3

// Ref records one originating post that referenced an item.
type Ref struct {
	Source    string `json:"source"`
	PostLink  string `json:"post_link"`
	PostTitle string `json:"post_title"`
}

// Item is one deduplicated outbound destination, keyed by canonical URL.
// Created on first successful resolution; every later sighting of the same
// key unions the source set, appends provenance and advances the timestamp.
type Item struct {
	Key        string    // canonical URL, the dedup key
	GUID       string    // deterministic hash of Key, stable across runs
	Title      string
	Excerpt    string
	UpdatedAt  time.Time // most recent reference across all sources
	Sources    []string  // distinct source collections, first-seen order
	Provenance []Ref
}

// HasSource reports whether the item was already referenced from the given
// source collection.
func (i *Item) HasSource(source string) bool {
	for _, s := range i.Sources {
		if s == source {
			return true
		}
	}
	return false
}

// Description summarizes which sources referenced the item and a bounded
// number of originating posts.
func (i *Item) Description() string {
	var b strings.Builder

	if i.Excerpt != "" {
		b.WriteString(i.Excerpt)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "Shared in: %s.", strings.Join(i.Sources, ", "))

	refs := i.Provenance
	if len(refs) > maxDescriptionRefs {
		refs = refs[:maxDescriptionRefs]
	}
	if len(refs) > 0 {
		b.WriteString(" Via:")
		for idx, ref := range refs {
			if idx > 0 {
				b.WriteString(";")
			}
			title := ref.PostTitle
			if title == "" {
				title = ref.PostLink
			}
			fmt.Fprintf(&b, " %s (%s)", title, ref.PostLink)
		}
		if len(i.Provenance) > maxDescriptionRefs {
			fmt.Fprintf(&b, " and %d more", len(i.Provenance)-maxDescriptionRefs)
		}
		b.WriteString(".")
	}

	return b.String()
}
