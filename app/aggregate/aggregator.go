package aggregate

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sort"
	"sync"

	"github.com/jd261/marit/app/resolve"
	"github.com/jd261/marit/app/source"
	"github.com/jd261/marit/app/urlnorm"
)

// Aggregator merges resolved candidates from all sources into one
// canonical-URL-keyed table. The merge step is the single serialization
// point of the pipeline: candidate resolution may run in parallel, Add is
// guarded so "union on source set, last write wins on timestamp" holds
// exactly.
type Aggregator struct {
	store      Store
	normalizer *urlnorm.Normalizer
	softCap    int

	mu      sync.Mutex
	skipped int
}

// NewAggregator builds an aggregator over the given store. softCap bounds
// the number of tracked items per run; once reached, candidates with new
// keys are skipped to keep a pathological source from causing unbounded
// work.
func NewAggregator(store Store, normalizer *urlnorm.Normalizer, softCap int) *Aggregator {
	return &Aggregator{
		store:      store,
		normalizer: normalizer,
		softCap:    softCap,
	}
}

// Add merges one resolved candidate into the table.
func (a *Aggregator) Add(sourceName string, post source.Post, res *resolve.Resolution) {
	key := a.normalizer.CanonicalKey(res.FinalURL)

	a.mu.Lock()
	defer a.mu.Unlock()

	item, ok := a.store.Get(key)
	if !ok {
		if a.softCap > 0 && a.store.Len() >= a.softCap {
			a.skipped++
			slog.Debug("Item cap reached, skipping new candidate", "url", key)
			return
		}
		item = &Item{
			Key:       key,
			GUID:      stableID(key),
			Title:     res.Title,
			Excerpt:   res.Excerpt,
			UpdatedAt: post.PublishedAt,
		}
	}

	if !item.HasSource(sourceName) {
		item.Sources = append(item.Sources, sourceName)
	}
	item.Provenance = append(item.Provenance, Ref{
		Source:    sourceName,
		PostLink:  post.Link,
		PostTitle: post.Title,
	})

	// The feed reflects the most recent sharing, not the first
	if post.PublishedAt.After(item.UpdatedAt) {
		item.UpdatedAt = post.PublishedAt
	}
	if item.Excerpt == "" && res.Excerpt != "" {
		item.Excerpt = res.Excerpt
	}

	if err := a.store.Put(key, item); err != nil {
		slog.Warn("Failed to store item", "url", key, "error", err)
	}
}

// Items returns the merged table sorted by descending timestamp, truncated
// to limit.
func (a *Aggregator) Items(limit int) ([]*Item, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	items, err := a.store.All()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	return items, nil
}

// Skipped reports how many candidates were dropped by the soft cap.
func (a *Aggregator) Skipped() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.skipped
}

// stableID derives the item identifier from the canonical URL alone, so the
// same destination yields the same identifier run over run and feed readers
// treat repeats as unchanged items.
func stableID(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}
