package aggregate

// Store is the table of resolved items keyed by canonical URL. The default
// is an in-memory map rebuilt from scratch every run; a persistent
// implementation can be swapped in when cross-run state is wanted. Stores
// are not required to be safe for concurrent use: the aggregator serializes
// access behind its own lock.
type Store interface {
	Get(key string) (*Item, bool)
	Put(key string, item *Item) error
	Len() int
	All() ([]*Item, error)
	Close() error
}

// MemoryStore keeps the item table for a single run. Nothing survives the
// run; cross-run stability comes from the deterministic GUID alone.
type MemoryStore struct {
	items map[string]*Item
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]*Item)}
}

func (s *MemoryStore) Get(key string) (*Item, bool) {
	item, ok := s.items[key]
	return item, ok
}

func (s *MemoryStore) Put(key string, item *Item) error {
	s.items[key] = item
	return nil
}

func (s *MemoryStore) Len() int {
	return len(s.items)
}

func (s *MemoryStore) All() ([]*Item, error) {
	items := make([]*Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	return items, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
