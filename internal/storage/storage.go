package storage

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lehigh-university-libraries/oaistruct/internal/query"
)

// Fetcher retrieves a parsed GetRecord response.
type Fetcher interface {
	GetRecord(ctx context.Context, id string) (*query.Document, error)
}

type entry struct {
	doc     *query.Document
	fetched time.Time
}

// RecordStore keeps parsed records in memory for ttl. Parsed documents are
// never modified after parsing, so one copy is shared between requests.
type RecordStore struct {
	records map[string]entry
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
}

func New(ttl time.Duration) *RecordStore {
	return &RecordStore{
		records: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns a record that has not expired.
func (s *RecordStore) Get(id string) (*query.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, exists := s.records[id]
	if !exists || s.now().Sub(e.fetched) >= s.ttl {
		return nil, false
	}
	return e.doc, true
}

func (s *RecordStore) Set(id string, doc *query.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = entry{doc: doc, fetched: s.now()}
}

func (s *RecordStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
}

// Len reports the number of stored records, expired ones included.
func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Prune drops expired records.
func (s *RecordStore) Prune() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, e := range s.records {
		if now.Sub(e.fetched) >= s.ttl {
			delete(s.records, id)
		}
	}
}

// pruneThreshold is the store size above which expired records are dropped.
const pruneThreshold = 1024

// CachingFetcher serves records from a RecordStore and falls back to the
// wrapped fetcher. Failed fetches are not stored.
type CachingFetcher struct {
	next  Fetcher
	store *RecordStore
}

// NewCachingFetcher wraps next. A ttl of zero or less disables caching and
// returns next unchanged.
func NewCachingFetcher(next Fetcher, ttl time.Duration) Fetcher {
	if ttl <= 0 {
		return next
	}
	return &CachingFetcher{next: next, store: New(ttl)}
}

func (c *CachingFetcher) GetRecord(ctx context.Context, id string) (*query.Document, error) {
	if doc, ok := c.store.Get(id); ok {
		slog.Debug("Record served from cache", "id", id)
		return doc, nil
	}
	doc, err := c.next.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store.Set(id, doc)
	if c.store.Len() > pruneThreshold {
		c.store.Prune()
	}
	return doc, nil
}
