package learning

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local Store, the fallback when a service is built without one.
type MemoryStore struct {
	mu       sync.RWMutex
	keywords map[string]*KeywordWeight
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store, optionally seeded with keywords.
func NewMemoryStore(seed ...string) *MemoryStore {
	s := &MemoryStore{
		keywords: make(map[string]*KeywordWeight),
		now:      time.Now,
	}
	for _, kw := range seed {
		_, _ = s.Learn(context.Background(), kw)
	}
	return s
}

func (s *MemoryStore) Learn(_ context.Context, keyword string) (*KeywordWeight, error) {
	kw, err := normalizeKeyword(keyword)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	existing, ok := s.keywords[kw]
	if !ok {
		existing = &KeywordWeight{Keyword: kw, CreatedAt: now}
		s.keywords[kw] = existing
	}
	existing.Weight++
	existing.UpdatedAt = now

	result := *existing
	return &result, nil
}

func (s *MemoryStore) List(_ context.Context) ([]KeywordWeight, error) {
	s.mu.RLock()
	out := make([]KeywordWeight, 0, len(s.keywords))
	for _, kw := range s.keywords {
		out = append(out, *kw)
	}
	s.mu.RUnlock()

	sortByWeight(out)
	return out, nil
}

func (s *MemoryStore) Keywords(ctx context.Context) ([]string, error) {
	kws, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return keywordsOf(kws), nil
}

func (s *MemoryStore) Delete(_ context.Context, keyword string) error {
	kw, err := normalizeKeyword(keyword)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keywords[kw]; !ok {
		return ErrKeywordNotFound
	}
	delete(s.keywords, kw)
	return nil
}

var _ Store = (*MemoryStore)(nil)
