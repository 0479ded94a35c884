package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/newsgrid/pkg/newsgrid/internalerr"
	"github.com/cognicore/newsgrid/pkg/newsgrid/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu       sync.RWMutex
	nextID   int64
	articles map[int64]store.Article
	urlIndex map[string]int64
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		nextID:   1,
		articles: make(map[int64]store.Article),
		urlIndex: make(map[string]int64),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// UpsertArticle inserts or updates an article, keyed by URL.
func (s *Store) UpsertArticle(ctx context.Context, a store.Article) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.URL == "" {
		return 0, fmt.Errorf("article without url: %w", internalerr.ErrInvalidInput)
	}

	id, ok := s.urlIndex[a.URL]
	if !ok {
		id = s.nextID
		s.nextID++
		s.urlIndex[a.URL] = id
	}
	a.ID = id
	s.articles[id] = a
	return id, nil
}

// GetArticle returns an article by ID.
func (s *Store) GetArticle(ctx context.Context, id int64) (store.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.articles[id]; ok {
		return a, nil
	}
	return store.Article{}, fmt.Errorf("article %d: %w", id, internalerr.ErrNotFound)
}

// GetArticleByURL returns an article by URL.
func (s *Store) GetArticleByURL(ctx context.Context, url string) (store.Article, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, ok := s.urlIndex[url]; ok {
		if a, exists := s.articles[id]; exists {
			return a, true, nil
		}
	}
	return store.Article{}, false, nil
}

// ListArticles streams articles in ID order.
func (s *Store) ListArticles(ctx context.Context, fn func(store.Article) error) error {
	s.mu.RLock()
	ids := make([]int64, 0, len(s.articles))
	for id := range s.articles {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.mu.RLock()
		a, ok := s.articles[id]
		s.mu.RUnlock()
		if !ok {
			continue
		}
		if err := fn(a); err != nil {
			return err
		}
	}
	return nil
}

// CountArticles returns the number of stored articles.
func (s *Store) CountArticles(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.articles), nil
}
