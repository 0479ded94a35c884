package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/newsgrid/pkg/newsgrid/internalerr"
	"github.com/cognicore/newsgrid/pkg/newsgrid/store"
)

func TestUpsertKeyedByURL(t *testing.T) {
	ctx := context.Background()
	s := New()

	id1, err := s.UpsertArticle(ctx, store.Article{URL: "u1", Title: "first"})
	require.NoError(t, err)
	id2, err := s.UpsertArticle(ctx, store.Article{URL: "u1", Title: "updated"})
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	a, err := s.GetArticle(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, "updated", a.Title)

	n, err := s.CountArticles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUpsertRequiresURL(t *testing.T) {
	_, err := New().UpsertArticle(context.Background(), store.Article{Title: "x"})
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))
}

func TestGetMissing(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, err := s.GetArticle(ctx, 99)
	assert.True(t, errors.Is(err, internalerr.ErrNotFound))

	_, found, err := s.GetArticleByURL(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestListArticlesInIDOrder(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, u := range []string{"c", "a", "b"} {
		_, err := s.UpsertArticle(ctx, store.Article{URL: u})
		require.NoError(t, err)
	}

	var urls []string
	err := s.ListArticles(ctx, func(a store.Article) error {
		urls = append(urls, a.URL)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, urls)

	stop := errors.New("stop")
	calls := 0
	err = s.ListArticles(ctx, func(store.Article) error {
		calls++
		return stop
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, 1, calls)
}
