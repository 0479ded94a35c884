package store

import (
	"context"
	"strconv"
	"time"

	"github.com/cognicore/newsgrid/pkg/newsgrid/index"
)

// Store is the main interface for persisting the article corpus
type Store interface {
	Close() error

	// UpsertArticle inserts or updates an article keyed by URL and returns
	// its ID.
	UpsertArticle(ctx context.Context, a Article) (int64, error)
	GetArticle(ctx context.Context, id int64) (Article, error)
	GetArticleByURL(ctx context.Context, url string) (Article, bool, error)

	// ListArticles streams every article in ID order. Returning an error
	// from fn stops the iteration and is passed through.
	ListArticles(ctx context.Context, fn func(Article) error) error
	CountArticles(ctx context.Context) (int, error)
}

// Article represents a stored news article
type Article struct {
	ID          int64
	URL         string
	Outlet      string
	Country     string // ISO country code of the outlet
	Recipient   string // country the article reports on
	Title       string
	Description string
	Content     string
	PublishedAt time.Time
}

// Doc converts the article into the index provider representation.
func (a Article) Doc() index.Doc {
	fields := map[string]string{
		index.FieldCountry:     a.Country,
		index.FieldRecipient:   a.Recipient,
		index.FieldTitle:       a.Title,
		index.FieldDescription: a.Description,
		index.FieldContent:     a.Content,
	}
	for k, v := range fields {
		if v == "" {
			delete(fields, k)
		}
	}
	return index.Doc{
		ID:        strconv.FormatInt(a.ID, 10),
		Fields:    fields,
		Published: a.PublishedAt.UTC(),
	}
}
