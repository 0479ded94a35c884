package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/newsgrid/pkg/newsgrid/internalerr"
	"github.com/cognicore/newsgrid/pkg/newsgrid/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS articles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	url TEXT UNIQUE NOT NULL,
	outlet TEXT,
	country TEXT,
	recipient TEXT,
	title TEXT,
	description TEXT,
	content TEXT,
	published_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_articles_country ON articles(country);
CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published_at);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertArticle inserts or updates an article
func (s *sqliteStore) UpsertArticle(ctx context.Context, a store.Article) (int64, error) {
	if a.URL == "" {
		return 0, fmt.Errorf("article without url: %w", internalerr.ErrInvalidInput)
	}

	const stmt = `
INSERT INTO articles (url, outlet, country, recipient, title, description, content, published_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(url) DO UPDATE SET
	outlet=excluded.outlet,
	country=excluded.country,
	recipient=excluded.recipient,
	title=excluded.title,
	description=excluded.description,
	content=excluded.content,
	published_at=excluded.published_at
RETURNING id;
`

	var id int64
	err := s.db.QueryRowContext(
		ctx,
		stmt,
		a.URL,
		a.Outlet,
		a.Country,
		a.Recipient,
		a.Title,
		a.Description,
		a.Content,
		formatTime(a.PublishedAt),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

const selectArticle = `
SELECT id, url, outlet, country, recipient, title, description, content, published_at
FROM articles
`

// GetArticle retrieves an article by ID
func (s *sqliteStore) GetArticle(ctx context.Context, id int64) (store.Article, error) {
	row := s.db.QueryRowContext(ctx, selectArticle+`WHERE id = ?`, id)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return store.Article{}, fmt.Errorf("article %d: %w", id, internalerr.ErrNotFound)
	}
	return a, err
}

// GetArticleByURL retrieves an article by URL
func (s *sqliteStore) GetArticleByURL(ctx context.Context, url string) (store.Article, bool, error) {
	row := s.db.QueryRowContext(ctx, selectArticle+`WHERE url = ?`, url)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return store.Article{}, false, nil
	}
	if err != nil {
		return store.Article{}, false, err
	}
	return a, true, nil
}

// ListArticles streams all articles in ID order
func (s *sqliteStore) ListArticles(ctx context.Context, fn func(store.Article) error) error {
	rows, err := s.db.QueryContext(ctx, selectArticle+`ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return err
		}
		if err := fn(a); err != nil {
			return err
		}
	}
	return rows.Err()
}

// CountArticles returns the number of stored articles
func (s *sqliteStore) CountArticles(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row scanner) (store.Article, error) {
	var a store.Article
	var outlet, country, recipient, title, desc, content, pub sql.NullString
	err := row.Scan(&a.ID, &a.URL, &outlet, &country, &recipient, &title, &desc, &content, &pub)
	if err != nil {
		return store.Article{}, err
	}
	a.Outlet = outlet.String
	a.Country = country.String
	a.Recipient = recipient.String
	a.Title = title.String
	a.Description = desc.String
	a.Content = content.String
	if pub.String != "" {
		if parsed, perr := time.Parse(time.RFC3339, pub.String); perr == nil {
			a.PublishedAt = parsed
		}
	}
	return a, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
