// Package corpus loads article dumps and feeds them into a store.
package corpus

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cognicore/newsgrid/pkg/newsgrid/internalerr"
	"github.com/cognicore/newsgrid/pkg/newsgrid/store"
	"github.com/cognicore/newsgrid/pkg/newsgrid/textproc"
)

// Record is one line of a JSONL article dump.
type Record struct {
	URL         string    `json:"url"`
	Outlet      string    `json:"outlet"`
	Country     string    `json:"country"`
	Recipient   string    `json:"recipient"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Text        string    `json:"text"`
	Content     string    `json:"content"`
	PublishedAt time.Time `json:"published_at"`
}

// Article converts the record, preferring content over text and stripping
// markup from the body.
func (r Record) Article() store.Article {
	body := r.Content
	if body == "" {
		body = r.Text
	}
	return store.Article{
		URL:         strings.TrimSpace(r.URL),
		Outlet:      r.Outlet,
		Country:     strings.ToUpper(strings.TrimSpace(r.Country)),
		Recipient:   strings.ToUpper(strings.TrimSpace(r.Recipient)),
		Title:       textproc.StripMarkup(r.Title),
		Description: textproc.StripMarkup(r.Description),
		Content:     textproc.StripMarkup(body),
		PublishedAt: r.PublishedAt.UTC(),
	}
}

// LoadFromJSONL loads records from a JSONL file.
func LoadFromJSONL(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	recs, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// Read decodes one record per line. Blank and malformed lines are skipped.
func Read(r io.Reader) ([]Record, error) {
	var recs []Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			log.Warn().Int("line", line).Err(err).Msg("skipping malformed record")
			continue
		}
		recs = append(recs, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("no valid records: %w", internalerr.ErrEmptyCorpus)
	}
	return recs, nil
}

// Ingest upserts every record with a URL and returns how many were stored.
func Ingest(ctx context.Context, st store.Store, recs []Record) (int, error) {
	n := 0
	for i, rec := range recs {
		a := rec.Article()
		if a.URL == "" {
			log.Warn().Int("record", i).Msg("skipping record without url")
			continue
		}
		if _, err := st.UpsertArticle(ctx, a); err != nil {
			return n, fmt.Errorf("upsert %s: %w", a.URL, err)
		}
		n++
	}
	log.Info().Int("stored", n).Int("records", len(recs)).Msg("corpus ingested")
	return n, nil
}
