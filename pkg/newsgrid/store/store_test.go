package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cognicore/newsgrid/pkg/newsgrid/index"
)

func TestArticleDoc(t *testing.T) {
	at := time.Date(2015, 1, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	a := Article{ID: 42, Country: "DE", Title: "Hello", PublishedAt: at}

	d := a.Doc()
	assert.Equal(t, "42", d.ID)
	assert.Equal(t, "DE", d.Field(index.FieldCountry))
	assert.Equal(t, "Hello", d.Field(index.FieldTitle))
	_, hasRecipient := d.Fields[index.FieldRecipient]
	assert.False(t, hasRecipient)
	assert.Equal(t, at.UTC(), d.Published)
}
