package lda

import (
	"context"
	"strings"

	"github.com/cognicore/newsgrid/pkg/newsgrid/index"
	"github.com/cognicore/newsgrid/pkg/newsgrid/matrix"
	"github.com/cognicore/newsgrid/pkg/newsgrid/textproc"
)

// Instance is one training unit
type Instance struct {
	Cell     string // owning cell ID
	Features []int  // feature IDs in token order
}

// Corpus is the tokenized training input shared by all cells
type Corpus struct {
	Vocab     *textproc.Vocabulary
	Instances []Instance
}

// BuildCorpus resolves every cell's document sample and turns it into
// instances under policy. Cells without documents, and documents without
// any token, contribute no instance.
func BuildCorpus(ctx context.Context, idx index.Index, cells []*matrix.Cell, pipe *textproc.Pipeline, policy Policy) (*Corpus, error) {
	c := &Corpus{Vocab: textproc.NewVocabulary()}
	for _, cell := range cells {
		if cell.Empty() {
			continue
		}
		docs, err := cell.Resolve(ctx, idx)
		if err != nil {
			return nil, err
		}

		switch policy {
		case PerDocument:
			for _, d := range docs {
				c.add(cell.ID(), pipe.Features(docText(d), c.Vocab))
			}
		default:
			texts := make([]string, len(docs))
			for i, d := range docs {
				texts[i] = docText(d)
			}
			c.add(cell.ID(), pipe.Features(strings.Join(texts, "\n"), c.Vocab))
		}
	}
	return c, nil
}

func (c *Corpus) add(cellID string, features []int) {
	if len(features) == 0 {
		return
	}
	c.Instances = append(c.Instances, Instance{Cell: cellID, Features: features})
}

// Counts returns the instance's term counts indexed by feature ID.
func (c *Corpus) Counts(i int) map[int]int {
	counts := make(map[int]int)
	for _, f := range c.Instances[i].Features {
		counts[f]++
	}
	return counts
}

func docText(d index.Doc) string {
	return textproc.StripMarkup(d.Text())
}
