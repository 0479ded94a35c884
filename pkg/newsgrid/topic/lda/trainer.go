package lda

import (
	"context"

	"github.com/e-gun/nlp"
	"gonum.org/v1/gonum/mat"
)

// Hyper holds the training hyperparameters
type Hyper struct {
	Topics     int
	Iterations int
	Threads    int
	Alpha      float64
	Eta        float64
}

// Result is what a trainer exposes after training.
type Result struct {
	// TopicTerms[k][w] is the weight of feature w in topic k.
	TopicTerms [][]float64
	// InstanceTopics[i][k] is the probability of topic k in instance i.
	InstanceTopics [][]float64
}

// Trainer is the topic model training library boundary
type Trainer interface {
	Train(ctx context.Context, c *Corpus, h Hyper) (Result, error)
}

// NLPTrainer trains latent Dirichlet allocation with github.com/e-gun/nlp.
// The library parallelizes internally over h.Threads workers.
type NLPTrainer struct{}

// Train implements Trainer. It blocks until training finishes.
func (NLPTrainer) Train(ctx context.Context, c *Corpus, h Hyper) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	// terms x documents, as the library expects
	terms, docs := c.Vocab.Len(), len(c.Instances)
	counts := mat.NewDense(terms, docs, nil)
	for j := range c.Instances {
		for f, n := range c.Counts(j) {
			counts.Set(f, j, float64(n))
		}
	}

	model := nlp.NewLatentDirichletAllocation(h.Topics)
	model.Iterations = h.Iterations
	model.TransformationPasses = max(1, h.Iterations/2)
	model.Processes = max(1, h.Threads)
	if h.Alpha > 0 {
		model.Alpha = h.Alpha
	}
	if h.Eta > 0 {
		model.Eta = h.Eta
	}

	docsOverTopics, err := model.FitTransform(counts)
	if err != nil {
		return Result{}, err
	}
	topicsOverWords := model.Components()

	res := Result{
		TopicTerms:     make([][]float64, h.Topics),
		InstanceTopics: make([][]float64, docs),
	}
	tr, tc := topicsOverWords.Dims()
	for k := 0; k < tr; k++ {
		row := make([]float64, tc)
		for w := 0; w < tc; w++ {
			row[w] = topicsOverWords.At(k, w)
		}
		res.TopicTerms[k] = row
	}
	dr, dc := docsOverTopics.Dims()
	for j := 0; j < dc; j++ {
		vec := make([]float64, dr)
		for k := 0; k < dr; k++ {
			vec[k] = docsOverTopics.At(k, j)
		}
		res.InstanceTopics[j] = vec
	}
	return res, ctx.Err()
}
