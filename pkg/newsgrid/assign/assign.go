// Package assign maps trained topic probabilities back onto matrix cells.
package assign

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/cognicore/newsgrid/pkg/newsgrid/internalerr"
	"github.com/cognicore/newsgrid/pkg/newsgrid/matrix"
	"github.com/cognicore/newsgrid/pkg/newsgrid/topic"
)

// DefaultThreshold is the base probability a topic must reach.
const DefaultThreshold = 0.2

// Threshold returns the effective threshold for base scaled inversely by
// the topics-per-cell ratio.
func Threshold(base float64, topicsPerCell int) float64 {
	if base <= 0 {
		base = DefaultThreshold
	}
	return base / float64(max(1, topicsPerCell))
}

// Cell assigns topics to one cell. Every score with Prob >= threshold is
// kept; if none qualifies the single highest score is kept. The kept
// scores are stored on the cell in descending order and each kept topic
// gains a back-reference to the cell. Empty scores fail with
// ErrNoTopicProbabilities and leave the cell untouched.
func Cell(topics *topic.Set, scores []topic.Score, cell *matrix.Cell, threshold float64) ([]topic.Score, error) {
	if len(scores) == 0 {
		return nil, fmt.Errorf("cell %s: %w", cell.Name(), internalerr.ErrNoTopicProbabilities)
	}

	var kept []topic.Score
	for _, s := range scores {
		if s.Prob >= threshold {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		best, _ := topic.Max(scores)
		kept = []topic.Score{best}
	}

	assigned := make([]*topic.Topic, len(kept))
	for i, s := range kept {
		t, ok := topics.Get(s.Topic)
		if !ok {
			return nil, fmt.Errorf("cell %s: topic %d: %w", cell.Name(), s.Topic, internalerr.ErrNotFound)
		}
		assigned[i] = t
	}
	for _, t := range assigned {
		t.AddCell(cell.ID())
	}
	cell.SetTopics(kept)
	return cell.Topics(), nil
}

// Scorer yields the topic probabilities of a cell, or none.
type Scorer interface {
	Scores(cellID string) []topic.Score
}

// Result reports a whole-matrix assignment
type Result struct {
	Used    map[int]struct{}
	Skipped []string         // cells without probabilities
	Errors  map[string]error // per-cell failures other than skips
}

// All assigns every cell. Cells without probabilities are skipped with a
// warning and other per-cell failures are collected; neither stops the
// remaining cells. Unused topics are reported but not pruned.
func All(topics *topic.Set, scorer Scorer, cells []*matrix.Cell, threshold float64) Result {
	res := Result{Used: make(map[int]struct{}), Errors: make(map[string]error)}
	for _, c := range cells {
		kept, err := Cell(topics, scorer.Scores(c.ID()), c, threshold)
		if err != nil {
			if errors.Is(err, internalerr.ErrNoTopicProbabilities) {
				log.Warn().Str("cell", c.Name()).Int("docs", c.Total()).Msg("no topic probabilities, skipping assignment")
				res.Skipped = append(res.Skipped, c.ID())
				continue
			}
			log.Error().Err(err).Str("cell", c.Name()).Msg("topic assignment failed")
			res.Errors[c.ID()] = err
			continue
		}
		for _, s := range kept {
			res.Used[s.Topic] = struct{}{}
		}
	}

	if len(res.Used) < topics.Len() {
		log.Warn().
			Int("used", len(res.Used)).
			Int("total", topics.Len()).
			Msg("some topics are not assigned to any cell")
	}
	return res
}
