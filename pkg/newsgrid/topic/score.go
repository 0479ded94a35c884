package topic

import "sort"

// Score pairs a topic ID with a probability
type Score struct {
	Topic int     `json:"topic"`
	Prob  float64 `json:"prob"`
}

// SortScores orders scores by probability descending, then topic ID
// ascending.
func SortScores(s []Score) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Prob != s[j].Prob {
			return s[i].Prob > s[j].Prob
		}
		return s[i].Topic < s[j].Topic
	})
}

// Max returns the highest scoring entry. The lowest topic ID wins ties.
func Max(s []Score) (Score, bool) {
	if len(s) == 0 {
		return Score{}, false
	}
	best := s[0]
	for _, sc := range s[1:] {
		if sc.Prob > best.Prob || (sc.Prob == best.Prob && sc.Topic < best.Topic) {
			best = sc
		}
	}
	return best, true
}
