package matrix

import "github.com/cognicore/newsgrid/pkg/newsgrid/index"

// Sample materializes a cell's document sample from the ranked hits, the
// true match count and the cap. The target size is min(total, cap). When
// fewer hits than the target were returned, hits are repeated cyclically
// to reach it. No hits yield an empty sample.
func Sample(hits []index.Hit, total, docCap int) []string {
	target := total
	if docCap > 0 && target > docCap {
		target = docCap
	}
	if target <= 0 || len(hits) == 0 {
		return nil
	}

	out := make([]string, target)
	for i := range out {
		out[i] = hits[i%len(hits)].ID
	}
	return out
}
