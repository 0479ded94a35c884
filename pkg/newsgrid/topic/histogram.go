package topic

// Histogram counts normalized term probabilities in equal-width buckets
// over [0, 1]. A nil *Histogram ignores all records.
type Histogram struct {
	counts []int
	total  int
}

// NewHistogram creates a histogram with the given number of buckets.
func NewHistogram(buckets int) *Histogram {
	if buckets <= 0 {
		buckets = 10
	}
	return &Histogram{counts: make([]int, buckets)}
}

// Record adds one probability. Values outside [0, 1] are clamped.
func (h *Histogram) Record(p float64) {
	if h == nil {
		return
	}
	n := len(h.counts)
	b := int(p * float64(n))
	if b < 0 {
		b = 0
	}
	if b >= n {
		b = n - 1
	}
	h.counts[b]++
	h.total++
}

// Counts returns the per-bucket counts.
func (h *Histogram) Counts() []int {
	if h == nil {
		return nil
	}
	out := make([]int, len(h.counts))
	copy(out, h.counts)
	return out
}

// Total returns the number of recorded probabilities
func (h *Histogram) Total() int {
	if h == nil {
		return 0
	}
	return h.total
}
