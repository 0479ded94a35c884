// Package memo provides a typed lazy cache for derived artifacts such as
// rendered summaries, keyed by a configuration fingerprint.
//
// A Memo is not safe for concurrent writers; callers that render in
// parallel must serialize access.
package memo

// Memo caches values of type V by key K. Entries are never evicted.
type Memo[K comparable, V any] struct {
	entries map[K]V
}

// New creates an empty memo
func New[K comparable, V any]() *Memo[K, V] {
	return &Memo[K, V]{entries: make(map[K]V)}
}

// Get returns the cached value for k.
func (m *Memo[K, V]) Get(k K) (V, bool) {
	v, ok := m.entries[k]
	return v, ok
}

// Put stores v under k, replacing any previous entry.
func (m *Memo[K, V]) Put(k K, v V) {
	m.entries[k] = v
}

// Do returns the cached value for k, computing and storing it with fn on
// first use. Errors from fn are returned and not cached.
func (m *Memo[K, V]) Do(k K, fn func() (V, error)) (V, error) {
	if v, ok := m.entries[k]; ok {
		return v, nil
	}
	v, err := fn()
	if err != nil {
		var zero V
		return zero, err
	}
	m.entries[k] = v
	return v, nil
}

// Len returns the number of cached entries
func (m *Memo[K, V]) Len() int {
	return len(m.entries)
}
