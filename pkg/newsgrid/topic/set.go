package topic

import (
	"fmt"
	"sort"

	"github.com/cognicore/newsgrid/pkg/newsgrid/internalerr"
)

// Set is the arena owning the topics of one analysis session
type Set struct {
	byID map[int]*Topic
}

// NewSet creates a set holding topics. Later duplicates of an ID replace
// earlier ones.
func NewSet(topics ...*Topic) *Set {
	s := &Set{byID: make(map[int]*Topic, len(topics))}
	for _, t := range topics {
		s.byID[t.ID] = t
	}
	return s
}

// Add inserts a topic. Adding an ID that is already present fails.
func (s *Set) Add(t *Topic) error {
	if _, ok := s.byID[t.ID]; ok {
		return fmt.Errorf("topic %d already present: %w", t.ID, internalerr.ErrInvalidInput)
	}
	s.byID[t.ID] = t
	return nil
}

// Get returns a topic by ID.
func (s *Set) Get(id int) (*Topic, bool) {
	t, ok := s.byID[id]
	return t, ok
}

// Len returns the number of topics
func (s *Set) Len() int { return len(s.byID) }

// IDs returns the topic IDs in ascending order.
func (s *Set) IDs() []int {
	ids := make([]int, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// All returns the topics ordered by ID.
func (s *Set) All() []*Topic {
	ids := s.IDs()
	out := make([]*Topic, len(ids))
	for i, id := range ids {
		out[i] = s.byID[id]
	}
	return out
}

// Subset returns a set of the topics whose IDs are in keep. Topics are
// shared, not copied.
func (s *Set) Subset(keep map[int]struct{}) *Set {
	out := NewSet()
	for id := range keep {
		if t, ok := s.byID[id]; ok {
			out.byID[id] = t
		}
	}
	return out
}
