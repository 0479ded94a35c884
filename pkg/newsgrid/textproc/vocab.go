package textproc

// Vocabulary is a grow-only bidirectional term to feature ID mapping.
// IDs are dense and assigned in first-seen order.
type Vocabulary struct {
	ids   map[string]int
	terms []string
}

// NewVocabulary creates an empty vocabulary
func NewVocabulary() *Vocabulary {
	return &Vocabulary{ids: make(map[string]int)}
}

// ID returns the feature ID of term, assigning the next free one if the
// term is new.
func (v *Vocabulary) ID(term string) int {
	if id, ok := v.ids[term]; ok {
		return id
	}
	id := len(v.terms)
	v.ids[term] = id
	v.terms = append(v.terms, term)
	return id
}

// Lookup returns the feature ID of a known term.
func (v *Vocabulary) Lookup(term string) (int, bool) {
	id, ok := v.ids[term]
	return id, ok
}

// Term returns the term for a feature ID, or "" if out of range.
func (v *Vocabulary) Term(id int) string {
	if id < 0 || id >= len(v.terms) {
		return ""
	}
	return v.terms[id]
}

// Len returns the number of known terms
func (v *Vocabulary) Len() int {
	return len(v.terms)
}
