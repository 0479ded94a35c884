// Package filter defines filter dimensions: ordered sets of labelled
// document predicates that form the rows and columns of a matrix.
package filter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/newsgrid/pkg/newsgrid/index"
	"github.com/cognicore/newsgrid/pkg/newsgrid/internalerr"
)

// Dimension is an ordered, immutable collection of values on one axis
type Dimension struct {
	kind   Kind
	values []*Value
	labels map[string]int
}

// NewDimension builds a dimension of the given kind from raw labels.
// Labels are canonicalized, blank labels are skipped and duplicates keep
// their first position. A malformed label fails the whole dimension.
func NewDimension(kind Kind, raw []string) (*Dimension, error) {
	d := &Dimension{kind: kind, labels: make(map[string]int)}
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		label := canonical(kind, r)
		if label == "" {
			continue
		}
		if _, dup := d.labels[label]; dup {
			continue
		}
		v, err := newValue(kind, label, len(d.values))
		if err != nil {
			return nil, err
		}
		if _, dup := seen[v.Key()]; dup {
			continue
		}
		seen[v.Key()] = struct{}{}
		d.labels[label] = v.position
		d.values = append(d.values, v)
	}
	return d, nil
}

// ForCountryCodes builds a dimension over the outlet country field.
func ForCountryCodes(codes []string) (*Dimension, error) {
	return NewDimension(Country, codes)
}

// ForRecipients builds a dimension over the reported-on country field.
func ForRecipients(codes []string) (*Dimension, error) {
	return NewDimension(Recipient, codes)
}

// ForTextContains builds a free-text dimension over the field selected by
// kind, which must be one of the *Contains kinds.
func ForTextContains(kind Kind, queries []string) (*Dimension, error) {
	switch kind {
	case TitleContains, ContentContains, DescriptionContains:
		return NewDimension(kind, queries)
	}
	return nil, fmt.Errorf("%s is not a text dimension: %w", kind, internalerr.ErrInvalidConfig)
}

// ForPublishDays builds a dimension of day or day-interval labels.
func ForPublishDays(days []string) (*Dimension, error) {
	return NewDimension(PublishDay, days)
}

func canonical(kind Kind, raw string) string {
	label := strings.TrimSpace(raw)
	if label == AllDocs || label == "" {
		return label
	}
	switch kind {
	case Country, Recipient:
		return strings.ToUpper(label)
	case PublishDay:
		return strings.ReplaceAll(label, " ", "")
	}
	return strings.Join(strings.Fields(label), " ")
}

// Kind returns the dimension's axis.
func (d *Dimension) Kind() Kind { return d.kind }

// Len returns the number of values
func (d *Dimension) Len() int { return len(d.values) }

// Value returns the value at position i.
func (d *Dimension) Value(i int) *Value { return d.values[i] }

// Lookup finds a value by canonical label.
func (d *Dimension) Lookup(label string) (*Value, bool) {
	i, ok := d.labels[canonical(d.kind, label)]
	if !ok {
		return nil, false
	}
	return d.values[i], true
}

// Values returns the values in construction order.
func (d *Dimension) Values() []*Value {
	out := make([]*Value, len(d.values))
	copy(out, d.values)
	return out
}

// Sorted returns the values in natural order.
func (d *Dimension) Sorted() []*Value {
	out := d.Values()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Compare(out[j]) < 0
	})
	return out
}

// Labels returns the canonical labels aligned by position.
func (d *Dimension) Labels() []string {
	out := make([]string, len(d.values))
	for i, v := range d.values {
		out[i] = v.label
	}
	return out
}

// DocCounts returns the cached document counts aligned by position.
// Values that were never counted report 0.
func (d *Dimension) DocCounts() []int {
	out := make([]int, len(d.values))
	for i, v := range d.values {
		out[i] = v.docs
	}
	return out
}

// AnyOf is the disjunction of every value's predicate.
func (d *Dimension) AnyOf() index.Query {
	qs := make([]index.Query, len(d.values))
	for i, v := range d.values {
		qs[i] = v.query
	}
	return index.AnyOf(qs...)
}
