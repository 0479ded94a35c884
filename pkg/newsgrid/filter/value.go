package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/cognicore/newsgrid/pkg/newsgrid/index"
	"github.com/cognicore/newsgrid/pkg/newsgrid/internalerr"
)

// AllDocs is the reserved label for a value that matches every document.
const AllDocs = "ALL_DOCS"

// DayLayout is the label format of publish-day values.
const DayLayout = "20060102"

// Value is one atomic selection criterion of a dimension. Its predicate is
// fixed at construction; only the document count is set later.
type Value struct {
	label    string
	position int
	kind     Kind
	query    index.Query
	interval Interval

	docs    int
	counted bool
}

// Interval is an inclusive range of whole UTC days.
type Interval struct {
	Start time.Time // first day, 00:00:00
	End   time.Time // last day, 00:00:00
}

// Compare orders intervals: 0 when equal, -1 when i ends before o starts,
// 1 when i starts after o ends. Overlapping intervals that are not equal
// compare as -1; that order is implementation-defined.
func (i Interval) Compare(o Interval) int {
	switch {
	case i.Start.Equal(o.Start) && i.End.Equal(o.End):
		return 0
	case i.End.Before(o.Start):
		return -1
	case i.Start.After(o.End):
		return 1
	}
	return -1
}

// Contains reports whether t falls on one of the interval's days.
func (i Interval) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(i.Start) && t.Before(i.End.AddDate(0, 0, 1))
}

func newValue(kind Kind, label string, position int) (*Value, error) {
	v := &Value{label: label, position: position, kind: kind}
	if label == AllDocs {
		v.query = index.MatchAll{}
		return v, nil
	}

	switch kind {
	case Country, Recipient:
		v.query = index.Term{Field: kind.field(), Value: label}
	case TitleContains, ContentContains, DescriptionContains:
		q, err := index.ParseText(kind.field(), label)
		if err != nil {
			return nil, fmt.Errorf("%s value %q: %w", kind, label, err)
		}
		v.query = q
	case PublishDay:
		iv, err := ParseInterval(label)
		if err != nil {
			return nil, err
		}
		v.interval = iv
		v.query = index.Range{
			Field: index.FieldPublished,
			Min:   float64(iv.Start.Unix()),
			Max:   float64(iv.End.AddDate(0, 0, 1).Unix() - 1),
		}
	default:
		return nil, fmt.Errorf("unknown dimension kind %d: %w", int(kind), internalerr.ErrInvalidConfig)
	}
	return v, nil
}

// ParseInterval parses "yyyyMMdd" or "yyyyMMdd-yyyyMMdd".
func ParseInterval(label string) (Interval, error) {
	from, to, isRange := strings.Cut(label, "-")
	if !isRange {
		to = from
	}
	start, err := time.ParseInLocation(DayLayout, from, time.UTC)
	if err != nil {
		return Interval{}, fmt.Errorf("publish day %q: %w", label, internalerr.ErrInvalidInput)
	}
	end, err := time.ParseInLocation(DayLayout, to, time.UTC)
	if err != nil {
		return Interval{}, fmt.Errorf("publish day %q: %w", label, internalerr.ErrInvalidInput)
	}
	if end.Before(start) {
		return Interval{}, fmt.Errorf("publish day %q ends before it starts: %w", label, internalerr.ErrInvalidInput)
	}
	return Interval{Start: start, End: end}, nil
}

// Label returns the canonical human-readable label.
func (v *Value) Label() string { return v.label }

// Position is the 0-based rank within the parent dimension.
func (v *Value) Position() int { return v.position }

// Kind returns the axis the value belongs to.
func (v *Value) Kind() Kind { return v.kind }

// Query returns the value's predicate.
func (v *Value) Query() index.Query { return v.query }

// IsAllDocs reports whether the value is the match-all sentinel.
func (v *Value) IsAllDocs() bool { return v.label == AllDocs }

// Interval returns the day range of a publish-day value.
func (v *Value) Interval() (Interval, bool) {
	if v.kind != PublishDay || v.IsAllDocs() {
		return Interval{}, false
	}
	return v.interval, true
}

// Docs returns the cached document count, and whether it has been set.
func (v *Value) Docs() (int, bool) { return v.docs, v.counted }

// SetDocs caches the number of documents matching the value alone.
func (v *Value) SetDocs(n int) {
	v.docs = n
	v.counted = true
}

// Key identifies the predicate; values with equal keys are equal.
func (v *Value) Key() string { return v.query.Key() }

// Equal compares by predicate, not by label.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	return index.Equivalent(v.query, o.query)
}

// Compare is the natural order of values. The sentinel sorts first,
// publish days order chronologically and other kinds by label.
func (v *Value) Compare(o *Value) int {
	switch {
	case v.IsAllDocs() && o.IsAllDocs():
		return 0
	case v.IsAllDocs():
		return -1
	case o.IsAllDocs():
		return 1
	}
	if v.kind == PublishDay && o.kind == PublishDay {
		return v.interval.Compare(o.interval)
	}
	return strings.Compare(v.label, o.label)
}

func (v *Value) String() string { return v.label }
