package index

import (
	"sort"
	"strconv"
	"strings"
)

// Query is a node of the boolean predicate tree. The set of node types is
// closed; providers switch over them.
type Query interface {
	// Key is a canonical rendering. Two queries with equal keys select the
	// same documents.
	Key() string
	isQuery()
}

// MatchAll selects every document
type MatchAll struct{}

// Term selects documents whose Field equals Value exactly
type Term struct {
	Field string
	Value string
}

// Range selects documents whose numeric Field lies in [Min, Max]
type Range struct {
	Field string
	Min   float64
	Max   float64
}

// And selects documents matched by every clause
type And struct {
	Clauses []Query
}

// Or selects documents matched by at least one clause
type Or struct {
	Clauses []Query
}

func (MatchAll) isQuery() {}
func (Term) isQuery()     {}
func (Range) isQuery()    {}
func (And) isQuery()      {}
func (Or) isQuery()       {}
func (Text) isQuery()     {}

func (MatchAll) Key() string { return "*:*" }

func (t Term) Key() string { return t.Field + ":" + strconv.Quote(t.Value) }

func (r Range) Key() string {
	return r.Field + ":[" + formatFloat(r.Min) + " TO " + formatFloat(r.Max) + "]"
}

func (a And) Key() string { return "+(" + joinKeys(a.Clauses) + ")" }

func (o Or) Key() string { return "|(" + joinKeys(o.Clauses) + ")" }

// AllOf builds a conjunction. Nil and MatchAll clauses are dropped, nested
// conjunctions are flattened, and a single remaining clause is returned
// unwrapped.
func AllOf(clauses ...Query) Query {
	var out []Query
	for _, c := range clauses {
		switch v := c.(type) {
		case nil, MatchAll:
			continue
		case And:
			out = append(out, v.Clauses...)
		default:
			out = append(out, c)
		}
	}
	switch len(out) {
	case 0:
		return MatchAll{}
	case 1:
		return out[0]
	}
	return And{Clauses: out}
}

// AnyOf builds a disjunction. Any MatchAll clause makes the whole
// disjunction match everything.
func AnyOf(clauses ...Query) Query {
	var out []Query
	for _, c := range clauses {
		switch v := c.(type) {
		case nil:
			continue
		case MatchAll:
			return MatchAll{}
		case Or:
			out = append(out, v.Clauses...)
		default:
			out = append(out, c)
		}
	}
	switch len(out) {
	case 0:
		return MatchAll{}
	case 1:
		return out[0]
	}
	return Or{Clauses: out}
}

// Equivalent reports whether a and b have the same canonical key.
func Equivalent(a, b Query) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Key() == b.Key()
}

// joinKeys sorts clause keys so that clause order does not affect
// equivalence.
func joinKeys(qs []Query) string {
	keys := make([]string, len(qs))
	for i, q := range qs {
		keys[i] = q.Key()
	}
	sort.Strings(keys)
	return strings.Join(keys, " ")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
