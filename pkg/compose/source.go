package compose

import (
	"context"
	"strings"
)

// Anonymous is the viewer id of an unauthenticated request. Every viewer
// flag composed for it is false.
const Anonymous int64 = 0

// Document is a stored or composed record keyed by column name.
type Document map[string]any

// Ref reads field as an entity reference stored under any integer type.
func (d Document) Ref(field string) (int64, bool) {
	return toInt64(d[field])
}

type Op int

const (
	OpEq Op = iota + 1
	OpIn
	OpMatch
)

// Cond is one condition of a Filter. OpMatch is a case-insensitive substring
// test of Value against any of Fields.
type Cond struct {
	Field  string
	Op     Op
	Value  any
	Values []any
	Fields []string
}

// Filter is a conjunction of conditions.
type Filter []Cond

func Eq(field string, value any) Cond {
	return Cond{Field: field, Op: OpEq, Value: value}
}

func In(field string, values ...any) Cond {
	return Cond{Field: field, Op: OpIn, Values: values}
}

func Match(term string, fields ...string) Cond {
	return Cond{Op: OpMatch, Value: term, Fields: fields}
}

// And returns a new filter holding f followed by conds. f is never modified.
func (f Filter) And(conds ...Cond) Filter {
	out := make(Filter, 0, len(f)+len(conds))
	out = append(out, f...)
	return append(out, conds...)
}

type Direction int

const (
	Descending Direction = -1
	Ascending  Direction = 1
)

// ParseDirection accepts "asc" (any case); everything else is descending.
func ParseDirection(s string) Direction {
	if strings.EqualFold(s, "asc") {
		return Ascending
	}
	return Descending
}

type Sort struct {
	Field     string
	Direction Direction
}

var DefaultSort = Sort{Field: "created_at", Direction: Descending}

type FindOptions struct {
	Sort   []Sort
	Limit  int
	Offset int
}

// Source is the storage capability the composer is written against.
type Source interface {
	Find(ctx context.Context, collection string, filter Filter, opts FindOptions) ([]Document, error)
	Count(ctx context.Context, collection string, filter Filter) (int64, error)
	// Exists reports whether at least one document matches; implementations
	// stop at the first hit.
	Exists(ctx context.Context, collection string, filter Filter) (bool, error)
}
