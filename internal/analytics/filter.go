package analytics

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Field names a filterable attribute of marks and attendance queries.
type Field string

const (
	FieldBatch    Field = "batch"
	FieldSemester Field = "semester"
	FieldSection  Field = "section"
	FieldExamType Field = "examType"
	FieldSubject  Field = "subject"
)

// Comparator describes how a clause compares the stored value.
type Comparator string

const (
	// Equal matches by exact equality.
	Equal Comparator = "="
)

// Params carries caller supplied filters exactly as received. Empty strings
// mean the filter is absent.
type Params struct {
	Batch    string
	Semester string
	Section  string
	ExamType string
	Subject  string
}

func (p Params) value(f Field) string {
	switch f {
	case FieldBatch:
		return p.Batch
	case FieldSemester:
		return p.Semester
	case FieldSection:
		return p.Section
	case FieldExamType:
		return p.ExamType
	case FieldSubject:
		return p.Subject
	default:
		return ""
	}
}

// Clause is a single (field, value, comparator) constraint.
type Clause struct {
	Field      Field
	Value      interface{}
	Comparator Comparator
}

// Predicate is the normalised filter applied to store queries. The zero value
// matches everything.
type Predicate struct {
	Clauses []Clause
	// Never is set when an input can not match any record, e.g. a
	// non-numeric semester.
	Never bool
}

// Resolve narrows an always-match predicate by each present field among
// fields. When fields is empty every known field is considered.
func Resolve(params Params, fields ...Field) Predicate {
	if len(fields) == 0 {
		fields = []Field{FieldBatch, FieldSemester, FieldSection, FieldExamType, FieldSubject}
	}
	var pred Predicate
	for _, f := range fields {
		raw := strings.TrimSpace(params.value(f))
		if raw == "" {
			continue
		}
		if f == FieldSemester {
			semester, err := strconv.Atoi(raw)
			if err != nil {
				pred.Never = true
				continue
			}
			pred.Clauses = append(pred.Clauses, Clause{Field: f, Value: semester, Comparator: Equal})
			continue
		}
		pred.Clauses = append(pred.Clauses, Clause{Field: f, Value: raw, Comparator: Equal})
	}
	return pred
}

// Only returns a copy restricted to clauses on the given fields. Never is
// carried over only when the semester field is kept, since that is the sole
// source of an impossible match.
func (p Predicate) Only(fields ...Field) Predicate {
	keep := make(map[Field]struct{}, len(fields))
	for _, f := range fields {
		keep[f] = struct{}{}
	}
	out := Predicate{}
	if _, ok := keep[FieldSemester]; ok {
		out.Never = p.Never
	}
	for _, c := range p.Clauses {
		if _, ok := keep[c.Field]; ok {
			out.Clauses = append(out.Clauses, c)
		}
	}
	return out
}

// Has reports whether a clause on f is present.
func (p Predicate) Has(f Field) bool {
	for _, c := range p.Clauses {
		if c.Field == f {
			return true
		}
	}
	return false
}

// Where renders SQL conditions for the predicate using positional
// placeholders continuing after args. Fields without a column mapping are
// ignored.
func (p Predicate) Where(columns map[Field]string, args []interface{}) ([]string, []interface{}) {
	if p.Never {
		return []string{"1=0"}, args
	}
	conditions := make([]string, 0, len(p.Clauses))
	for _, c := range p.Clauses {
		column, ok := columns[c.Field]
		if !ok {
			continue
		}
		args = append(args, c.Value)
		conditions = append(conditions, fmt.Sprintf("%s %s $%d", column, c.Comparator, len(args)))
	}
	return conditions, args
}

// CacheKeyParts returns a stable textual form of the predicate for cache keys.
// Values are query-escaped so distinct values never share a key and no part
// carries a key separator or glob metacharacter.
func (p Predicate) CacheKeyParts() []string {
	if p.Never {
		return []string{"never"}
	}
	parts := make([]string, 0, len(p.Clauses))
	for _, c := range p.Clauses {
		parts = append(parts, string(c.Field)+"="+url.QueryEscape(fmt.Sprint(c.Value)))
	}
	return parts
}
