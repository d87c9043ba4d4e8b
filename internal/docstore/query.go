package docstore

import (
	"fmt"
	"strings"
)

type filterOp int

const (
	opEq filterOp = iota
	opGte
	opLte
	opLt
	opIn
	opContainsAny
)

type filter struct {
	op     filterOp
	field  string
	value  string
	values []string
	fields []string
	asTime bool
}

// Query describes filtering, ordering, and pagination over a collection.
// Filters address top-level document fields by their JSON name; field names
// are validated against an identifier pattern before being interpolated.
type Query struct {
	filters     []filter
	sortField   string
	sortDesc    bool
	sortNumeric bool
	sortTime    bool
	limit       int
	offset      int
}

// NewQuery creates an empty query matching all documents.
func NewQuery() *Query {
	return &Query{}
}

// Eq adds an equality filter on a top-level field.
func (q *Query) Eq(field, value string) *Query {
	q.filters = append(q.filters, filter{op: opEq, field: field, value: value})
	return q
}

// Gte adds a >= filter on a top-level field, compared as text.
func (q *Query) Gte(field, value string) *Query {
	q.filters = append(q.filters, filter{op: opGte, field: field, value: value})
	return q
}

// Lte adds a <= filter on a top-level field, compared as text.
func (q *Query) Lte(field, value string) *Query {
	q.filters = append(q.filters, filter{op: opLte, field: field, value: value})
	return q
}

// Lt adds a < filter on a top-level field, compared as text.
func (q *Query) Lt(field, value string) *Query {
	q.filters = append(q.filters, filter{op: opLt, field: field, value: value})
	return q
}

// GteTime adds a >= filter comparing the field as timestamptz. Text comparison
// of ISO-8601 values breaks down when fractional-second precision varies, so
// timestamp fields always go through the cast.
func (q *Query) GteTime(field, value string) *Query {
	q.filters = append(q.filters, filter{op: opGte, field: field, value: value, asTime: true})
	return q
}

// LteTime adds a <= filter comparing the field as timestamptz.
func (q *Query) LteTime(field, value string) *Query {
	q.filters = append(q.filters, filter{op: opLte, field: field, value: value, asTime: true})
	return q
}

// LtTime adds a < filter comparing the field as timestamptz.
func (q *Query) LtTime(field, value string) *Query {
	q.filters = append(q.filters, filter{op: opLt, field: field, value: value, asTime: true})
	return q
}

// In adds a membership filter on a top-level field.
func (q *Query) In(field string, values ...string) *Query {
	q.filters = append(q.filters, filter{op: opIn, field: field, values: values})
	return q
}

// ContainsAny adds a case-insensitive substring match over one or more fields.
// A document matches when any of the fields contains the term.
func (q *Query) ContainsAny(term string, fields ...string) *Query {
	q.filters = append(q.filters, filter{op: opContainsAny, value: term, fields: fields})
	return q
}

// OrderBy sets the sort field and direction.
func (q *Query) OrderBy(field string, desc bool) *Query {
	q.sortField = field
	q.sortDesc = desc
	q.sortNumeric = false
	q.sortTime = false
	return q
}

// OrderByNumeric sorts by a field cast to numeric rather than by text.
func (q *Query) OrderByNumeric(field string, desc bool) *Query {
	q.sortField = field
	q.sortDesc = desc
	q.sortNumeric = true
	q.sortTime = false
	return q
}

// OrderByTime sorts by a field cast to timestamptz rather than by text.
func (q *Query) OrderByTime(field string, desc bool) *Query {
	q.sortField = field
	q.sortDesc = desc
	q.sortNumeric = false
	q.sortTime = true
	return q
}

// Page sets the result window.
func (q *Query) Page(limit, offset int) *Query {
	q.limit = limit
	q.offset = offset
	return q
}

func (q *Query) whereClause() (string, []interface{}) {
	if len(q.filters) == 0 {
		return "", nil
	}

	clauses := make([]string, 0, len(q.filters))
	args := make([]interface{}, 0, len(q.filters))

	for _, f := range q.filters {
		switch f.op {
		case opEq, opGte, opLte, opLt:
			if !fieldPattern.MatchString(f.field) {
				continue
			}
			args = append(args, f.value)
			if f.asTime {
				clauses = append(clauses, fmt.Sprintf(`(doc->>'%s')::timestamptz %s $%d::timestamptz`, f.field, comparator(f.op), len(args)))
			} else {
				clauses = append(clauses, fmt.Sprintf(`doc->>'%s' %s $%d`, f.field, comparator(f.op), len(args)))
			}
		case opIn:
			if !fieldPattern.MatchString(f.field) || len(f.values) == 0 {
				continue
			}
			placeholders := make([]string, 0, len(f.values))
			for _, v := range f.values {
				args = append(args, v)
				placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
			}
			clauses = append(clauses, fmt.Sprintf(`doc->>'%s' IN (%s)`, f.field, strings.Join(placeholders, ", ")))
		case opContainsAny:
			args = append(args, "%"+escapeLike(f.value)+"%")
			arg := len(args)
			parts := make([]string, 0, len(f.fields))
			for _, field := range f.fields {
				if !fieldPattern.MatchString(field) {
					continue
				}
				parts = append(parts, fmt.Sprintf(`doc->>'%s' ILIKE $%d`, field, arg))
			}
			if len(parts) > 0 {
				clauses = append(clauses, "("+strings.Join(parts, " OR ")+")")
			}
		}
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (q *Query) orderClause() string {
	if q.sortField == "" || !fieldPattern.MatchString(q.sortField) {
		return ""
	}
	direction := "ASC"
	if q.sortDesc {
		direction = "DESC"
	}
	if q.sortNumeric {
		return fmt.Sprintf(` ORDER BY (doc->>'%s')::numeric %s`, q.sortField, direction)
	}
	if q.sortTime {
		return fmt.Sprintf(` ORDER BY (doc->>'%s')::timestamptz %s`, q.sortField, direction)
	}
	return fmt.Sprintf(` ORDER BY doc->>'%s' %s`, q.sortField, direction)
}

func (q *Query) pageClause() string {
	if q.limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", q.limit, q.offset)
}

func comparator(op filterOp) string {
	switch op {
	case opGte:
		return ">="
	case opLte:
		return "<="
	case opLt:
		return "<"
	default:
		return "="
	}
}

func escapeLike(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, "%", `\%`)
	return strings.ReplaceAll(value, "_", `\_`)
}
