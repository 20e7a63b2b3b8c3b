package domain

import "time"

// Field identifies a categorical attribute a record may carry.
type Field string

const (
	FieldLocation        Field = "location"
	FieldRegion          Field = "region"
	FieldAssignmentGroup Field = "assignment_group"
	FieldTechnician      Field = "technician"
)

// Record is the schema contract between the filter engine and the record
// types it narrows. Attribute returns false when the record type does not
// carry the field at all.
type Record interface {
	Created() time.Time
	Attribute(Field) (string, bool)
}

// Criteria is a conjunction of optional predicates. A nil field means "no
// restriction"; there is no magic "all" sentinel at this level. Criteria are
// commutative (a single AND over independent predicates) and idempotent.
type Criteria struct {
	Quarter         *Quarter
	Month           *Month
	Location        *string
	Region          *string
	AssignmentGroup *string
	Technician      *string
}

// IsZero reports whether no predicate is set.
func (c Criteria) IsZero() bool {
	return c.Quarter == nil && c.Month == nil && c.Location == nil &&
		c.Region == nil && c.AssignmentGroup == nil && c.Technician == nil
}

// Matches evaluates the conjunction against a single record. Interval
// predicates are half-open on CreatedAt; categorical predicates are exact
// equality. When both quarter and month are set, both must hold.
func (c Criteria) Matches(r Record) bool {
	created := r.Created()
	if c.Quarter != nil && !c.Quarter.Contains(created) {
		return false
	}
	if c.Month != nil && !c.Month.Contains(created) {
		return false
	}
	if !matchAttr(r, FieldLocation, c.Location) {
		return false
	}
	if !matchAttr(r, FieldRegion, c.Region) {
		return false
	}
	if !matchAttr(r, FieldAssignmentGroup, c.AssignmentGroup) {
		return false
	}
	if !matchAttr(r, FieldTechnician, c.Technician) {
		return false
	}
	return true
}

func matchAttr(r Record, f Field, want *string) bool {
	if want == nil {
		return true
	}
	got, ok := r.Attribute(f)
	return ok && got == *want
}

// ApplyFilters narrows records to those matching the criteria. This is the
// single filtering implementation shared by every endpoint; calculators must
// never re-filter beyond what was passed to them. An empty input yields an
// empty, non-nil result.
func ApplyFilters[R Record](records []R, c Criteria) []R {
	out := make([]R, 0, len(records))
	for _, r := range records {
		if c.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
