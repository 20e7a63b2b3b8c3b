package domain

import "time"

// Incident is a single service-desk incident record as exported from the
// ticketing system. CreatedAt is always present; the other timestamps and the
// counters may be absent in the export and are modelled as pointers so that
// "unknown" is never confused with zero.
type Incident struct {
	Number            string
	CreatedAt         time.Time
	OpenedAt          *time.Time
	ResolvedAt        *time.Time
	ClosedAt          *time.Time
	Location          string
	Region            string
	AssignmentGroup   string
	ResolvedBy        string
	ReopenCount       *int
	ReassignmentCount *int
	MadeSLA           *bool
}

// Resolved reports whether the incident has a resolution timestamp.
func (i Incident) Resolved() bool {
	return i.ResolvedAt != nil
}

// ResolutionMinutes returns the business-hours resolution time in minutes.
// The second return value is false for unresolved incidents.
func (i Incident) ResolutionMinutes() (float64, bool) {
	if i.ResolvedAt == nil {
		return 0, false
	}
	return BusinessMinutes(i.CreatedAt, *i.ResolvedAt), true
}

// ElapsedMinutes returns the business-hours elapsed time from creation to
// resolution or, for unresolved incidents, to the given reference time.
func (i Incident) ElapsedMinutes(now time.Time) float64 {
	if i.ResolvedAt != nil {
		return BusinessMinutes(i.CreatedAt, *i.ResolvedAt)
	}
	return BusinessMinutes(i.CreatedAt, now)
}

// Consultation is a walk-up (Tech Spot) consultation record.
type Consultation struct {
	ID             string
	CreatedAt      time.Time
	ModifiedAt     *time.Time
	Location       string
	Region         string
	Technician     string
	Issue          string
	Type           string
	Completed      bool
	IncidentNumber string
}

// HasIncident reports whether the consultation was linked to an INC record.
func (c Consultation) HasIncident() bool {
	return c.IncidentNumber != ""
}

// Snapshot is the complete in-memory dataset. It is built once, never mutated
// and swapped atomically on reload, so concurrent requests always see a
// consistent view.
type Snapshot struct {
	Incidents     []Incident
	Consultations []Consultation
	LoadedAt      time.Time
}

// Attribute implements Record for Incident.
func (i Incident) Attribute(f Field) (string, bool) {
	switch f {
	case FieldLocation:
		return i.Location, true
	case FieldRegion:
		return i.Region, true
	case FieldAssignmentGroup:
		return i.AssignmentGroup, true
	case FieldTechnician:
		return i.ResolvedBy, true
	}
	return "", false
}

// Created implements Record for Incident.
func (i Incident) Created() time.Time { return i.CreatedAt }

// Attribute implements Record for Consultation. Consultations have no
// assignment group; a criterion on a missing field matches nothing rather
// than being silently ignored.
func (c Consultation) Attribute(f Field) (string, bool) {
	switch f {
	case FieldLocation:
		return c.Location, true
	case FieldRegion:
		return c.Region, true
	case FieldTechnician:
		return c.Technician, true
	}
	return "", false
}

// Created implements Record for Consultation.
func (c Consultation) Created() time.Time { return c.CreatedAt }
