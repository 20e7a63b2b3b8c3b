package validation

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lorrc/desk-metrics/internal/core/domain"
	apperrors "github.com/lorrc/desk-metrics/internal/core/errors"
)

// monthLayouts are the accepted month parameter forms: "2025-02", "Feb 2025"
// and "February 2025".
var monthLayouts = []string{"2006-01", "Jan 2006", "January 2006"}

// Validator validates request data
type Validator struct {
	errors *apperrors.ValidationErrors
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		errors: apperrors.NewValidationErrors(),
	}
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return v.errors.HasErrors()
}

// Errors returns the validation errors
func (v *Validator) Errors() *apperrors.ValidationErrors {
	return v.errors
}

// Required validates that a string is not empty
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.errors.Add(field, "This field is required")
	}
	return v
}

// MinLength validates minimum string length
func (v *Validator) MinLength(field, value string, min int) *Validator {
	if len(value) < min {
		v.errors.Add(field, "Must be at least "+strconv.Itoa(min)+" characters")
	}
	return v
}

// MaxLength validates maximum string length
func (v *Validator) MaxLength(field, value string, max int) *Validator {
	if len(value) > max {
		v.errors.Add(field, "Must be at most "+strconv.Itoa(max)+" characters")
	}
	return v
}

// OneOf validates value is one of the allowed values
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v // Empty is handled by Required
	}

	for _, a := range allowed {
		if value == a {
			return v
		}
	}

	v.errors.Add(field, "Must be one of: "+strings.Join(allowed, ", "))
	return v
}

// Custom adds a custom validation
func (v *Validator) Custom(field string, valid bool, message string) *Validator {
	if !valid {
		v.errors.Add(field, message)
	}
	return v
}

// DecodeAndValidate decodes JSON request body and runs basic validation
func DecodeAndValidate[T any](r *http.Request) (*T, error) {
	var req T

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, apperrors.NewBadRequestError(err, "Invalid request body")
	}

	return &req, nil
}

// ParseCriteria extracts the shared filter criteria from query parameters.
// Absent parameters and the literal "all" leave a dimension unconstrained;
// a malformed quarter or month is a validation error, never a silent
// no-filter.
func ParseCriteria(r *http.Request) (domain.Criteria, error) {
	v := NewValidator()
	var c domain.Criteria

	if raw := queryValue(r, "quarter"); raw != "" {
		quarter, err := domain.QuarterByName(strings.ToUpper(raw))
		if err != nil {
			v.Custom("quarter", false, "Unknown quarter: "+raw)
		} else {
			c.Quarter = &quarter
		}
	}

	if raw := queryValue(r, "month"); raw != "" {
		month, ok := parseMonth(raw)
		if !ok {
			v.Custom("month", false, "Unrecognized month format: "+raw)
		} else {
			c.Month = &month
		}
	}

	c.Location = stringFilter(r, "location")
	c.Region = stringFilter(r, "region")
	c.AssignmentGroup = stringFilter(r, "assignment_group")
	c.Technician = stringFilter(r, "technician")

	if v.HasErrors() {
		return domain.Criteria{}, v.Errors()
	}
	return c, nil
}

// queryValue returns a trimmed query parameter, with the "all" sentinel
// normalized away.
func queryValue(r *http.Request, key string) string {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if strings.EqualFold(value, "all") {
		return ""
	}
	return value
}

func stringFilter(r *http.Request, key string) *string {
	value := queryValue(r, key)
	if value == "" {
		return nil
	}
	return &value
}

func parseMonth(value string) (domain.Month, bool) {
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return domain.MonthOf(t), true
		}
	}
	return domain.Month{}, false
}
