// Package validation holds the record normalizer and the field-level
// constraint rules for student records. Rules are kept in an enumerable map
// keyed by JSON field name so the rule set stays auditable and each rule is
// testable in isolation.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mwidjaja/student-records-api/internal/models"
)

// emailPattern matches local@domain.tld with no whitespace and at least one
// dot in the domain.
var emailPattern = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)

// minEnrollmentYear is the floor for enrollment years. The ceiling is the
// current calendar year, evaluated at validation time: a stored record's
// validity can change as years roll over, and no retroactive re-validation
// is ever triggered.
const minEnrollmentYear = 2000

// NormalizeText trims surrounding whitespace.
func NormalizeText(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeEmail trims and lowercases so email uniqueness is
// case-insensitive.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeRecord applies field normalization in place. Normalization is
// pure cleanup and never fails; it runs before any validation.
func NormalizeRecord(s *models.Student) {
	s.StudentID = NormalizeText(s.StudentID)
	s.FirstName = NormalizeText(s.FirstName)
	s.LastName = NormalizeText(s.LastName)
	s.Email = NormalizeEmail(s.Email)
}

// ParseDOB accepts the date-only wire format or a full RFC 3339 timestamp.
func ParseDOB(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse dob %q: %w", raw, err)
	}
	return t, nil
}

// Rule checks one field of a normalized record and returns a human-readable
// message, or "" when the field is valid.
type Rule func(s models.Student) string

// FieldOrder fixes the evaluation and reporting order of the rules.
var FieldOrder = []string{
	"studentId",
	"firstName",
	"lastName",
	"email",
	"dob",
	"department",
	"enrollmentYear",
}

// Rules maps each field to its constraint. Rules assume the record has been
// normalized; they are evaluated independently per field.
var Rules = map[string]Rule{
	"studentId": func(s models.Student) string {
		if s.StudentID == "" {
			return "Student ID is required"
		}
		return ""
	},
	"firstName": func(s models.Student) string {
		return nameRule("First name", s.FirstName)
	},
	"lastName": func(s models.Student) string {
		return nameRule("Last name", s.LastName)
	},
	"email": func(s models.Student) string {
		if s.Email == "" {
			return "Email is required"
		}
		if !emailPattern.MatchString(s.Email) {
			return "Please enter a valid email address"
		}
		return ""
	},
	"dob": func(s models.Student) string {
		if s.DOB.IsZero() {
			return "Date of birth is required"
		}
		return ""
	},
	"department": func(s models.Student) string {
		if s.Department == "" {
			return "Department is required"
		}
		return ""
	},
	"enrollmentYear": func(s models.Student) string {
		current := time.Now().Year()
		if s.EnrollmentYear < minEnrollmentYear || s.EnrollmentYear > current {
			return fmt.Sprintf("Enrollment year must be between %d and %d", minEnrollmentYear, current)
		}
		return ""
	},
}

func nameRule(label, value string) string {
	if value == "" {
		return label + " is required"
	}
	if len(value) < 2 {
		return label + " must be at least 2 characters"
	}
	return ""
}

// FieldError pairs a field name with its failure message.
type FieldError struct {
	Field   string
	Message string
}

// ValidateRecord runs every rule against a full normalized record and
// returns all offending fields in declaration order.
func ValidateRecord(s models.Student) []FieldError {
	var failures []FieldError
	for _, field := range FieldOrder {
		if msg := Rules[field](s); msg != "" {
			failures = append(failures, FieldError{Field: field, Message: msg})
		}
	}
	return failures
}

// Describe joins field failures into a single message.
func Describe(failures []FieldError) string {
	parts := make([]string, len(failures))
	for i, f := range failures {
		parts[i] = f.Message
	}
	return strings.Join(parts, "; ")
}
