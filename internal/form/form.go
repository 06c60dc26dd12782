// Package form implements client-side validation for the student form: the
// same field rules the server enforces, plus the client-only checks
// (uppercase student IDs, age bounds), with per-field touched tracking so
// errors only surface after the user has interacted with a field.
package form

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	studentIDPattern = regexp.MustCompile(`^[A-Z0-9]+$`)
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Fields lists the form fields in display order.
var Fields = []string{
	"studentId",
	"firstName",
	"lastName",
	"email",
	"dob",
	"department",
	"enrollmentYear",
}

// ValidateField checks a single raw input value and returns a message, or
// "" when the value is acceptable. Unknown fields are accepted.
func ValidateField(name, value string) string {
	switch name {
	case "studentId":
		if value == "" {
			return "Student ID is required"
		}
		if !studentIDPattern.MatchString(value) {
			return "Student ID must contain only uppercase letters and numbers"
		}

	case "firstName", "lastName":
		label := "First"
		if name == "lastName" {
			label = "Last"
		}
		if value == "" {
			return label + " name is required"
		}
		if len(value) < 2 {
			return label + " name must be at least 2 characters"
		}

	case "email":
		if value == "" {
			return "Email is required"
		}
		if !emailPattern.MatchString(value) {
			return "Please enter a valid email address"
		}

	case "dob":
		if value == "" {
			return "Date of birth is required"
		}
		dob, err := time.Parse("2006-01-02", value)
		if err != nil {
			return "Date of birth must be a valid date"
		}
		// Year-only age arithmetic, ignoring month and day. Intentionally
		// approximate: a birthday later this year still counts a full year.
		age := time.Now().Year() - dob.Year()
		if age < 16 || age > 100 {
			return "Student must be between 16 and 100 years old"
		}

	case "department":
		if value == "" {
			return "Department is required"
		}

	case "enrollmentYear":
		if value == "" {
			return "Enrollment year is required"
		}
		year, err := strconv.Atoi(strings.TrimSpace(value))
		currentYear := time.Now().Year()
		if err != nil || year < 2000 || year > currentYear {
			return fmt.Sprintf("Year must be between 2000 and %d", currentYear)
		}
	}

	return ""
}

// Validator tracks validation errors and touched state for a form in
// progress.
type Validator struct {
	errors  map[string]string
	touched map[string]bool
}

// NewValidator builds an empty form validator.
func NewValidator() *Validator {
	return &Validator{
		errors:  make(map[string]string),
		touched: make(map[string]bool),
	}
}

// Blur marks the field as touched and records its current validity, the
// same contract as leaving an input in the browser form.
func (v *Validator) Blur(name, value string) {
	v.touched[name] = true
	if msg := ValidateField(name, value); msg != "" {
		v.errors[name] = msg
	} else {
		delete(v.errors, name)
	}
}

// Touched reports whether the user has interacted with the field.
func (v *Validator) Touched(name string) bool {
	return v.touched[name]
}

// FieldError returns the error to show for a field: nothing before first
// interaction, regardless of validity.
func (v *Validator) FieldError(name string) string {
	if !v.touched[name] {
		return ""
	}
	return v.errors[name]
}

// ValidateAll checks every supplied field regardless of touched state, as
// done on submit. It records all failures and reports overall validity.
func (v *Validator) ValidateAll(values map[string]string) bool {
	v.errors = make(map[string]string)
	for name, value := range values {
		if msg := ValidateField(name, value); msg != "" {
			v.errors[name] = msg
		}
	}
	return len(v.errors) == 0
}

// Errors returns a copy of all recorded failures.
func (v *Validator) Errors() map[string]string {
	out := make(map[string]string, len(v.errors))
	for k, msg := range v.errors {
		out[k] = msg
	}
	return out
}

// Reset clears errors and touched state, e.g. after a successful submit.
func (v *Validator) Reset() {
	v.errors = make(map[string]string)
	v.touched = make(map[string]bool)
}
