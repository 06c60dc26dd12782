package form

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validValues() map[string]string {
	return map[string]string{
		"studentId":      "S001",
		"firstName":      "Jo",
		"lastName":       "Lee",
		"email":          "jo@x.com",
		"dob":            "2005-01-01",
		"department":     "CS",
		"enrollmentYear": "2023",
	}
}

func TestValidateFieldRules(t *testing.T) {
	currentYear := time.Now().Year()
	cases := []struct {
		field   string
		value   string
		message string
	}{
		{"studentId", "", "Student ID is required"},
		{"studentId", "s001", "Student ID must contain only uppercase letters and numbers"},
		{"studentId", "S001", ""},
		{"firstName", "", "First name is required"},
		{"firstName", "J", "First name must be at least 2 characters"},
		{"lastName", "L", "Last name must be at least 2 characters"},
		{"email", "nope", "Please enter a valid email address"},
		{"email", "jo@x.com", ""},
		{"dob", "", "Date of birth is required"},
		{"dob", "abc", "Date of birth must be a valid date"},
		{"department", "", "Department is required"},
		{"enrollmentYear", "1999", fmt.Sprintf("Year must be between 2000 and %d", currentYear)},
		{"enrollmentYear", "abc", fmt.Sprintf("Year must be between 2000 and %d", currentYear)},
		{"enrollmentYear", "2023", ""},
	}
	for _, tc := range cases {
		t.Run(tc.field+"/"+tc.value, func(t *testing.T) {
			assert.Equal(t, tc.message, ValidateField(tc.field, tc.value))
		})
	}
}

func TestValidateFieldAgeRange(t *testing.T) {
	currentYear := time.Now().Year()

	tooYoung := fmt.Sprintf("%d-01-01", currentYear-10)
	assert.Equal(t, "Student must be between 16 and 100 years old", ValidateField("dob", tooYoung))

	tooOld := fmt.Sprintf("%d-01-01", currentYear-120)
	assert.Equal(t, "Student must be between 16 and 100 years old", ValidateField("dob", tooOld))

	// Year-only arithmetic: a dob exactly 16 calendar years back passes even
	// if the birthday has not happened yet this year.
	exactly16 := fmt.Sprintf("%d-12-31", currentYear-16)
	assert.Empty(t, ValidateField("dob", exactly16))
}

func TestErrorsHiddenUntilTouched(t *testing.T) {
	v := NewValidator()
	assert.Empty(t, v.FieldError("email"))

	v.Blur("email", "bad")
	assert.True(t, v.Touched("email"))
	assert.Equal(t, "Please enter a valid email address", v.FieldError("email"))

	v.Blur("email", "jo@x.com")
	assert.Empty(t, v.FieldError("email"))
}

func TestValidateAllIgnoresTouchedState(t *testing.T) {
	v := NewValidator()
	values := validValues()
	values["firstName"] = "J"

	// Nothing touched, yet submit still checks every field.
	require.False(t, v.ValidateAll(values))
	assert.Equal(t, "First name must be at least 2 characters", v.Errors()["firstName"])

	values["firstName"] = "Jo"
	assert.True(t, v.ValidateAll(values))
	assert.Empty(t, v.Errors())
}

func TestReset(t *testing.T) {
	v := NewValidator()
	v.Blur("studentId", "")
	require.NotEmpty(t, v.FieldError("studentId"))

	v.Reset()
	assert.False(t, v.Touched("studentId"))
	assert.Empty(t, v.Errors())
}
