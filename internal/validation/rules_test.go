package validation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwidjaja/student-records-api/internal/models"
)

func validStudent() models.Student {
	return models.Student{
		StudentID:      "S001",
		FirstName:      "Jo",
		LastName:       "Lee",
		Email:          "jo@x.com",
		DOB:            time.Date(2005, 1, 1, 0, 0, 0, 0, time.UTC),
		Department:     "CS",
		EnrollmentYear: 2023,
	}
}

func TestNormalizeRecord(t *testing.T) {
	s := models.Student{
		StudentID: "  S001 ",
		FirstName: " Jo ",
		LastName:  " Lee ",
		Email:     "  JO@X.COM ",
	}
	NormalizeRecord(&s)
	assert.Equal(t, "S001", s.StudentID)
	assert.Equal(t, "Jo", s.FirstName)
	assert.Equal(t, "Lee", s.LastName)
	assert.Equal(t, "jo@x.com", s.Email)
}

func TestValidateRecordValid(t *testing.T) {
	assert.Empty(t, ValidateRecord(validStudent()))
}

func TestValidateRecordFieldFailures(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*models.Student)
		field   string
		message string
	}{
		{"missing student id", func(s *models.Student) { s.StudentID = "" }, "studentId", "Student ID is required"},
		{"short first name", func(s *models.Student) { s.FirstName = "J" }, "firstName", "First name must be at least 2 characters"},
		{"missing last name", func(s *models.Student) { s.LastName = "" }, "lastName", "Last name is required"},
		{"bad email", func(s *models.Student) { s.Email = "not-an-email" }, "email", "Please enter a valid email address"},
		{"email without tld", func(s *models.Student) { s.Email = "jo@x" }, "email", "Please enter a valid email address"},
		{"missing dob", func(s *models.Student) { s.DOB = time.Time{} }, "dob", "Date of birth is required"},
		{"missing department", func(s *models.Student) { s.Department = "" }, "department", "Department is required"},
		{"year too early", func(s *models.Student) { s.EnrollmentYear = 1999 }, "enrollmentYear",
			fmt.Sprintf("Enrollment year must be between 2000 and %d", time.Now().Year())},
		{"year in the future", func(s *models.Student) { s.EnrollmentYear = time.Now().Year() + 1 }, "enrollmentYear",
			fmt.Sprintf("Enrollment year must be between 2000 and %d", time.Now().Year())},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := validStudent()
			tc.mutate(&s)
			failures := ValidateRecord(s)
			require.Len(t, failures, 1)
			assert.Equal(t, tc.field, failures[0].Field)
			assert.Equal(t, tc.message, failures[0].Message)
		})
	}
}

func TestValidateRecordReportsAllFailuresInOrder(t *testing.T) {
	s := validStudent()
	s.StudentID = ""
	s.Department = ""
	failures := ValidateRecord(s)
	require.Len(t, failures, 2)
	assert.Equal(t, "studentId", failures[0].Field)
	assert.Equal(t, "department", failures[1].Field)
	assert.Equal(t, "Student ID is required; Department is required", Describe(failures))
}

func TestEnrollmentYearBounds(t *testing.T) {
	s := validStudent()
	s.EnrollmentYear = 2000
	assert.Empty(t, Rules["enrollmentYear"](s))
	s.EnrollmentYear = time.Now().Year()
	assert.Empty(t, Rules["enrollmentYear"](s))
}

func TestParseDOB(t *testing.T) {
	got, err := ParseDOB("2005-01-01")
	require.NoError(t, err)
	assert.Equal(t, 2005, got.Year())

	got, err = ParseDOB("2005-01-01T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 2005, got.Year())

	_, err = ParseDOB("not a date")
	require.Error(t, err)
}
