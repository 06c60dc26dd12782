package dto

// CreateStudentRequest is the payload for registering a new student. Dates
// travel as strings so the domain rules decide what parses, not the JSON
// decoder.
type CreateStudentRequest struct {
	StudentID      string `json:"studentId" validate:"required"`
	FirstName      string `json:"firstName" validate:"required"`
	LastName       string `json:"lastName" validate:"required"`
	Email          string `json:"email" validate:"required"`
	DOB            string `json:"dob" validate:"required"`
	Department     string `json:"department" validate:"required"`
	EnrollmentYear int    `json:"enrollmentYear" validate:"required"`
	IsActive       *bool  `json:"isActive"`
}

// UpdateStudentRequest is the partial payload for modifying a student.
// Every field is a pointer: absent fields are dropped from the merge rather
// than written as zero values.
type UpdateStudentRequest struct {
	StudentID      *string `json:"studentId"`
	FirstName      *string `json:"firstName"`
	LastName       *string `json:"lastName"`
	Email          *string `json:"email"`
	DOB            *string `json:"dob"`
	Department     *string `json:"department"`
	EnrollmentYear *int    `json:"enrollmentYear"`
	IsActive       *bool   `json:"isActive"`
}

// Empty reports whether the update carries no fields at all.
func (r UpdateStudentRequest) Empty() bool {
	return r.StudentID == nil && r.FirstName == nil && r.LastName == nil &&
		r.Email == nil && r.DOB == nil && r.Department == nil &&
		r.EnrollmentYear == nil && r.IsActive == nil
}
