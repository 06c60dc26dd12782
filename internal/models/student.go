package models

import "time"

// Student is the sole persisted entity: one record per enrolled student.
// Two identifying fields are unique across all records: StudentID (exact,
// post-trim) and Email (post-trim-and-lowercase).
type Student struct {
	ID             string    `db:"id" json:"id"`
	StudentID      string    `db:"student_id" json:"studentId"`
	FirstName      string    `db:"first_name" json:"firstName"`
	LastName       string    `db:"last_name" json:"lastName"`
	Email          string    `db:"email" json:"email"`
	DOB            time.Time `db:"dob" json:"dob"`
	Department     string    `db:"department" json:"department"`
	EnrollmentYear int       `db:"enrollment_year" json:"enrollmentYear"`
	IsActive       bool      `db:"is_active" json:"isActive"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}
