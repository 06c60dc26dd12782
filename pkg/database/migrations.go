package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// The students table carries the two unique indexes the service relies on:
// the reactive arm of duplicate detection reads their constraint names, so
// they must stay `students_student_id_key` and `students_email_key`.
const schemaStudents = `
CREATE TABLE IF NOT EXISTS students (
    id UUID PRIMARY KEY,
    student_id VARCHAR(50) NOT NULL,
    first_name VARCHAR(100) NOT NULL,
    last_name VARCHAR(100) NOT NULL,
    email VARCHAR(255) NOT NULL,
    dob DATE NOT NULL,
    department VARCHAR(100) NOT NULL,
    enrollment_year INTEGER NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT students_student_id_key UNIQUE (student_id),
    CONSTRAINT students_email_key UNIQUE (email)
);

CREATE INDEX IF NOT EXISTS idx_students_created_at ON students(created_at DESC);
`

// Migrate applies the embedded schema. Statements are idempotent so the
// bootstrap can run on every startup.
func Migrate(db *sqlx.DB) error {
	if _, err := db.Exec(schemaStudents); err != nil {
		return fmt.Errorf("apply students schema: %w", err)
	}
	return nil
}
