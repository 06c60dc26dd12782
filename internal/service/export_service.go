package service

import (
	"context"
	"strconv"

	"github.com/mwidjaja/student-records-api/internal/models"
	appErrors "github.com/mwidjaja/student-records-api/pkg/errors"
	"github.com/mwidjaja/student-records-api/pkg/export"
)

type rosterLister interface {
	List(ctx context.Context) ([]models.Student, error)
}

// ExportService renders the student roster as a downloadable document.
type ExportService struct {
	students rosterLister
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
}

// NewExportService constructs the export service.
func NewExportService(students rosterLister) *ExportService {
	return &ExportService{
		students: students,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
	}
}

var rosterColumns = []export.Column{
	{Key: "studentId", Label: "Student ID"},
	{Key: "firstName", Label: "First Name"},
	{Key: "lastName", Label: "Last Name"},
	{Key: "email", Label: "Email"},
	{Key: "dob", Label: "Date of Birth"},
	{Key: "department", Label: "Department"},
	{Key: "enrollmentYear", Label: "Enrollment Year"},
	{Key: "isActive", Label: "Active"},
}

// Roster renders all records in the requested format and returns the bytes
// together with their content type.
func (s *ExportService) Roster(ctx context.Context, format string) ([]byte, string, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, "", err
	}

	table := export.Table{Title: "Student Roster", Columns: rosterColumns, Rows: rosterRows(students)}

	switch format {
	case "csv", "":
		data, err := s.csv.Render(table)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return data, "text/csv", nil
	case "pdf":
		data, err := s.pdf.Render(table)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return data, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format: "+format)
	}
}

func rosterRows(students []models.Student) []map[string]string {
	rows := make([]map[string]string, 0, len(students))
	for _, s := range students {
		rows = append(rows, map[string]string{
			"studentId":      s.StudentID,
			"firstName":      s.FirstName,
			"lastName":       s.LastName,
			"email":          s.Email,
			"dob":            s.DOB.Format("2006-01-02"),
			"department":     s.Department,
			"enrollmentYear": strconv.Itoa(s.EnrollmentYear),
			"isActive":       strconv.FormatBool(s.IsActive),
		})
	}
	return rows
}
