package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mwidjaja/student-records-api/internal/dto"
	"github.com/mwidjaja/student-records-api/internal/models"
	"github.com/mwidjaja/student-records-api/internal/repository"
	"github.com/mwidjaja/student-records-api/internal/validation"
	appErrors "github.com/mwidjaja/student-records-api/pkg/errors"
)

const (
	rosterCacheKey     = "students:list"
	rosterCachePattern = "students:*"
)

type studentRepository interface {
	List(ctx context.Context) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

// StudentService orchestrates record operations: normalization, field
// rules, the uniqueness guard, and translation of persistence failures
// into the caller-facing error taxonomy.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validate *validator.Validate, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, cache: cache, metrics: metrics, logger: logger}
}

// List returns all records, newest first. The roster is served from cache
// when possible and refreshed after every mutation.
func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	var cached []models.Student
	if s.cache.Get(ctx, rosterCacheKey, &cached) {
		return cached, nil
	}
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	s.cache.Set(ctx, rosterCacheKey, students)
	return students, nil
}

// Get returns the record for id, treating malformed identifiers the same
// as missing records.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a new record: normalize, guard the email proactively,
// validate every field, persist, and translate a unique-index violation
// into the same conflict shape the proactive check produces.
func (s *StudentService) Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordWrite("create", "invalid")
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, requiredFieldsMessage(err))
	}

	student := models.Student{
		StudentID:      req.StudentID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Department:     req.Department,
		EnrollmentYear: req.EnrollmentYear,
		IsActive:       true,
	}
	if req.IsActive != nil {
		student.IsActive = *req.IsActive
	}
	validation.NormalizeRecord(&student)

	dob, dobErr := validation.ParseDOB(req.DOB)
	student.DOB = dob

	// Proactive arm of the uniqueness guard: read-before-write on email.
	// Not transactional with the insert; the unique index backstops the race.
	exists, err := s.repo.ExistsByEmail(ctx, student.Email, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email uniqueness")
	}
	if exists {
		s.metrics.RecordWrite("create", "duplicate")
		return nil, duplicateError("email")
	}

	if failures := recordFailures(student, req.DOB, dobErr); len(failures) > 0 {
		s.metrics.RecordWrite("create", "invalid")
		return nil, appErrors.Clone(appErrors.ErrValidation, validation.Describe(failures))
	}

	if err := s.repo.Create(ctx, &student); err != nil {
		return nil, s.translateWriteError("create", err)
	}
	s.metrics.RecordWrite("create", "ok")
	s.cache.Invalidate(ctx, rosterCachePattern)
	return &student, nil
}

// Update merges the supplied fields into the existing record, re-validates
// the full result, and persists it. Fields absent from the payload are left
// untouched.
func (s *StudentService) Update(ctx context.Context, id string, req dto.UpdateStudentRequest) (*models.Student, error) {
	// The email guard runs before the record-existence check, preserving
	// the observed precedence of conflict over not-found.
	if req.Email != nil {
		email := validation.NormalizeEmail(*req.Email)
		exists, err := s.repo.ExistsByEmail(ctx, email, id)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email uniqueness")
		}
		if exists {
			s.metrics.RecordWrite("update", "duplicate")
			return nil, duplicateError("email")
		}
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	student := *existing
	if req.StudentID != nil {
		student.StudentID = *req.StudentID
	}
	if req.FirstName != nil {
		student.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		student.LastName = *req.LastName
	}
	if req.Email != nil {
		student.Email = *req.Email
	}
	if req.Department != nil {
		student.Department = *req.Department
	}
	if req.EnrollmentYear != nil {
		student.EnrollmentYear = *req.EnrollmentYear
	}
	if req.IsActive != nil {
		student.IsActive = *req.IsActive
	}
	validation.NormalizeRecord(&student)

	var rawDOB string
	var dobErr error
	if req.DOB != nil {
		rawDOB = *req.DOB
		student.DOB, dobErr = validation.ParseDOB(rawDOB)
	}

	if failures := recordFailures(student, rawDOB, dobErr); len(failures) > 0 {
		s.metrics.RecordWrite("update", "invalid")
		return nil, appErrors.Clone(appErrors.ErrValidation, validation.Describe(failures))
	}

	if err := s.repo.Update(ctx, &student); err != nil {
		return nil, s.translateWriteError("update", err)
	}
	s.metrics.RecordWrite("update", "ok")
	s.cache.Invalidate(ctx, rosterCachePattern)
	return &student, nil
}

// Delete removes the record permanently. isActive=false is a data flag,
// not a deletion mechanism.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.metrics.RecordWrite("delete", "ok")
	s.cache.Invalidate(ctx, rosterCachePattern)
	return nil
}

// translateWriteError is the reactive arm of the uniqueness guard: a
// unique-index violation surfaces as the same conflict shape the proactive
// check produces, naming whichever field triggered it.
func (s *StudentService) translateWriteError(operation string, err error) error {
	if field, ok := repository.UniqueViolationField(err); ok {
		s.metrics.RecordWrite(operation, "duplicate")
		return duplicateError(field)
	}
	s.metrics.RecordWrite(operation, "error")
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save student")
}

func duplicateError(field string) *appErrors.Error {
	label := "email"
	if field == "studentId" {
		label = "Student ID"
	}
	return appErrors.Duplicate(field, "Duplicate key error: A student with this "+label+" already exists")
}

// recordFailures runs the full rule set, refining the dob message when a
// value was supplied but did not parse.
func recordFailures(student models.Student, rawDOB string, dobErr error) []validation.FieldError {
	failures := validation.ValidateRecord(student)
	if dobErr == nil || strings.TrimSpace(rawDOB) == "" {
		return failures
	}
	for i, f := range failures {
		if f.Field == "dob" {
			failures[i].Message = "Date of birth must be a valid date"
		}
	}
	return failures
}

// requiredFieldsMessage flattens validator.Struct failures into per-field
// readable text.
func requiredFieldsMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid student payload"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		parts = append(parts, strings.ToLower(name[:1])+name[1:]+" is required")
	}
	return strings.Join(parts, "; ")
}
