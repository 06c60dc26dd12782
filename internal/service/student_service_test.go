package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mwidjaja/student-records-api/internal/dto"
	"github.com/mwidjaja/student-records-api/internal/models"
	appErrors "github.com/mwidjaja/student-records-api/pkg/errors"
)

type mockStudentRepo struct {
	students  map[string]models.Student
	createErr error
	updateErr error
	listErr   error
	deleted   []string
	nextID    int
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]models.Student)}
}

func (m *mockStudentRepo) List(ctx context.Context) ([]models.Student, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]models.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	for id, s := range m.students {
		if s.Email == email && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	if student.ID == "" {
		m.nextID++
		student.ID = "00000000-0000-0000-0000-00000000000" + string(rune('0'+m.nextID))
	}
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	student.UpdatedAt = time.Now().UTC()
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	delete(m.students, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func newTestService(repo *mockStudentRepo) *StudentService {
	return NewStudentService(repo, nil, nil, nil, zap.NewNop())
}

func validCreateRequest() dto.CreateStudentRequest {
	return dto.CreateStudentRequest{
		StudentID:      "S001",
		FirstName:      "Jo",
		LastName:       "Lee",
		Email:          "jo@x.com",
		DOB:            "2005-01-01",
		Department:     "CS",
		EnrollmentYear: 2023,
	}
}

func TestCreateNormalizesAndDefaults(t *testing.T) {
	repo := newMockStudentRepo()
	svc := newTestService(repo)

	req := validCreateRequest()
	req.StudentID = " S001 "
	req.Email = "  JO@X.COM "

	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "S001", created.StudentID)
	assert.Equal(t, "jo@x.com", created.Email)
	assert.True(t, created.IsActive)
	assert.False(t, created.CreatedAt.IsZero())

	stored, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *stored)
}

func TestCreateDuplicateEmailProactive(t *testing.T) {
	repo := newMockStudentRepo()
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	// Any whitespace/case variant of the same email must conflict.
	second := validCreateRequest()
	second.StudentID = "S002"
	second.Email = " Jo@X.Com "
	_, err = svc.Create(context.Background(), second)
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateKey.Code, appErr.Code)
	assert.Equal(t, "email", appErr.Field)
	assert.Equal(t, 400, appErr.Status)
	assert.Len(t, repo.students, 1)
}

func TestCreateDuplicateStudentIDReactive(t *testing.T) {
	repo := newMockStudentRepo()
	repo.createErr = &pq.Error{Code: "23505", Constraint: "students_student_id_key"}
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), validCreateRequest())
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateKey.Code, appErr.Code)
	assert.Equal(t, "studentId", appErr.Field)
	assert.Contains(t, appErr.Message, "Student ID")
}

func TestCreateRaceLoserGetsEmailConflict(t *testing.T) {
	// The proactive check passed for both writers; the loser hits the
	// unique index and must surface the same conflict shape.
	repo := newMockStudentRepo()
	repo.createErr = &pq.Error{Code: "23505", Constraint: "students_email_key"}
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), validCreateRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "email", appErr.Field)
}

func TestCreateValidationFailures(t *testing.T) {
	repo := newMockStudentRepo()
	svc := newTestService(repo)

	req := validCreateRequest()
	req.EnrollmentYear = 1999
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "Enrollment year")
	assert.Empty(t, repo.students)
}

func TestCreateMissingFieldsNamed(t *testing.T) {
	repo := newMockStudentRepo()
	svc := newTestService(repo)

	req := validCreateRequest()
	req.Email = ""
	req.Department = ""
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "email")
	assert.Contains(t, appErr.Message, "department")
}

func TestCreateBadDOB(t *testing.T) {
	repo := newMockStudentRepo()
	svc := newTestService(repo)

	req := validCreateRequest()
	req.DOB = "not a date"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Message, "valid date")
}

func TestCreateExplicitInactive(t *testing.T) {
	repo := newMockStudentRepo()
	svc := newTestService(repo)

	inactive := false
	req := validCreateRequest()
	req.IsActive = &inactive
	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, created.IsActive)
}

func TestUpdateEmptyPartialLeavesRecordUnchanged(t *testing.T) {
	repo := newMockStudentRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, dto.UpdateStudentRequest{})
	require.NoError(t, err)
	assert.Equal(t, created.StudentID, updated.StudentID)
	assert.Equal(t, created.FirstName, updated.FirstName)
	assert.Equal(t, created.Email, updated.Email)
	assert.Equal(t, created.DOB, updated.DOB)
	assert.Equal(t, created.EnrollmentYear, updated.EnrollmentYear)
	assert.Equal(t, created.IsActive, updated.IsActive)
}

func TestUpdateSingleField(t *testing.T) {
	repo := newMockStudentRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	inactive := false
	updated, err := svc.Update(context.Background(), created.ID, dto.UpdateStudentRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, created.StudentID, updated.StudentID)
	assert.Equal(t, created.Email, updated.Email)
}

func TestUpdateNormalizesEmail(t *testing.T) {
	repo := newMockStudentRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	email := "  NEW@X.COM "
	updated, err := svc.Update(context.Background(), created.ID, dto.UpdateStudentRequest{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", updated.Email)
}

func TestUpdateDuplicateEmailExcludesSelf(t *testing.T) {
	repo := newMockStudentRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	// Re-submitting the record's own email is not a conflict.
	email := "JO@X.COM"
	_, err = svc.Update(context.Background(), created.ID, dto.UpdateStudentRequest{Email: &email})
	require.NoError(t, err)

	other := validCreateRequest()
	other.StudentID = "S002"
	other.Email = "other@x.com"
	second, err := svc.Create(context.Background(), other)
	require.NoError(t, err)

	taken := "jo@x.com"
	_, err = svc.Update(context.Background(), second.ID, dto.UpdateStudentRequest{Email: &taken})
	require.Error(t, err)
	assert.Equal(t, "email", appErrors.FromError(err).Field)
}

func TestUpdateRevalidatesMergedRecord(t *testing.T) {
	repo := newMockStudentRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	short := "J"
	_, err = svc.Update(context.Background(), created.ID, dto.UpdateStudentRequest{FirstName: &short})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUpdateNotFound(t *testing.T) {
	svc := newTestService(newMockStudentRepo())
	_, err := svc.Update(context.Background(), "missing", dto.UpdateStudentRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDeleteThenGetNotFound(t *testing.T) {
	repo := newMockStudentRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.Contains(t, repo.deleted, created.ID)

	_, err = svc.Get(context.Background(), created.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDeleteNotFound(t *testing.T) {
	svc := newTestService(newMockStudentRepo())
	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestListInfrastructureFailure(t *testing.T) {
	repo := newMockStudentRepo()
	repo.listErr = sql.ErrConnDone
	svc := newTestService(repo)

	_, err := svc.List(context.Background())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
	assert.Equal(t, 500, appErr.Status)
}
