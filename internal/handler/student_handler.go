package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mwidjaja/student-records-api/internal/dto"
	"github.com/mwidjaja/student-records-api/internal/models"
	appErrors "github.com/mwidjaja/student-records-api/pkg/errors"
	"github.com/mwidjaja/student-records-api/pkg/response"
)

// StudentService is the operation surface the handler depends on.
type StudentService interface {
	List(ctx context.Context) ([]models.Student, error)
	Get(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error)
	Update(ctx context.Context, id string, req dto.UpdateStudentRequest) (*models.Student, error)
	Delete(ctx context.Context, id string) error
}

// ExportService renders the roster for download.
type ExportService interface {
	Roster(ctx context.Context, format string) ([]byte, string, error)
}

// StudentHandler exposes the student record endpoints.
type StudentHandler struct {
	students StudentService
	exports  ExportService
}

// NewStudentHandler constructs StudentHandler. exports may be nil when the
// export endpoint is disabled.
func NewStudentHandler(students StudentService, exports ExportService) *StudentHandler {
	return &StudentHandler{students: students, exports: exports}
}

// Register mounts the student routes on the given group.
func (h *StudentHandler) Register(g *gin.RouterGroup) {
	g.GET("/students", h.List)
	if h.exports != nil {
		g.GET("/students/export", h.Export)
	}
	g.GET("/students/:id", h.Get)
	g.POST("/students", h.Create)
	g.PUT("/students/:id", h.Update)
	g.DELETE("/students/:id", h.Delete)
}

// List godoc
// @Summary List all students
// @Tags Students
// @Produce json
// @Success 200 {array} models.Student
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}

// Get godoc
// @Summary Get one student
// @Tags Students
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} models.Student
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body dto.CreateStudentRequest true "Student payload"
// @Success 201 {object} models.Student
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request body"))
		return
	}
	student, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update godoc
// @Summary Update student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param payload body dto.UpdateStudentRequest true "Partial student payload"
// @Success 200 {object} models.Student
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request body"))
		return
	}
	student, err := h.students.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Delete godoc
// @Summary Delete student
// @Tags Students
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.MessageBody
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.students.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Student deleted successfully")
}

// Export godoc
// @Summary Export the roster as CSV or PDF
// @Tags Students
// @Produce text/csv,application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /students/export [get]
func (h *StudentHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	data, contentType, err := h.exports.Roster(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="students.`+format+`"`)
	c.Data(http.StatusOK, contentType, data)
}
