package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/mwidjaja/student-records-api/pkg/errors"
)

// ErrorBody is the wire shape for failures: a human-readable message plus,
// for uniqueness conflicts only, the offending field name.
type ErrorBody struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// MessageBody carries confirmation messages such as delete acknowledgements.
type MessageBody struct {
	Message string `json:"message"`
}

// JSON sends a success response with the payload written as-is.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Message sends a 200 response with a confirmation message.
func Message(c *gin.Context, message string) {
	JSON(c, http.StatusOK, MessageBody{Message: message})
}

// Error sends an error response converting the error to the common
// structure. Internal details never reach the client: anything that is not
// a typed domain error collapses to the generic internal message.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, ErrorBody{Message: appErr.Message, Field: appErr.Field})
}
