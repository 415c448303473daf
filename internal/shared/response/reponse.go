package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody - {"error": "..."}
type ErrorBody struct {
	Error string `json:"error"`
}

// ValidationBody - {"errors": {"field": "message"}}
type ValidationBody struct {
	Errors interface{} `json:"errors"`
}

// Success responses
func JSON(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Error responses
func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorBody{Error: message})
}

// ValidationErrors renders field-level messages with 400
func ValidationErrors(c *gin.Context, errs interface{}) {
	c.JSON(http.StatusBadRequest, ValidationBody{Errors: errs})
}

// Common error responses
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func InternalServerError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}
