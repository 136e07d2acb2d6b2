package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/exceptions"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// ErrorHandler renders errors attached with c.Error as JSON and turns panics into 500s.
// Internal errors are logged and never echoed to the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[ErrorHandler] panic on %s %s: %v", c.Request.Method, c.Request.URL.Path, rec)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, body := Render(err)
		if status >= http.StatusInternalServerError {
			log.Printf("[ErrorHandler] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}
		c.JSON(status, body)
	}
}

// Render maps err to its status code and response body
func Render(err error) (int, ErrorResponse) {
	status := exceptions.Status(err)
	var ve *exceptions.ValidationError
	switch {
	case errors.As(err, &ve):
		return status, ErrorResponse{Error: "validation failed", Fields: ve.FieldMap()}
	case status >= http.StatusInternalServerError:
		return status, ErrorResponse{Error: "internal server error"}
	default:
		return status, ErrorResponse{Error: err.Error()}
	}
}
