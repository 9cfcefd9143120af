package types

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/musicjoeyoung/MCP-ElevenLabs/pkg/errors"
)

// Handler utility functions to reduce duplication across handlers

// BindJSONOrError attempts to bind JSON request body to target struct
// Returns false and sends error response if binding fails
func BindJSONOrError(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Status:  StatusError,
			Message: "Invalid request body",
			Error:   string(apperrors.ErrCodeInvalidInput),
			Details: err.Error(),
		})
		return false
	}
	return true
}

// ParseOptionalIntQuery reads an integer query parameter. A missing parameter
// yields nil. Returns false and sends error response if parsing fails.
func ParseOptionalIntQuery(c *gin.Context, name string) (*int, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		SendError(c, apperrors.InvalidInput(name, "must be an integer"))
		return nil, false
	}
	return &value, true
}

// SendError sends the response matching err. AppErrors keep their code and
// details; anything else is reported as an internal error.
func SendError(c *gin.Context, err error) {
	if appErr, ok := apperrors.As(err); ok {
		if appErr.HTTPCode >= http.StatusInternalServerError {
			log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}
		c.JSON(appErr.HTTPCode, ErrorResponse{
			Status:  StatusError,
			Message: appErr.Message,
			Error:   string(appErr.Code),
			Details: appErr.Details,
		})
		return
	}

	log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	SendInternalError(c, "Internal server error")
}

// SendInternalError sends a standardized internal server error response
func SendInternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Status:  StatusError,
		Message: message,
		Error:   string(apperrors.ErrCodeInternal),
	})
}
