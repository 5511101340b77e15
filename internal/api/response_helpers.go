// internal/api/response_helpers.go
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/junglecut/storyarc/internal/errors"
)

// APIResponse is the envelope every JSON endpoint returns.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Message   string      `json:"message,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
}

// APIError carries a machine-readable code alongside the message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ResponseHelper standardizes response construction across handlers.
type ResponseHelper struct{}

func NewResponseHelper() *ResponseHelper {
	return &ResponseHelper{}
}

// Success writes a 200 envelope.
func (rh *ResponseHelper) Success(c *gin.Context, data interface{}, message ...string) {
	response := &APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
		RequestID: rh.getRequestID(c),
	}

	if len(message) > 0 {
		response.Message = message[0]
	}

	c.JSON(http.StatusOK, response)
}

// Created writes a 201 envelope.
func (rh *ResponseHelper) Created(c *gin.Context, data interface{}, message ...string) {
	response := &APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
		RequestID: rh.getRequestID(c),
	}

	if len(message) > 0 {
		response.Message = message[0]
	} else {
		response.Message = "resource created"
	}

	c.JSON(http.StatusCreated, response)
}

// Accepted writes a 202 envelope, used by the async analysis endpoints.
func (rh *ResponseHelper) Accepted(c *gin.Context, data interface{}, message ...string) {
	response := &APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
		RequestID: rh.getRequestID(c),
	}

	if len(message) > 0 {
		response.Message = message[0]
	}

	c.JSON(http.StatusAccepted, response)
}

// Error writes a failure envelope with the given status and code.
func (rh *ResponseHelper) Error(c *gin.Context, statusCode int, errorCode, message string, details ...string) {
	apiError := &APIError{
		Code:    errorCode,
		Message: message,
	}
	if len(details) > 0 {
		apiError.Details = details[0]
	}

	response := &APIResponse{
		Success:   false,
		Error:     apiError,
		Timestamp: time.Now(),
		RequestID: rh.getRequestID(c),
	}

	c.JSON(statusCode, response)
}

// BadRequest writes a 400 envelope.
func (rh *ResponseHelper) BadRequest(c *gin.Context, message string, details ...string) {
	rh.Error(c, http.StatusBadRequest, ErrCodeBadRequest, message, details...)
}

// NotFound writes a 404 envelope.
func (rh *ResponseHelper) NotFound(c *gin.Context, message string, details ...string) {
	rh.Error(c, http.StatusNotFound, ErrCodeNotFound, message, details...)
}

// InternalError writes a 500 envelope.
func (rh *ResponseHelper) InternalError(c *gin.Context, message string, details ...string) {
	rh.Error(c, http.StatusInternalServerError, ErrCodeInternal, message, details...)
}

// UpstreamError writes a 502 envelope for AI provider failures.
func (rh *ResponseHelper) UpstreamError(c *gin.Context, message string, details ...string) {
	rh.Error(c, http.StatusBadGateway, ErrCodeUpstream, message, details...)
}

// FromError maps an application error to the right HTTP failure envelope.
func (rh *ResponseHelper) FromError(c *gin.Context, err error) {
	switch {
	case errors.IsValidationError(err):
		rh.BadRequest(c, err.Error())
	case errors.IsNotFoundError(err):
		rh.NotFound(c, err.Error())
	case errors.IsUpstreamError(err):
		rh.UpstreamError(c, err.Error())
	default:
		rh.InternalError(c, err.Error())
	}
}

func (rh *ResponseHelper) getRequestID(c *gin.Context) string {
	return c.GetString("request_id")
}
