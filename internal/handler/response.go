package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"dealdesk/internal/domain"
	"dealdesk/internal/parser"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var (
		rateErr    *parser.RateLimitError
		modelErr   *domain.ModelCallError
		parseErr   *domain.ResponseParseError
		convErr    *domain.ConversionError
		extractErr *domain.ContentExtractionError
	)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, xlsx, docx, jpg, png, txt"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrNoUsableContent):
		return http.StatusUnprocessableEntity, "NO_USABLE_CONTENT", "no usable content could be extracted from the file"
	case errors.As(err, &rateErr):
		return http.StatusTooManyRequests, "MODEL_RATE_LIMITED", "document model is rate limiting requests; retry later"
	case errors.As(err, &modelErr):
		if modelErr.Timeout {
			return http.StatusGatewayTimeout, "MODEL_TIMEOUT", "document model call timed out"
		}
		return http.StatusBadGateway, "MODEL_CALL_FAILED", "document model call failed"
	case errors.As(err, &parseErr):
		return http.StatusBadGateway, "MODEL_RESPONSE_UNPARSEABLE", "document model returned an unparseable response"
	case errors.As(err, &convErr):
		return http.StatusUnprocessableEntity, "CONVERSION_FAILED", "could not convert document pages to images"
	case errors.As(err, &extractErr):
		return http.StatusUnprocessableEntity, "CONTENT_EXTRACTION_FAILED", "could not extract content from the file"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
