package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hospital-scheduling/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Status  string              `json:"status"`
	Message string              `json:"message,omitempty"`
	Data    interface{}         `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// ListPage is the data payload of every list endpoint.
type ListPage struct {
	Count   int         `json:"count"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
	Results interface{} `json:"results"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, NewSuccessResponse(data))
}

// RespondWithList sends a paginated list response
func RespondWithList(c *gin.Context, results interface{}, count int, p Pagination) {
	c.JSON(http.StatusOK, NewSuccessResponse(ListPage{
		Count:   count,
		Limit:   p.Limit,
		Offset:  p.Offset,
		Results: results,
	}))
}

// RespondWithError sends an error response. Errors that are not AppErrors
// are logged and reported as 500 without leaking their text.
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.Internal(err)
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}

	c.AbortWithStatusJSON(status, &Response{
		Status:  "error",
		Message: appErr.Message,
		Errors:  appErr.Fields,
	})
}
