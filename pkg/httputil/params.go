package httputil

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-scheduling/pkg/errors"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100

	DateLayout = "2006-01-02"
)

// Pagination holds limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination reads ?limit= and ?offset=. Unparseable or negative values
// fall back to defaults and limit is capped at MaxLimit.
func ParsePagination(c *gin.Context) Pagination {
	p := Pagination{Limit: DefaultLimit}

	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.Limit = v
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			p.Offset = v
		}
	}
	return p
}

// ParseID reads an integer path parameter.
func ParseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NotFound("resource", err)
	}
	return id, nil
}

// QueryInt64 reads an optional integer query parameter.
func QueryInt64(c *gin.Context, name string) (*int64, error) {
	raw, ok := c.GetQuery(name)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, errors.FieldError(name, "Must be an integer.")
	}
	return &v, nil
}

// QueryDate reads an optional YYYY-MM-DD query parameter.
func QueryDate(c *gin.Context, name string) (*time.Time, error) {
	raw, ok := c.GetQuery(name)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return nil, errors.FieldError(name, "Enter a valid date.")
	}
	return &d, nil
}

// QueryBool reads an optional boolean query parameter.
func QueryBool(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.Query(name))
	return err == nil && v
}
