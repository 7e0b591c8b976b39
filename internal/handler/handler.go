// Package handler holds the request helpers shared by the resource handlers.
package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/service"
	"github.com/jwalitptl/hospital-scheduling/pkg/httputil"
	"github.com/jwalitptl/hospital-scheduling/pkg/validator"
)

// BindJSON decodes and validates the body into obj. On failure it has
// already answered 400 and the caller should return.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		httputil.RespondWithError(c, validator.Translate(err))
		return false
	}
	return true
}

// ID reads the :id path parameter, answering 404 when it is not a positive integer.
func ID(c *gin.Context) (int64, bool) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err)
		return 0, false
	}
	return id, true
}

func Page(p httputil.Pagination) model.Page {
	return model.Page{Limit: p.Limit, Offset: p.Offset}
}

// Scope reads ?include_deleted=true, which only admins may use.
func Scope(c *gin.Context) model.Scope {
	return service.ReadScope(c.Request.Context(), httputil.QueryBool(c, "include_deleted"))
}

// QueryIDs reads optional integer query parameters into dst, keyed by name.
// All malformed values are reported together.
func QueryIDs(c *gin.Context, dst map[string]**int64) bool {
	fields := service.Fields{}
	for name, ptr := range dst {
		v, err := httputil.QueryInt64(c, name)
		if err != nil {
			fields.Add(name, "Must be an integer.")
			continue
		}
		*ptr = v
	}
	if err := fields.Err(); err != nil {
		httputil.RespondWithError(c, err)
		return false
	}
	return true
}
