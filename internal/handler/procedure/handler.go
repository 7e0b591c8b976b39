package procedure

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-scheduling/internal/handler"
	"github.com/jwalitptl/hospital-scheduling/internal/middleware"
	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/service/procedure"
	apperrors "github.com/jwalitptl/hospital-scheduling/pkg/errors"
	"github.com/jwalitptl/hospital-scheduling/pkg/httputil"
)

type Handler struct {
	service *procedure.Service
}

func NewHandler(service *procedure.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	procedures := r.Group("/procedures", middleware.RequireRole(model.RoleAdmin, model.RoleClinician))
	{
		procedures.POST("", h.CreateProcedure)
		procedures.GET("", h.ListProcedures)
		procedures.GET("/:id", h.GetProcedure)
		procedures.PATCH("/:id", h.UpdateProcedure)
		procedures.DELETE("/:id", h.DeleteProcedure)
	}
}

func (h *Handler) CreateProcedure(c *gin.Context) {
	var req model.CreateProcedureRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	p, err := h.service.CreateProcedure(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, p)
}

func (h *Handler) GetProcedure(c *gin.Context) {
	id, ok := handler.ID(c)
	if !ok {
		return
	}
	p, err := h.service.GetProcedure(c.Request.Context(), id, handler.Scope(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, p)
}

func (h *Handler) UpdateProcedure(c *gin.Context) {
	id, ok := handler.ID(c)
	if !ok {
		return
	}
	var req model.UpdateProcedureRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	p, err := h.service.UpdateProcedure(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, p)
}

func (h *Handler) DeleteProcedure(c *gin.Context) {
	id, ok := handler.ID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteProcedure(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListProcedures(c *gin.Context) {
	p := httputil.ParsePagination(c)
	filter := model.ProcedureFilter{Scope: handler.Scope(c), Page: handler.Page(p)}
	if !handler.QueryIDs(c, map[string]**int64{
		"patient_id":        &filter.PatientID,
		"clinician_id":      &filter.ClinicianID,
		"procedure_type_id": &filter.ProcedureTypeID,
	}) {
		return
	}
	if raw := c.Query("status"); raw != "" {
		status, ok := model.ParseProcedureStatus(raw)
		if !ok {
			httputil.RespondWithError(c, apperrors.FieldError("status", fmt.Sprintf("%q is not a valid choice.", raw)))
			return
		}
		filter.Status = status
	}

	procedures, total, err := h.service.ListProcedures(c.Request.Context(), filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithList(c, procedures, total, p)
}
