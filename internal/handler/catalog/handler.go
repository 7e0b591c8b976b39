package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-scheduling/internal/handler"
	"github.com/jwalitptl/hospital-scheduling/internal/middleware"
	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/service/catalog"
	"github.com/jwalitptl/hospital-scheduling/pkg/httputil"
)

type Handler struct {
	service *catalog.Service
}

func NewHandler(service *catalog.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	admin := middleware.RequireRole(model.RoleAdmin)
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleClinician)

	types := r.Group("/procedure-types")
	{
		types.GET("", staff, h.ListProcedureTypes)
		types.GET("/:id", staff, h.GetProcedureType)
		types.POST("", admin, h.CreateProcedureType)
		types.PUT("/:id", admin, h.ReplaceProcedureType)
		types.PATCH("/:id", admin, h.UpdateProcedureType)
	}
}

func (h *Handler) CreateProcedureType(c *gin.Context) {
	var req model.CreateProcedureTypeRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	pt, err := h.service.CreateProcedureType(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, pt)
}

func (h *Handler) GetProcedureType(c *gin.Context) {
	id, ok := handler.ID(c)
	if !ok {
		return
	}
	pt, err := h.service.GetProcedureType(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, pt)
}

func (h *Handler) ReplaceProcedureType(c *gin.Context) {
	id, ok := handler.ID(c)
	if !ok {
		return
	}
	var req model.CreateProcedureTypeRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	h.update(c, id, &model.UpdateProcedureTypeRequest{
		Name:                   &req.Name,
		Code:                   &req.Code,
		DefaultDurationMinutes: req.DefaultDurationMinutes,
		DepartmentID:           req.DepartmentID,
		IsActive:               &active,
	})
}

func (h *Handler) UpdateProcedureType(c *gin.Context) {
	id, ok := handler.ID(c)
	if !ok {
		return
	}
	var req model.UpdateProcedureTypeRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	h.update(c, id, &req)
}

func (h *Handler) update(c *gin.Context, id int64, req *model.UpdateProcedureTypeRequest) {
	pt, err := h.service.UpdateProcedureType(c.Request.Context(), id, req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, pt)
}

func (h *Handler) ListProcedureTypes(c *gin.Context) {
	p := httputil.ParsePagination(c)
	filter := model.ProcedureTypeFilter{
		ActiveOnly: httputil.QueryBool(c, "active"),
		Page:       handler.Page(p),
	}
	if !handler.QueryIDs(c, map[string]**int64{"department_id": &filter.DepartmentID}) {
		return
	}

	types, total, err := h.service.ListProcedureTypes(c.Request.Context(), filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithList(c, types, total, p)
}
