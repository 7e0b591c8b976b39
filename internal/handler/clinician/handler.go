package clinician

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-scheduling/internal/handler"
	"github.com/jwalitptl/hospital-scheduling/internal/middleware"
	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/service/clinician"
	"github.com/jwalitptl/hospital-scheduling/pkg/httputil"
)

type Handler struct {
	service *clinician.Service
}

func NewHandler(service *clinician.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	admin := middleware.RequireRole(model.RoleAdmin)
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleClinician)

	clinicians := r.Group("/clinicians")
	{
		clinicians.GET("", staff, h.ListClinicians)
		clinicians.GET("/:id", staff, h.GetClinician)
		clinicians.POST("", admin, h.CreateClinician)
		clinicians.PUT("/:id", admin, h.ReplaceClinician)
		clinicians.PATCH("/:id", admin, h.UpdateClinician)
		clinicians.DELETE("/:id", admin, h.DeleteClinician)
	}
}

func (h *Handler) CreateClinician(c *gin.Context) {
	var req model.CreateClinicianRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	cl, err := h.service.CreateClinician(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, cl)
}

func (h *Handler) GetClinician(c *gin.Context) {
	id, ok := handler.ID(c)
	if !ok {
		return
	}
	cl, err := h.service.GetClinician(c.Request.Context(), id, handler.Scope(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, cl)
}

// ReplaceClinician handles PUT. The linked user cannot be changed.
func (h *Handler) ReplaceClinician(c *gin.Context) {
	id, ok := handler.ID(c)
	if !ok {
		return
	}
	var req model.CreateClinicianRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	h.update(c, id, &model.UpdateClinicianRequest{DepartmentID: &req.DepartmentID, Name: &req.Name})
}

func (h *Handler) UpdateClinician(c *gin.Context) {
	id, ok := handler.ID(c)
	if !ok {
		return
	}
	var req model.UpdateClinicianRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	h.update(c, id, &req)
}

func (h *Handler) update(c *gin.Context, id int64, req *model.UpdateClinicianRequest) {
	cl, err := h.service.UpdateClinician(c.Request.Context(), id, req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, cl)
}

func (h *Handler) DeleteClinician(c *gin.Context) {
	id, ok := handler.ID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteClinician(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListClinicians(c *gin.Context) {
	p := httputil.ParsePagination(c)
	filter := model.ClinicianFilter{Scope: handler.Scope(c), Page: handler.Page(p)}
	if !handler.QueryIDs(c, map[string]**int64{"department_id": &filter.DepartmentID}) {
		return
	}

	clinicians, total, err := h.service.ListClinicians(c.Request.Context(), filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithList(c, clinicians, total, p)
}
