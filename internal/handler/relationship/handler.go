package relationship

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-scheduling/internal/handler"
	"github.com/jwalitptl/hospital-scheduling/internal/middleware"
	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/service/relationship"
	"github.com/jwalitptl/hospital-scheduling/pkg/httputil"
)

type Handler struct {
	service *relationship.Service
}

func NewHandler(service *relationship.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	admin := middleware.RequireRole(model.RoleAdmin)
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleClinician)

	links := r.Group("/patient-clinicians")
	{
		links.GET("", staff, h.ListLinks)
		links.GET("/:id", staff, h.GetLink)
		links.POST("", admin, h.CreateLink)
		links.PATCH("/:id", admin, h.UpdateLink)
		links.DELETE("/:id", admin, h.DeleteLink)
		links.POST("/:id/end", admin, h.EndLink)
	}
}

func (h *Handler) CreateLink(c *gin.Context) {
	var req model.CreatePatientClinicianRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	link, err := h.service.CreateLink(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, link)
}

func (h *Handler) GetLink(c *gin.Context) {
	id, ok := handler.ID(c)
	if !ok {
		return
	}
	link, err := h.service.GetLink(c.Request.Context(), id, handler.Scope(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, link)
}

func (h *Handler) UpdateLink(c *gin.Context) {
	id, ok := handler.ID(c)
	if !ok {
		return
	}
	var req model.UpdatePatientClinicianRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	link, err := h.service.UpdateLink(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, link)
}

// EndLink accepts an empty body, which ends the relationship now.
func (h *Handler) EndLink(c *gin.Context) {
	id, ok := handler.ID(c)
	if !ok {
		return
	}
	var req model.EndRelationshipRequest
	if c.Request.ContentLength != 0 && !handler.BindJSON(c, &req) {
		return
	}
	link, err := h.service.EndLink(c.Request.Context(), id, req.RelationshipEnd)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, link)
}

func (h *Handler) DeleteLink(c *gin.Context) {
	id, ok := handler.ID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteLink(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListLinks(c *gin.Context) {
	p := httputil.ParsePagination(c)
	filter := model.PatientClinicianFilter{
		ActiveOnly: httputil.QueryBool(c, "active"),
		Scope:      handler.Scope(c),
		Page:       handler.Page(p),
	}
	if !handler.QueryIDs(c, map[string]**int64{
		"patient_id":   &filter.PatientID,
		"clinician_id": &filter.ClinicianID,
	}) {
		return
	}

	links, total, err := h.service.ListLinks(c.Request.Context(), filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithList(c, links, total, p)
}
