package patient

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-scheduling/internal/handler"
	"github.com/jwalitptl/hospital-scheduling/internal/middleware"
	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/service/patient"
	"github.com/jwalitptl/hospital-scheduling/pkg/httputil"
)

type Handler struct {
	service patient.PatientService
}

func NewHandler(service patient.PatientService) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes gives clinicians read-only access; the service narrows
// what they can see to their linked patients.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	admin := middleware.RequireRole(model.RoleAdmin)
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleClinician)

	patients := r.Group("/patients")
	{
		patients.GET("", staff, h.ListPatients)
		patients.GET("/:id", staff, h.GetPatient)
		patients.POST("", admin, h.CreatePatient)
		patients.PUT("/:id", admin, h.ReplacePatient)
		patients.PATCH("/:id", admin, h.UpdatePatient)
		patients.DELETE("/:id", admin, h.DeletePatient)
	}
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	p, err := h.service.CreatePatient(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, p)
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, ok := handler.ID(c)
	if !ok {
		return
	}
	p, err := h.service.GetPatient(c.Request.Context(), id, handler.Scope(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, p)
}

// ReplacePatient handles PUT; an omitted email or user_id is cleared.
func (h *Handler) ReplacePatient(c *gin.Context) {
	id, ok := handler.ID(c)
	if !ok {
		return
	}
	var req model.CreatePatientRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	email := ""
	if req.Email != nil {
		email = *req.Email
	}
	h.update(c, id, &model.UpdatePatientRequest{
		UserID:      req.UserID,
		Name:        &req.Name,
		Gender:      &req.Gender,
		Email:       &email,
		DateOfBirth: req.DateOfBirth,
		ClearUserID: true,
	})
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, ok := handler.ID(c)
	if !ok {
		return
	}
	var req model.UpdatePatientRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	h.update(c, id, &req)
}

func (h *Handler) update(c *gin.Context, id int64, req *model.UpdatePatientRequest) {
	p, err := h.service.UpdatePatient(c.Request.Context(), id, req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, p)
}

func (h *Handler) DeletePatient(c *gin.Context) {
	id, ok := handler.ID(c)
	if !ok {
		return
	}
	if err := h.service.DeletePatient(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListPatients(c *gin.Context) {
	p := httputil.ParsePagination(c)
	filter := model.PatientFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Scope:  handler.Scope(c),
		Page:   handler.Page(p),
	}
	patients, total, err := h.service.ListPatients(c.Request.Context(), filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithList(c, patients, total, p)
}
