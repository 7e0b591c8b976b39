package department

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-scheduling/internal/handler"
	"github.com/jwalitptl/hospital-scheduling/internal/middleware"
	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/service/department"
	"github.com/jwalitptl/hospital-scheduling/pkg/httputil"
)

type Handler struct {
	service *department.Service
}

func NewHandler(service *department.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	admin := middleware.RequireRole(model.RoleAdmin)
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleClinician)

	departments := r.Group("/departments")
	{
		departments.GET("", staff, h.ListDepartments)
		departments.GET("/:id", staff, h.GetDepartment)
		departments.POST("", admin, h.CreateDepartment)
		departments.PUT("/:id", admin, h.ReplaceDepartment)
		departments.PATCH("/:id", admin, h.UpdateDepartment)
	}
}

func (h *Handler) CreateDepartment(c *gin.Context) {
	var req model.CreateDepartmentRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	dept, err := h.service.CreateDepartment(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, dept)
}

func (h *Handler) GetDepartment(c *gin.Context) {
	id, ok := handler.ID(c)
	if !ok {
		return
	}
	dept, err := h.service.GetDepartment(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, dept)
}

// ReplaceDepartment handles PUT: the full create payload is required.
func (h *Handler) ReplaceDepartment(c *gin.Context) {
	id, ok := handler.ID(c)
	if !ok {
		return
	}
	var req model.CreateDepartmentRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	h.update(c, id, &model.UpdateDepartmentRequest{Name: &req.Name, Description: req.Description, IsActive: &active})
}

func (h *Handler) UpdateDepartment(c *gin.Context) {
	id, ok := handler.ID(c)
	if !ok {
		return
	}
	var req model.UpdateDepartmentRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	h.update(c, id, &req)
}

func (h *Handler) update(c *gin.Context, id int64, req *model.UpdateDepartmentRequest) {
	dept, err := h.service.UpdateDepartment(c.Request.Context(), id, req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, dept)
}

func (h *Handler) ListDepartments(c *gin.Context) {
	p := httputil.ParsePagination(c)
	filter := model.DepartmentFilter{
		ActiveOnly: httputil.QueryBool(c, "active"),
		Page:       handler.Page(p),
	}
	departments, total, err := h.service.ListDepartments(c.Request.Context(), filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithList(c, departments, total, p)
}
