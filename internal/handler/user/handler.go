package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-scheduling/internal/handler"
	"github.com/jwalitptl/hospital-scheduling/internal/middleware"
	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/service/user"
	"github.com/jwalitptl/hospital-scheduling/pkg/httputil"
)

type Handler struct {
	service user.UserService
}

func NewHandler(service user.UserService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users", middleware.RequireRole(model.RoleAdmin))
	{
		users.POST("", h.CreateUser)
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)
	}
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	u, err := h.service.CreateUser(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, u)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := handler.ID(c)
	if !ok {
		return
	}
	u, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, u)
}

func (h *Handler) ListUsers(c *gin.Context) {
	p := httputil.ParsePagination(c)
	users, total, err := h.service.ListUsers(c.Request.Context(), handler.Page(p))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithList(c, users, total, p)
}
