package report

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-scheduling/internal/handler"
	"github.com/jwalitptl/hospital-scheduling/internal/middleware"
	"github.com/jwalitptl/hospital-scheduling/internal/model"
	"github.com/jwalitptl/hospital-scheduling/internal/service/report"
	apperrors "github.com/jwalitptl/hospital-scheduling/pkg/errors"
	"github.com/jwalitptl/hospital-scheduling/pkg/httputil"
)

type Handler struct {
	service *report.Service
}

func NewHandler(service *report.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleClinician)

	r.GET("/clinician-patient-counts", staff, h.ClinicianPatientCounts)
	r.GET("/departments/:id/clinician-patient-counts", staff, h.DepartmentClinicianPatientCounts)
	r.GET("/scheduling/procedures/scheduled-patients", staff, h.ScheduledPatients)
}

// ClinicianPatientCounts answers ?department=&clinician=.
func (h *Handler) ClinicianPatientCounts(c *gin.Context) {
	p := httputil.ParsePagination(c)
	filter := model.ClinicianPatientCountFilter{Page: handler.Page(p)}
	if !handler.QueryIDs(c, map[string]**int64{
		"department": &filter.DepartmentID,
		"clinician":  &filter.ClinicianID,
	}) {
		return
	}

	rows, total, err := h.service.ClinicianPatientCounts(c.Request.Context(), filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithList(c, rows, total, p)
}

type departmentCounts struct {
	Department model.DepartmentSummary `json:"department"`
	httputil.ListPage
}

// DepartmentClinicianPatientCounts answers ?clinician_id= (or ?clinician=).
func (h *Handler) DepartmentClinicianPatientCounts(c *gin.Context) {
	id, ok := handler.ID(c)
	if !ok {
		return
	}
	p := httputil.ParsePagination(c)
	filter := model.ClinicianPatientCountFilter{Page: handler.Page(p)}
	// clinician_id wins when both spellings are given.
	var clinicianID *int64
	if !handler.QueryIDs(c, map[string]**int64{
		"clinician":    &filter.ClinicianID,
		"clinician_id": &clinicianID,
	}) {
		return
	}
	if clinicianID != nil {
		filter.ClinicianID = clinicianID
	}

	res, err := h.service.DepartmentClinicianPatientCounts(c.Request.Context(), id, filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, departmentCounts{
		Department: res.Department,
		ListPage: httputil.ListPage{
			Count:   res.Count,
			Limit:   p.Limit,
			Offset:  p.Offset,
			Results: res.Results,
		},
	})
}

func (h *Handler) ScheduledPatients(c *gin.Context) {
	p := httputil.ParsePagination(c)
	filter := model.ScheduledPatientsFilter{Page: handler.Page(p)}

	var typeID *int64
	if !handler.QueryIDs(c, map[string]**int64{
		"procedure_type_id": &typeID,
		"department_id":     &filter.DepartmentID,
		"clinician_id":      &filter.ClinicianID,
	}) {
		return
	}
	if typeID == nil {
		httputil.RespondWithError(c, apperrors.FieldError("procedure_type_id", "This field is required."))
		return
	}
	filter.ProcedureTypeID = *typeID

	var err error
	if filter.DateFrom, err = httputil.QueryDate(c, "date_from"); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if filter.DateTo, err = httputil.QueryDate(c, "date_to"); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	rows, total, err := h.service.ScheduledPatients(c.Request.Context(), filter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithList(c, rows, total, p)
}
