package model

type ProcedureType struct {
	Base
	Name                   string `json:"name" db:"name"`
	Code                   string `json:"code" db:"code"`
	DefaultDurationMinutes *int   `json:"default_duration_minutes" db:"default_duration_minutes"`
	DepartmentID           *int64 `json:"department_id" db:"department_id"`
	IsActive               bool   `json:"is_active" db:"is_active"`
}

type CreateProcedureTypeRequest struct {
	Name                   string `json:"name" binding:"required,max=255"`
	Code                   string `json:"code" binding:"required,max=50"`
	DefaultDurationMinutes *int   `json:"default_duration_minutes" binding:"omitempty,gt=0"`
	DepartmentID           *int64 `json:"department_id"`
	IsActive               *bool  `json:"is_active"`
}

type UpdateProcedureTypeRequest struct {
	Name                   *string `json:"name" binding:"omitempty,min=1,max=255"`
	Code                   *string `json:"code" binding:"omitempty,min=1,max=50"`
	DefaultDurationMinutes *int    `json:"default_duration_minutes" binding:"omitempty,gt=0"`
	DepartmentID           *int64  `json:"department_id"`
	IsActive               *bool   `json:"is_active"`
}

type ProcedureTypeFilter struct {
	DepartmentID *int64
	ActiveOnly   bool
	Page         Page
}
