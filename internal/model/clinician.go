package model

type Clinician struct {
	Base
	SoftDelete
	UserID       int64  `json:"user_id" db:"user_id"`
	DepartmentID int64  `json:"department_id" db:"department_id"`
	Name         string `json:"name" db:"name"`
}

type CreateClinicianRequest struct {
	UserID       int64  `json:"user_id" binding:"required"`
	DepartmentID int64  `json:"department_id" binding:"required"`
	Name         string `json:"name" binding:"required,max=255"`
}

type UpdateClinicianRequest struct {
	DepartmentID *int64  `json:"department_id"`
	Name         *string `json:"name" binding:"omitempty,min=1,max=255"`
}

type ClinicianFilter struct {
	DepartmentID *int64
	Scope        Scope
	Page         Page
}
