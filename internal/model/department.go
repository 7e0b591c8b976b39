package model

type Department struct {
	Base
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description" db:"description"`
	IsActive    bool    `json:"is_active" db:"is_active"`
}

type CreateDepartmentRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type UpdateDepartmentRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type DepartmentFilter struct {
	ActiveOnly bool
	Page       Page
}
