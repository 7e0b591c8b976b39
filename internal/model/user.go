package model

// User is a login account. Admins belong to the patient_admin group;
// clinicians and patients are linked to a user through their own rows.
type User struct {
	Base
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	IsAdmin      bool   `json:"is_admin" db:"is_admin"`
	IsActive     bool   `json:"is_active" db:"is_active"`
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8"`
	IsAdmin  bool   `json:"is_admin"`
}
