package model

import (
	"strings"
	"time"
)

type Gender string

const (
	GenderMale    Gender = "MALE"
	GenderFemale  Gender = "FEMALE"
	GenderOther   Gender = "OTHER"
	GenderUnknown Gender = "UNKNOWN"
)

var Genders = []string{string(GenderMale), string(GenderFemale), string(GenderOther), string(GenderUnknown)}

// ParseGender normalizes s; an empty value maps to UNKNOWN.
func ParseGender(s string) (Gender, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return GenderUnknown, true
	}
	for _, g := range Genders {
		if s == g {
			return Gender(g), true
		}
	}
	return "", false
}

type Patient struct {
	Base
	SoftDelete
	UserID      *int64  `json:"user_id" db:"user_id"`
	Name        string  `json:"name" db:"name"`
	Gender      Gender  `json:"gender" db:"gender"`
	Email       *string `json:"email" db:"email"`
	DateOfBirth Date    `json:"date_of_birth" db:"date_of_birth"`
}

type CreatePatientRequest struct {
	UserID      *int64  `json:"user_id"`
	Name        string  `json:"name" binding:"required,max=255"`
	Gender      string  `json:"gender" binding:"omitempty,gender"`
	Email       *string `json:"email" binding:"omitempty,email,max=254"`
	DateOfBirth *Date   `json:"date_of_birth" binding:"required"`
}

type UpdatePatientRequest struct {
	UserID      *int64  `json:"user_id"`
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Gender      *string `json:"gender" binding:"omitempty,gender"`
	// Email "" clears the address.
	Email       *string `json:"email" binding:"omitempty,max=254,eq=|email"`
	DateOfBirth *Date   `json:"date_of_birth"`
	// ClearUserID makes a nil UserID unlink the user (full replace).
	ClearUserID bool    `json:"-"`
}

type PatientFilter struct {
	// Search matches name or email, case-insensitively.
	Search string
	// LinkedClinicianID restricts to patients with an active link to this clinician.
	LinkedClinicianID *int64
	Scope             Scope
	Page              Page
}

// ValidateDateOfBirth rejects birth dates after today.
func ValidateDateOfBirth(d Date, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !d.After(today)
}
