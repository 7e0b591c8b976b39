package model

import (
	"strings"
	"time"
)

type ProcedureStatus string

const (
	ProcedureStatusPlanned   ProcedureStatus = "PLANNED"
	ProcedureStatusScheduled ProcedureStatus = "SCHEDULED"
	ProcedureStatusCompleted ProcedureStatus = "COMPLETED"
	ProcedureStatusCancelled ProcedureStatus = "CANCELLED"
	ProcedureStatusNoShow    ProcedureStatus = "NO_SHOW"
	ProcedureStatusVoid      ProcedureStatus = "VOID"
)

var ProcedureStatuses = []string{
	string(ProcedureStatusPlanned),
	string(ProcedureStatusScheduled),
	string(ProcedureStatusCompleted),
	string(ProcedureStatusCancelled),
	string(ProcedureStatusNoShow),
	string(ProcedureStatusVoid),
}

// ParseProcedureStatus accepts any casing ("no_show" -> NO_SHOW).
func ParseProcedureStatus(s string) (ProcedureStatus, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, st := range ProcedureStatuses {
		if s == st {
			return ProcedureStatus(st), true
		}
	}
	return "", false
}

// IsOpen reports whether the procedure still has to happen.
func (s ProcedureStatus) IsOpen() bool {
	return s == ProcedureStatusPlanned || s == ProcedureStatusScheduled
}

type Procedure struct {
	Base
	SoftDelete
	ProcedureTypeID int64           `json:"procedure_type_id" db:"procedure_type_id"`
	PatientID       int64           `json:"patient_id" db:"patient_id"`
	ClinicianID     int64           `json:"clinician_id" db:"clinician_id"`
	Name            string          `json:"name" db:"name"`
	ScheduledAt     time.Time       `json:"scheduled_at" db:"scheduled_at"`
	DurationMinutes *int            `json:"duration_minutes" db:"duration_minutes"`
	Status          ProcedureStatus `json:"status" db:"status"`
	Notes           string          `json:"notes" db:"notes"`

	ProcedureType Ref `json:"procedure_type" db:"procedure_type"`
	Patient       Ref `json:"patient" db:"patient"`
	Clinician     Ref `json:"clinician" db:"clinician"`
}

// ResolveProcedureDefaults fills what the caller left out from the procedure type:
// the type's name, its default duration, and PLANNED status.
func ResolveProcedureDefaults(p *Procedure, pt *ProcedureType) {
	if strings.TrimSpace(p.Name) == "" {
		p.Name = pt.Name
	}
	if p.DurationMinutes == nil && pt.DefaultDurationMinutes != nil {
		d := *pt.DefaultDurationMinutes
		p.DurationMinutes = &d
	}
	if p.Status == "" {
		p.Status = ProcedureStatusPlanned
	}
}

type CreateProcedureRequest struct {
	ProcedureTypeID int64      `json:"procedure_type_id" binding:"required"`
	PatientID       int64      `json:"patient_id" binding:"required"`
	ClinicianID     int64      `json:"clinician_id" binding:"required"`
	Name            string     `json:"name" binding:"max=255"`
	ScheduledAt     *time.Time `json:"scheduled_at" binding:"required"`
	DurationMinutes *int       `json:"duration_minutes" binding:"omitempty,gt=0"`
	Status          string     `json:"status" binding:"omitempty,procedure_status"`
	Notes           string     `json:"notes"`
}

type UpdateProcedureRequest struct {
	Name            *string    `json:"name" binding:"omitempty,max=255"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
	DurationMinutes *int       `json:"duration_minutes" binding:"omitempty,gt=0"`
	Status          *string    `json:"status" binding:"omitempty,procedure_status"`
	Notes           *string    `json:"notes"`
}

type ProcedureFilter struct {
	PatientID       *int64
	ClinicianID     *int64
	ProcedureTypeID *int64
	Status          ProcedureStatus
	Scope           Scope
	Page            Page
}
