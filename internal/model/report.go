package model

import "time"

type ClinicianPatientCountFilter struct {
	DepartmentID *int64
	ClinicianID  *int64
	Page         Page
}

type ClinicianPatientCount struct {
	Clinician    Ref   `json:"clinician" db:"clinician"`
	DepartmentID int64 `json:"department_id" db:"department_id"`
	PatientCount int   `json:"patient_count" db:"patient_count"`
}

type DepartmentSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ScheduledPatientsFilter struct {
	ProcedureTypeID int64
	// DateFrom and DateTo bound the calendar date of scheduled_at, inclusive.
	DateFrom     *time.Time
	DateTo       *time.Time
	DepartmentID *int64
	ClinicianID  *int64
	Page         Page
}

type ScheduledProcedure struct {
	ID              int64           `json:"id" db:"id"`
	Status          ProcedureStatus `json:"status" db:"status"`
	ScheduledAt     time.Time       `json:"scheduled_at" db:"scheduled_at"`
	DurationMinutes *int            `json:"duration_minutes" db:"duration_minutes"`
}

type PatientSummary struct {
	ID     int64  `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Gender Gender `json:"gender" db:"gender"`
}

type ScheduledPatient struct {
	Procedure ScheduledProcedure `json:"procedure" db:"procedure"`
	Patient   PatientSummary     `json:"patient" db:"patient"`
	Clinician Ref                `json:"clinician" db:"clinician"`
}
