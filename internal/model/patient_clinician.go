package model

import "time"

// PatientClinician links a patient to a clinician over an interval.
// A link with no RelationshipEnd is active.
type PatientClinician struct {
	Base
	SoftDelete
	PatientID         int64      `json:"patient_id" db:"patient_id"`
	ClinicianID       int64      `json:"clinician_id" db:"clinician_id"`
	IsPrimary         bool       `json:"is_primary" db:"is_primary"`
	RelationshipStart time.Time  `json:"relationship_start" db:"relationship_start"`
	RelationshipEnd   *time.Time `json:"relationship_end" db:"relationship_end"`
	Notes             string     `json:"notes" db:"notes"`
}

func (pc *PatientClinician) IsActive() bool {
	return pc.RelationshipEnd == nil && !pc.IsDeleted()
}

type CreatePatientClinicianRequest struct {
	PatientID         int64      `json:"patient_id" binding:"required"`
	ClinicianID       int64      `json:"clinician_id" binding:"required"`
	IsPrimary         bool       `json:"is_primary"`
	RelationshipStart *time.Time `json:"relationship_start" binding:"required"`
	RelationshipEnd   *time.Time `json:"relationship_end"`
	Notes             string     `json:"notes"`
}

type UpdatePatientClinicianRequest struct {
	IsPrimary       *bool      `json:"is_primary"`
	RelationshipEnd *time.Time `json:"relationship_end"`
	Notes           *string    `json:"notes"`
}

type EndRelationshipRequest struct {
	RelationshipEnd *time.Time `json:"relationship_end"`
}

type PatientClinicianFilter struct {
	PatientID   *int64
	ClinicianID *int64
	ActiveOnly  bool
	Scope       Scope
	Page        Page
}
