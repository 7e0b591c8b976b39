package event

import "context"

type EventType string

const (
	DepartmentCreated    EventType = "department.created"
	DepartmentUpdated    EventType = "department.updated"
	ClinicianCreated     EventType = "clinician.created"
	ClinicianUpdated     EventType = "clinician.updated"
	ClinicianDeleted     EventType = "clinician.deleted"
	PatientCreated       EventType = "patient.created"
	PatientUpdated       EventType = "patient.updated"
	PatientDeleted       EventType = "patient.deleted"
	RelationshipCreated  EventType = "relationship.created"
	RelationshipUpdated  EventType = "relationship.updated"
	RelationshipEnded    EventType = "relationship.ended"
	RelationshipDeleted  EventType = "relationship.deleted"
	ProcedureTypeCreated EventType = "procedure_type.created"
	ProcedureTypeUpdated EventType = "procedure_type.updated"
	ProcedureCreated     EventType = "procedure.created"
	ProcedureUpdated     EventType = "procedure.updated"
	ProcedureDeleted     EventType = "procedure.deleted"
	UserCreated          EventType = "user.created"
)

// Emitter announces committed changes. Emit never fails the caller.
type Emitter interface {
	Emit(ctx context.Context, eventType EventType, entityID int64, payload interface{})
}

// Nop discards every event.
type Nop struct{}

func (Nop) Emit(context.Context, EventType, int64, interface{}) {}
