package lifecycle

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EntityRef is the engine's view of a lifecycle-managed row: its current status
// plus the relation fields the cross-entity invariants need. The engine never sees
// full domain models.
type EntityRef struct {
	Type   EntityType
	ID     uuid.UUID
	Status Status

	// Set for appointments that were booked against a tattoo request.
	TattooRequestID *uuid.UUID

	// Set for invoices raised against an appointment.
	AppointmentID *uuid.UUID

	// Set for invoices.
	AmountDue float64
}

// NewAppointment carries the fields needed to create an appointment in PENDING.
type NewAppointment struct {
	CustomerID      uuid.UUID
	ArtistID        *uuid.UUID
	TattooRequestID *uuid.UUID
	DateTime        time.Time
	Duration        int
	Notes           string
}

// NewInvoice carries the fields needed to create an invoice in DRAFT.
type NewInvoice struct {
	InvoiceNumber string
	CustomerID    uuid.UUID
	AppointmentID *uuid.UUID
	AmountDue     float64
	DueDate       time.Time
	Notes         string
}

// AuditEntry describes one accepted mutation. Recorded in the same transaction as
// the write it documents.
type AuditEntry struct {
	Action      string
	EntityType  EntityType
	EntityID    uuid.UUID
	FromStatus  Status
	ToStatus    Status
	ActorUserID *uuid.UUID
	Metadata    map[string]interface{}
}

// AuditRecorder appends an immutable audit row. It never reads, updates or deletes.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// TxStore is the write side of the entity store, only reachable inside Transact.
// Implementations must classify unique-constraint violations as
// ErrDuplicateRelation / ErrDuplicateKey and a failed status precondition as
// ErrConcurrentModification.
type TxStore interface {
	AuditRecorder

	// CompareAndSwapStatus writes next only if the row's status still equals
	// expected.
	CompareAndSwapStatus(ctx context.Context, t EntityType, id uuid.UUID, expected, next Status) error

	InsertAppointment(ctx context.Context, id uuid.UUID, p NewAppointment, status Status) error
	InsertInvoice(ctx context.Context, id uuid.UUID, p NewInvoice, status Status) error
}

// EntityStore is the engine's only collaborator for durable state. The engine
// issues reads up front and funnels every write through Transact so that the
// status write and its audit row commit or roll back together.
type EntityStore interface {
	// Get returns the current ref for an entity or ErrNotFound.
	Get(ctx context.Context, t EntityType, id uuid.UUID) (EntityRef, error)

	// SucceededPaymentTotal sums the amounts of SUCCEEDED payments linked to the
	// invoice.
	SucceededPaymentTotal(ctx context.Context, invoiceID uuid.UUID) (float64, error)

	// HasAppointmentForRequest reports whether the tattoo request already has an
	// appointment.
	HasAppointmentForRequest(ctx context.Context, requestID uuid.UUID) (bool, error)

	// HasInvoiceForAppointment reports whether the appointment already has an
	// invoice.
	HasInvoiceForAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error)

	// Transact runs fn inside one storage transaction.
	Transact(ctx context.Context, fn func(tx TxStore) error) error
}
