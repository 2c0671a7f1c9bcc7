package lifecycle

import "errors"

// Error kinds returned by the engine. Callers classify with errors.Is and map each
// kind to a user-facing response; the engine never panics on a precondition failure.
var (
	// ErrNotFound means the referenced entity id does not resolve to a row.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidTransition means the requested status change is not an allowed
	// edge for the entity's current status, or a cross-entity status coupling
	// forbids it.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrDuplicateRelation means a second Appointment was attempted for a
	// TattooRequest that already has one, or a second Invoice for an Appointment.
	ErrDuplicateRelation = errors.New("relation already exists")

	// ErrDuplicateKey means a unique scalar key (invoice number, square payment
	// id, email) collided.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInsufficientPayment means an invoice cannot be marked PAID because the
	// sum of its SUCCEEDED payments is below the amount due.
	ErrInsufficientPayment = errors.New("insufficient payment total")

	// ErrConcurrentModification means the entity's status changed between the
	// engine's read and its conditional write. Safe to retry.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrStore wraps any other persistence failure. Fatal to the operation only.
	ErrStore = errors.New("store error")
)
