// Package lifecycle implements the booking and financial lifecycle engine: it
// validates status transitions across tattoo requests, appointments, invoices and
// payments, enforces the cross-entity invariants between them, and writes one
// audit row per accepted mutation.
package lifecycle

// EntityType identifies which lifecycle-managed table an operation targets.
type EntityType string

const (
	EntityTattooRequest EntityType = "tattoo_request"
	EntityAppointment   EntityType = "appointment"
	EntityPayment       EntityType = "payment"
	EntityInvoice       EntityType = "invoice"
)

// Status is a lifecycle state. Values are stored verbatim in the status columns.
type Status string

// TattooRequest statuses
const (
	RequestPending    Status = "PENDING"
	RequestApproved   Status = "APPROVED"
	RequestRejected   Status = "REJECTED"
	RequestInProgress Status = "IN_PROGRESS"
	RequestCompleted  Status = "COMPLETED"
)

// Appointment statuses
const (
	AppointmentPending   Status = "PENDING"
	AppointmentConfirmed Status = "CONFIRMED"
	AppointmentCompleted Status = "COMPLETED"
	AppointmentCanceled  Status = "CANCELED"
	AppointmentNoShow    Status = "NO_SHOW"
)

// Payment statuses
const (
	PaymentPending   Status = "PENDING"
	PaymentSucceeded Status = "SUCCEEDED"
	PaymentFailed    Status = "FAILED"
	PaymentRefunded  Status = "REFUNDED"
)

// Invoice statuses
const (
	InvoiceDraft   Status = "DRAFT"
	InvoiceSent    Status = "SENT"
	InvoicePaid    Status = "PAID"
	InvoiceVoid    Status = "VOID"
	InvoiceOverdue Status = "OVERDUE"
)

// Registry holds the per-entity legal states and the directed graph of allowed
// transitions. Tables are built once and never mutated afterwards, so a single
// Registry is safe to share across goroutines.
type Registry struct {
	initial map[EntityType]Status
	edges   map[EntityType]map[Status][]Status
}

// NewRegistry builds the default transition tables.
func NewRegistry() *Registry {
	return &Registry{
		initial: map[EntityType]Status{
			EntityTattooRequest: RequestPending,
			EntityAppointment:   AppointmentPending,
			EntityPayment:       PaymentPending,
			EntityInvoice:       InvoiceDraft,
		},
		edges: map[EntityType]map[Status][]Status{
			EntityTattooRequest: {
				RequestPending:    {RequestApproved, RequestRejected},
				RequestApproved:   {RequestInProgress},
				RequestInProgress: {RequestCompleted},
				RequestRejected:   {},
				RequestCompleted:  {},
			},
			EntityAppointment: {
				AppointmentPending:   {AppointmentConfirmed},
				AppointmentConfirmed: {AppointmentCompleted, AppointmentCanceled, AppointmentNoShow},
				AppointmentCompleted: {},
				AppointmentCanceled:  {},
				AppointmentNoShow:    {},
			},
			EntityPayment: {
				PaymentPending:   {PaymentSucceeded, PaymentFailed},
				PaymentSucceeded: {PaymentRefunded},
				PaymentFailed:    {},
				PaymentRefunded:  {},
			},
			EntityInvoice: {
				InvoiceDraft:   {InvoiceSent},
				InvoiceSent:    {InvoicePaid, InvoiceVoid, InvoiceOverdue},
				InvoiceOverdue: {InvoicePaid},
				InvoicePaid:    {},
				InvoiceVoid:    {},
			},
		},
	}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry with the default tables.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// IsLegalTransition reports whether moving from from to to is an allowed edge for
// the given entity type. Unknown entity types or statuses are never legal.
func (r *Registry) IsLegalTransition(t EntityType, from, to Status) bool {
	table, ok := r.edges[t]
	if !ok {
		return false
	}
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

// InitialStatus returns the status a freshly created entity starts in.
func (r *Registry) InitialStatus(t EntityType) Status {
	return r.initial[t]
}

// IsTerminal reports whether s has no outgoing edges for the given entity type.
func (r *Registry) IsTerminal(t EntityType, s Status) bool {
	table, ok := r.edges[t]
	if !ok {
		return false
	}
	next, known := table[s]
	return known && len(next) == 0
}

// KnownStatus reports whether s is part of the entity's state set at all.
func (r *Registry) KnownStatus(t EntityType, s Status) bool {
	table, ok := r.edges[t]
	if !ok {
		return false
	}
	_, known := table[s]
	return known
}
