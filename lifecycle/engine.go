package lifecycle

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Engine validates and applies lifecycle transitions. It is stateless apart from
// the registry's static tables and is safe for concurrent use; serialization of
// racing writes on the same row is delegated to the store's compare-and-swap.
type Engine struct {
	store    EntityStore
	registry *Registry
	logger   zerolog.Logger
}

func NewEngine(store EntityStore, registry *Registry, logger zerolog.Logger) *Engine {
	return &Engine{
		store:    store,
		registry: registry,
		logger:   logger.With().Str("component", "lifecycle").Logger(),
	}
}

// Transition moves an entity to target if the edge is legal and every
// cross-entity invariant holds. On success the status write and one audit row
// commit as a single unit and the updated ref is returned. All failures come back
// as the typed errors in errors.go; a failed call leaves the entity and the audit
// trail untouched.
func (e *Engine) Transition(ctx context.Context, t EntityType, id uuid.UUID, target Status, actorUserID *uuid.UUID, metadata map[string]interface{}) (EntityRef, error) {
	ref, err := e.store.Get(ctx, t, id)
	if err != nil {
		return EntityRef{}, err
	}

	if !e.registry.IsLegalTransition(t, ref.Status, target) {
		return EntityRef{}, fmt.Errorf("%w: %s %s -> %s", ErrInvalidTransition, t, ref.Status, target)
	}

	if err := e.checkCrossEntity(ctx, ref, target); err != nil {
		return EntityRef{}, err
	}

	entry := AuditEntry{
		Action:      fmt.Sprintf("%s.%s", t, target),
		EntityType:  t,
		EntityID:    id,
		FromStatus:  ref.Status,
		ToStatus:    target,
		ActorUserID: actorUserID,
		Metadata:    metadata,
	}

	err = e.store.Transact(ctx, func(tx TxStore) error {
		if err := tx.CompareAndSwapStatus(ctx, t, id, ref.Status, target); err != nil {
			return err
		}
		return tx.Record(ctx, entry)
	})
	if err != nil {
		return EntityRef{}, err
	}

	e.logger.Info().
		Str("entity", string(t)).
		Str("id", id.String()).
		Str("from", string(ref.Status)).
		Str("to", string(target)).
		Msg("transition applied")

	ref.Status = target
	return ref, nil
}

// checkCrossEntity enforces the invariants that depend on related rows. Runs on
// the pre-commit snapshot; the CAS precondition keeps a stale snapshot from
// committing.
func (e *Engine) checkCrossEntity(ctx context.Context, ref EntityRef, target Status) error {
	switch {
	case ref.Type == EntityAppointment && target == AppointmentConfirmed:
		if ref.TattooRequestID == nil {
			return nil
		}
		req, err := e.store.Get(ctx, EntityTattooRequest, *ref.TattooRequestID)
		if err != nil {
			return err
		}
		if req.Status != RequestApproved && req.Status != RequestInProgress {
			return fmt.Errorf("%w: linked tattoo request is %s", ErrInvalidTransition, req.Status)
		}

	case ref.Type == EntityInvoice && target == InvoicePaid:
		total, err := e.store.SucceededPaymentTotal(ctx, ref.ID)
		if err != nil {
			return err
		}
		if total < ref.AmountDue {
			return fmt.Errorf("%w: %.2f of %.2f settled", ErrInsufficientPayment, total, ref.AmountDue)
		}
	}
	return nil
}

// CreateAppointment creates an appointment in PENDING. Booking against a tattoo
// request that already has an appointment fails with ErrDuplicateRelation; the
// check is a fast-fail, the store's unique index on the FK is the backstop under
// races.
func (e *Engine) CreateAppointment(ctx context.Context, p NewAppointment, actorUserID *uuid.UUID) (uuid.UUID, error) {
	if p.TattooRequestID != nil {
		if _, err := e.store.Get(ctx, EntityTattooRequest, *p.TattooRequestID); err != nil {
			return uuid.Nil, err
		}
		taken, err := e.store.HasAppointmentForRequest(ctx, *p.TattooRequestID)
		if err != nil {
			return uuid.Nil, err
		}
		if taken {
			return uuid.Nil, fmt.Errorf("%w: tattoo request %s already has an appointment", ErrDuplicateRelation, *p.TattooRequestID)
		}
	}

	id := uuid.New()
	initial := e.registry.InitialStatus(EntityAppointment)
	entry := AuditEntry{
		Action:      "appointment.CREATED",
		EntityType:  EntityAppointment,
		EntityID:    id,
		ToStatus:    initial,
		ActorUserID: actorUserID,
	}

	err := e.store.Transact(ctx, func(tx TxStore) error {
		if err := tx.InsertAppointment(ctx, id, p, initial); err != nil {
			return err
		}
		return tx.Record(ctx, entry)
	})
	if err != nil {
		return uuid.Nil, err
	}

	e.logger.Info().Str("id", id.String()).Msg("appointment created")
	return id, nil
}

// CreateInvoice creates an invoice in DRAFT. A second invoice for the same
// appointment fails with ErrDuplicateRelation, same fast-fail-plus-backstop scheme
// as CreateAppointment.
func (e *Engine) CreateInvoice(ctx context.Context, p NewInvoice, actorUserID *uuid.UUID) (uuid.UUID, error) {
	if p.AppointmentID != nil {
		if _, err := e.store.Get(ctx, EntityAppointment, *p.AppointmentID); err != nil {
			return uuid.Nil, err
		}
		taken, err := e.store.HasInvoiceForAppointment(ctx, *p.AppointmentID)
		if err != nil {
			return uuid.Nil, err
		}
		if taken {
			return uuid.Nil, fmt.Errorf("%w: appointment %s already has an invoice", ErrDuplicateRelation, *p.AppointmentID)
		}
	}

	id := uuid.New()
	initial := e.registry.InitialStatus(EntityInvoice)
	entry := AuditEntry{
		Action:      "invoice.CREATED",
		EntityType:  EntityInvoice,
		EntityID:    id,
		ToStatus:    initial,
		ActorUserID: actorUserID,
		Metadata:    map[string]interface{}{"invoiceNumber": p.InvoiceNumber},
	}

	err := e.store.Transact(ctx, func(tx TxStore) error {
		if err := tx.InsertInvoice(ctx, id, p, initial); err != nil {
			return err
		}
		return tx.Record(ctx, entry)
	})
	if err != nil {
		return uuid.Nil, err
	}

	e.logger.Info().Str("id", id.String()).Str("invoiceNumber", p.InvoiceNumber).Msg("invoice created")
	return id, nil
}
