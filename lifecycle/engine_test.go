package lifecycle

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory EntityStore/TxStore with the same contract as the
// gorm-backed one: mutex-serialized transactions, CAS on status, unique FK
// enforcement on the two 1:1 relations, rollback on transaction failure.
type fakeStore struct {
	mu       sync.Mutex
	entities map[EntityType]map[uuid.UUID]EntityRef
	audits   []AuditEntry

	apptByRequest map[uuid.UUID]uuid.UUID
	invByAppt     map[uuid.UUID]uuid.UUID

	// succeeded payment amounts per invoice
	settled map[uuid.UUID]float64

	recordErr error

	// called after every Get, outside the lock; lets tests line up racing readers
	afterGet func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		entities: map[EntityType]map[uuid.UUID]EntityRef{
			EntityTattooRequest: {},
			EntityAppointment:   {},
			EntityPayment:       {},
			EntityInvoice:       {},
		},
		apptByRequest: map[uuid.UUID]uuid.UUID{},
		invByAppt:     map[uuid.UUID]uuid.UUID{},
		settled:       map[uuid.UUID]float64{},
	}
}

func (s *fakeStore) put(ref EntityRef) {
	s.entities[ref.Type][ref.ID] = ref
	if ref.Type == EntityAppointment && ref.TattooRequestID != nil {
		s.apptByRequest[*ref.TattooRequestID] = ref.ID
	}
	if ref.Type == EntityInvoice && ref.AppointmentID != nil {
		s.invByAppt[*ref.AppointmentID] = ref.ID
	}
}

func (s *fakeStore) Get(ctx context.Context, t EntityType, id uuid.UUID) (EntityRef, error) {
	s.mu.Lock()
	ref, ok := s.entities[t][id]
	s.mu.Unlock()
	if s.afterGet != nil {
		s.afterGet()
	}
	if !ok {
		return EntityRef{}, ErrNotFound
	}
	return ref, nil
}

func (s *fakeStore) SucceededPaymentTotal(ctx context.Context, invoiceID uuid.UUID) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settled[invoiceID], nil
}

func (s *fakeStore) HasAppointmentForRequest(ctx context.Context, requestID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.apptByRequest[requestID]
	return ok, nil
}

func (s *fakeStore) HasInvoiceForAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.invByAppt[appointmentID]
	return ok, nil
}

func (s *fakeStore) Transact(ctx context.Context, fn func(tx TxStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.clone()
	if err := fn((*fakeTx)(s)); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

func (s *fakeStore) clone() *fakeStore {
	c := newFakeStore()
	for t, rows := range s.entities {
		for id, ref := range rows {
			c.entities[t][id] = ref
		}
	}
	for k, v := range s.apptByRequest {
		c.apptByRequest[k] = v
	}
	for k, v := range s.invByAppt {
		c.invByAppt[k] = v
	}
	for k, v := range s.settled {
		c.settled[k] = v
	}
	c.audits = append(c.audits, s.audits...)
	return c
}

func (s *fakeStore) restore(c *fakeStore) {
	s.entities = c.entities
	s.apptByRequest = c.apptByRequest
	s.invByAppt = c.invByAppt
	s.settled = c.settled
	s.audits = c.audits
}

// fakeTx runs under the store mutex held by Transact.
type fakeTx fakeStore

func (t *fakeTx) CompareAndSwapStatus(ctx context.Context, et EntityType, id uuid.UUID, expected, next Status) error {
	ref, ok := t.entities[et][id]
	if !ok {
		return ErrNotFound
	}
	if ref.Status != expected {
		return ErrConcurrentModification
	}
	ref.Status = next
	t.entities[et][id] = ref
	return nil
}

func (t *fakeTx) InsertAppointment(ctx context.Context, id uuid.UUID, p NewAppointment, status Status) error {
	if p.TattooRequestID != nil {
		if _, taken := t.apptByRequest[*p.TattooRequestID]; taken {
			return ErrDuplicateRelation
		}
		t.apptByRequest[*p.TattooRequestID] = id
	}
	t.entities[EntityAppointment][id] = EntityRef{
		Type:            EntityAppointment,
		ID:              id,
		Status:          status,
		TattooRequestID: p.TattooRequestID,
	}
	return nil
}

func (t *fakeTx) InsertInvoice(ctx context.Context, id uuid.UUID, p NewInvoice, status Status) error {
	if p.AppointmentID != nil {
		if _, taken := t.invByAppt[*p.AppointmentID]; taken {
			return ErrDuplicateRelation
		}
		t.invByAppt[*p.AppointmentID] = id
	}
	t.entities[EntityInvoice][id] = EntityRef{
		Type:          EntityInvoice,
		ID:            id,
		Status:        status,
		AppointmentID: p.AppointmentID,
		AmountDue:     p.AmountDue,
	}
	return nil
}

func (t *fakeTx) Record(ctx context.Context, entry AuditEntry) error {
	if t.recordErr != nil {
		return t.recordErr
	}
	t.audits = append(t.audits, entry)
	return nil
}

func newTestEngine(store *fakeStore) *Engine {
	return NewEngine(store, NewRegistry(), zerolog.Nop())
}

func ptr(id uuid.UUID) *uuid.UUID { return &id }

func TestTransitionNotFound(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(store)

	_, err := engine.Transition(context.Background(), EntityPayment, uuid.New(), PaymentSucceeded, nil, nil)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, store.audits)
}

func TestTransitionIllegalEdgeLeavesEntityUntouched(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(store)

	payment := EntityRef{Type: EntityPayment, ID: uuid.New(), Status: PaymentPending}
	store.put(payment)

	_, err := engine.Transition(context.Background(), EntityPayment, payment.ID, PaymentRefunded, nil, nil)
	require.ErrorIs(t, err, ErrInvalidTransition)

	got, _ := store.Get(context.Background(), EntityPayment, payment.ID)
	assert.Equal(t, PaymentPending, got.Status)
	assert.Empty(t, store.audits)
}

func TestTransitionSuccessWritesAudit(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(store)

	actor := uuid.New()
	payment := EntityRef{Type: EntityPayment, ID: uuid.New(), Status: PaymentPending}
	store.put(payment)

	updated, err := engine.Transition(context.Background(), EntityPayment, payment.ID, PaymentSucceeded, ptr(actor), map[string]interface{}{"source": "square"})
	require.NoError(t, err)
	assert.Equal(t, PaymentSucceeded, updated.Status)

	require.Len(t, store.audits, 1)
	entry := store.audits[0]
	assert.Equal(t, "payment.SUCCEEDED", entry.Action)
	assert.Equal(t, PaymentPending, entry.FromStatus)
	assert.Equal(t, PaymentSucceeded, entry.ToStatus)
	assert.Equal(t, actor, *entry.ActorUserID)
	assert.Equal(t, "square", entry.Metadata["source"])
}

func TestTransitionRefund(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(store)

	payment := EntityRef{Type: EntityPayment, ID: uuid.New(), Status: PaymentSucceeded}
	store.put(payment)

	updated, err := engine.Transition(context.Background(), EntityPayment, payment.ID, PaymentRefunded, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, PaymentRefunded, updated.Status)
}

func TestTransitionAuditFailureRollsBackStatus(t *testing.T) {
	store := newFakeStore()
	store.recordErr = ErrStore
	engine := newTestEngine(store)

	payment := EntityRef{Type: EntityPayment, ID: uuid.New(), Status: PaymentPending}
	store.put(payment)

	_, err := engine.Transition(context.Background(), EntityPayment, payment.ID, PaymentSucceeded, nil, nil)
	require.ErrorIs(t, err, ErrStore)

	got, _ := store.Get(context.Background(), EntityPayment, payment.ID)
	assert.Equal(t, PaymentPending, got.Status, "status write must roll back with the audit write")
	assert.Empty(t, store.audits)
}

func TestConfirmAppointmentWithApprovedRequest(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(store)

	request := EntityRef{Type: EntityTattooRequest, ID: uuid.New(), Status: RequestApproved}
	store.put(request)
	appt := EntityRef{Type: EntityAppointment, ID: uuid.New(), Status: AppointmentPending, TattooRequestID: ptr(request.ID)}
	store.put(appt)

	actor := uuid.New()
	updated, err := engine.Transition(context.Background(), EntityAppointment, appt.ID, AppointmentConfirmed, ptr(actor), map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, AppointmentConfirmed, updated.Status)

	require.Len(t, store.audits, 1)
	assert.Equal(t, "appointment.CONFIRMED", store.audits[0].Action)
}

func TestConfirmAppointmentRejectedRequestGuard(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(store)

	request := EntityRef{Type: EntityTattooRequest, ID: uuid.New(), Status: RequestRejected}
	store.put(request)
	appt := EntityRef{Type: EntityAppointment, ID: uuid.New(), Status: AppointmentPending, TattooRequestID: ptr(request.ID)}
	store.put(appt)

	_, err := engine.Transition(context.Background(), EntityAppointment, appt.ID, AppointmentConfirmed, nil, nil)
	require.ErrorIs(t, err, ErrInvalidTransition)

	got, _ := store.Get(context.Background(), EntityAppointment, appt.ID)
	assert.Equal(t, AppointmentPending, got.Status)
	assert.Empty(t, store.audits)
}

func TestConfirmAppointmentWithoutRequestLink(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(store)

	appt := EntityRef{Type: EntityAppointment, ID: uuid.New(), Status: AppointmentPending}
	store.put(appt)

	_, err := engine.Transition(context.Background(), EntityAppointment, appt.ID, AppointmentConfirmed, nil, nil)
	require.NoError(t, err)
}

func TestInvoicePaidRequiresSettledTotal(t *testing.T) {
	tests := []struct {
		name      string
		amountDue float64
		settled   float64
		wantErr   error
	}{
		{"fully settled", 200, 200, nil},
		{"overpaid", 200, 250, nil},
		{"partially settled", 200, 150, ErrInsufficientPayment},
		{"nothing settled", 200, 0, ErrInsufficientPayment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			engine := newTestEngine(store)

			invoice := EntityRef{Type: EntityInvoice, ID: uuid.New(), Status: InvoiceSent, AmountDue: tt.amountDue}
			store.put(invoice)
			store.settled[invoice.ID] = tt.settled

			_, err := engine.Transition(context.Background(), EntityInvoice, invoice.ID, InvoicePaid, nil, nil)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				got, _ := store.Get(context.Background(), EntityInvoice, invoice.ID)
				assert.Equal(t, InvoiceSent, got.Status)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestOverdueInvoiceCanStillBePaid(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(store)

	invoice := EntityRef{Type: EntityInvoice, ID: uuid.New(), Status: InvoiceOverdue, AmountDue: 80}
	store.put(invoice)
	store.settled[invoice.ID] = 80

	updated, err := engine.Transition(context.Background(), EntityInvoice, invoice.ID, InvoicePaid, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, InvoicePaid, updated.Status)
}

func TestConcurrentTransitionsExactlyOneWins(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(store)

	payment := EntityRef{Type: EntityPayment, ID: uuid.New(), Status: PaymentPending}
	store.put(payment)

	// Both callers must observe PENDING before either writes, so the loser fails
	// the CAS precondition rather than the registry check.
	var barrier sync.WaitGroup
	barrier.Add(2)
	store.afterGet = func() {
		barrier.Done()
		barrier.Wait()
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.Transition(context.Background(), EntityPayment, payment.ID, PaymentSucceeded, nil, nil)
		}(i)
	}
	wg.Wait()

	var ok, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		default:
			require.ErrorIs(t, err, ErrConcurrentModification)
			conflict++
		}
	}
	assert.Equal(t, 1, ok, "exactly one transition must win")
	assert.Equal(t, 1, conflict)
	assert.Len(t, store.audits, 1, "the loser must not produce an audit row")
}

func TestCreateAppointment(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(store)

	request := EntityRef{Type: EntityTattooRequest, ID: uuid.New(), Status: RequestApproved}
	store.put(request)

	id, err := engine.CreateAppointment(context.Background(), NewAppointment{
		CustomerID:      uuid.New(),
		TattooRequestID: ptr(request.ID),
	}, nil)
	require.NoError(t, err)

	got, err := store.Get(context.Background(), EntityAppointment, id)
	require.NoError(t, err)
	assert.Equal(t, AppointmentPending, got.Status)

	require.Len(t, store.audits, 1)
	assert.Equal(t, "appointment.CREATED", store.audits[0].Action)
}

func TestCreateAppointmentDuplicateRelation(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(store)

	request := EntityRef{Type: EntityTattooRequest, ID: uuid.New(), Status: RequestApproved}
	store.put(request)

	_, err := engine.CreateAppointment(context.Background(), NewAppointment{CustomerID: uuid.New(), TattooRequestID: ptr(request.ID)}, nil)
	require.NoError(t, err)

	_, err = engine.CreateAppointment(context.Background(), NewAppointment{CustomerID: uuid.New(), TattooRequestID: ptr(request.ID)}, nil)
	require.ErrorIs(t, err, ErrDuplicateRelation)
}

func TestCreateAppointmentDuplicateRelationConcurrent(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(store)

	request := EntityRef{Type: EntityTattooRequest, ID: uuid.New(), Status: RequestApproved}
	store.put(request)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.CreateAppointment(context.Background(), NewAppointment{CustomerID: uuid.New(), TattooRequestID: ptr(request.ID)}, nil)
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		default:
			require.ErrorIs(t, err, ErrDuplicateRelation)
			dup++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, dup)
	assert.Len(t, store.audits, 1)
}

func TestCreateAppointmentUnknownRequest(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(store)

	_, err := engine.CreateAppointment(context.Background(), NewAppointment{CustomerID: uuid.New(), TattooRequestID: ptr(uuid.New())}, nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateInvoiceDuplicateRelation(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(store)

	appt := EntityRef{Type: EntityAppointment, ID: uuid.New(), Status: AppointmentConfirmed}
	store.put(appt)

	_, err := engine.CreateInvoice(context.Background(), NewInvoice{
		InvoiceNumber: "INV-20260831-AAAAAA",
		CustomerID:    uuid.New(),
		AppointmentID: ptr(appt.ID),
		AmountDue:     300,
	}, nil)
	require.NoError(t, err)

	_, err = engine.CreateInvoice(context.Background(), NewInvoice{
		InvoiceNumber: "INV-20260831-BBBBBB",
		CustomerID:    uuid.New(),
		AppointmentID: ptr(appt.ID),
		AmountDue:     300,
	}, nil)
	require.ErrorIs(t, err, ErrDuplicateRelation)
}

func TestCreateInvoiceWithoutAppointment(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(store)

	id, err := engine.CreateInvoice(context.Background(), NewInvoice{
		InvoiceNumber: "INV-20260831-CCCCCC",
		CustomerID:    uuid.New(),
		AmountDue:     120,
	}, nil)
	require.NoError(t, err)

	got, err := store.Get(context.Background(), EntityInvoice, id)
	require.NoError(t, err)
	assert.Equal(t, InvoiceDraft, got.Status)
	assert.Equal(t, 120.0, got.AmountDue)
}
