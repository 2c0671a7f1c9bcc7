package services

import (
	"context"
	"errors"
	"fmt"

	"tattoopro-backend/lifecycle"
	"tattoopro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore backs the lifecycle engine with the postgres database. Requires the
// connection to be opened with TranslateError so unique-constraint violations
// surface as gorm.ErrDuplicatedKey.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, t lifecycle.EntityType, id uuid.UUID) (lifecycle.EntityRef, error) {
	ref := lifecycle.EntityRef{Type: t, ID: id}

	switch t {
	case lifecycle.EntityTattooRequest:
		var m models.TattooRequest
		if err := s.db.WithContext(ctx).Select("id", "status").First(&m, "id = ?", id).Error; err != nil {
			return lifecycle.EntityRef{}, classify(err)
		}
		ref.Status = lifecycle.Status(m.Status)

	case lifecycle.EntityAppointment:
		var m models.Appointment
		if err := s.db.WithContext(ctx).Select("id", "status", "tattoo_request_id").First(&m, "id = ?", id).Error; err != nil {
			return lifecycle.EntityRef{}, classify(err)
		}
		ref.Status = lifecycle.Status(m.Status)
		ref.TattooRequestID = m.TattooRequestID

	case lifecycle.EntityPayment:
		var m models.Payment
		if err := s.db.WithContext(ctx).Select("id", "status").First(&m, "id = ?", id).Error; err != nil {
			return lifecycle.EntityRef{}, classify(err)
		}
		ref.Status = lifecycle.Status(m.Status)

	case lifecycle.EntityInvoice:
		var m models.Invoice
		if err := s.db.WithContext(ctx).Select("id", "status", "appointment_id", "amount_due").First(&m, "id = ?", id).Error; err != nil {
			return lifecycle.EntityRef{}, classify(err)
		}
		ref.Status = lifecycle.Status(m.Status)
		ref.AppointmentID = m.AppointmentID
		ref.AmountDue = m.AmountDue

	default:
		return lifecycle.EntityRef{}, lifecycle.ErrNotFound
	}

	return ref, nil
}

func (s *GormStore) SucceededPaymentTotal(ctx context.Context, invoiceID uuid.UUID) (float64, error) {
	var total float64
	err := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("invoice_id = ? AND status = ?", invoiceID, string(lifecycle.PaymentSucceeded)).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, classify(err)
	}
	return total, nil
}

func (s *GormStore) HasAppointmentForRequest(ctx context.Context, requestID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("tattoo_request_id = ?", requestID).
		Count(&count).Error
	if err != nil {
		return false, classify(err)
	}
	return count > 0, nil
}

func (s *GormStore) HasInvoiceForAppointment(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("appointment_id = ?", appointmentID).
		Count(&count).Error
	if err != nil {
		return false, classify(err)
	}
	return count > 0, nil
}

func (s *GormStore) Transact(ctx context.Context, fn func(tx lifecycle.TxStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

// gormTx is the write side, scoped to one database transaction.
type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) CompareAndSwapStatus(ctx context.Context, et lifecycle.EntityType, id uuid.UUID, expected, next lifecycle.Status) error {
	res := t.db.Model(modelFor(et)).
		Where("id = ? AND status = ?", id, string(expected)).
		Update("status", string(next))
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		// The engine read this row moments ago, so a zero-row update means the
		// status moved under us, not that the row vanished.
		return lifecycle.ErrConcurrentModification
	}
	return nil
}

func (t *gormTx) InsertAppointment(ctx context.Context, id uuid.UUID, p lifecycle.NewAppointment, status lifecycle.Status) error {
	appt := models.Appointment{
		ID:              id,
		DateTime:        p.DateTime,
		Duration:        p.Duration,
		Status:          string(status),
		CustomerID:      p.CustomerID,
		ArtistID:        p.ArtistID,
		TattooRequestID: p.TattooRequestID,
		Notes:           p.Notes,
	}
	if err := t.db.Create(&appt).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: tattoo request already has an appointment", lifecycle.ErrDuplicateRelation)
		}
		return classify(err)
	}
	return nil
}

func (t *gormTx) InsertInvoice(ctx context.Context, id uuid.UUID, p lifecycle.NewInvoice, status lifecycle.Status) error {
	inv := models.Invoice{
		ID:            id,
		InvoiceNumber: p.InvoiceNumber,
		AmountDue:     p.AmountDue,
		Status:        string(status),
		CustomerID:    p.CustomerID,
		AppointmentID: p.AppointmentID,
		DueDate:       p.DueDate,
		Notes:         p.Notes,
	}
	if err := t.db.Create(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if p.AppointmentID != nil {
				return fmt.Errorf("%w: appointment already has an invoice", lifecycle.ErrDuplicateRelation)
			}
			return fmt.Errorf("%w: invoice number %s", lifecycle.ErrDuplicateKey, p.InvoiceNumber)
		}
		return classify(err)
	}
	return nil
}

func (t *gormTx) Record(ctx context.Context, entry lifecycle.AuditEntry) error {
	row := models.AuditLog{
		Action:     entry.Action,
		EntityType: string(entry.EntityType),
		EntityID:   entry.EntityID,
		FromStatus: string(entry.FromStatus),
		ToStatus:   string(entry.ToStatus),
		Details:    models.JSONB(entry.Metadata),
		UserID:     entry.ActorUserID,
	}
	if err := t.db.Create(&row).Error; err != nil {
		return classify(err)
	}
	return nil
}

func modelFor(t lifecycle.EntityType) interface{} {
	switch t {
	case lifecycle.EntityTattooRequest:
		return &models.TattooRequest{}
	case lifecycle.EntityAppointment:
		return &models.Appointment{}
	case lifecycle.EntityPayment:
		return &models.Payment{}
	default:
		return &models.Invoice{}
	}
}

func classify(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return lifecycle.ErrNotFound
	}
	return fmt.Errorf("%w: %v", lifecycle.ErrStore, err)
}
