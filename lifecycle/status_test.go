package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLegalTransition(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name   string
		entity EntityType
		from   Status
		to     Status
		want   bool
	}{
		{"request pending to approved", EntityTattooRequest, RequestPending, RequestApproved, true},
		{"request pending to rejected", EntityTattooRequest, RequestPending, RequestRejected, true},
		{"request approved to in progress", EntityTattooRequest, RequestApproved, RequestInProgress, true},
		{"request in progress to completed", EntityTattooRequest, RequestInProgress, RequestCompleted, true},
		{"request pending straight to completed", EntityTattooRequest, RequestPending, RequestCompleted, false},
		{"request rejected is terminal", EntityTattooRequest, RequestRejected, RequestApproved, false},

		{"appointment pending to confirmed", EntityAppointment, AppointmentPending, AppointmentConfirmed, true},
		{"appointment confirmed to completed", EntityAppointment, AppointmentConfirmed, AppointmentCompleted, true},
		{"appointment confirmed to canceled", EntityAppointment, AppointmentConfirmed, AppointmentCanceled, true},
		{"appointment confirmed to no show", EntityAppointment, AppointmentConfirmed, AppointmentNoShow, true},
		{"appointment pending to completed", EntityAppointment, AppointmentPending, AppointmentCompleted, false},
		{"appointment canceled is terminal", EntityAppointment, AppointmentCanceled, AppointmentConfirmed, false},

		{"payment pending to succeeded", EntityPayment, PaymentPending, PaymentSucceeded, true},
		{"payment pending to failed", EntityPayment, PaymentPending, PaymentFailed, true},
		{"payment succeeded to refunded", EntityPayment, PaymentSucceeded, PaymentRefunded, true},
		{"payment pending to refunded", EntityPayment, PaymentPending, PaymentRefunded, false},
		{"payment refunded is terminal", EntityPayment, PaymentRefunded, PaymentPending, false},

		{"invoice draft to sent", EntityInvoice, InvoiceDraft, InvoiceSent, true},
		{"invoice sent to paid", EntityInvoice, InvoiceSent, InvoicePaid, true},
		{"invoice sent to void", EntityInvoice, InvoiceSent, InvoiceVoid, true},
		{"invoice sent to overdue", EntityInvoice, InvoiceSent, InvoiceOverdue, true},
		{"invoice overdue to paid", EntityInvoice, InvoiceOverdue, InvoicePaid, true},
		{"invoice draft to paid", EntityInvoice, InvoiceDraft, InvoicePaid, false},
		{"invoice paid is terminal", EntityInvoice, InvoicePaid, InvoiceVoid, false},

		{"unknown entity type", EntityType("session"), RequestPending, RequestApproved, false},
		{"unknown target status", EntityPayment, PaymentPending, Status("SETTLED"), false},
		{"self transition", EntityPayment, PaymentPending, PaymentPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.IsLegalTransition(tt.entity, tt.from, tt.to))
		})
	}
}

func TestInitialStatus(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, RequestPending, r.InitialStatus(EntityTattooRequest))
	assert.Equal(t, AppointmentPending, r.InitialStatus(EntityAppointment))
	assert.Equal(t, PaymentPending, r.InitialStatus(EntityPayment))
	assert.Equal(t, InvoiceDraft, r.InitialStatus(EntityInvoice))
}

func TestIsTerminal(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		entity EntityType
		status Status
		want   bool
	}{
		{EntityTattooRequest, RequestRejected, true},
		{EntityTattooRequest, RequestCompleted, true},
		{EntityTattooRequest, RequestPending, false},
		{EntityAppointment, AppointmentCompleted, true},
		{EntityAppointment, AppointmentCanceled, true},
		{EntityAppointment, AppointmentNoShow, true},
		{EntityAppointment, AppointmentConfirmed, false},
		{EntityPayment, PaymentFailed, true},
		{EntityPayment, PaymentRefunded, true},
		{EntityPayment, PaymentSucceeded, false},
		{EntityInvoice, InvoiceVoid, true},
		{EntityInvoice, InvoicePaid, true},
		{EntityInvoice, InvoiceOverdue, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, r.IsTerminal(tt.entity, tt.status), "%s/%s", tt.entity, tt.status)
	}
}

func TestKnownStatus(t *testing.T) {
	r := NewRegistry()

	assert.True(t, r.KnownStatus(EntityInvoice, InvoiceOverdue))
	assert.False(t, r.KnownStatus(EntityInvoice, Status("UNPAID")))
	assert.False(t, r.KnownStatus(EntityAppointment, InvoiceDraft))
}
