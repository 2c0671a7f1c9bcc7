package services

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"tattoopro-backend/lifecycle"
	"tattoopro-backend/models"
	"tattoopro-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// Scheduler runs the studio's daily background jobs: sweeping overdue invoices
// through the lifecycle engine and texting appointment reminders.
type Scheduler struct {
	db     *gorm.DB
	client *twilio.RestClient
	logger zerolog.Logger
}

func NewScheduler(db *gorm.DB, logger zerolog.Logger) *Scheduler {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &Scheduler{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		logger: logger.With().Str("component", "scheduler").Logger(),
	}
}

func (s *Scheduler) Start() {
	c := cron.New()

	// Overdue sweep before business hours, reminders at 9 AM
	c.AddFunc("0 8 * * *", s.MarkOverdueInvoices)
	c.AddFunc("0 9 * * *", s.SendAppointmentReminders)

	c.Start()
	s.logger.Info().Msg("scheduler started")
}

// MarkOverdueInvoices moves SENT invoices past their due date to OVERDUE. The
// sweep goes through the engine like any other transition, so every flip is
// audited; a lost CAS race just means somebody settled or voided the invoice
// while the sweep ran.
func (s *Scheduler) MarkOverdueInvoices() {
	ctx := context.Background()

	var invoices []models.Invoice
	if err := s.db.
		Where("status = ? AND due_date < ?", string(lifecycle.InvoiceSent), time.Now()).
		Find(&invoices).Error; err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch overdue candidates")
		return
	}

	for _, inv := range invoices {
		_, err := Lifecycle().Transition(ctx, lifecycle.EntityInvoice, inv.ID, lifecycle.InvoiceOverdue, nil,
			map[string]interface{}{
				"reason":      "due date passed",
				"dueDate":     inv.DueDate,
				"daysOverdue": utils.DaysBetween(inv.DueDate, time.Now()),
			})
		if err != nil {
			if errors.Is(err, lifecycle.ErrConcurrentModification) || errors.Is(err, lifecycle.ErrInvalidTransition) {
				s.logger.Warn().Str("invoice", inv.InvoiceNumber).Err(err).Msg("invoice moved during sweep, skipping")
				continue
			}
			s.logger.Error().Str("invoice", inv.InvoiceNumber).Err(err).Msg("overdue transition failed")
		}
	}

	s.logger.Info().Int("candidates", len(invoices)).Msg("overdue sweep completed")
}

// SendAppointmentReminders texts customers with a CONFIRMED appointment tomorrow.
func (s *Scheduler) SendAppointmentReminders() {
	tomorrow := utils.BeginningOfDay(time.Now().AddDate(0, 0, 1))
	dayAfter := tomorrow.AddDate(0, 0, 1)

	var appointments []models.Appointment
	if err := s.db.Preload("Customer").
		Where("status = ? AND date_time >= ? AND date_time < ?", string(lifecycle.AppointmentConfirmed), tomorrow, dayAfter).
		Find(&appointments).Error; err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch appointments for reminders")
		return
	}

	for _, appt := range appointments {
		if appt.Customer.Phone == nil || *appt.Customer.Phone == "" {
			continue
		}
		s.sendReminder(appt)
	}

	s.logger.Info().Int("appointments", len(appointments)).Msg("reminder run completed")
}

func (s *Scheduler) sendReminder(appt models.Appointment) {
	phone := *appt.Customer.Phone
	message := "Hi " + appt.Customer.FirstName + ", this is a reminder of your tattoo appointment on " +
		appt.DateTime.Format("Mon Jan 2 at 3:04 PM") + ". Reply to reschedule."

	// WhatsApp if the phone is in E.164 format, plain SMS otherwise
	channel := "sms"
	to := phone
	if strings.HasPrefix(phone, "+") {
		to = "whatsapp:" + phone
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)
	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	status := "sent"
	errorMsg := ""
	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		s.logger.Error().Str("to", phone).Err(err).Msg("failed to send reminder")
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		s.logger.Info().Str("to", phone).Str("sid", *resp.Sid).Msg("reminder sent")
	}

	reminderLog := models.ReminderLog{
		AppointmentID: appt.ID,
		CustomerID:    appt.CustomerID,
		Message:       message,
		Status:        status,
		ErrorMessage:  errorMsg,
		Channel:       channel,
		SentAt:        time.Now(),
	}
	if err := s.db.Create(&reminderLog).Error; err != nil {
		s.logger.Error().Str("customer", appt.CustomerID.String()).Err(err).Msg("failed to log reminder")
	}
}
