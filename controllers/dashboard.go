package controllers

import (
	"net/http"
	"time"

	"tattoopro-backend/config"
	"tattoopro-backend/lifecycle"
	"tattoopro-backend/models"
	"tattoopro-backend/utils"

	"github.com/gin-gonic/gin"
)

type DashboardOverview struct {
	TotalCustomers       int64   `json:"totalCustomers"`
	PendingRequests      int64   `json:"pendingRequests"`
	UpcomingAppointments int64   `json:"upcomingAppointments"`
	OpenInvoices         int64   `json:"openInvoices"`
	MonthlyRevenue       float64 `json:"monthlyRevenue"`

	RecentActivity []models.AuditLog `json:"recentActivity"`
}

// GetDashboardOverview aggregates the studio's headline numbers
func GetDashboardOverview(c *gin.Context) {
	var overview DashboardOverview
	now := time.Now()

	if err := config.DB.Model(&models.Customer{}).Count(&overview.TotalCustomers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if err := config.DB.Model(&models.TattooRequest{}).
		Where("status = ?", string(lifecycle.RequestPending)).
		Count(&overview.PendingRequests).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	weekOut := now.AddDate(0, 0, 7)
	if err := config.DB.Model(&models.Appointment{}).
		Where("status = ? AND date_time BETWEEN ? AND ?", string(lifecycle.AppointmentConfirmed), now, weekOut).
		Count(&overview.UpcomingAppointments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if err := config.DB.Model(&models.Invoice{}).
		Where("status IN ?", []string{string(lifecycle.InvoiceSent), string(lifecycle.InvoiceOverdue)}).
		Count(&overview.OpenInvoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := config.DB.Model(&models.Payment{}).
		Where("status = ? AND updated_at >= ?", string(lifecycle.PaymentSucceeded), monthStart).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&overview.MonthlyRevenue).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if err := config.DB.Order("created_at DESC").Limit(10).Find(&overview.RecentActivity).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, overview)
}
