package routes

import (
	"tattoopro-backend/config"
	"tattoopro-backend/controllers"
	"tattoopro-backend/models"
	"tattoopro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"https://booking.inkandiron.studio",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	// Square callbacks authenticate via signature upstream, not via JWT
	r.POST("/webhooks/square", controllers.SquareWebhook)

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.DELETE("/:id", controllers.DeleteCustomer)
		}

		// Tattoo request routes
		requests := api.Group("/tattoo-requests")
		{
			requests.POST("", controllers.CreateTattooRequest)
			requests.GET("", controllers.GetTattooRequests)
			requests.GET("/:id", controllers.GetTattooRequest)
			requests.PUT("/:id/artist", controllers.AssignArtist)
			requests.POST("/:id/transition", controllers.TransitionTattooRequest)
		}

		// Appointment routes
		appointments := api.Group("/appointments")
		{
			appointments.POST("", controllers.CreateAppointment)
			appointments.GET("", controllers.GetAppointments)
			appointments.GET("/:id", controllers.GetAppointment)
			appointments.POST("/:id/transition", controllers.TransitionAppointment)
		}

		// Invoice routes
		invoices := api.Group("/invoices")
		{
			invoices.POST("", controllers.CreateInvoice)
			invoices.GET("", controllers.GetInvoices)
			invoices.GET("/:id", controllers.GetInvoice)
			invoices.POST("/:id/transition", controllers.TransitionInvoice)
		}

		// Payment routes
		payments := api.Group("/payments")
		{
			payments.POST("", controllers.CreatePayment)
			payments.GET("", controllers.GetPayments)
			payments.GET("/:id", controllers.GetPayment)
			payments.POST("/:id/transition", controllers.TransitionPayment)
		}

		// Image routes
		images := api.Group("/images")
		{
			images.POST("", controllers.CreateImage)
			images.GET("", controllers.GetImages)
			images.DELETE("/:id", controllers.DeleteImage)
		}

		// Audit trail, admins only
		api.GET("/audit-logs", utils.RequireRole(models.RoleAdmin), controllers.GetAuditLogs)

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboardOverview)
	}

	return r
}
