package main

import (
	"fmt"
	"os"

	"tattoopro-backend/config"
	"tattoopro-backend/models"
	"tattoopro-backend/routes"
	"tattoopro-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	config.InitLogger()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		config.Logger.Info().Msg("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.TattooRequest{},
		&models.Appointment{},
		&models.Image{},
		&models.Payment{},
		&models.Invoice{},
		&models.AuditLog{},
		&models.ReminderLog{},
	)

	services.InitLifecycle(config.DB, config.Logger)
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	scheduler := services.NewScheduler(config.DB, config.Logger)
	scheduler.Start()

	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
