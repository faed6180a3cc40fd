package routes

import (
	"net/http"
	"time"

	"bookline/handlers"
	"bookline/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterSchedulingRoutes sets up the endpoints for the scheduling engine.
func RegisterSchedulingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	scheduling := r.Group("/api/scheduling")
	{
		// Slot discovery is public; booking and cancellation require an
		// authenticated client.
		scheduling.POST("/available-slots", hb.Scheduling.AvailableSlots)

		protected := scheduling.Group("")
		protected.Use(middleware.AuthMiddleware())
		protected.POST("/appointments", hb.Scheduling.CreateAppointment)
		protected.DELETE("/appointments/:id", hb.Scheduling.CancelAppointment)
		protected.GET("/refunds", hb.Refund.ListRefunds)
	}
}

// RegisterProfessionalRoutes registers professional management endpoints.
func RegisterProfessionalRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/professionals")
	{
		api.GET("/:id", hb.Professional.GetProfessional)
		api.GET("/:id/availability", hb.Availability.GetWeeklyAvailability)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		protected.POST("/register", hb.Professional.RegisterProfessional)
		protected.POST("/:id/services", hb.Professional.AddService)
		protected.PUT("/:id/availability/:weekday", hb.Availability.SetDayAvailability)
	}
}

// RegisterEstablishmentRoutes registers establishment policy endpoints.
func RegisterEstablishmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/establishments")
	{
		api.GET("/:establishmentId/policy", hb.Policy.GetPolicy)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		protected.PUT("/:establishmentId/policy", hb.Policy.SetPolicy)
	}
}

// RegisterPaymentRoutes registers the payment collaborator's callback
// endpoints.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payments")
	{
		api.Use(middleware.AuthMiddleware())
		api.POST("/refunds/:id/callback", hb.Refund.StatusCallback)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Bookline"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterSchedulingRoutes(r, hb)
	RegisterProfessionalRoutes(r, hb)
	RegisterEstablishmentRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
}
