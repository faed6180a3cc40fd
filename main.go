package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookline/config"
	"bookline/database"
	appointmentRepo "bookline/database/repository/appointment"
	policyRepo "bookline/database/repository/policy"
	professionalRepo "bookline/database/repository/professional"
	refundRepo "bookline/database/repository/refund"
	"bookline/handlers"
	"bookline/middleware"
	"bookline/routes"
	"bookline/services/payment"
	"bookline/services/policy"
	"bookline/services/scheduling"
	"bookline/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	profRepo := professionalRepo.NewMongoProfessionalRepo()
	apptRepo := appointmentRepo.NewMongoAppointmentRepo()
	refRepo := refundRepo.NewMongoRefundRepo()
	polRepo := policyRepo.NewMongoPolicyRepo()

	// services.
	cacheClient := utils.GetCacheClient()
	slotCache := scheduling.NewAvailabilityCache(cacheClient,
		time.Duration(config.AppConfig.SlotCacheTTLSec)*time.Second)

	policyService := &policy.DefaultPolicyService{
		Repo:  polRepo,
		Cache: cacheClient,
		TTL:   5 * time.Minute,
	}

	registry := &scheduling.DefaultScheduleRegistry{Repo: profRepo}

	slotComputer := &scheduling.DefaultSlotComputer{
		Professionals: profRepo,
		Appointments:  apptRepo,
		Policies:      policyService,
		Cache:         slotCache,
	}

	coordinator := &scheduling.DefaultBookingCoordinator{
		Professionals: profRepo,
		Appointments:  apptRepo,
		Refunds:       refRepo,
		Policies:      policyService,
		Payments:      payment.NewStripeGateway(logger),
		Locks:         scheduling.NewLockArena(),
		Cache:         slotCache,
		LockWait:      time.Duration(config.AppConfig.LockWaitMS) * time.Millisecond,
		Logger:        logger,
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Scheduling:   handlers.NewSchedulingHandler(slotComputer, coordinator, logger),
		Availability: handlers.NewAvailabilityHandler(registry),
		Professional: handlers.NewProfessionalHandler(profRepo),
		Refund:       handlers.NewRefundHandler(refRepo),
		Policy:       handlers.NewPolicyHandler(policyService),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
