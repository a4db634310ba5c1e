package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"rental-backend/internal/auth"
	"rental-backend/internal/backup"
	"rental-backend/internal/cache"
	"rental-backend/internal/config"
	"rental-backend/internal/database"
	"rental-backend/internal/db"
	"rental-backend/internal/handlers"
	"rental-backend/internal/health"
	rhttp "rental-backend/internal/http"
	"rental-backend/internal/middleware"
	"rental-backend/internal/monitoring"
	"rental-backend/internal/repositories"
	"rental-backend/internal/services"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	monitoringPort := flag.Int("monitoring-port", 9090, "Monitoring dashboard port")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Connect to PostgreSQL
	pool := db.Connect(cfg)
	defer pool.Close()

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (responses served from database)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run database migrations
	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize health checker
	healthChecker := health.NewHealthChecker(pool)

	// Start monitoring dashboard server in background
	go monitoring.NewMonitoringServer(pool, *monitoringPort).Start()

	// Start offsite backup scheduler when configured
	if cfg.Backup.Enabled {
		scheduler := backup.NewScheduler(pool, cfg.Backup)
		scheduler.Start()
		defer scheduler.Stop()
	} else {
		log.Println("[Backup] Offsite backups disabled")
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(pool)
	customerRepo := repositories.NewCustomerRepository(pool)
	equipmentRepo := repositories.NewEquipmentRepository(pool)
	orderRepo := repositories.NewOrderRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)
	expenseRepo := repositories.NewExpenseRepository(pool)
	systemSettingRepo := repositories.NewSystemSettingRepository(pool)
	actionLogRepo := repositories.NewActionLogRepository(pool)
	onlineTransactionRepo := repositories.NewOnlineTransactionRepository(pool)

	// Initialize services. Merge, payment and order services share one
	// lock registry so only one mutation per order id is in flight.
	orderLocks := services.NewOrderLocks()
	userService := services.NewUserService(userRepo, jwtManager)
	customerService := services.NewCustomerService(customerRepo)
	equipmentService := services.NewEquipmentService(equipmentRepo)
	orderService := services.NewOrderService(orderRepo, orderLocks)
	mergeService := services.NewMergeService(orderRepo, orderLocks)
	paymentService := services.NewPaymentService(orderRepo, paymentRepo, orderLocks)
	expenseService := services.NewExpenseService(expenseRepo)
	reportService := services.NewReportService(pool, orderRepo, paymentRepo, expenseRepo)
	razorpayService := services.NewRazorpayService(
		cfg.Razorpay.KeyID,
		cfg.Razorpay.KeySecret,
		cfg.Razorpay.WebhookSecret,
		onlineTransactionRepo,
		systemSettingRepo,
		orderRepo,
		paymentService,
	)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	equipmentHandler := handlers.NewEquipmentHandler(equipmentService)
	orderHandler := handlers.NewOrderHandler(orderService, paymentService)
	mergeHandler := handlers.NewMergeHandler(orderService, mergeService, paymentService, actionLogRepo)
	paymentHandler := handlers.NewPaymentHandler(paymentService, actionLogRepo)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	reportHandler := handlers.NewReportHandler(reportService)
	systemSettingHandler := handlers.NewSystemSettingHandler(systemSettingRepo)
	actionLogHandler := handlers.NewActionLogHandler(actionLogRepo)
	razorpayHandler := handlers.NewRazorpayHandler(razorpayService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	// Create router
	router := rhttp.NewRouter(
		authHandler,
		userHandler,
		customerHandler,
		equipmentHandler,
		orderHandler,
		mergeHandler,
		paymentHandler,
		expenseHandler,
		reportHandler,
		systemSettingHandler,
		actionLogHandler,
		razorpayHandler,
		healthHandler,
		authMiddleware,
	)

	// Wrap with panic recovery and metrics middleware
	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
