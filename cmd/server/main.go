package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/riteshkumar/loan-ledger/internal/auth"
	"github.com/riteshkumar/loan-ledger/internal/config"
	"github.com/riteshkumar/loan-ledger/internal/handler"
	"github.com/riteshkumar/loan-ledger/internal/repository"
	"github.com/riteshkumar/loan-ledger/internal/service"
	"github.com/riteshkumar/loan-ledger/internal/validation"
)

func main() {
	// Optional .env for local development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err.Error())
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err.Error())
		os.Exit(1)
	}

	// Initialise logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Connect to the database
	db, err := connectDB(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("connected to database successfully")

	// Initialise repo
	txManager := repository.NewTxManager(db)
	accountRepo := repository.NewAccountRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTTL(), cfg.RefreshTTL())
	validator := validation.New(cfg.PhoneDefaultRegion)

	// Initialise services
	accountService := service.NewAccountService(accountRepo, logger)
	adminService := service.NewAdminService(txManager, adminRepo, accountRepo, loanRepo, tokens, logger)
	loanService := service.NewLoanService(accountRepo, loanRepo, logger)
	transactionService := service.NewTransactionService(txManager, accountRepo, loanRepo, adminRepo, transactionRepo, logger)

	// Initialise handlers
	accountHandler := handler.NewAccountHandler(accountService, validator, logger)
	adminHandler := handler.NewAdminHandler(adminService, validator, logger)
	loanHandler := handler.NewLoanHandler(loanService, validator, logger)
	transactionHandler := handler.NewTransactionHandler(transactionService, validator, logger)

	router := mux.NewRouter()

	// Public routes are registered before the admin subrouter
	accountHandler.RegisterRoutes(router)
	adminHandler.RegisterRoutes(router)
	loanHandler.RegisterRoutes(router)
	transactionHandler.RegisterRoutes(router)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	adminRouter := router.PathPrefix("/admin").Subrouter()
	adminRouter.Use(handler.AdminAuthMiddleware(tokens, logger))
	accountHandler.RegisterAdminRoutes(adminRouter)
	adminHandler.RegisterAdminRoutes(adminRouter)
	transactionHandler.RegisterAdminRoutes(adminRouter)

	router.Use(handler.LoggingMiddleware(logger))

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      handler.CORS(cfg.AllowedOrigins())(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server on port " + cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", "error", err.Error())
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err.Error())
	}

	logger.Info("server exited gracefully")
}

// connectDB establishes a connection to the Postgres database
func connectDB(cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(10 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
