package main

import (
	"context"
	"net/http"
	"os"

	webAdapter "tradebooks/internal/adapters/web"
	"tradebooks/internal/app"
	"tradebooks/internal/core"
	"tradebooks/internal/db"
	"tradebooks/internal/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	if err := logger.Setup(logger.FromEnv()); err != nil {
		log.Fatal().Err(err).Msg("logger setup failed")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	users := core.NewUserService(pool)
	svc := app.NewAppService(app.Services{
		Users:      users,
		Customers:  core.NewCustomerService(pool),
		Suppliers:  core.NewSupplierService(pool),
		Sales:      core.NewSalesInvoiceService(pool),
		Purchases:  core.NewPurchaseInvoiceService(pool),
		Freight:    core.NewDualCurrencyInvoiceService(pool),
		Payments:   core.NewPaymentService(pool, users),
		Containers: core.NewContainerStatementService(pool),
		CashBook:   core.NewCashBookService(pool),
		Reports:    core.NewReportingService(pool),
	})

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal().Msg("JWT_SECRET is not set")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins, jwtSecret)

	log.Info().Str("port", port).Msg("server starting")
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
