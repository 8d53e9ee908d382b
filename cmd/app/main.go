package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"fulfillment/cmd"
	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	gormDB := mustOpenDB(configs)

	app, err := cmd.NewCompositionRoot(configs, gormDB)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	jobManager := jobs.NewJobManager(
		app.CreateReconcileTrackingCommandHandler(),
		configs.TrackingReconcileCron,
		time.Duration(configs.TrackingStalenessMinutes)*time.Minute,
		configs.ReconcileWorkers,
		logger,
	)
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	return cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),

		CarrierBaseURL:        goDotEnvVariable("CARRIER_BASE_URL"),
		CarrierTimeoutSeconds: intEnvVariable("CARRIER_TIMEOUT_SECONDS", 10),
		InvoiceServiceURL:     goDotEnvVariable("INVOICE_SERVICE_URL"),

		TrackingReconcileCron:    envVariableOrDefault("TRACKING_RECONCILE_CRON", "0 */5 * * * *"),
		TrackingStalenessMinutes: intEnvVariable("TRACKING_STALENESS_MINUTES", 30),
		ReconcileWorkers:         intEnvVariable("RECONCILE_WORKERS", 4),

		ShipFromName:       goDotEnvVariable("SHIP_FROM_NAME"),
		ShipFromLine1:      goDotEnvVariable("SHIP_FROM_LINE1"),
		ShipFromLine2:      os.Getenv("SHIP_FROM_LINE2"),
		ShipFromCity:       goDotEnvVariable("SHIP_FROM_CITY"),
		ShipFromState:      os.Getenv("SHIP_FROM_STATE"),
		ShipFromPostalCode: goDotEnvVariable("SHIP_FROM_POSTAL_CODE"),
		ShipFromCountry:    goDotEnvVariable("SHIP_FROM_COUNTRY"),
		ShipFromPhone:      os.Getenv("SHIP_FROM_PHONE"),
	}
}

func goDotEnvVariable(key string) string {
	if err := godotenv.Load(".env"); err != nil {
		log.Fatalf("Error loading .env file")
	}
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return value
}

func envVariableOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func intEnvVariable(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Environment variable %s is not a number: %v", key, err)
	}
	return value
}

func mustOpenDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.LineItemDTO{},
		&orderrepo.ShipmentDTO{},
		&orderrepo.TrackingEventDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return gormDB
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	server := httpin.NewServer(
		app.CreateTransitionOrderStatusCommandHandler(),
		app.CreateCreateShipmentCommandHandler(),
		app.CreateRecordManualTrackingCommandHandler(),
		app.CreateRefreshTrackingCommandHandler(),
		app.CreateReconcileTrackingCommandHandler(),
		app.CreateArchiveOrderCommandHandler(),
		app.CreateGetOrderQueryHandler(),
		app.CreateGetActiveOrdersQueryHandler(),
		app.CreateGetTrackingHistoryQueryHandler(),
		app.CreateUoWFactory(),
		app.CreateInvoiceRenderer(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
