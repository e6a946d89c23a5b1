package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/nattawatz/flightdesk/config"
	"github.com/nattawatz/flightdesk/internal/bootstrap"
	"github.com/nattawatz/flightdesk/internal/cache"
	"github.com/nattawatz/flightdesk/internal/kafka"
	"github.com/nattawatz/flightdesk/internal/logger"
	"github.com/nattawatz/flightdesk/internal/repository"
	"github.com/nattawatz/flightdesk/internal/service/booking"
	"github.com/nattawatz/flightdesk/internal/service/flights"
	"github.com/nattawatz/flightdesk/internal/service/pricing"
	"github.com/pressly/goose/v3"
)

const migrationsDir = "migrations"

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger.InitLoggers(cfg.Logger.Level, cfg.Logger.File)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runMigrations(cfg.Database.DSN()); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	flightsTTL := time.Duration(cfg.Booking.FlightsCacheTTL) * time.Second
	redisCache := cache.NewRedisCache(cfg.Redis, flightsTTL)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	store := repository.NewStore(pool)
	flightRepo := repository.NewFlightRepository(store)
	seatRepo := repository.NewSeatRepository(store)
	userRepo := repository.NewUserRepository(store)
	reservationRepo := repository.NewReservationRepository(store)
	paymentRepo := repository.NewPaymentRepository(store)
	passengerRepo := repository.NewPassengerRepository(store)
	multiplierRepo := repository.NewSeatMultiplierRepository(store)

	pricer := pricing.NewResolver(flightRepo, multiplierRepo, redisCache,
		time.Duration(cfg.Booking.MultiplierCacheTTLMin)*time.Minute)
	flightService := flights.NewFlightService(flightRepo, seatRepo, redisCache, flightsTTL)
	bookingService := booking.NewBookingService(
		store,
		reservationRepo,
		paymentRepo,
		passengerRepo,
		seatRepo,
		userRepo,
		pricer,
		redisCache,
		producer,
		cfg.Kafka.ReservationsTopic,
		time.Duration(cfg.Booking.SeatHoldTTLSeconds)*time.Second,
		time.Duration(cfg.Booking.PendingTTLMinutes)*time.Minute,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, flightService, bookingService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, migrationsDir)
}
