package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nattawatz/flightdesk/config"
	"github.com/nattawatz/flightdesk/internal/cache"
	"github.com/nattawatz/flightdesk/internal/email"
	"github.com/nattawatz/flightdesk/internal/kafka"
	"github.com/nattawatz/flightdesk/internal/logger"
	"github.com/nattawatz/flightdesk/internal/repository"
	"github.com/nattawatz/flightdesk/internal/service/booking"
	"github.com/nattawatz/flightdesk/internal/service/pricing"
)

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, emailSender.Send); err != nil {
			logger.ErrorLogger.Errorf("consumer stopped: %v", err)
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.StaleSweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			expired, err := bookingService.ExpireStalePending(ctx)
			if err != nil {
				logger.ErrorLogger.Errorf("stale sweep: %v", err)
				continue
			}
			if len(expired) > 0 {
				logger.InfoLogger.Infof("canceled %d stale pending reservations", len(expired))
			}
		case s := <-sig:
			logger.InfoLogger.Infof("received signal %v, shutting down", s)
			return
		}
	}
}
