package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bluevoyage/travelbooking/config"
	"github.com/bluevoyage/travelbooking/internal/audit"
	"github.com/bluevoyage/travelbooking/internal/bootstrap"
	"github.com/bluevoyage/travelbooking/internal/cache"
	"github.com/bluevoyage/travelbooking/internal/kafka"
	"github.com/bluevoyage/travelbooking/internal/notify"
	"github.com/bluevoyage/travelbooking/internal/repository"
	"github.com/bluevoyage/travelbooking/internal/sequence"
	"github.com/bluevoyage/travelbooking/internal/service/booking"
	"github.com/bluevoyage/travelbooking/internal/service/itinerary"
	"github.com/bluevoyage/travelbooking/internal/service/packages"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis,
		time.Duration(cfg.Cache.PackagesTTLSeconds)*time.Second,
		time.Duration(cfg.Cache.ItineraryTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	itineraryRepo := repository.NewItineraryRepository(pool)
	collaboratorRepo := repository.NewCollaboratorRepository(pool)
	versionRepo := repository.NewVersionRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	packageRepo := repository.NewTourPackageRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	txm := repository.NewTxManager(pool)

	auditor := audit.NewRecorder()
	notifier := notify.NewNotifier(producer, userRepo, cfg.Kafka.NotificationsTopic)

	itinerarySvc := itinerary.NewItineraryService(itineraryRepo, collaboratorRepo, versionRepo, txm, auditor, redisCache, notifier)
	bookingSvc := booking.NewBookingService(
		bookingRepo,
		itineraryRepo,
		collaboratorRepo,
		versionRepo,
		packageRepo,
		txm,
		sequence.NewGenerator(),
		auditor,
		itinerarySvc,
		notifier,
		producer,
		cfg.Kafka.BookingEventsTopic,
	)
	packageSvc := packages.NewPackageService(packageRepo, redisCache)

	if err := bootstrap.Run(ctx, cfg, itinerarySvc, bookingSvc, packageSvc); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
