package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bluevoyage/travelbooking/config"
	"github.com/bluevoyage/travelbooking/internal/email"
	"github.com/bluevoyage/travelbooking/internal/kafka"
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

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := email.NewSender()

	retry := time.Duration(cfg.Worker.ConsumeRetrySeconds) * time.Second
	if retry <= 0 {
		retry = 5 * time.Second
	}

	for {
		err := consumer.Consume(ctx, func(ctx context.Context, event kafka.NotificationEvent) error {
			return sender.Send(ctx, event)
		})
		if ctx.Err() != nil {
			log.Printf("worker shutting down")
			return
		}
		log.Printf("consumer stopped: %v, retrying in %s", err, retry)

		select {
		case <-time.After(retry):
		case <-ctx.Done():
			log.Printf("worker shutting down")
			return
		}
	}
}
