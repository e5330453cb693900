package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/airport/config"
	"github.com/Domenick1991/airport/internal/email"
	"github.com/Domenick1991/airport/internal/kafka"
	"github.com/Domenick1991/airport/internal/repository"
	"github.com/Domenick1991/airport/internal/service/flights"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Printf("WARNING: load .env: %v", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	// Audit reads straight from Postgres, so the worker runs without a cache.
	flightService := flights.NewFlightService(repository.NewFlightRepository(pool), nil)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		err := consumer.Consume(ctx, kafka.OrderEventHandler(emailSender.Send))
		if err != nil && !kafka.IsClosed(err) {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	auditTicker := time.NewTicker(cfg.Worker.AuditInterval())
	defer auditTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-auditTicker.C:
			faults, err := flightService.Audit(ctx)
			if err != nil {
				log.Printf("audit flights error: %v", err)
				continue
			}
			for _, f := range faults {
				log.Printf("ERROR: %s", f.Error())
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
