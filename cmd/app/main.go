package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/airport/api"
	"github.com/Domenick1991/airport/config"
	"github.com/Domenick1991/airport/internal/auth"
	"github.com/Domenick1991/airport/internal/bootstrap"
	"github.com/Domenick1991/airport/internal/cache"
	"github.com/Domenick1991/airport/internal/kafka"
	"github.com/Domenick1991/airport/internal/repository"
	"github.com/Domenick1991/airport/internal/service/catalog"
	"github.com/Domenick1991/airport/internal/service/flights"
	"github.com/Domenick1991/airport/internal/service/orders"
	"github.com/Domenick1991/airport/migrations"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if cfg.Database.Migrate {
		if err := migrations.Apply(ctx, pool); err != nil {
			log.Fatalf("apply migrations: %v", err)
		}
	}

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Flights.CacheTTL())
	defer redisCache.Close()
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	catalogService := catalog.NewCatalogService(repository.NewCatalogRepository(pool))
	flightService := flights.NewFlightService(repository.NewFlightRepository(pool), redisCache)
	orderService := orders.NewOrderService(
		repository.NewOrderRepository(pool),
		redisCache,
		producer,
		cfg.Kafka.OrdersTopic,
		orders.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		orders.WithTxTimeout(cfg.Orders.TxTimeout()),
		orders.WithPublishRetries(cfg.Kafka.Retries()),
	)

	router := api.NewRouter(api.RouterDeps{
		Catalog: catalogService,
		Flights: flightService,
		Orders:  orderService,
		Tokens:  auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		Checks: map[string]api.Pinger{
			"postgres": pool,
			"redis":    redisCache,
			"kafka":    api.PingerFunc(producer.CheckConnection),
		},
		SwaggerEnabled: cfg.HTTP.SwaggerEnabled,
	})

	if err := bootstrap.Run(ctx, cfg, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
