package api

import (
	"context"
	_ "embed"
	"net/http"
	"sort"
	"time"

	"github.com/Domenick1991/airport/internal/service/catalog"
	"github.com/Domenick1991/airport/internal/service/flights"
	"github.com/Domenick1991/airport/internal/service/orders"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed openapi.json
var openAPIDoc []byte

type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a plain check function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type RouterDeps struct {
	Catalog catalog.CatalogUseCase
	Flights flights.FlightUseCase
	Orders  orders.OrderUseCase
	Tokens  TokenParser
	// Checks are pinged by GET /health, keyed by component name.
	Checks         map[string]Pinger
	SwaggerEnabled bool
}

func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/health", healthHandler(deps.Checks))
	if deps.SwaggerEnabled {
		router.GET("/docs/openapi.json", func(c *gin.Context) {
			c.Data(http.StatusOK, "application/json", openAPIDoc)
		})
		router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/docs/openapi.json"))))
	}

	public := router.Group("/api")
	authed := public.Group("", Authenticate(deps.Tokens))
	admin := authed.Group("", RequireAdmin())

	NewCatalogHandler(deps.Catalog).Register(public, admin)
	NewFlightHandler(deps.Flights).Register(public, admin)
	NewOrderHandler(deps.Orders).Register(authed)

	return router
}

func healthHandler(checks map[string]Pinger) gin.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		result := make(map[string]string, len(names))
		for _, name := range names {
			if err := checks[name].Ping(ctx); err != nil {
				result[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			result[name] = "ok"
		}

		state := "ok"
		if status != http.StatusOK {
			state = "degraded"
		}
		c.JSON(status, gin.H{"status": state, "checks": result})
	}
}
