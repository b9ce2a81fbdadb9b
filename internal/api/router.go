package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/francis1990/clinic-booking-backend/internal/bus"
	"github.com/francis1990/clinic-booking-backend/internal/metrics"
)

// Config holds the dependencies the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Commands     *bus.CommandBus
	Queries      *bus.QueryBus
	Collector    *metrics.Collector
	Registry     *prometheus.Registry
}

// NewRouter assembles middleware and registers all routes.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(RequestID())
	if cfg.Collector != nil {
		r.Use(cfg.Collector.GinMiddleware())
	}

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:8081"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Registry != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(cfg.Registry)))
	}

	bookingHandler := NewBookingHandler(cfg.Commands, cfg.Queries, cfg.Collector)
	resourceHandler := NewResourceHandler(cfg.Queries)
	clientHandler := NewClientHandler(cfg.Commands, cfg.Queries)

	v1 := r.Group("/v1")
	{
		bookings := v1.Group("/bookings")
		{
			bookings.POST("", bookingHandler.Create)
			bookings.GET("", bookingHandler.List)
			bookings.GET("/:id", bookingHandler.Get)
			bookings.POST("/:id/confirm", bookingHandler.Confirm)
			bookings.POST("/:id/cancel", bookingHandler.Cancel)
			bookings.POST("/:id/complete", bookingHandler.Complete)
			bookings.PATCH("/:id/reschedule", bookingHandler.Reschedule)
		}

		resources := v1.Group("/resources")
		{
			resources.GET("", resourceHandler.List)
			resources.GET("/:id", resourceHandler.Get)
			resources.GET("/:id/slots", resourceHandler.Slots)
			resources.GET("/:id/schedule", resourceHandler.Schedule)
		}

		clients := v1.Group("/clients")
		{
			clients.GET("", clientHandler.List)
			clients.POST("", clientHandler.Create)
			clients.GET("/:id/bookings", clientHandler.Bookings)
		}
	}

	return r
}
