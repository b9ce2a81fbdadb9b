package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/francis1990/clinic-booking-backend/internal/api"
	"github.com/francis1990/clinic-booking-backend/internal/availability"
	"github.com/francis1990/clinic-booking-backend/internal/booking"
	"github.com/francis1990/clinic-booking-backend/internal/bus"
	"github.com/francis1990/clinic-booking-backend/internal/client"
	"github.com/francis1990/clinic-booking-backend/internal/event"
	"github.com/francis1990/clinic-booking-backend/internal/metrics"
	"github.com/francis1990/clinic-booking-backend/internal/resource"
	"github.com/francis1990/clinic-booking-backend/internal/scheduling"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	Events       event.Publisher
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router   *gin.Engine
	Commands *bus.CommandBus
	Queries  *bus.QueryBus
}

// NewContainer wires repositories, services, handlers and buses. The buses
// are fully registered before the container is returned; nothing registers
// afterwards.
func NewContainer(cfg Config) (*Container, error) {
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	resourceRepo := resource.NewPgxRepository(cfg.DBPool)
	clientRepo := client.NewPgxRepository(cfg.DBPool)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	commands, queries, err := BuildBuses(bookingRepo, resourceRepo, clientRepo, cfg.Events)
	if err != nil {
		return nil, err
	}

	router := api.NewRouter(api.Config{
		IsProduction: cfg.IsProduction,
		ProdOrigins:  cfg.ProdOrigins,
		Commands:     commands,
		Queries:      queries,
		Collector:    collector,
		Registry:     registry,
	})

	return &Container{
		Router:   router,
		Commands: commands,
		Queries:  queries,
	}, nil
}

// BuildBuses constructs the command and query buses over the given ports.
// Tests use it with in-memory repositories.
func BuildBuses(
	bookingRepo booking.Repository,
	resourceRepo resource.Repository,
	clientRepo client.Repository,
	events event.Publisher,
) (*bus.CommandBus, *bus.QueryBus, error) {
	availabilitySvc := availability.NewService(bookingRepo)

	commands := bus.NewCommandBus()
	if err := registerAll(
		bus.RegisterCommand(commands, scheduling.NewCreateBookingHandler(bookingRepo, availabilitySvc, events)),
		bus.RegisterCommand(commands, scheduling.NewConfirmBookingHandler(bookingRepo, events)),
		bus.RegisterCommand(commands, scheduling.NewCancelBookingHandler(bookingRepo, events)),
		bus.RegisterCommand(commands, scheduling.NewCompleteBookingHandler(bookingRepo, events)),
		bus.RegisterCommand(commands, scheduling.NewRescheduleBookingHandler(bookingRepo, availabilitySvc, events)),
		bus.RegisterCommand(commands, scheduling.NewRegisterClientHandler(clientRepo)),
	); err != nil {
		return nil, nil, fmt.Errorf("register command handlers: %w", err)
	}

	queries := bus.NewQueryBus()
	if err := registerAll(
		bus.RegisterQuery(queries, scheduling.NewGetAvailableSlotsHandler(resourceRepo, availabilitySvc)),
		bus.RegisterQuery(queries, scheduling.NewGetBookingDetailsHandler(bookingRepo, resourceRepo, clientRepo)),
		bus.RegisterQuery(queries, scheduling.NewListBookingsHandler(bookingRepo)),
		bus.RegisterQuery(queries, scheduling.NewGetResourceScheduleHandler(bookingRepo, resourceRepo)),
		bus.RegisterQuery(queries, scheduling.NewListClientBookingsHandler(bookingRepo, clientRepo)),
		bus.RegisterQuery(queries, scheduling.NewListResourcesHandler(resourceRepo)),
		bus.RegisterQuery(queries, scheduling.NewGetResourceHandler(resourceRepo)),
		bus.RegisterQuery(queries, scheduling.NewListClientsHandler(clientRepo)),
	); err != nil {
		return nil, nil, fmt.Errorf("register query handlers: %w", err)
	}

	return commands, queries, nil
}

func registerAll(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
