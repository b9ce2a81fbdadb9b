package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/francis1990/clinic-booking-backend/internal/booking"
	"github.com/francis1990/clinic-booking-backend/internal/bus"
	"github.com/francis1990/clinic-booking-backend/internal/client"
	"github.com/francis1990/clinic-booking-backend/internal/pkg/response"
	"github.com/francis1990/clinic-booking-backend/internal/scheduling"
)

type ClientHandler struct {
	commands *bus.CommandBus
	queries  *bus.QueryBus
}

func NewClientHandler(commands *bus.CommandBus, queries *bus.QueryBus) *ClientHandler {
	return &ClientHandler{commands: commands, queries: queries}
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	dto, err := bus.Exec[scheduling.ClientDTO](c.Request.Context(), h.commands, scheduling.RegisterClient{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto)
}

func (h *ClientHandler) List(c *gin.Context) {
	dtos, err := bus.Query[[]scheduling.ClientDTO](c.Request.Context(), h.queries, scheduling.ListClients{})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewListResponse(dtos))
}

func (h *ClientHandler) Bookings(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req ClientBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	dtos, err := bus.Query[[]scheduling.BookingDTO](c.Request.Context(), h.queries, scheduling.ListClientBookings{
		ClientID: client.ID(id),
		Status:   booking.Status(req.Status),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewListResponse(dtos))
}
