package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/francis1990/clinic-booking-backend/internal/bus"
	"github.com/francis1990/clinic-booking-backend/internal/pkg/response"
	"github.com/francis1990/clinic-booking-backend/internal/resource"
	"github.com/francis1990/clinic-booking-backend/internal/scheduling"
)

type ResourceHandler struct {
	queries *bus.QueryBus
}

func NewResourceHandler(queries *bus.QueryBus) *ResourceHandler {
	return &ResourceHandler{queries: queries}
}

func (h *ResourceHandler) List(c *gin.Context) {
	dtos, err := bus.Query[[]scheduling.ResourceDTO](c.Request.Context(), h.queries, scheduling.ListResources{})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewListResponse(dtos))
}

func (h *ResourceHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	dto, err := bus.Query[scheduling.ResourceDTO](c.Request.Context(), h.queries,
		scheduling.GetResource{ResourceID: resource.ID(id)})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

func (h *ResourceHandler) Slots(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req SlotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	date, _ := time.Parse("2006-01-02", req.Date)

	dtos, err := bus.Query[[]scheduling.AvailableSlotDTO](c.Request.Context(), h.queries, scheduling.GetAvailableSlots{
		ResourceID:  resource.ID(id),
		Date:        date,
		SlotMinutes: req.Duration,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewListResponse(dtos))
}

func (h *ResourceHandler) Schedule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req ScheduleRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	date, _ := time.Parse("2006-01-02", req.Date)

	dtos, err := bus.Query[[]scheduling.BookingDTO](c.Request.Context(), h.queries, scheduling.GetResourceSchedule{
		ResourceID: resource.ID(id),
		Date:       date,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewListResponse(dtos))
}
