package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/francis1990/clinic-booking-backend/internal/pkg/response"
)

const requestIDHeader = "X-Request-ID"

// RequestID propagates the caller's request id, or mints one, so log lines
// and responses can be correlated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, id)
		c.Set("request_id", id)
		c.Next()
	}
}

// pathID parses the numeric :id path parameter. On failure it writes a 400
// response and reports false.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}
